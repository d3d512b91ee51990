package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yogendra-27-bhange/eventplanner/internal/models"
	"github.com/yogendra-27-bhange/eventplanner/internal/repositories"
)

func newEventService(t *testing.T, store *fakeStore) *EventService {
	t.Helper()
	return NewEventService(eventStoreAdapter{store}, nil, nil, nil, newTestTracer(t))
}

func validDraft() EventDraft {
	return EventDraft{
		Title:    "Go Meetup",
		Date:     time.Now().Add(72 * time.Hour),
		Time:     "18:00",
		Location: "Community Hall",
		Category: "Tech",
	}
}

func TestCreate_Defaults(t *testing.T) {
	store := newFakeStore()
	svc := newEventService(t, store)

	event, err := svc.Create(context.Background(), validDraft(), "organizer@example.com")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, event.ID)
	require.Equal(t, models.EventStatusActive, event.Status)
	require.Equal(t, 0, event.RegisteredCount)
	require.Equal(t, "organizer@example.com", event.CreatedBy)
}

func TestCreate_InvalidDrafts(t *testing.T) {
	store := newFakeStore()
	svc := newEventService(t, store)

	cases := map[string]func(*EventDraft){
		"blank title":       func(d *EventDraft) { d.Title = "  " },
		"blank location":    func(d *EventDraft) { d.Location = "" },
		"blank category":    func(d *EventDraft) { d.Category = "" },
		"zero date":         func(d *EventDraft) { d.Date = time.Time{} },
		"zero capacity":     func(d *EventDraft) { d.MaxRegistrants = intPtr(0) },
		"negative capacity": func(d *EventDraft) { d.MaxRegistrants = intPtr(-3) },
		"unknown status":    func(d *EventDraft) { d.Status = "archived" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			draft := validDraft()
			mutate(&draft)
			_, err := svc.Create(context.Background(), draft, "organizer@example.com")
			require.ErrorIs(t, err, repositories.ErrInvalidInput)
		})
	}
}

func TestGetByID_NotFound(t *testing.T) {
	store := newFakeStore()
	svc := newEventService(t, store)

	_, err := svc.GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestUpdate_LastWriterWins(t *testing.T) {
	store := newFakeStore()
	svc := newEventService(t, store)
	ctx := context.Background()

	event, err := svc.Create(ctx, validDraft(), "organizer@example.com")
	require.NoError(t, err)

	first := *event
	first.Title = "Go Meetup (rescheduled)"
	second := *event
	second.Location = "Town Hall"

	require.NoError(t, svc.Update(ctx, &first))
	require.NoError(t, svc.Update(ctx, &second))

	// The second write replaces the first wholesale
	stored, err := svc.GetByID(ctx, event.ID)
	require.NoError(t, err)
	require.Equal(t, "Go Meetup", stored.Title)
	require.Equal(t, "Town Hall", stored.Location)
}

func TestDelete_RetainsRegistrations(t *testing.T) {
	store := newFakeStore()
	svc := newEventService(t, store)
	ctx := context.Background()

	eventID := seedEvent(store, models.EventStatusActive, nil)
	registerAttendee(t, store, eventID, "alice@example.com")

	require.NoError(t, svc.Delete(ctx, eventID))

	_, err := svc.GetByID(ctx, eventID)
	require.ErrorIs(t, err, repositories.ErrNotFound)

	// The registration row survives the delete
	require.Equal(t, 1, store.registrationCount(eventID))
}

func TestListCreatedBy(t *testing.T) {
	store := newFakeStore()
	svc := newEventService(t, store)
	ctx := context.Background()

	_, err := svc.Create(ctx, validDraft(), "organizer@example.com")
	require.NoError(t, err)
	_, err = svc.Create(ctx, validDraft(), "organizer@example.com")
	require.NoError(t, err)
	_, err = svc.Create(ctx, validDraft(), "other@example.com")
	require.NoError(t, err)

	events, err := svc.ListCreatedBy(ctx, "organizer@example.com")
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestSearch_FallbackSubstringMatch(t *testing.T) {
	store := newFakeStore()
	svc := newEventService(t, store)
	ctx := context.Background()

	draft := validDraft()
	draft.Title = "Jazz Night"
	draft.Category = "Music"
	_, err := svc.Create(ctx, draft, "organizer@example.com")
	require.NoError(t, err)

	_, err = svc.Create(ctx, validDraft(), "organizer@example.com")
	require.NoError(t, err)

	matched, err := svc.Search(ctx, "jazz")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	require.Equal(t, "Jazz Night", matched[0].Title)

	matched, err = svc.Search(ctx, "nowhere")
	require.NoError(t, err)
	require.Empty(t, matched)
}

func TestReconcilePastEvents(t *testing.T) {
	store := newFakeStore()
	svc := newEventService(t, store)
	ctx := context.Background()
	now := time.Now().UTC()

	pastActive := seedEvent(store, models.EventStatusActive, nil)
	pastFeatured := seedEvent(store, models.EventStatusFeatured, nil)
	pastCancelled := seedEvent(store, models.EventStatusCancelled, nil)
	upcoming := seedEvent(store, models.EventStatusActive, nil)

	for _, id := range []uuid.UUID{pastActive, pastFeatured, pastCancelled} {
		event := store.events[id]
		event.Date = now.Add(-48 * time.Hour)
		store.events[id] = event
	}

	transitioned, err := svc.ReconcilePastEvents(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 2, transitioned)

	require.Equal(t, models.EventStatusPast, store.events[pastActive].Status)
	require.Equal(t, models.EventStatusPast, store.events[pastFeatured].Status)
	// Cancelled events stay cancelled; upcoming events are untouched
	require.Equal(t, models.EventStatusCancelled, store.events[pastCancelled].Status)
	require.Equal(t, models.EventStatusActive, store.events[upcoming].Status)

	// A second pass finds nothing left to flip
	transitioned, err = svc.ReconcilePastEvents(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 0, transitioned)
}
