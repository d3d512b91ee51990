package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yogendra-27-bhange/eventplanner/internal/models"
	"github.com/yogendra-27-bhange/eventplanner/internal/repositories"
)

func newFeedbackService(t *testing.T, store *fakeStore) *FeedbackService {
	t.Helper()
	return NewFeedbackService(feedbackStoreAdapter{store}, store, eventStoreAdapter{store}, nil, newTestTracer(t))
}

func registerAttendee(t *testing.T, store *fakeStore, eventID uuid.UUID, userID string) {
	t.Helper()
	reg := models.Registration{
		ID:      uuid.New(),
		EventID: eventID,
		UserID:  userID,
	}
	store.registrations[reg.ID] = reg
}

func TestSubmit_Success(t *testing.T) {
	store := newFakeStore()
	svc := newFeedbackService(t, store)
	eventID := seedEvent(store, models.EventStatusPast, nil)
	registerAttendee(t, store, eventID, "alice@example.com")

	fb, err := svc.Submit(context.Background(), eventID, "alice@example.com", 4, "great talks")
	require.NoError(t, err)
	require.Equal(t, 4, fb.Rating)
	require.Equal(t, "great talks", fb.Comment)
	require.False(t, fb.SubmittedAt.IsZero())
}

func TestSubmit_RatingOutOfRange(t *testing.T) {
	store := newFakeStore()
	svc := newFeedbackService(t, store)
	eventID := seedEvent(store, models.EventStatusPast, nil)
	registerAttendee(t, store, eventID, "alice@example.com")

	for _, rating := range []int{0, -1, 6} {
		_, err := svc.Submit(context.Background(), eventID, "alice@example.com", rating, "")
		require.ErrorIs(t, err, repositories.ErrInvalidInput)
	}
}

func TestSubmit_NotRegistered(t *testing.T) {
	store := newFakeStore()
	svc := newFeedbackService(t, store)
	eventID := seedEvent(store, models.EventStatusPast, nil)

	_, err := svc.Submit(context.Background(), eventID, "stranger@example.com", 5, "")
	require.ErrorIs(t, err, ErrNotRegistered)
}

func TestSubmit_UnregisteredSeesNotRegisteredEvenWhenEventOpen(t *testing.T) {
	store := newFakeStore()
	svc := newFeedbackService(t, store)
	// Event still active, caller not registered: the registration check wins
	eventID := seedEvent(store, models.EventStatusActive, nil)

	_, err := svc.Submit(context.Background(), eventID, "stranger@example.com", 5, "")
	require.ErrorIs(t, err, ErrNotRegistered)
}

func TestSubmit_EventNotConcluded(t *testing.T) {
	for _, status := range []models.EventStatus{
		models.EventStatusActive,
		models.EventStatusFeatured,
		models.EventStatusCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			store := newFakeStore()
			svc := newFeedbackService(t, store)
			eventID := seedEvent(store, status, nil)
			registerAttendee(t, store, eventID, "alice@example.com")

			_, err := svc.Submit(context.Background(), eventID, "alice@example.com", 3, "")
			require.ErrorIs(t, err, ErrEventNotConcluded)
		})
	}
}

func TestSubmit_MissingEvent(t *testing.T) {
	store := newFakeStore()
	svc := newFeedbackService(t, store)
	eventID := uuid.New()
	registerAttendee(t, store, eventID, "alice@example.com")

	_, err := svc.Submit(context.Background(), eventID, "alice@example.com", 3, "")
	require.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestSubmit_SecondSubmissionRejected(t *testing.T) {
	store := newFakeStore()
	svc := newFeedbackService(t, store)
	eventID := seedEvent(store, models.EventStatusPast, nil)
	registerAttendee(t, store, eventID, "alice@example.com")
	ctx := context.Background()

	_, err := svc.Submit(ctx, eventID, "alice@example.com", 2, "could be better")
	require.NoError(t, err)

	// Terminal regardless of the new rating
	_, err = svc.Submit(ctx, eventID, "alice@example.com", 5, "changed my mind")
	require.ErrorIs(t, err, ErrAlreadySubmitted)

	entries, err := svc.ListForEvent(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 2, entries[0].Rating)
}

func TestHasSubmitted(t *testing.T) {
	store := newFakeStore()
	svc := newFeedbackService(t, store)
	eventID := seedEvent(store, models.EventStatusPast, nil)
	registerAttendee(t, store, eventID, "alice@example.com")
	ctx := context.Background()

	submitted, err := svc.HasSubmitted(ctx, eventID, "alice@example.com")
	require.NoError(t, err)
	require.False(t, submitted)

	_, err = svc.Submit(ctx, eventID, "alice@example.com", 5, "")
	require.NoError(t, err)

	submitted, err = svc.HasSubmitted(ctx, eventID, "alice@example.com")
	require.NoError(t, err)
	require.True(t, submitted)
}
