package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yogendra-27-bhange/eventplanner/config"
	"github.com/yogendra-27-bhange/eventplanner/internal/models"
	"github.com/yogendra-27-bhange/eventplanner/internal/repositories"
	"github.com/yogendra-27-bhange/eventplanner/internal/tracing"
)

// newTestTracer returns a tracer with no backend configured
func newTestTracer(t *testing.T) tracing.Tracer {
	t.Helper()
	tracer, err := tracing.NewTracer(config.TracingConfig{})
	require.NoError(t, err)
	return tracer
}

// fakeStore is a mutex-guarded in-memory stand-in for the GORM repositories.
// CreateWithCount mirrors the repository's transactional contract: the counter
// increment and the row insert happen under one lock and the same sentinel
// errors come back.
type fakeStore struct {
	mu            sync.Mutex
	users         map[string]models.User
	events        map[uuid.UUID]models.Event
	registrations map[uuid.UUID]models.Registration
	feedback      map[uuid.UUID]models.Feedback
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         make(map[string]models.User),
		events:        make(map[uuid.UUID]models.Event),
		registrations: make(map[uuid.UUID]models.Registration),
		feedback:      make(map[uuid.UUID]models.Feedback),
	}
}

// UserStore

func (f *fakeStore) Get(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}

func (f *fakeStore) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; ok {
		return repositories.ErrAlreadyExists
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeStore) CreateIfAbsent(ctx context.Context, user *models.User) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; ok {
		return false, nil
	}
	f.users[user.ID] = *user
	return true, nil
}

// EventStore

func (f *fakeStore) CreateEvent(ctx context.Context, event *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[event.ID]; ok {
		return repositories.ErrAlreadyExists
	}
	f.events[event.ID] = *event
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &event, nil
}

func (f *fakeStore) Update(ctx context.Context, event *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[event.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.events[event.ID] = *event
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.events, id)
	return nil
}

func (f *fakeStore) ListAll(ctx context.Context) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	events := make([]models.Event, 0, len(f.events))
	for _, e := range f.events {
		events = append(events, e)
	}
	return events, nil
}

func (f *fakeStore) ListCreatedBy(ctx context.Context, userID string) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var events []models.Event
	for _, e := range f.events {
		if e.CreatedBy == userID {
			events = append(events, e)
		}
	}
	return events, nil
}

// RegistrationStore

func (f *fakeStore) CreateWithCount(ctx context.Context, reg *models.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	event, ok := f.events[reg.EventID]
	if !ok {
		return repositories.ErrNotFound
	}
	if !event.Registrable() {
		return repositories.ErrPreconditionFailed
	}
	if event.Full() {
		return repositories.ErrConflict
	}
	for _, r := range f.registrations {
		if r.EventID == reg.EventID && r.UserID == reg.UserID {
			return repositories.ErrConflict
		}
	}

	event.RegisteredCount++
	f.events[reg.EventID] = event
	f.registrations[reg.ID] = *reg
	return nil
}

func (f *fakeStore) Exists(ctx context.Context, eventID uuid.UUID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.registrations {
		if r.EventID == eventID && r.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListForUser(ctx context.Context, userID string) ([]models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var regs []models.Registration
	for _, r := range f.registrations {
		if r.UserID == userID {
			regs = append(regs, r)
		}
	}
	return regs, nil
}

func (f *fakeStore) registrationCount(eventID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, r := range f.registrations {
		if r.EventID == eventID {
			count++
		}
	}
	return count
}

// FeedbackStore

func (f *fakeStore) CreateFeedback(ctx context.Context, fb *models.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.feedback {
		if existing.EventID == fb.EventID && existing.UserID == fb.UserID {
			return repositories.ErrAlreadyExists
		}
	}
	f.feedback[fb.ID] = *fb
	return nil
}

func (f *fakeStore) FeedbackExists(ctx context.Context, eventID uuid.UUID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fb := range f.feedback {
		if fb.EventID == eventID && fb.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListForEvent(ctx context.Context, eventID uuid.UUID) ([]models.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var entries []models.Feedback
	for _, fb := range f.feedback {
		if fb.EventID == eventID {
			entries = append(entries, fb)
		}
	}
	return entries, nil
}

// eventStoreAdapter exposes the fake under the EventStore method set, whose
// Create collides with UserStore's.
type eventStoreAdapter struct {
	*fakeStore
}

func (a eventStoreAdapter) Create(ctx context.Context, event *models.Event) error {
	return a.CreateEvent(ctx, event)
}

// feedbackStoreAdapter exposes the fake under the FeedbackStore method set
type feedbackStoreAdapter struct {
	*fakeStore
}

func (a feedbackStoreAdapter) Create(ctx context.Context, fb *models.Feedback) error {
	return a.CreateFeedback(ctx, fb)
}

func (a feedbackStoreAdapter) Exists(ctx context.Context, eventID uuid.UUID, userID string) (bool, error) {
	return a.FeedbackExists(ctx, eventID, userID)
}
