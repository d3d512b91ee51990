package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/yogendra-27-bhange/eventplanner/internal/metrics"
	"github.com/yogendra-27-bhange/eventplanner/internal/models"
	"github.com/yogendra-27-bhange/eventplanner/internal/repositories"
	"github.com/yogendra-27-bhange/eventplanner/internal/tracing"
)

// FeedbackService collects post-event ratings from registered attendees
type FeedbackService struct {
	feedback      FeedbackStore
	registrations RegistrationStore
	events        EventStore
	collector     *metrics.Metrics
	tracer        tracing.Tracer
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(
	feedback FeedbackStore,
	registrations RegistrationStore,
	events EventStore,
	collector *metrics.Metrics,
	tracer tracing.Tracer,
) *FeedbackService {
	return &FeedbackService{
		feedback:      feedback,
		registrations: registrations,
		events:        events,
		collector:     collector,
		tracer:        tracer,
	}
}

// Submit records feedback for the (event, user) pair. The pair must be
// registered, the event concluded, and no feedback submitted yet; ratings are
// integers 1..5. Registration is checked before event status, so an
// unregistered caller always sees ErrNotRegistered.
func (s *FeedbackService) Submit(ctx context.Context, eventID uuid.UUID, userID string, rating int, comment string) (*models.Feedback, error) {
	txn := s.tracer.StartTransaction("submit-feedback")
	defer s.tracer.EndTransaction(txn)

	if rating < 1 || rating > 5 {
		return nil, repositories.ErrInvalidInput
	}

	registered, err := s.registrations.Exists(ctx, eventID, userID)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}
	if !registered {
		return nil, ErrNotRegistered
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}
	if event.Status != models.EventStatusPast {
		return nil, ErrEventNotConcluded
	}

	submitted, err := s.feedback.Exists(ctx, eventID, userID)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}
	if submitted {
		return nil, ErrAlreadySubmitted
	}

	fb := &models.Feedback{
		ID:          uuid.New(),
		EventID:     eventID,
		UserID:      userID,
		Rating:      rating,
		Comment:     comment,
		SubmittedAt: time.Now().UTC(),
	}

	if err := s.feedback.Create(ctx, fb); err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			// Lost a race with our own earlier submission; terminal either way.
			return nil, ErrAlreadySubmitted
		}
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	if s.collector != nil {
		s.collector.IncrementCounter(metrics.CounterFeedbackSubmitted)
	}

	log.Info().
		Str("feedback_id", fb.ID.String()).
		Str("event_id", eventID.String()).
		Str("user_id", userID).
		Int("rating", rating).
		Msg("Feedback submitted")

	return fb, nil
}

// HasSubmitted checks whether feedback exists for the (event, user) pair
func (s *FeedbackService) HasSubmitted(ctx context.Context, eventID uuid.UUID, userID string) (bool, error) {
	return s.feedback.Exists(ctx, eventID, userID)
}

// ListForEvent returns all feedback submitted for the event
func (s *FeedbackService) ListForEvent(ctx context.Context, eventID uuid.UUID) ([]models.Feedback, error) {
	return s.feedback.ListForEvent(ctx, eventID)
}
