package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/yogendra-27-bhange/eventplanner/internal/cache"
	"github.com/yogendra-27-bhange/eventplanner/internal/messaging"
	"github.com/yogendra-27-bhange/eventplanner/internal/metrics"
	"github.com/yogendra-27-bhange/eventplanner/internal/models"
	"github.com/yogendra-27-bhange/eventplanner/internal/repositories"
	"github.com/yogendra-27-bhange/eventplanner/internal/tracing"
)

// RegistrationConfirmation is the message published after a registration
// commits. Consumed by the notification side, which lives outside this
// service.
type RegistrationConfirmation struct {
	RegistrationID   uuid.UUID `json:"registration_id"`
	EventID          uuid.UUID `json:"event_id"`
	UserID           string    `json:"user_id"`
	RegistrationDate time.Time `json:"registration_date"`
}

// RegistrationService enforces one-registration-per-user-per-event and
// capacity limits while keeping the event's registered count consistent.
type RegistrationService struct {
	registrations RegistrationStore
	cache         *cache.RedisCache
	bus           messaging.ServiceBusClient
	collector     *metrics.Metrics
	tracer        tracing.Tracer
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	registrations RegistrationStore,
	redisCache *cache.RedisCache,
	bus messaging.ServiceBusClient,
	collector *metrics.Metrics,
	tracer tracing.Tracer,
) *RegistrationService {
	return &RegistrationService{
		registrations: registrations,
		cache:         redisCache,
		bus:           bus,
		collector:     collector,
		tracer:        tracer,
	}
}

// Register attempts to register the user for the event. It returns false when
// the event is missing, closed to registration, full, or the user is already
// registered; store failures propagate as errors. Row insert and counter
// increment commit or roll back together.
func (s *RegistrationService) Register(ctx context.Context, eventID uuid.UUID, userID string) (bool, error) {
	txn := s.tracer.StartTransaction("register-for-event")
	defer s.tracer.EndTransaction(txn)
	s.tracer.AddAttribute(txn, "event_id", eventID.String())
	s.tracer.AddAttribute(txn, "user_id", userID)

	reg := &models.Registration{
		ID:               uuid.New(),
		EventID:          eventID,
		UserID:           userID,
		RegistrationDate: time.Now().UTC(),
	}

	span := s.tracer.StartSpan("registration-transaction", txn)
	err := s.registrations.CreateWithCount(ctx, reg)
	span.End()

	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound),
		errors.Is(err, repositories.ErrPreconditionFailed),
		errors.Is(err, repositories.ErrConflict):
		if s.collector != nil {
			s.collector.IncrementCounter(metrics.CounterRegistrationsRejected)
		}
		log.Debug().
			Err(err).
			Str("event_id", eventID.String()).
			Str("user_id", userID).
			Msg("Registration rejected")
		return false, nil
	default:
		s.tracer.RecordError(txn, err)
		return false, err
	}

	if s.collector != nil {
		s.collector.IncrementCounter(metrics.CounterRegistrationsAccepted)
	}

	// The registered count changed; drop the cached copies.
	if s.cache != nil && s.cache.Enabled() {
		if err := s.cache.Delete(ctx, cache.GetEventCacheKey(eventID)); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate event cache")
		}
		if err := s.cache.Delete(ctx, cache.EventListCacheKey()); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate event listing cache")
		}
	}

	s.publishConfirmation(ctx, reg)

	log.Info().
		Str("registration_id", reg.ID.String()).
		Str("event_id", eventID.String()).
		Str("user_id", userID).
		Msg("Registration created")

	return true, nil
}

// publishConfirmation sends the confirmation message best effort. The
// registration already committed; a publish failure is logged, never rolled
// into the caller's result.
func (s *RegistrationService) publishConfirmation(ctx context.Context, reg *models.Registration) {
	if s.bus == nil {
		return
	}

	msg := RegistrationConfirmation{
		RegistrationID:   reg.ID,
		EventID:          reg.EventID,
		UserID:           reg.UserID,
		RegistrationDate: reg.RegistrationDate,
	}

	sendCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.bus.SendMessage(sendCtx, msg); err != nil {
		log.Warn().
			Err(err).
			Str("registration_id", reg.ID.String()).
			Msg("Failed to publish registration confirmation")
	}
}

// IsRegistered checks whether the user holds a registration for the event
func (s *RegistrationService) IsRegistered(ctx context.Context, eventID uuid.UUID, userID string) (bool, error) {
	return s.registrations.Exists(ctx, eventID, userID)
}

// ListForUser returns all of the user's registrations
func (s *RegistrationService) ListForUser(ctx context.Context, userID string) ([]models.Registration, error) {
	return s.registrations.ListForUser(ctx, userID)
}
