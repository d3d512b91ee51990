package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/yogendra-27-bhange/eventplanner/internal/cache"
	"github.com/yogendra-27-bhange/eventplanner/internal/metrics"
	"github.com/yogendra-27-bhange/eventplanner/internal/models"
	"github.com/yogendra-27-bhange/eventplanner/internal/repositories"
	"github.com/yogendra-27-bhange/eventplanner/internal/search"
	"github.com/yogendra-27-bhange/eventplanner/internal/tracing"
)

// eventListTTL bounds how stale the cached full listing may get
const eventListTTL = 5 * time.Minute

// EventDraft carries the caller-supplied fields for a new event
type EventDraft struct {
	Title          string
	Date           time.Time
	Time           string
	Location       string
	Description    string
	Category       string
	MaxRegistrants *int
	Status         models.EventStatus
	ImageURL       string
}

// EventService handles event CRUD, the cached listing, and search indexing
type EventService struct {
	events    EventStore
	cache     *cache.RedisCache
	search    *search.ElasticClient
	collector *metrics.Metrics
	tracer    tracing.Tracer
}

// NewEventService creates a new event service
func NewEventService(
	events EventStore,
	redisCache *cache.RedisCache,
	elasticClient *search.ElasticClient,
	collector *metrics.Metrics,
	tracer tracing.Tracer,
) *EventService {
	return &EventService{
		events:    events,
		cache:     redisCache,
		search:    elasticClient,
		collector: collector,
		tracer:    tracer,
	}
}

func (s *EventService) validateDraft(draft *EventDraft) error {
	if strings.TrimSpace(draft.Title) == "" ||
		strings.TrimSpace(draft.Location) == "" ||
		strings.TrimSpace(draft.Category) == "" ||
		draft.Date.IsZero() {
		return repositories.ErrInvalidInput
	}
	if draft.MaxRegistrants != nil && *draft.MaxRegistrants <= 0 {
		return repositories.ErrInvalidInput
	}
	switch draft.Status {
	case "", models.EventStatusActive, models.EventStatusCancelled,
		models.EventStatusFeatured, models.EventStatusPast:
	default:
		return repositories.ErrInvalidInput
	}
	return nil
}

// Create assigns a generated id, zeroes the registration counter, defaults the
// status to active and persists the event.
func (s *EventService) Create(ctx context.Context, draft EventDraft, creatorID string) (*models.Event, error) {
	txn := s.tracer.StartTransaction("create-event")
	defer s.tracer.EndTransaction(txn)

	if err := s.validateDraft(&draft); err != nil {
		return nil, err
	}

	status := draft.Status
	if status == "" {
		status = models.EventStatusActive
	}

	event := &models.Event{
		ID:              uuid.New(),
		Title:           draft.Title,
		Date:            draft.Date,
		Time:            draft.Time,
		Location:        draft.Location,
		Description:     draft.Description,
		Category:        draft.Category,
		MaxRegistrants:  draft.MaxRegistrants,
		RegisteredCount: 0,
		Status:          status,
		CreatedBy:       creatorID,
		ImageURL:        draft.ImageURL,
	}

	if err := s.events.Create(ctx, event); err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	if s.collector != nil {
		s.collector.IncrementCounter(metrics.CounterEventsCreated)
	}

	s.invalidateListing(ctx)
	s.indexEvent(ctx, event)

	log.Info().
		Str("event_id", event.ID.String()).
		Str("created_by", creatorID).
		Msg("Event created")

	return event, nil
}

// GetByID gets an event, consulting the cache first
func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	if s.cacheEnabled() {
		var cached models.Event
		if err := s.cache.Get(ctx, cache.GetEventCacheKey(id), &cached); err == nil {
			if s.collector != nil {
				s.collector.IncrementCounter(metrics.CounterCacheHits)
			}
			return &cached, nil
		}
		if s.collector != nil {
			s.collector.IncrementCounter(metrics.CounterCacheMisses)
		}
	}

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, cache.GetEventCacheKey(id), event, eventListTTL); err != nil {
			log.Warn().Err(err).Msg("Failed to cache event")
		}
	}

	return event, nil
}

// Update replaces the stored event with the supplied state. Last writer wins.
func (s *EventService) Update(ctx context.Context, event *models.Event) error {
	txn := s.tracer.StartTransaction("update-event")
	defer s.tracer.EndTransaction(txn)

	if err := s.events.Update(ctx, event); err != nil {
		s.tracer.RecordError(txn, err)
		return err
	}

	s.invalidateEvent(ctx, event.ID)
	s.indexEvent(ctx, event)

	return nil
}

// Delete removes the event. Registrations and feedback for it are retained as
// orphans; this is accepted behavior, not cleanup debt.
func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	txn := s.tracer.StartTransaction("delete-event")
	defer s.tracer.EndTransaction(txn)

	if err := s.events.Delete(ctx, id); err != nil {
		s.tracer.RecordError(txn, err)
		return err
	}

	s.invalidateEvent(ctx, id)

	if s.search != nil {
		if err := s.search.DeleteEvent(ctx, id.String()); err != nil {
			log.Warn().Err(err).Str("event_id", id.String()).Msg("Failed to remove event from search index")
		}
	}

	log.Info().Str("event_id", id.String()).Msg("Event deleted, registrations retained")
	return nil
}

// ListAll returns the full event collection, cached under a single key
func (s *EventService) ListAll(ctx context.Context) ([]models.Event, error) {
	if s.cacheEnabled() {
		var cached []models.Event
		if err := s.cache.Get(ctx, cache.EventListCacheKey(), &cached); err == nil {
			if s.collector != nil {
				s.collector.IncrementCounter(metrics.CounterCacheHits)
			}
			return cached, nil
		}
		if s.collector != nil {
			s.collector.IncrementCounter(metrics.CounterCacheMisses)
		}
	}

	events, err := s.events.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, cache.EventListCacheKey(), events, eventListTTL); err != nil {
			log.Warn().Err(err).Msg("Failed to cache event listing")
		}
	}

	return events, nil
}

// ListCreatedBy returns all events created by the given user
func (s *EventService) ListCreatedBy(ctx context.Context, userID string) ([]models.Event, error) {
	return s.events.ListCreatedBy(ctx, userID)
}

// Search runs a full-text query against the search index. Without a search
// backend it falls back to substring matching over the stored collection.
func (s *EventService) Search(ctx context.Context, term string) ([]models.Event, error) {
	if s.search != nil {
		docs, err := s.search.SearchEvents(ctx, term)
		if err == nil {
			return s.resolveSearchHits(ctx, docs)
		}
		log.Warn().Err(err).Msg("Search backend failed, falling back to store scan")
	}

	events, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)
	var matched []models.Event
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Title), needle) ||
			strings.Contains(strings.ToLower(e.Description), needle) ||
			strings.Contains(strings.ToLower(e.Location), needle) ||
			strings.Contains(strings.ToLower(e.Category), needle) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// resolveSearchHits maps index hits back to store records so callers always
// see the authoritative row, not the possibly stale indexed copy
func (s *EventService) resolveSearchHits(ctx context.Context, docs []map[string]interface{}) ([]models.Event, error) {
	var events []models.Event
	for _, doc := range docs {
		rawID, ok := doc["id"].(string)
		if !ok {
			continue
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			continue
		}
		event, err := s.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				// Index lag after a delete; skip the ghost.
				continue
			}
			return nil, err
		}
		events = append(events, *event)
	}
	return events, nil
}

// ReconcilePastEvents flips events whose calendar date has passed and whose
// status still accepts registrations over to past, making them eligible for
// feedback. Returns the number of events transitioned.
func (s *EventService) ReconcilePastEvents(ctx context.Context, now time.Time) (int, error) {
	txn := s.tracer.StartTransaction("reconcile-past-events")
	defer s.tracer.EndTransaction(txn)

	events, err := s.events.ListAll(ctx)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return 0, err
	}

	cutoff := now.Truncate(24 * time.Hour)
	transitioned := 0
	for i := range events {
		event := events[i]
		if !event.Registrable() || !event.Date.Before(cutoff) {
			continue
		}

		event.Status = models.EventStatusPast
		if err := s.events.Update(ctx, &event); err != nil {
			log.Error().Err(err).Str("event_id", event.ID.String()).Msg("Failed to mark event past")
			s.tracer.RecordError(txn, err)
			continue
		}

		s.invalidateEvent(ctx, event.ID)
		s.indexEvent(ctx, &event)
		transitioned++
	}

	if transitioned > 0 {
		log.Info().Int("count", transitioned).Msg("Events transitioned to past status")
	}

	return transitioned, nil
}

func (s *EventService) cacheEnabled() bool {
	return s.cache != nil && s.cache.Enabled()
}

func (s *EventService) invalidateListing(ctx context.Context) {
	if !s.cacheEnabled() {
		return
	}
	if err := s.cache.Delete(ctx, cache.EventListCacheKey()); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate event listing cache")
	}
}

func (s *EventService) invalidateEvent(ctx context.Context, id uuid.UUID) {
	if !s.cacheEnabled() {
		return
	}
	if err := s.cache.Delete(ctx, cache.GetEventCacheKey(id)); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate event cache")
	}
	s.invalidateListing(ctx)
}

func (s *EventService) indexEvent(ctx context.Context, event *models.Event) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexEvent(ctx, event); err != nil {
		log.Warn().Err(err).Str("event_id", event.ID.String()).Msg("Failed to index event")
	}
}
