package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yogendra-27-bhange/eventplanner/internal/api/middleware"
	"github.com/yogendra-27-bhange/eventplanner/internal/models"
	"github.com/yogendra-27-bhange/eventplanner/internal/services"
	"github.com/yogendra-27-bhange/eventplanner/internal/tracing"
)

// EventHandler handles event CRUD requests
type EventHandler struct {
	events *services.EventService
	tracer tracing.Tracer
}

// NewEventHandler creates a new event handler
func NewEventHandler(events *services.EventService, tracer tracing.Tracer) *EventHandler {
	return &EventHandler{
		events: events,
		tracer: tracer,
	}
}

// EventRequest represents an event create or update payload
type EventRequest struct {
	Title          string    `json:"title" binding:"required"`
	Date           time.Time `json:"date" binding:"required"`
	Time           string    `json:"time"`
	Location       string    `json:"location" binding:"required"`
	Description    string    `json:"description"`
	Category       string    `json:"category" binding:"required"`
	MaxRegistrants *int      `json:"max_registrants" binding:"omitempty,gt=0"`
	Status         string    `json:"status"`
	ImageURL       string    `json:"image_url"`
}

// HandleCreateEvent creates an event owned by the authenticated user
func (h *EventHandler) HandleCreateEvent(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-create-event")
	defer h.tracer.EndTransaction(txn)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft := services.EventDraft{
		Title:          req.Title,
		Date:           req.Date,
		Time:           req.Time,
		Location:       req.Location,
		Description:    req.Description,
		Category:       req.Category,
		MaxRegistrants: req.MaxRegistrants,
		Status:         models.EventStatus(req.Status),
		ImageURL:       req.ImageURL,
	}

	event, err := h.events.Create(c.Request.Context(), draft, userID)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		h.tracer.RecordError(txn, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// HandleGetEvent returns a single event by id
func (h *EventHandler) HandleGetEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	event, err := h.events.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, event)
}

// HandleListEvents returns the full collection, or a search result when a
// query term is supplied. Finer filtering and sorting stay with the caller.
func (h *EventHandler) HandleListEvents(c *gin.Context) {
	ctx := c.Request.Context()

	if term := c.Query("q"); term != "" {
		events, err := h.events.Search(ctx, term)
		if err != nil {
			c.JSON(statusFromError(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": events})
		return
	}

	events, err := h.events.ListAll(ctx)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// HandleListMyEvents returns the events created by the authenticated user
func (h *EventHandler) HandleListMyEvents(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	events, err := h.events.ListCreatedBy(c.Request.Context(), userID)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// HandleUpdateEvent replaces the event with the supplied state. Only the
// creator or an admin may update; last writer wins.
func (h *EventHandler) HandleUpdateEvent(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-update-event")
	defer h.tracer.EndTransaction(txn)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	existing, err := h.events.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	if !h.canMutate(c, existing) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the creator or an admin may modify this event"})
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated := &models.Event{
		ID:              existing.ID,
		Title:           req.Title,
		Date:            req.Date,
		Time:            req.Time,
		Location:        req.Location,
		Description:     req.Description,
		Category:        req.Category,
		MaxRegistrants:  req.MaxRegistrants,
		RegisteredCount: existing.RegisteredCount,
		Status:          models.EventStatus(req.Status),
		CreatedBy:       existing.CreatedBy,
		ImageURL:        req.ImageURL,
	}
	if updated.Status == "" {
		updated.Status = existing.Status
	}

	if err := h.events.Update(c.Request.Context(), updated); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		h.tracer.RecordError(txn, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// HandleDeleteEvent removes the event. Registrations and feedback referencing
// it are retained.
func (h *EventHandler) HandleDeleteEvent(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-delete-event")
	defer h.tracer.EndTransaction(txn)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	existing, err := h.events.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	if !h.canMutate(c, existing) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the creator or an admin may modify this event"})
		return
	}

	if err := h.events.Delete(c.Request.Context(), id); err != nil {
		log.Error().Err(err).Str("event_id", id.String()).Msg("Failed to delete event")
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		h.tracer.RecordError(txn, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}

func (h *EventHandler) canMutate(c *gin.Context, event *models.Event) bool {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return false
	}
	return event.CreatedBy == userID || middleware.IsAdmin(c)
}

// RegisterRoutes registers the handler's routes
func (h *EventHandler) RegisterRoutes(router *gin.Engine, authorized *gin.RouterGroup) {
	router.GET("/events", h.HandleListEvents)
	router.GET("/events/:id", h.HandleGetEvent)
	authorized.POST("/events", h.HandleCreateEvent)
	authorized.GET("/events/mine", h.HandleListMyEvents)
	authorized.PUT("/events/:id", h.HandleUpdateEvent)
	authorized.DELETE("/events/:id", h.HandleDeleteEvent)
}
