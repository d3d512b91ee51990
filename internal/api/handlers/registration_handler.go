package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yogendra-27-bhange/eventplanner/internal/api/middleware"
	"github.com/yogendra-27-bhange/eventplanner/internal/services"
	"github.com/yogendra-27-bhange/eventplanner/internal/tracing"
)

// RegistrationHandler handles event registration requests
type RegistrationHandler struct {
	registrations *services.RegistrationService
	tracer        tracing.Tracer
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(registrations *services.RegistrationService, tracer tracing.Tracer) *RegistrationHandler {
	return &RegistrationHandler{
		registrations: registrations,
		tracer:        tracer,
	}
}

// HandleRegister attempts to register the authenticated user for an event.
// A rejected attempt (full, closed, duplicate, or missing event) reports
// registered=false rather than an error body.
func (h *RegistrationHandler) HandleRegister(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-register")
	defer h.tracer.EndTransaction(txn)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	registered, err := h.registrations.Register(c.Request.Context(), eventID, userID)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		h.tracer.RecordError(txn, err)
		return
	}

	if !registered {
		c.JSON(http.StatusConflict, gin.H{"registered": false})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"registered": true})
}

// HandleMyRegistration reports whether the authenticated user is registered
// for the event
func (h *RegistrationHandler) HandleMyRegistration(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	registered, err := h.registrations.IsRegistered(c.Request.Context(), eventID, userID)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"registered": registered})
}

// HandleListMyRegistrations returns every registration held by the
// authenticated user
func (h *RegistrationHandler) HandleListMyRegistrations(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	registrations, err := h.registrations.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"registrations": registrations})
}

// RegisterRoutes registers the handler's routes
func (h *RegistrationHandler) RegisterRoutes(authorized *gin.RouterGroup) {
	authorized.POST("/events/:id/registrations", h.HandleRegister)
	authorized.GET("/events/:id/registrations/me", h.HandleMyRegistration)
	authorized.GET("/registrations", h.HandleListMyRegistrations)
}
