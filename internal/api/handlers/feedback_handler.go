package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yogendra-27-bhange/eventplanner/internal/api/middleware"
	"github.com/yogendra-27-bhange/eventplanner/internal/services"
	"github.com/yogendra-27-bhange/eventplanner/internal/tracing"
)

// FeedbackHandler handles event feedback requests
type FeedbackHandler struct {
	feedback *services.FeedbackService
	tracer   tracing.Tracer
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedback *services.FeedbackService, tracer tracing.Tracer) *FeedbackHandler {
	return &FeedbackHandler{
		feedback: feedback,
		tracer:   tracer,
	}
}

// FeedbackRequest represents a feedback submission payload
type FeedbackRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// HandleSubmit records the authenticated user's feedback for a concluded
// event they attended. One submission per user per event.
func (h *FeedbackHandler) HandleSubmit(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-submit-feedback")
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

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.feedback.Submit(c.Request.Context(), eventID, userID, req.Rating, req.Comment)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		h.tracer.RecordError(txn, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// HandleMyFeedback reports whether the authenticated user has already
// submitted feedback for the event
func (h *FeedbackHandler) HandleMyFeedback(c *gin.Context) {
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

	submitted, err := h.feedback.HasSubmitted(c.Request.Context(), eventID, userID)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"submitted": submitted})
}

// HandleListFeedback returns all feedback recorded for the event
func (h *FeedbackHandler) HandleListFeedback(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	entries, err := h.feedback.ListForEvent(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedback": entries})
}

// RegisterRoutes registers the handler's routes
func (h *FeedbackHandler) RegisterRoutes(router *gin.Engine, authorized *gin.RouterGroup) {
	router.GET("/events/:id/feedback", h.HandleListFeedback)
	authorized.POST("/events/:id/feedback", h.HandleSubmit)
	authorized.GET("/events/:id/feedback/me", h.HandleMyFeedback)
}
