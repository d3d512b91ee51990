package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/yogendra-27-bhange/eventplanner/internal/api/middleware"
	"github.com/yogendra-27-bhange/eventplanner/internal/models"
	"github.com/yogendra-27-bhange/eventplanner/internal/services"
	"github.com/yogendra-27-bhange/eventplanner/internal/tracing"
)

// AuthHandler handles login, registration and session requests
type AuthHandler struct {
	identity  *services.IdentityService
	jwtSecret string
	tokenTTL  time.Duration
	tracer    tracing.Tracer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(identity *services.IdentityService, jwtSecret string, tokenTTL time.Duration, tracer tracing.Tracer) *AuthHandler {
	return &AuthHandler{
		identity:  identity,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		tracer:    tracer,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

// RegisterRequest represents an account registration request
type RegisterRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
}

// AuthResponse carries the user record and its session token
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// HandleLogin resolves the user by email, creating the account on first login
func (h *AuthHandler) HandleLogin(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-login")
	defer h.tracer.EndTransaction(txn)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.identity.ResolveOrCreate(c.Request.Context(), req.Email, req.Name)
	if err != nil {
		log.Error().Err(err).Msg("Login failed")
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		h.tracer.RecordError(txn, err)
		return
	}

	h.respondWithToken(c, http.StatusOK, user)
}

// HandleRegister creates a new account, rejecting taken identifiers
func (h *AuthHandler) HandleRegister(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-register-user")
	defer h.tracer.EndTransaction(txn)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.identity.Register(c.Request.Context(), req.Email, req.Name)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		h.tracer.RecordError(txn, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, user)
}

// HandleLogout clears the session slot
func (h *AuthHandler) HandleLogout(c *gin.Context) {
	if err := h.identity.EndSession(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// HandleMe resolves the session to its user. A session pointing at a removed
// user heals itself and reports no session.
func (h *AuthHandler) HandleMe(c *gin.Context) {
	user, err := h.identity.CurrentSession(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := middleware.IssueToken(h.jwtSecret, h.tokenTTL, user)
	if err != nil {
		log.Error().Err(err).Msg("Failed to issue session token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue session token"})
		return
	}

	c.JSON(status, AuthResponse{User: user, Token: token})
}

// RegisterRoutes registers the handler's routes
func (h *AuthHandler) RegisterRoutes(router *gin.Engine, authorized *gin.RouterGroup) {
	router.POST("/auth/login", h.HandleLogin)
	router.POST("/auth/register", h.HandleRegister)
	authorized.POST("/auth/logout", h.HandleLogout)
	authorized.GET("/auth/me", h.HandleMe)
}
