package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/yogendra-27-bhange/eventplanner/config"
	"github.com/yogendra-27-bhange/eventplanner/internal/api/handlers"
	"github.com/yogendra-27-bhange/eventplanner/internal/api/middleware"
	"github.com/yogendra-27-bhange/eventplanner/internal/metrics"
	"github.com/yogendra-27-bhange/eventplanner/internal/services"
	"github.com/yogendra-27-bhange/eventplanner/internal/tracing"
)

// Server represents the HTTP server
type Server struct {
	config        config.Config
	router        *gin.Engine
	httpServer    *http.Server
	identity      *services.IdentityService
	events        *services.EventService
	registrations *services.RegistrationService
	feedback      *services.FeedbackService
	metrics       *metrics.Metrics
	tracer        tracing.Tracer
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.Config,
	identity *services.IdentityService,
	events *services.EventService,
	registrations *services.RegistrationService,
	feedback *services.FeedbackService,
	m *metrics.Metrics,
	tracer tracing.Tracer,
) *Server {
	server := &Server{
		config:        cfg,
		identity:      identity,
		events:        events,
		registrations: registrations,
		feedback:      feedback,
		metrics:       m,
		tracer:        tracer,
	}

	router := server.setupRouter()
	server.router = router

	httpServer := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router,
		ReadTimeout:  cfg.ServerTimeout,
		WriteTimeout: cfg.ServerTimeout,
	}
	server.httpServer = httpServer

	return server
}

// setupRouter configures the HTTP router
func (s *Server) setupRouter() *gin.Engine {
	if s.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Logger(log.Logger))
	router.Use(gin.Recovery())

	// Routes that accept a bearer token
	authorized := router.Group("", middleware.Session(s.config.Auth.JWTSecret))

	authHandler := handlers.NewAuthHandler(s.identity, s.config.Auth.JWTSecret, s.config.Auth.TokenTTL, s.tracer)
	authHandler.RegisterRoutes(router, authorized)

	eventHandler := handlers.NewEventHandler(s.events, s.tracer)
	eventHandler.RegisterRoutes(router, authorized)

	registrationHandler := handlers.NewRegistrationHandler(s.registrations, s.tracer)
	registrationHandler.RegisterRoutes(authorized)

	feedbackHandler := handlers.NewFeedbackHandler(s.feedback, s.tracer)
	feedbackHandler.RegisterRoutes(router, authorized)

	metricsHandler := handlers.NewMetricsHandler(s.metrics, s.tracer)
	metricsHandler.RegisterRoutes(router)

	return router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Info().Str("address", s.config.ServerAddress).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "HTTP server error")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "HTTP server shutdown error")
	}

	log.Info().Msg("HTTP server shut down successfully")
	return nil
}
