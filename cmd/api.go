package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yogendra-27-bhange/eventplanner/config"
	"github.com/yogendra-27-bhange/eventplanner/internal/api"
	"github.com/yogendra-27-bhange/eventplanner/internal/cache"
	"github.com/yogendra-27-bhange/eventplanner/internal/messaging"
	"github.com/yogendra-27-bhange/eventplanner/internal/metrics"
	"github.com/yogendra-27-bhange/eventplanner/internal/models"
	"github.com/yogendra-27-bhange/eventplanner/internal/repositories"
	"github.com/yogendra-27-bhange/eventplanner/internal/search"
	"github.com/yogendra-27-bhange/eventplanner/internal/services"
	"github.com/yogendra-27-bhange/eventplanner/internal/session"
	"github.com/yogendra-27-bhange/eventplanner/internal/tracing"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long:  `Start the HTTP API server for identity, events, registrations, and feedback`,
	RunE:  runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	// Configure logging
	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Initialize the database connection
	db, err := initDatabase(cfg)
	if err != nil {
		return err
	}

	// Initialize metrics
	metricsCollector := metrics.NewMetrics()
	metricsCollector.SetHealth("database", true)

	// Initialize cache
	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis cache, continuing without caching")
	}
	metricsCollector.SetHealth("cache", err == nil)

	// Initialize tracer
	tracer, err := tracing.NewTracer(cfg.Tracing)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
	}

	// Initialize Elasticsearch client
	elasticClient, err := search.NewElasticClient(cfg.Elastic)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Elasticsearch client, continuing without search functionality")
	}

	// Initialize the Service Bus publisher. Confirmations are best-effort, so
	// a missing connection string only disables them.
	bus, err := messaging.NewServiceBusClient(cfg.Azure)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Service Bus client, continuing without confirmations")
		bus = nil
	} else {
		defer bus.Close()
	}

	// Initialize the session store
	sessions := initSessionStore(cfg, redisCache)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	registrationRepo := repositories.NewRegistrationRepository(db)
	feedbackRepo := repositories.NewFeedbackRepository(db)

	// Initialize services
	identityService := services.NewIdentityService(userRepo, sessions, cfg.Auth.AdminEmail)
	eventService := services.NewEventService(eventRepo, redisCache, elasticClient, metricsCollector, tracer)
	registrationService := services.NewRegistrationService(registrationRepo, redisCache, bus, metricsCollector, tracer)
	feedbackService := services.NewFeedbackService(feedbackRepo, registrationRepo, eventRepo, metricsCollector, tracer)

	// Initialize and start the server
	server := api.NewServer(cfg, identityService, eventService, registrationService, feedbackService, metricsCollector, tracer)

	// Start the server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Server error")
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	// Shutdown the server
	if err := server.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("Shutting down API server")
	return nil
}

func initDatabase(cfg config.Config) (*gorm.DB, error) {
	// TranslateError maps driver errors onto gorm sentinels such as
	// gorm.ErrDuplicatedKey, which the repositories rely on.
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := models.SetupModels(db); err != nil {
		return nil, errors.Wrap(err, "failed to run migrations")
	}

	// Configure the connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get underlying DB connection")
	}
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	return db, nil
}

// initSessionStore picks the Redis-backed session store when the cache is
// available and falls back to the in-process store otherwise.
func initSessionStore(cfg config.Config, redisCache *cache.RedisCache) session.Store {
	if redisCache != nil && redisCache.Enabled() {
		return session.NewRedisStore(redisCache.Client(), cfg.Auth.SessionSlot, cfg.Auth.TokenTTL)
	}
	log.Warn().Msg("Redis unavailable, using in-process session store")
	return session.NewMemoryStore()
}
