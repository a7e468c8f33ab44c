package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"back2u-backend/internal/broker"
	"back2u-backend/internal/config"
	"back2u-backend/internal/handlers"
	"back2u-backend/internal/identity"
	"back2u-backend/internal/repository"
	"back2u-backend/internal/repository/postgres"
	"back2u-backend/internal/repository/sqlite"
	"back2u-backend/internal/services"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Open document store
	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("Failed to open document store")
	}
	defer store.Close()

	// Initialize repositories
	reportRepo := repository.NewReportRepository(store)
	returnRepo := repository.NewReturnRepository(store)
	notificationRepo := repository.NewNotificationRepository(store)
	profileRepo := repository.NewProfileRepository(store)

	// Realtime delivery goes through Redis when configured so that every
	// instance reaches its own WebSocket clients.
	wsHub := services.NewWSHub()
	var publisher services.Publisher = wsHub
	if cfg.Redis.Addr != "" {
		redisBroker, err := broker.NewRedisBroker(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to redis")
		}
		defer redisBroker.Close()

		go func() {
			if err := redisBroker.Subscribe(ctx, wsHub); err != nil {
				log.Error().Err(err).Msg("Notification subscription stopped")
			}
		}()
		publisher = redisBroker
	}

	// Initialize services
	provider := identity.NewJWTProvider(cfg.JWT.Secret)
	notificationService := services.NewNotificationService(notificationRepo, reportRepo, returnRepo, publisher)
	reportService := services.NewReportService(reportRepo)
	returnService := services.NewReturnService(returnRepo, reportRepo, notificationService)
	profileService := services.NewProfileService(profileRepo)
	dashboardService := services.NewDashboardService(reportService, returnService)
	imageService, err := services.NewImageService(ctx, cfg.AWS)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create image service")
	}

	go notificationService.RunReconciler(ctx, cfg.Outbox.ReconcileInterval)

	// Setup router
	router := handlers.NewRouter(handlers.RouterConfig{
		Provider:      provider,
		Reports:       handlers.NewReportHandler(reportService, returnService, profileService),
		Returns:       handlers.NewReturnHandler(returnService),
		Notifications: handlers.NewNotificationHandler(notificationService),
		Profiles:      handlers.NewProfileHandler(profileService),
		Images:        handlers.NewImageHandler(imageService),
		Dashboard:     handlers.NewDashboardHandler(dashboardService),
		WebSocket:     handlers.NewWebSocketHandler(wsHub, provider),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Stop the reconciler and the redis subscription
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// openStore opens the document store selected by cfg.Driver
func openStore(ctx context.Context, cfg config.DatabaseConfig) (repository.DocumentStore, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.New(ctx, cfg.DSN())
	case "sqlite":
		store, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.Path).Msg("SQLite document store opened")
		return store, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
