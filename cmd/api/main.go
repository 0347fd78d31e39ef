package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dosadelight/internal/config"
	"dosadelight/internal/database"
	"dosadelight/internal/handler"
	"dosadelight/internal/notify"
	"dosadelight/internal/router"
	"dosadelight/internal/service"
	"dosadelight/internal/snapshot"
	"dosadelight/internal/store"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger, "dosadelight-api")
	logger.Info().Msg("starting DosaDelight API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize record store
	recordStore, closeStore, err := newStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	for _, c := range store.Collections {
		if err := recordStore.Ensure(ctx, c); err != nil {
			return fmt.Errorf("failed to initialize %s store: %w", c, err)
		}
	}

	// Initialize submission event publisher
	publisher := newPublisher(cfg, logger)
	defer publisher.Close()

	// Initialize services and handlers
	submissionService := service.NewSubmissionService(recordStore, publisher, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)

	// Initialize router
	mux := router.New(submissionHandler, cfg.CORS.AllowedOrigins, cfg.Auth.AdminAPIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("store", cfg.Store.Backend).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newStore builds the configured record store and returns a function that
// releases its resources.
func newStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (store.Store, func(), error) {
	if cfg.Store.Backend == config.BackendPostgres {
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return store.NewPostgresStore(pool, logger), pool.Close, nil
	}

	var snapshots snapshot.Backend
	if cfg.S3.Enabled {
		backend, err := snapshot.NewS3Backend(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 snapshots, falling back to local files only")
		} else {
			snapshots = backend
		}
	} else {
		logger.Info().Msg("using local files only for the record store (S3 disabled)")
	}

	return store.NewFileStore(cfg.Store.DataDir, snapshots, logger), func() {}, nil
}

// newPublisher connects to RabbitMQ when enabled. Connection failures leave
// the API running without submission events.
func newPublisher(cfg *config.Config, logger zerolog.Logger) notify.Publisher {
	if !cfg.AMQP.Enabled {
		return notify.NewNopPublisher()
	}

	publisher, err := notify.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Queue, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to connect to RabbitMQ, submission events disabled")
		return notify.NewNopPublisher()
	}
	return publisher
}
