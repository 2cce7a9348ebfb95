package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/LeSteak11/social-media-content-organizer/internal/api"
	"github.com/LeSteak11/social-media-content-organizer/internal/batch"
	"github.com/LeSteak11/social-media-content-organizer/internal/config"
	"github.com/LeSteak11/social-media-content-organizer/internal/conflict"
	"github.com/LeSteak11/social-media-content-organizer/internal/log"
	"github.com/LeSteak11/social-media-content-organizer/internal/media"
	"github.com/LeSteak11/social-media-content-organizer/internal/metrics"
	"github.com/LeSteak11/social-media-content-organizer/internal/post"
	"github.com/LeSteak11/social-media-content-organizer/internal/repository"
	"github.com/LeSteak11/social-media-content-organizer/internal/settings"
	"github.com/LeSteak11/social-media-content-organizer/pkg/kv"
	_ "github.com/LeSteak11/social-media-content-organizer/pkg/kv/memory"
	_ "github.com/LeSteak11/social-media-content-organizer/pkg/kv/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := log.NewSugar(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Infow("Starting content organizer API server",
		"env", cfg.Env,
		"addr", cfg.HTTPAddr,
		"version", "v1.0.0",
	)

	// Setup metrics
	metricsObj, metricsHandler, err := metrics.Setup("organizer-api")
	if err != nil {
		logger.Fatalw("Failed to setup metrics", "error", err)
	}

	// Connect to Postgres
	db, err := sql.Open("pgx", cfg.Database.PostgresDSN)
	if err != nil {
		logger.Fatalw("Failed to open database", "error", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		logger.Fatalw("Database ping failed", "error", err)
	}
	logger.Infow("Database connection established")

	// Setup the settings store (redis with in-memory failover by default)
	store, err := kv.NewStoreFromConfig(kv.Config{
		Backend:         kv.Backend(cfg.Settings.Backend),
		RedisURL:        cfg.Settings.RedisURL,
		FailoverEnabled: cfg.Settings.FailoverEnabled,
		Logger:          logger.Infow,
	})
	if err != nil {
		logger.Fatalw("Failed to setup settings store", "error", err)
	}
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		logger.Warnw("Settings store ping failed, continuing with fallback", "error", err)
	} else {
		logger.Infow("Settings store connection established", "backend", cfg.Settings.Backend)
	}

	settingsSvc := settings.NewService(store)

	// Setup repositories
	accountRepo := repository.NewAccountRepository(db, logger)
	mediaRepo := repository.NewMediaRepository(db, logger)
	batchRepo := repository.NewBatchRepository(db, logger)
	postRepo := repository.NewPostRepository(db, logger)

	// Setup conflict engine and services
	engine := conflict.NewEngine(postRepo, settingsSvc, logger, metricsObj)

	postSvc := post.NewService(postRepo, engine, logger)
	mediaSvc := media.NewService(mediaRepo, cfg.Media.UploadsDir, metricsObj, logger)
	batchSvc := batch.NewService(batchRepo, logger)

	// Setup API handler and middleware
	handler := api.NewHandler(postSvc, mediaSvc, batchSvc, accountRepo, postRepo, batchRepo, settingsSvc, pinger{db}, logger, metricsObj)
	middleware := api.NewMiddleware(logger, metricsObj)

	// Create router with middleware and routes - pass security config to Routes
	router := handler.Routes(middleware, cfg.Security.CORSAllowedOrigins, cfg.Security.RateLimitRPM)

	// Log configured CORS origins for easier debugging in dev
	logger.Infow("CORS configured", "allowed_origins", cfg.Security.CORSAllowedOrigins)

	// Add metrics endpoint
	router.Handle("/metrics", metricsHandler)

	// Setup HTTP server
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	serverErrors := make(chan error, 1)
	go func() {
		logger.Infow("API server starting", "addr", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Fatalw("Server startup failed", "error", err)
	case sig := <-shutdown:
		logger.Infow("Shutdown signal received", "signal", sig.String())

		// Give outstanding requests 30 seconds to complete
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Errorw("Graceful shutdown failed", "error", err)
			server.Close()
		}

		logger.Infow("Server stopped")
	}
}

// pinger adapts *sql.DB to the readiness check interface.
type pinger struct {
	db *sql.DB
}

func (p pinger) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
