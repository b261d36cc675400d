// File: /main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"ballpark-api/config"
	"ballpark-api/database"
	"ballpark-api/jobs"
	"ballpark-api/logging"
	"ballpark-api/middleware"
	"ballpark-api/routes"
	"ballpark-api/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	// Initialize database
	db, err := database.Initialize(cfg.Database.Driver, cfg.Database.URL, cfg.Database.LogLevel)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logging.Warn().Err(err).Msg("failed to close database")
		}
	}()

	// Run migrations
	if err := database.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("failed to migrate database")
	}

	if cfg.Database.Seed {
		if err := database.SeedData(db); err != nil {
			logging.Warn().Err(err).Msg("failed to seed database")
		}
	}

	var notifier services.PublishNotifier
	if cfg.SMTP.Enabled {
		notifier = services.NewEmailService(cfg.SMTP)
	}
	svc := routes.NewServices(db, cfg, notifier)

	var publishJob *jobs.ScheduledPublishJob
	if cfg.Scheduler.Enabled {
		publishJob, err = jobs.NewScheduledPublishJob(svc.Publisher, cfg.Scheduler.Spec)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to create publish job")
		}
		publishJob.Start()
	}

	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	routes.SetupRoutes(appCtx, router, db, svc, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logging.Info().Str("port", cfg.Server.Port).Str("driver", cfg.Database.Driver).Msg("starting Ballpark API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info().Msg("shutting down")
	stopApp()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("server shutdown failed")
	}
	if publishJob != nil {
		publishJob.Stop(ctx)
	}
}
