package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elysia/ecocycle/internal/catalog"
	"github.com/elysia/ecocycle/internal/config"
	"github.com/elysia/ecocycle/internal/database"
	"github.com/elysia/ecocycle/internal/events"
	"github.com/elysia/ecocycle/internal/modules/calibration"
	"github.com/elysia/ecocycle/internal/modules/fleet"
	"github.com/elysia/ecocycle/internal/modules/recommend"
	"github.com/elysia/ecocycle/internal/modules/shock"
	"github.com/elysia/ecocycle/internal/modules/strategies"
	"github.com/elysia/ecocycle/internal/scheduler"
	"github.com/elysia/ecocycle/internal/server"
	"github.com/elysia/ecocycle/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting EcoCycle")

	// Load reference data (built-in defaults plus optional TOML overrides)
	cat, err := catalog.NewLoader(log).Load(cfg.ReferenceDataPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load reference data")
	}

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Event bus
	eventManager := events.NewManager(log)

	// Core services
	calibrationSvc := calibration.NewService(cat, log)
	shockCalc := shock.NewCalculator(cat, log)
	simulator := strategies.NewSimulator(cat, log)
	engine := recommend.NewEngine(cat, log, recommend.WithLagThreshold(cfg.LagSensitivityThreshold))
	analyzer := fleet.NewAnalyzer(engine, eventManager, log)
	fleetRepo := fleet.NewRepository(db.Conn(), log)

	weights := cfg.Weights()

	// Initialize scheduler
	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	snapshotJob := scheduler.NewFleetSnapshotJob(analyzer, fleetRepo, eventManager, weights, log)
	if err := sched.AddJob(cfg.SnapshotSchedule, snapshotJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register fleet snapshot job")
	}

	systemHandlers := server.NewSystemHandlers(log, db, sched)
	systemHandlers.SetSnapshotJob(snapshotJob)

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:    cfg.Port,
		Log:     log,
		DevMode: cfg.DevMode,

		Catalog:     catalog.NewHandler(cat, log),
		Calibration: calibration.NewHandler(calibrationSvc, eventManager, log),
		Shock:       shock.NewHandler(calibrationSvc, shockCalc, eventManager, log),
		Strategies:  strategies.NewHandler(calibrationSvc, simulator, eventManager, log),
		Recommend:   recommend.NewHandler(engine, weights, eventManager, log),
		Fleet:       fleet.NewHandler(analyzer, fleetRepo, weights, log),
		System:      systemHandlers,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
