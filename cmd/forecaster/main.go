package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"

	httpadapter "marinecast/internal/adapter/http"
	kafkaadapter "marinecast/internal/adapter/kafka"
	"marinecast/internal/config"
	"marinecast/internal/history"
	"marinecast/internal/observability"
	"marinecast/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Sample store: Postgres when a DSN is configured, in-memory otherwise.
	var store history.Store
	if cfg.UsePostgres() {
		pg, err := history.NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		store = pg
		logger.Info("using postgres sample store")
	} else {
		store = history.NewMemoryStore(cfg.RetentionHours)
		logger.Info("using in-memory sample store", "retention", cfg.RetentionHours)
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)

	ingest := pipeline.NewIngest(reader, store, logger, metrics)
	forecaster := pipeline.NewForecaster(store, writer, pipeline.Settings{
		UpdateInterval:       cfg.UpdateInterval,
		PressureHistoryHours: cfg.PressureHistoryHours,
		FogAreaType:          cfg.FogAreaType,
		StationLat:           cfg.StationLat,
		StationLon:           cfg.StationLon,
		WindSpeedWindow:      cfg.WindSpeedWindow,
		WindDirWindow:        cfg.WindDirWindow,
		TemperatureWindow:    cfg.TemperatureWindow,
		IncludePrompt:        cfg.IncludePrompt,
	}, clockwork.NewRealClock(), logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, forecaster, forecaster, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start telemetry ingest.
	go func() {
		if err := ingest.Run(ctx); err != nil {
			logger.Error("ingest error", "error", err)
		}
	}()

	// Start forecast loop.
	go func() {
		if err := forecaster.Run(ctx); err != nil {
			logger.Error("forecast loop error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
