// Package main is the entry point for the inventory API server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vyrodovalexey/inventory-api/internal/config"
	"github.com/vyrodovalexey/inventory-api/internal/lifecycle"
	"github.com/vyrodovalexey/inventory-api/internal/metrics"
	"github.com/vyrodovalexey/inventory-api/internal/server"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fallbackLogger().Error("failed to load configuration", zap.Error(err))
		return 1
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		fallbackLogger().Error("failed to initialize logger", zap.Error(err))
		return 1
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("configuration loaded",
		zap.Int("server_port", cfg.ServerPort),
		zap.Int("probe_port", cfg.ProbePort),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("shutdown_timeout", cfg.ShutdownTimeout),
		zap.Bool("metrics_enabled", cfg.MetricsEnabled),
		zap.Bool("events_enabled", cfg.EventsEnabled),
		zap.Int64("max_body_bytes", cfg.MaxBodyBytes),
		zap.Strings("allowed_origins", cfg.AllowedOrigins),
	)

	srv := server.New(cfg, logger, newInventory(cfg, prometheus.DefaultRegisterer))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startErr := make(chan error, 1)
	go func() { startErr <- srv.Start() }()

	select {
	case err := <-startErr:
		if err != nil {
			logger.Error("server error", zap.Error(err))
			return 1
		}
		logger.Info("server stopped")
		return 0
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return 1
	}

	logger.Info("server stopped")
	return 0
}

// fallbackLogger is used before the configured logger exists.
func fallbackLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// newInventory builds the resource controllers and, when metrics are enabled,
// exports the event feed statistics to reg.
func newInventory(cfg *config.Config, reg prometheus.Registerer) *server.Inventory {
	inventory := server.NewInventory(observers(cfg, reg)...)
	if cfg.MetricsEnabled {
		metrics.RegisterEventFeed(reg, inventory.Events)
	}
	return inventory
}

// observers returns the lifecycle observers enabled by cfg.
func observers(cfg *config.Config, reg prometheus.Registerer) []lifecycle.Observer {
	var out []lifecycle.Observer
	if cfg.MetricsEnabled {
		out = append(out, metrics.NewLifecycleObserver(reg))
	}
	return out
}

// initLogger builds the JSON production logger at the given level; unknown
// levels fall back to info.
func initLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	encoder := zap.NewProductionEncoderConfig()
	encoder.TimeKey = "timestamp"
	encoder.MessageKey = "message"
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder.EncodeDuration = zapcore.SecondsDurationEncoder

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig = encoder
	cfg.InitialFields = map[string]any{"service": "inventory-api"}

	return cfg.Build()
}
