package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	dynamoadapter "github.com/couchcryptid/landslide-monitor/internal/adapter/dynamodb"
	httpadapter "github.com/couchcryptid/landslide-monitor/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/landslide-monitor/internal/adapter/kafka"
	"github.com/couchcryptid/landslide-monitor/internal/adapter/sqlite"
	"github.com/couchcryptid/landslide-monitor/internal/config"
	"github.com/couchcryptid/landslide-monitor/internal/monitor"
	"github.com/couchcryptid/landslide-monitor/internal/observability"
	"github.com/couchcryptid/landslide-monitor/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, closeKV, err := openKV(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	logger.Info("storage ready", "backend", cfg.StorageBackend, "key", cfg.StorageKey)

	records := store.NewRecordStore(kv, cfg.StorageKey, logger, metrics)
	svc := httpadapter.Services{
		Recorder: monitor.NewRecorder(records, logger, metrics),
		History:  monitor.NewHistory(records, logger),
		Risk:     monitor.NewRisk(records, logger, metrics),
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, records, svc, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := closeKV(); err != nil {
		logger.Error("storage close error", "error", err)
	}

	logger.Info("shutdown complete")
}

// openKV builds the configured storage backend and returns its close function.
func openKV(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.KV, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StorageBackend {
	case config.BackendSQLite:
		kv, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return kv, kv.Close, nil
	case config.BackendDynamoDB:
		kv, err := dynamoadapter.NewKV(ctx, cfg.DynamoDBTable, cfg.DynamoDBRegion, cfg.DynamoDBEndpoint)
		if err != nil {
			return nil, nil, err
		}
		return kv, noop, nil
	case config.BackendKafka:
		if err := kafkaadapter.EnsureTopic(ctx, cfg.KafkaBrokers, cfg.KafkaTopic); err != nil {
			return nil, nil, err
		}
		kv := kafkaadapter.NewKV(cfg, logger)
		return kv, kv.Close, nil
	case config.BackendMemory:
		logger.Warn("memory storage selected; records are lost on exit")
		return store.NewMemoryKV(), noop, nil
	default:
		return nil, nil, errors.New("unknown storage backend " + cfg.StorageBackend)
	}
}
