package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/postercast/postercast/internal/config"
	"github.com/postercast/postercast/internal/httpapi"
	"github.com/postercast/postercast/internal/relay"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("failed to load configuration", zap.Error(err))
	}

	logger, err := buildLogger(cfg.Log.Level)
	if err != nil {
		zap.NewExample().Fatal("failed to build logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	backend, err := relay.BuildStateBackendFromDSN(cfg.State.DSN)
	if err != nil {
		logger.Fatal("failed to initialize state backend", zap.String("dsn", cfg.State.DSN), zap.Error(err))
	}

	store := relay.NewStore(relay.StoreOptions{
		TTL:     cfg.Rooms.TTL.Std(),
		Backend: backend,
	})
	defer store.Close()

	server := httpapi.NewServerWithConfig(store, logger, httpapi.ServerConfig{
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	})

	addr := cfg.Server.Addr()
	logger.Info("postercast relay listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, server); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		parsed, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = parsed
	}
	return cfg.Build()
}
