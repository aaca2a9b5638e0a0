package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"babylog/internal/config"
	"babylog/internal/lock"
	"babylog/internal/logging"
	"babylog/internal/store"
)

func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	log, err := logging.New(cfg.Production(), cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

func openStore(ctx context.Context, cfg config.Config) (store.Backend, error) {
	switch cfg.StorageBackend {
	case "postgres":
		return store.ConnectPostgres(ctx, cfg.DatabaseURL)
	default:
		return store.OpenSQLite(cfg.SQLitePath)
	}
}

// newLocker returns the redis lock when REDIS_ADDR is set so several
// replicas serialize the same user, and an in-process lock otherwise.
func newLocker(ctx context.Context, cfg config.Config, log *zap.Logger) (lock.Locker, func() error, error) {
	if !cfg.RedisEnabled() {
		return lock.NewLocal(), func() error { return nil }, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Info("using redis lock", zap.String("addr", cfg.RedisAddr))
	return lock.NewRedis(client, cfg.LockTTL, log.Named("lock")), client.Close, nil
}
