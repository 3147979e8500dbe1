package agent

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/uslanozan/asset-smith/config"
	"github.com/uslanozan/asset-smith/database"
	"github.com/uslanozan/asset-smith/logger"
)

// OpenMemoryStore config'deki backend'i açar. Dönen close fonksiyonu kapanışta çağrılmalı.
func OpenMemoryStore(ctx context.Context, cfg config.MemoryConfig, log *logger.Logger) (MemoryStore, func() error, error) {
	switch cfg.Backend {
	case config.BackendSQLite, "":
		db, err := database.InitMemoryDB(cfg.Path, log)
		if err != nil {
			return nil, nil, err
		}
		return NewGormMemoryStore(db, cfg.HistoryLimit), func() error { return database.Close(db) }, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis bağlantı hatası (%s): %w", cfg.RedisAddr, err)
		}
		log.Info("memory store ready", "backend", "redis", "addr", cfg.RedisAddr)
		return NewRedisMemoryStore(client, cfg.KeyPrefix, cfg.TTL, cfg.HistoryLimit), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("desteklenmeyen memory backend: %q", cfg.Backend)
	}
}
