package common

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"live-airlines/provisioner/internal/config"
	"live-airlines/provisioner/internal/logging"
)

func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	logging.Info("Initializing Redis client", "addr", cfg.Addr())

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     4,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.Info("Successfully connected to Redis")
	return client, nil
}
