package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ConnectRedis returns nil when Redis is unreachable so the app can run
// on the in-process cache instead.
func ConnectRedis(ctx context.Context, cfg *Config, log logrus.FieldLogger) *redis.Client {
	var opt *redis.Options
	if cfg.RedisURL != "" {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.WithError(err).Warn("Failed to parse Redis URL, running without Redis")
			return nil
		}
		opt = parsed
	} else {
		opt = &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		}
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).Warn("Redis connection failed, running without Redis")
		_ = client.Close()
		return nil
	}

	log.Info("Redis connected")
	return client
}
