package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/postboard/feed-api/internal/infrastructure/config"
)

const (
	clientName  = "feed-api"
	pingTimeout = 5 * time.Second
)

// Connect initialises the Redis client backing the login limiter and checks
// connectivity with a ping. Redis is a soft dependency: the caller decides
// whether a failure here is fatal.
func Connect(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:       cfg.Addr,
		DB:         cfg.DB,
		ClientName: clientName,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("redis connected")
	return client, nil
}
