package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/postboard/feed-api/internal/infrastructure/config"
)

const (
	appName        = "feed-api"
	maxPoolSize    = 64
	defaultTimeout = 10 * time.Second
)

// Connect establishes the MongoDB client backing the feed store and verifies
// connectivity with a ping. Reads stay on the primary: a creator lists the
// feed right after posting and must see their own write.
func Connect(ctx context.Context, cfg config.MongoConfig, log zerolog.Logger) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetMaxPoolSize(maxPoolSize).
		SetReadPreference(readpref.Primary())

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	log.Info().Str("database", cfg.Database).Msg("mongo connected")
	return client, client.Database(cfg.Database), nil
}
