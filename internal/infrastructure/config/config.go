package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=1h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	ImagesDir string        `env:"IMAGES_DIR, default=images"`

	Mongo MongoConfig
	Redis RedisConfig
	Login LoginConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=feed"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// LoginConfig bounds login attempts per email within a fixed window.
type LoginConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=10"`
	Window      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
}

// Load reads configuration from environment variables using go-envconfig.
// The signing secret has no default: the process refuses to start without one.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
