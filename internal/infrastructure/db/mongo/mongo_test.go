package mongo

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/postboard/feed-api/internal/infrastructure/config"
)

func TestConnect_BadURI(t *testing.T) {
	_, _, err := Connect(context.Background(), config.MongoConfig{
		URI:      "not-a-mongo-uri",
		Database: "feed",
	}, zerolog.Nop())
	if err == nil {
		t.Fatalf("expected error for malformed URI")
	}
}
