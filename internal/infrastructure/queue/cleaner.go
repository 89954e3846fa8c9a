// Package queue moves image-file deletions off the request path. A post
// delete or image replacement responds to the client immediately; the orphaned
// file is removed by a background worker.
package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/postboard/feed-api/internal/api/metrics"
	"github.com/postboard/feed-api/internal/core/ports"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
)

// Cleaner fans image removals out to a fixed set of workers.
type Cleaner struct {
	tasks   chan string
	workers int
	store   ports.ImageStore
	log     zerolog.Logger
}

// NewCleaner creates a Cleaner with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewCleaner(numWorkers int, store ports.ImageStore, log zerolog.Logger) *Cleaner {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &Cleaner{
		tasks:   make(chan string, channelBuffer),
		workers: numWorkers,
		store:   store,
		log:     log,
	}
}

// Start launches the worker goroutines. Workers stop when ctx is cancelled.
func (c *Cleaner) Start(ctx context.Context) {
	for i := 0; i < c.workers; i++ {
		go c.runWorker(ctx)
	}
}

// Enqueue schedules an image for removal. When the buffer is full the task is
// dropped with a warning rather than blocking a request; a leaked file is
// preferable to a stalled response.
func (c *Cleaner) Enqueue(urlPath string) {
	select {
	case c.tasks <- urlPath:
	default:
		c.log.Warn().Str("image", urlPath).Msg("cleanup queue full, dropping task")
		metrics.ImageCleanupTotal.WithLabelValues("dropped").Inc()
	}
}

func (c *Cleaner) runWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case urlPath, ok := <-c.tasks:
			if !ok {
				return
			}
			if err := c.store.Remove(urlPath); err != nil {
				c.log.Error().Err(err).Str("image", urlPath).Msg("image cleanup failed")
				metrics.ImageCleanupTotal.WithLabelValues("error").Inc()
				continue
			}
			metrics.ImageCleanupTotal.WithLabelValues("ok").Inc()
		}
	}
}
