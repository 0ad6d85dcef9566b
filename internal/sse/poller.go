package sse

import (
	"context"
	"log/slog"
	"time"

	"github.com/starford/suppai/internal/models"
)

// MetaSource loads the current index metadata.
type MetaSource interface {
	FetchIndexMeta(ctx context.Context) (*models.IndexMeta, error)
}

// PollMeta fetches index metadata every interval and publishes it to the
// broker whenever it differs from the previous snapshot. The first
// successful fetch only primes the snapshot. It returns when ctx is done.
func PollMeta(ctx context.Context, src MetaSource, b *Broker, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last *models.IndexMeta
	poll := func() {
		meta, err := src.FetchIndexMeta(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Warn("meta poll failed", slog.String("error", err.Error()))
			}
			return
		}
		if last != nil && !last.Equal(meta) {
			logger.Info("index meta changed",
				slog.Int("agent_count", meta.AgentCount),
				slog.Int("interaction_count", meta.InteractionCount),
				slog.String("data_updated_on", meta.DataUpdatedOn))
			b.PublishMeta(*meta)
		}
		last = meta
	}

	logger.Info("meta poller: started", slog.Duration("interval", interval))
	poll()
	for {
		select {
		case <-ctx.Done():
			logger.Info("meta poller: stopped")
			return
		case <-ticker.C:
			poll()
		}
	}
}
