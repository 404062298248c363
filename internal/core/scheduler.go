package core

// scheduler.go runs background maintenance for staged uploads.
//
// Staged files are only needed between upload and analysis. The janitor
// deletes anything older than the retention period on a fixed interval. A
// failed pass is logged and retried on the next tick.

import (
	"context"
	"log/slog"
	"time"
)

// JanitorConfig holds configuration for the staging janitor.
type JanitorConfig struct {
	Retention     time.Duration // Age after which staged files are deleted (default: 24h)
	CheckInterval time.Duration // How often to run (default: 1h)
}

const (
	defaultRetention     = 24 * time.Hour
	defaultCheckInterval = time.Hour
)

// StartStagingJanitor purges expired staged files now and then every
// CheckInterval until ctx is cancelled. It blocks; run it in a goroutine.
func (s *Service) StartStagingJanitor(ctx context.Context, cfg JanitorConfig) {
	if cfg.Retention <= 0 {
		cfg.Retention = defaultRetention
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = defaultCheckInterval
	}

	slog.Info("staging janitor started",
		"retention", cfg.Retention.String(),
		"interval", cfg.CheckInterval.String(),
	)

	s.runJanitor(ctx, cfg.Retention)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("staging janitor stopped")
			return
		case <-ticker.C:
			s.runJanitor(ctx, cfg.Retention)
		}
	}
}

// runJanitor performs one purge pass.
func (s *Service) runJanitor(ctx context.Context, retention time.Duration) {
	start := time.Now()
	cutoff := start.Add(-retention)

	purged, err := s.store.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		slog.Error("staging purge failed", "error", err)
		return
	}

	slog.Info("staging purge completed",
		"files_purged", purged,
		"cutoff", cutoff.UTC().Format(time.RFC3339),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
