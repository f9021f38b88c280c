package deferred

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const deleteConcurrency = 10

// CleanupStatistics counts the outcome of a cleanup run.
type CleanupStatistics struct {
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}

// ReportMessage summarizes the run.
func (s CleanupStatistics) ReportMessage() string {
	return fmt.Sprintf("Summary: %d deferred drafts were deleted in total (%d failed to delete).", s.Deleted, s.Failed)
}

// Cleaner deletes waiting drafts that were not modified within a retention window.
type Cleaner struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewCleaner creates a Cleaner for store.
func NewCleaner(store Store, logger *zap.Logger) *Cleaner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cleaner{store: store, logger: logger, now: time.Now}
}

// Run deletes every entry of every container last modified more than days ago.
// Entries that vanish before they are deleted are not counted.
func (c *Cleaner) Run(ctx context.Context, days int) (CleanupStatistics, error) {
	if days < 0 {
		return CleanupStatistics{}, fmt.Errorf("retention must not be negative, got %d days", days)
	}
	cutoff := c.now().Add(-time.Duration(days) * 24 * time.Hour)

	containers, err := c.store.Containers(ctx)
	if err != nil {
		return CleanupStatistics{}, err
	}

	var deleted, failed atomic.Int64
	for _, container := range containers {
		var stale []string
		for entry, err := range c.store.Find(ctx, container) {
			if err != nil {
				return CleanupStatistics{Deleted: int(deleted.Load()), Failed: int(failed.Load())}, err
			}
			if entry.LastModified.Before(cutoff) {
				stale = append(stale, entry.ID)
			}
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(deleteConcurrency)
		for _, id := range stale {
			g.Go(func() error {
				err := c.store.Delete(gctx, id)
				switch {
				case err == nil:
					deleted.Add(1)
				case errors.Is(err, ErrNotFound):
				default:
					failed.Add(1)
					c.logger.Warn("Failed to delete deferred draft", zap.String("id", id), zap.Error(err))
				}
				return nil
			})
		}
		_ = g.Wait()

		c.logger.Debug("Cleaned deferred container",
			zap.String("container", container),
			zap.Int("stale", len(stale)),
		)
	}

	stats := CleanupStatistics{Deleted: int(deleted.Load()), Failed: int(failed.Load())}
	c.logger.Info(stats.ReportMessage(), zap.Int("retention_days", days))
	return stats, nil
}
