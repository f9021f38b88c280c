package deferred

import (
	"context"
	"fmt"

	"catalog-sync/core/deferred"

	"go.uber.org/zap"
)

// Service reads and cleans up the deferred draft store.
type Service struct {
	store         deferred.Store
	retentionDays int
	logger        *zap.Logger
}

// NewService creates a new deferred draft service.
func NewService(store deferred.Store, retentionDays int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, retentionDays: retentionDays, logger: logger}
}

// Containers lists the known containers.
func (s *Service) Containers(ctx context.Context) ([]string, error) {
	return s.store.Containers(ctx)
}

// List returns every waiting draft of container.
func (s *Service) List(ctx context.Context, container string) ([]deferred.Entry, error) {
	entries := []deferred.Entry{}
	for entry, err := range s.store.Find(ctx, container) {
		if err != nil {
			return nil, fmt.Errorf("failed to list container %s: %w", container, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Cleanup deletes the drafts not modified within days. A negative value uses the
// configured retention.
func (s *Service) Cleanup(ctx context.Context, days int) (deferred.CleanupStatistics, error) {
	if days < 0 {
		days = s.retentionDays
	}
	return deferred.NewCleaner(s.store, s.logger).Run(ctx, days)
}
