package cmd

import (
	"context"
	"errors"
	"fmt"

	"catalog-sync/core/deferred"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cleanupDays is the retention of the cleanup command. Negative uses DEFERRAL_RETENTION_DAYS.
var cleanupDays int

// deferredCmd is the parent command for the deferred draft store.
var deferredCmd = &cobra.Command{
	Use:   "deferred",
	Short: "Inspect and clean up drafts waiting for missing references",
}

var deferredListCmd = &cobra.Command{
	Use:   "list [container]",
	Short: "List containers, or the waiting drafts of one container",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDeferredList,
}

var deferredCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete waiting drafts not modified for a number of days",
	Long: `Delete waiting drafts that were not modified within the retention window.

Examples:
  # Use the configured retention
  deferred cleanup

  # Delete everything older than a week
  deferred cleanup --days 7`,
	RunE: runDeferredCleanup,
}

func init() {
	deferredCleanupCmd.Flags().IntVar(&cleanupDays, "days", -1, "Retention in days (defaults to DEFERRAL_RETENTION_DAYS)")

	deferredCmd.AddCommand(deferredListCmd)
	deferredCmd.AddCommand(deferredCleanupCmd)
	RootCmd.AddCommand(deferredCmd)
}

// openStore opens the configured store and fails when deferral is off.
func openStore(ctx context.Context) (deferred.Store, *zap.Logger, int, error) {
	cfg, l, err := setup()
	if err != nil {
		return nil, nil, 0, err
	}
	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to open deferral store: %w", err)
	}
	if store == nil {
		return nil, nil, 0, errors.New("deferral is disabled, set DEFERRAL_BACKEND")
	}
	return store, l, cfg.Deferral.RetentionDays, nil
}

func runDeferredList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	store, l, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer l.Sync()

	if len(args) == 0 {
		containers, err := store.Containers(ctx)
		if err != nil {
			return err
		}
		l.Info("Deferred containers", zap.Strings("containers", containers))
		return nil
	}

	count := 0
	for entry, err := range store.Find(ctx, args[0]) {
		if err != nil {
			return err
		}
		count++
		l.Info("Waiting draft",
			zap.String("key", entry.Key),
			zap.Strings("missing", entry.MissingKeys),
			zap.Time("last_modified", entry.LastModified),
		)
	}
	l.Info("Listed waiting drafts", zap.String("container", args[0]), zap.Int("count", count))
	return nil
}

func runDeferredCleanup(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	store, l, retention, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer l.Sync()

	days := cleanupDays
	if days < 0 {
		days = retention
	}

	stats, err := deferred.NewCleaner(store, l).Run(ctx, days)
	if err != nil {
		return err
	}
	if stats.Failed > 0 {
		return fmt.Errorf("%d deferred drafts failed to delete", stats.Failed)
	}
	return nil
}
