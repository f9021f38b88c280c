package cmd

import (
	"context"
	"fmt"

	"catalog-sync/core/syncer"
	"catalog-sync/core/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	syncFile      string
	syncBatchSize int
	syncNoDefer   bool
)

// syncCmd syncs a file of drafts of one kind.
var syncCmd = &cobra.Command{
	Use:   "sync <kind>",
	Short: "Sync a JSON or YAML file of drafts to the platform",
	Long: `Sync reads a list of drafts and converges the platform towards them.

Existing resources (matched by key) are updated, missing ones are created.
Drafts referencing resources of the same kind that do not exist yet are
deferred to the configured store and synced once the references appear.

Examples:
  sync category --file categories.json
  sync product --file products.yaml --batch-size 20
  sync state --file states.json --no-defer`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(1)(cmd, args); err != nil {
			return err
		}
		if !isKind(args[0]) {
			return fmt.Errorf("unknown kind %q, expected one of %v", args[0], kindNames())
		}
		return nil
	},
	ValidArgs: kindNames(),
	RunE:      runSync,
}

func init() {
	syncCmd.Flags().StringVarP(&syncFile, "file", "f", "", "Path to the drafts file (.json, .yaml or .yml)")
	syncCmd.Flags().IntVar(&syncBatchSize, "batch-size", 0, "Drafts per batch (defaults to SYNC_BATCH_SIZE)")
	syncCmd.Flags().BoolVar(&syncNoDefer, "no-defer", false, "Fail drafts with missing references instead of deferring them")
	_ = syncCmd.MarkFlagRequired("file")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, l, err := setup()
	if err != nil {
		return err
	}
	defer l.Sync()

	store, err := newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open deferral store: %w", err)
	}

	deps, err := newDeps(cfg, l, store)
	if err != nil {
		return err
	}

	runner, err := runnerFor(args[0], deps)
	if err != nil {
		return err
	}

	l.Info("Starting sync", zap.String("kind", args[0]), zap.String("file", syncFile))
	result, err := runner.Run(ctx, func(out any) error {
		return utils.DecodeFile(syncFile, out)
	}, syncer.RunOptions{BatchSize: syncBatchSize, NoDefer: syncNoDefer})
	if err != nil {
		return err
	}

	printSyncResult(l, result)
	if result.Failed > 0 {
		return fmt.Errorf("%d drafts failed to sync", result.Failed)
	}
	return nil
}

// printSyncResult logs the counters and a sample of the reported messages.
func printSyncResult(l *zap.Logger, result *syncer.Result) {
	l.Info(result.Message,
		zap.String("run_id", result.RunID),
		zap.Int64("processed", result.Processed),
		zap.Int64("created", result.Created),
		zap.Int64("updated", result.Updated),
		zap.Int64("unchanged", result.Unchanged),
		zap.Int64("failed", result.Failed),
		zap.Int64("unresolved", result.Unresolved),
		zap.Int64("skipped", result.Skipped),
	)

	for _, w := range result.Warnings {
		l.Warn(w)
	}

	const maxShow = 10
	for i, e := range result.Errors {
		if i == maxShow {
			l.Info("Additional errors not shown", zap.Int("count", len(result.Errors)-maxShow))
			break
		}
		l.Error(e)
	}
}
