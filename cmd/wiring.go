package cmd

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"catalog-sync/core/config"
	"catalog-sync/core/database"
	"catalog-sync/core/deferred"
	"catalog-sync/core/keycache"
	"catalog-sync/core/logger"
	"catalog-sync/core/platform"
	"catalog-sync/core/storage"
	"catalog-sync/core/syncer"
	"catalog-sync/feature/category"
	"catalog-sync/feature/product"
	"catalog-sync/feature/state"
	"catalog-sync/feature/taxcategory"

	"go.uber.org/zap"
)

// runnerFactories maps the kind names accepted on the command line to their runners.
var runnerFactories = map[string]func(syncer.Deps) syncer.Runner{
	"category":    func(d syncer.Deps) syncer.Runner { return category.NewRunner(d) },
	"product":     func(d syncer.Deps) syncer.Runner { return product.NewRunner(d) },
	"taxcategory": func(d syncer.Deps) syncer.Runner { return taxcategory.NewRunner(d) },
	"state":       func(d syncer.Deps) syncer.Runner { return state.NewRunner(d) },
}

// kindNames lists the accepted kind names in order.
func kindNames() []string {
	names := make([]string, 0, len(runnerFactories))
	for name := range runnerFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// runnerFor returns the runner of the named kind.
func runnerFor(name string, deps syncer.Deps) (syncer.Runner, error) {
	factory, ok := runnerFactories[name]
	if !ok {
		return nil, fmt.Errorf("unknown kind %q, expected one of %v", name, kindNames())
	}
	return factory(deps), nil
}

// allRunners returns one runner per kind, sharing deps.
func allRunners(deps syncer.Deps) []syncer.Runner {
	runners := make([]syncer.Runner, 0, len(runnerFactories))
	for _, name := range kindNames() {
		runners = append(runners, runnerFactories[name](deps))
	}
	return runners
}

// setup loads the configuration and builds the logger.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}

// newStore opens the configured deferral backend. It returns nil when deferral is off.
func newStore(ctx context.Context, cfg *config.Config) (deferred.Store, error) {
	switch cfg.Deferral.Backend {
	case "", deferred.BackendNone:
		return nil, nil
	case deferred.BackendMemory:
		return deferred.NewMemoryStore(), nil
	case deferred.BackendDatabase:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, err
		}
		return deferred.NewGormStore(db, cfg.Deferral.PageSize)
	case deferred.BackendStorage:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return nil, err
		}
		return deferred.NewBucketStore(client, cfg.Storage.Bucket, cfg.Storage.Prefix), nil
	case deferred.BackendRedis:
		client := deferred.NewRedisClient(cfg.Redis)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return deferred.NewRedisStore(client, cfg.Redis.Prefix, cfg.Deferral.PageSize), nil
	}
	return nil, fmt.Errorf("unknown deferral backend %q", cfg.Deferral.Backend)
}

// newDeps builds the collaborators shared by every runner.
func newDeps(cfg *config.Config, l *zap.Logger, store deferred.Store) (syncer.Deps, error) {
	client := platform.NewClient(cfg.API, l)
	cache, err := keycache.New(client, keycache.Options{
		Size:     cfg.Sync.CacheSize,
		PageSize: client.PageSize(),
	})
	if err != nil {
		return syncer.Deps{}, err
	}

	return syncer.Deps{
		Client:   client,
		Cache:    cache,
		Store:    store,
		Sync:     cfg.Sync,
		Deferral: cfg.Deferral,
		Logger:   l,
	}, nil
}

// isKind reports whether name is an accepted kind name.
func isKind(name string) bool {
	return slices.Contains(kindNames(), name)
}
