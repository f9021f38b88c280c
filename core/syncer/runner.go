package syncer

import (
	"context"
	"fmt"
	"sync"

	"catalog-sync/core/deferred"
	"catalog-sync/core/keycache"
	"catalog-sync/core/platform"
	"catalog-sync/core/reconcile"

	"go.uber.org/zap"
)

// maxMessages bounds the messages kept per Result.
const maxMessages = 100

// Deps are the collaborators shared by the runners of every kind.
type Deps struct {
	Client *platform.Client
	// Cache is shared so references resolved by one kind serve the others.
	Cache *keycache.Cache
	// Store keeps deferred drafts. Nil disables deferral.
	Store    deferred.Store
	Sync     reconcile.Config
	Deferral deferred.Config
	Logger   *zap.Logger
}

// RunOptions override the configuration for a single run.
type RunOptions struct {
	// BatchSize overrides Config.BatchSize when positive.
	BatchSize int
	// NoDefer fails drafts with missing references even when a store is configured.
	NoDefer bool
}

// Result is the outcome of a run.
type Result struct {
	reconcile.Report
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	// Truncated is set when more messages were reported than kept.
	Truncated bool `json:"truncated,omitempty"`
}

// Runner syncs drafts of one kind.
type Runner interface {
	Kind() reconcile.Kind
	// Route is the path segment of the HTTP feature, e.g. "tax-categories".
	Route() string
	// Run decodes a draft list through decode and syncs it.
	Run(ctx context.Context, decode func(out any) error, opts RunOptions) (*Result, error)
}

// Typed is the Runner of drafts D and resources R.
type Typed[D reconcile.Draft, R reconcile.Resource] struct {
	adapter reconcile.Adapter[D, R]
	service reconcile.Service[D, R]
	route   string
	deps    Deps
}

// New creates a runner writing through the platform endpoint of the adapter's kind.
func New[D reconcile.Draft, R reconcile.Resource](adapter reconcile.Adapter[D, R], route string, deps Deps) *Typed[D, R] {
	return NewWithService[D, R](adapter, platform.NewEndpoint[D, R](deps.Client, adapter.Kind()), route, deps)
}

// NewWithService creates a runner writing through service.
func NewWithService[D reconcile.Draft, R reconcile.Resource](adapter reconcile.Adapter[D, R], service reconcile.Service[D, R], route string, deps Deps) *Typed[D, R] {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Typed[D, R]{adapter: adapter, service: service, route: route, deps: deps}
}

func (t *Typed[D, R]) Kind() reconcile.Kind { return t.adapter.Kind() }
func (t *Typed[D, R]) Route() string        { return t.route }

func (t *Typed[D, R]) Run(ctx context.Context, decode func(out any) error, opts RunOptions) (*Result, error) {
	var drafts []D
	if err := decode(&drafts); err != nil {
		return nil, fmt.Errorf("failed to decode %s drafts: %w", t.adapter.Kind().Name(), err)
	}
	return t.Sync(ctx, drafts, opts)
}

// Sync runs a pipeline over drafts.
func (t *Typed[D, R]) Sync(ctx context.Context, drafts []D, opts RunOptions) (*Result, error) {
	res := &Result{}
	var mu sync.Mutex
	record := func(list *[]string, msg string) {
		mu.Lock()
		defer mu.Unlock()
		if len(*list) >= maxMessages {
			res.Truncated = true
			return
		}
		*list = append(*list, msg)
	}

	options := reconcile.Options[D, R]{
		BatchSize:   t.deps.Sync.BatchSize,
		Concurrency: t.deps.Sync.Concurrency,
		MaxActions:  t.deps.Sync.MaxActions,
		CacheSize:   t.deps.Sync.CacheSize,
		Cache:       t.deps.Cache,
		ErrorCallback: func(message string, _ error, _ R, _ D, _ []reconcile.Action) {
			record(&res.Errors, message)
		},
		WarningCallback: func(message string, _ R, _ D) {
			record(&res.Warnings, message)
		},
	}
	if opts.BatchSize > 0 {
		options.BatchSize = opts.BatchSize
	}
	if t.deps.Store != nil && !opts.NoDefer {
		options.Deferral = &reconcile.Deferral{Store: t.deps.Store}
		if t.deps.Deferral.ContainerPrefix != "" {
			options.Deferral.Container = t.deps.Deferral.Container(string(t.adapter.Kind()))
		}
	}

	pipeline, err := reconcile.NewPipeline(t.adapter, t.service, options, t.deps.Logger)
	if err != nil {
		return nil, err
	}

	stats := pipeline.Sync(ctx, drafts)
	res.Report = stats.Report()
	return res, nil
}
