package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"catalog-sync/core/keycache"
	"catalog-sync/core/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Pipeline syncs drafts of one kind against the platform.
type Pipeline[D Draft, R Resource] struct {
	adapter   Adapter[D, R]
	service   Service[D, R]
	cache     *keycache.Cache
	validator *BatchValidator[D, R]
	resolver  *ReferenceResolver[D, R]
	opts      Options[D, R]
	logger    *zap.Logger
}

// NewPipeline creates a pipeline. When opts.Cache is nil a key cache of opts.CacheSize
// entries is created on top of service.
func NewPipeline[D Draft, R Resource](adapter Adapter[D, R], service Service[D, R], opts Options[D, R], logger *zap.Logger) (*Pipeline[D, R], error) {
	opts = opts.withDefaults(adapter.Kind())
	if logger == nil {
		logger = zap.NewNop()
	}

	cache := opts.Cache
	if cache == nil {
		var err error
		cache, err = keycache.New(service, keycache.Options{Size: opts.CacheSize})
		if err != nil {
			return nil, err
		}
	}

	return &Pipeline[D, R]{
		adapter:   adapter,
		service:   service,
		cache:     cache,
		validator: NewBatchValidator(adapter),
		resolver:  NewReferenceResolver(adapter, cache),
		opts:      opts,
		logger:    logger.With(zap.String("kind", string(adapter.Kind()))),
	}, nil
}

// Cache returns the key cache of the pipeline.
func (p *Pipeline[D, R]) Cache() *keycache.Cache {
	return p.cache
}

// run is the state of one Sync call.
type run[D Draft, R Resource] struct {
	*Pipeline[D, R]
	stats  *Statistics
	logger *zap.Logger

	mu      sync.Mutex
	waiting map[string]*waitingDraft // by draft key
	synced  []string                 // keys synced in the current batch
}

// Sync processes drafts batch by batch and returns the statistics of the run.
// Failures are reported through the callbacks and counted; Sync never fails as a whole.
func (p *Pipeline[D, R]) Sync(ctx context.Context, drafts []D) *Statistics {
	runID := uuid.NewString()
	r := &run[D, R]{
		Pipeline: p,
		stats:    NewStatistics(runID, p.adapter.Kind(), p.opts.Deferral != nil),
		logger:   p.logger.With(zap.String("run_id", runID)),
		waiting:  make(map[string]*waitingDraft),
	}

	r.logger.Info("Sync started",
		zap.Int("drafts", len(drafts)),
		zap.Int("batch_size", p.opts.BatchSize),
	)

	if p.opts.Deferral != nil {
		r.loadWaiting(ctx)
	}

	for i, batch := range utils.Chunk(drafts, p.opts.BatchSize) {
		r.logger.Debug("Processing batch", zap.Int("batch", i), zap.Int("size", len(batch)))
		synced := r.processBatch(ctx, batch)
		r.stats.incrementProcessed(len(batch))
		r.resumeWaiting(ctx, synced)
	}

	r.stats.finish()
	r.logger.Info("Sync finished",
		zap.String("summary", r.stats.ReportMessage()),
		zap.Int64("processed", r.stats.Processed()),
		zap.Int64("created", r.stats.Created()),
		zap.Int64("updated", r.stats.Updated()),
		zap.Int64("unchanged", r.stats.Unchanged()),
		zap.Int64("failed", r.stats.Failed()),
		zap.Int64("unresolved", r.stats.Unresolved()),
		zap.Duration("duration", r.stats.Duration()),
	)
	return r.stats
}

// processBatch brings every draft of batch to a terminal state and returns the keys of
// the drafts that were synced successfully.
func (r *run[D, R]) processBatch(ctx context.Context, batch []D) []string {
	var zeroR R

	valid, referenced, rejected := r.validator.Validate(batch)
	for _, rej := range rejected {
		r.fail(rej.Message, nil, zeroR, rej.Draft, nil)
	}
	if len(valid) == 0 {
		return nil
	}

	if err := r.fillCache(ctx, referenced); err != nil {
		for _, d := range valid {
			r.fail("Failed to build a cache of keys to ids.", err, zeroR, d, nil)
		}
		return nil
	}

	resolved := r.resolveAll(ctx, valid)
	if len(resolved) == 0 {
		return r.takeSynced()
	}

	keys := make([]string, len(resolved))
	for i, d := range resolved {
		keys[i] = d.GetKey()
	}

	existing, err := r.service.FetchByKeys(ctx, keys)
	if err != nil {
		msg := fmt.Sprintf("Failed to fetch existing %s with keys: '%s'.", r.adapter.Kind().Plural(), strings.Join(keys, ", "))
		for _, d := range resolved {
			r.fail(msg, err, zeroR, d, nil)
		}
		return r.takeSynced()
	}

	byKey := make(map[string]R, len(existing))
	for _, res := range existing {
		byKey[res.GetKey()] = res
		r.cache.Add(string(r.adapter.Kind()), res.GetID(), res.GetKey())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for _, d := range resolved {
		g.Go(func() error {
			if old, ok := byKey[d.GetKey()]; ok {
				r.update(gctx, old, d)
			} else {
				r.create(gctx, d)
			}
			return nil
		})
	}
	_ = g.Wait()

	return r.takeSynced()
}

func (r *run[D, R]) fillCache(ctx context.Context, referenced map[Kind][]string) error {
	kinds := make([]Kind, 0, len(referenced))
	for kind := range referenced {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	for _, kind := range kinds {
		if err := r.cache.FillFor(ctx, string(kind), referenced[kind]); err != nil {
			return err
		}
	}
	return nil
}

// resolveAll resolves the references of every draft concurrently. Drafts that cannot be
// resolved are failed or deferred; the resolved copies are returned in input order.
func (r *run[D, R]) resolveAll(ctx context.Context, drafts []D) []D {
	var zeroR R
	resolved := make([]D, len(drafts))
	ok := make([]bool, len(drafts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for i, d := range drafts {
		g.Go(func() error {
			out, err := r.resolver.Resolve(d)
			if err == nil {
				resolved[i], ok[i] = out, true
				return nil
			}
			if r.canDefer(err) {
				r.deferDraft(gctx, d, err)
				return nil
			}
			r.fail(err.Error(), err, zeroR, d, nil)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]D, 0, len(drafts))
	for i := range drafts {
		if ok[i] {
			out = append(out, resolved[i])
		}
	}
	return out
}

func (r *run[D, R]) fail(message string, cause error, old R, draft D, actions []Action) {
	r.stats.incrementFailed()

	fields := []zap.Field{zap.String("reason", message)}
	var zero D
	if draft != zero {
		fields = append(fields, zap.String("key", draft.GetKey()))
	}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	r.logger.Warn("Draft failed to sync", fields...)

	if r.opts.ErrorCallback != nil {
		r.opts.ErrorCallback(message, cause, old, draft, actions)
	}
}

func (r *run[D, R]) warn(message string, old R, draft D) {
	r.logger.Debug("Sync warning", zap.String("key", draft.GetKey()), zap.String("warning", message))
	if r.opts.WarningCallback != nil {
		r.opts.WarningCallback(message, old, draft)
	}
}

func (r *run[D, R]) markSynced(ctx context.Context, key string) {
	r.mu.Lock()
	r.synced = append(r.synced, key)
	r.mu.Unlock()
	r.forget(ctx, key)
}

func (r *run[D, R]) takeSynced() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.synced
	r.synced = nil
	return out
}

// encodeDraft is used to persist waiting drafts.
func encodeDraft[D Draft](draft D) (json.RawMessage, error) {
	return json.Marshal(draft)
}
