package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"catalog-sync/core/deferred"
	"catalog-sync/core/utils"

	"go.uber.org/zap"
)

// waitingDraft is a deferred draft known to the current run.
type waitingDraft struct {
	key     string
	raw     json.RawMessage
	missing map[string]struct{}
	// deferredThisRun is set when the draft came from this run's input and was
	// already counted as processed and unresolved.
	deferredThisRun bool
	// resuming is set once the draft was handed back to the pipeline.
	resuming bool
}

// canDefer reports whether err only means that a sibling resource does not exist yet.
func (r *run[D, R]) canDefer(err error) bool {
	if r.opts.Deferral == nil {
		return false
	}
	var rerr *ReferenceResolutionError
	return errors.As(err, &rerr) && rerr.Missing && rerr.Kind == r.adapter.Kind()
}

// deferDraft saves draft as waiting for its missing sibling references. A draft that also
// misses references of another kind fails instead.
func (r *run[D, R]) deferDraft(ctx context.Context, draft D, cause error) {
	var zeroR R
	own := r.adapter.Kind()
	key := draft.GetKey()

	for _, ref := range r.adapter.References(draft) {
		if ref.Kind == own || !ref.Reference.IsByKey() || ref.Reference.HasBlankKey() {
			continue
		}
		if _, ok := r.cache.ID(string(ref.Kind), ref.Reference.Key); !ok {
			err := newMissingKeyError(own, key, ref.Field, ref.Kind, ref.Reference.Key)
			r.fail(err.Error(), err, zeroR, draft, nil)
			return
		}
	}

	siblings := r.resolver.Missing(draft)[own]
	if len(siblings) == 0 {
		r.fail(cause.Error(), cause, zeroR, draft, nil)
		return
	}

	raw, err := encodeDraft(draft)
	if err != nil {
		r.fail(fmt.Sprintf("Failed to encode draft with key: '%s'.", key), err, zeroR, draft, nil)
		return
	}

	_, err = r.opts.Deferral.Store.Save(ctx, r.opts.Deferral.Container, deferred.WaitingDraft{
		Key:         key,
		Draft:       raw,
		MissingKeys: siblings,
	})
	if err != nil {
		r.fail(fmt.Sprintf("Failed to save draft with key: '%s' as waiting for missing references.", key), err, zeroR, draft, nil)
		return
	}

	r.stats.incrementUnresolved()
	r.mu.Lock()
	r.waiting[key] = &waitingDraft{
		key:             key,
		raw:             raw,
		missing:         toSet(siblings),
		deferredThisRun: true,
	}
	r.mu.Unlock()

	r.logger.Debug("Draft deferred", zap.String("key", key), zap.Strings("missing", siblings))
}

// forget deletes the waiting entry of a draft that has just been synced.
func (r *run[D, R]) forget(ctx context.Context, key string) {
	if r.opts.Deferral == nil {
		return
	}

	r.mu.Lock()
	_, ok := r.waiting[key]
	delete(r.waiting, key)
	r.mu.Unlock()
	if !ok {
		return
	}

	id := deferred.ComposeID(r.opts.Deferral.Container, key)
	if err := r.opts.Deferral.Store.Delete(ctx, id); err != nil && !errors.Is(err, deferred.ErrNotFound) {
		r.logger.Warn("Failed to delete resolved deferred draft", zap.String("id", id), zap.Error(err))
	}
}

// loadWaiting reads the deferral container once and resumes the drafts whose missing
// references exist by now.
func (r *run[D, R]) loadWaiting(ctx context.Context) {
	container := r.opts.Deferral.Container

	var keys []string
	r.mu.Lock()
	for entry, err := range r.opts.Deferral.Store.Find(ctx, container) {
		if err != nil {
			r.logger.Warn("Failed to load deferred drafts", zap.String("container", container), zap.Error(err))
			break
		}
		r.waiting[entry.Key] = &waitingDraft{
			key:     entry.Key,
			raw:     entry.Draft,
			missing: toSet(entry.MissingKeys),
		}
		keys = append(keys, entry.MissingKeys...)
	}
	count := len(r.waiting)
	r.mu.Unlock()

	if count == 0 {
		return
	}
	r.logger.Info("Loaded deferred drafts", zap.String("container", container), zap.Int("count", count))

	kind := string(r.adapter.Kind())
	if err := r.cache.FillFor(ctx, kind, keys); err != nil {
		r.logger.Warn("Failed to look up keys of deferred drafts", zap.Error(err))
		return
	}

	ready := r.collectReady(func(key string) bool {
		_, ok := r.cache.ID(kind, key)
		return ok
	})
	r.resumeWaiting(ctx, r.resume(ctx, ready))
}

// resumeWaiting hands back every waiting draft whose missing references were all synced,
// repeating while resumed drafts unblock further ones.
func (r *run[D, R]) resumeWaiting(ctx context.Context, synced []string) {
	if r.opts.Deferral == nil {
		return
	}

	for len(synced) > 0 {
		done := toSet(synced)
		ready := r.collectReady(func(key string) bool {
			_, ok := done[key]
			return ok
		})
		if len(ready) == 0 {
			return
		}
		synced = r.resume(ctx, ready)
	}
}

// collectReady drops the resolved keys from every waiting draft and returns the drafts
// left with nothing missing, ordered by key.
func (r *run[D, R]) collectReady(resolved func(key string) bool) []*waitingDraft {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ready []*waitingDraft
	for _, w := range r.waiting {
		if w.resuming {
			continue
		}
		for key := range w.missing {
			if resolved(key) {
				delete(w.missing, key)
			}
		}
		if len(w.missing) == 0 {
			w.resuming = true
			ready = append(ready, w)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i].key < ready[j].key })
	return ready
}

// resume syncs waiting drafts in batches and returns the keys synced.
// Drafts deferred earlier in this run were already counted as processed; they move out of
// the unresolved counter instead.
func (r *run[D, R]) resume(ctx context.Context, ready []*waitingDraft) []string {
	var zeroD D
	drafts := make([]D, 0, len(ready))
	counted := make([]bool, 0, len(ready))
	for _, w := range ready {
		var d D
		if err := json.Unmarshal(w.raw, &d); err != nil || d == zeroD {
			r.logger.Warn("Failed to decode deferred draft", zap.String("key", w.key), zap.Error(err))
			continue
		}
		drafts = append(drafts, d)
		counted = append(counted, w.deferredThisRun)
	}

	var synced []string
	start := 0
	for _, batch := range utils.Chunk(drafts, r.opts.BatchSize) {
		extra := 0
		for i := range batch {
			if counted[start+i] {
				r.stats.decrementUnresolved()
			} else {
				extra++
			}
		}
		r.logger.Debug("Resuming deferred drafts", zap.Int("size", len(batch)))
		synced = append(synced, r.processBatch(ctx, batch)...)
		r.stats.incrementProcessed(extra)
		start += len(batch)
	}
	return synced
}

func toSet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}
