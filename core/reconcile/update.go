package reconcile

import (
	"context"
	"errors"
	"fmt"

	"catalog-sync/core/utils"

	"go.uber.org/zap"
)

const (
	retryFetchFailedReason = "Failed to fetch from the platform while retrying after concurrency modification."
	retryNotFoundReason    = "Not found when attempting to fetch while retrying after concurrency modification."
)

func (r *run[D, R]) create(ctx context.Context, draft D) {
	var zeroR R
	var zeroD D

	toCreate := draft
	if r.opts.BeforeCreate != nil {
		toCreate = r.opts.BeforeCreate(draft)
		if toCreate == zeroD {
			r.stats.incrementSkipped()
			r.logger.Debug("Creation skipped by callback", zap.String("key", draft.GetKey()))
			return
		}
	}

	created, err := r.service.Create(ctx, toCreate)
	if err != nil {
		r.fail(fmt.Sprintf("Failed to create draft with key: '%s'. Reason: %v", draft.GetKey(), err), err, zeroR, draft, nil)
		return
	}

	r.cache.Add(string(r.adapter.Kind()), created.GetID(), created.GetKey())
	r.stats.incrementCreated()
	r.markSynced(ctx, draft.GetKey())
}

func (r *run[D, R]) update(ctx context.Context, old R, draft D) {
	r.updateWithRetry(ctx, old, draft, true)
}

// updateWithRetry diffs old against draft and applies the actions. On a version conflict
// it refetches the resource and tries once more when retry is set.
func (r *run[D, R]) updateWithRetry(ctx context.Context, old R, draft D, retry bool) {
	actions, warnings := r.adapter.Diff(old, draft)
	for _, w := range warnings {
		r.warn(w, old, draft)
	}

	if len(actions) > 0 && r.opts.BeforeUpdate != nil {
		actions = r.opts.BeforeUpdate(actions, draft, old)
	}
	if len(actions) == 0 {
		r.stats.incrementUnchanged()
		r.markSynced(ctx, draft.GetKey())
		return
	}

	updated, err := r.apply(ctx, old, actions)
	if err == nil {
		r.cache.Add(string(r.adapter.Kind()), updated.GetID(), updated.GetKey())
		r.stats.incrementUpdated()
		r.markSynced(ctx, draft.GetKey())
		return
	}

	if errors.Is(err, ErrConflict) && retry {
		r.logger.Debug("Update conflict, refetching", zap.String("key", draft.GetKey()))
		r.retryAfterConflict(ctx, old, draft, actions)
		return
	}

	r.fail(r.updateFailure(draft, err.Error()), err, old, draft, actions)
}

func (r *run[D, R]) retryAfterConflict(ctx context.Context, old R, draft D, actions []Action) {
	fresh, found, err := r.service.FetchByKey(ctx, draft.GetKey())
	if err != nil {
		r.fail(r.updateFailure(draft, retryFetchFailedReason), err, old, draft, actions)
		return
	}
	if !found {
		r.fail(r.updateFailure(draft, retryNotFoundReason), nil, old, draft, actions)
		return
	}
	r.updateWithRetry(ctx, fresh, draft, false)
}

// apply sends actions in requests of at most MaxActions actions.
func (r *run[D, R]) apply(ctx context.Context, resource R, actions []Action) (R, error) {
	current := resource
	for _, chunk := range utils.Chunk(actions, r.opts.MaxActions) {
		next, err := r.service.Update(ctx, current, chunk)
		if err != nil {
			return current, err
		}
		current = next
	}
	return current, nil
}

func (r *run[D, R]) updateFailure(draft D, reason string) string {
	return fmt.Sprintf("Failed to update %s with key: '%s'. Reason: %s", r.adapter.Kind().Name(), draft.GetKey(), reason)
}
