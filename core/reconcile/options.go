package reconcile

import (
	"catalog-sync/core/deferred"
	"catalog-sync/core/keycache"
)

const (
	DefaultBatchSize   = 50
	DefaultConcurrency = 50
	// DefaultMaxActions is the number of update actions the platform accepts per request.
	DefaultMaxActions = 500
)

// ErrorCallback receives every failure. old, draft and actions are zero when unknown.
type ErrorCallback[D Draft, R Resource] func(message string, cause error, old R, draft D, actions []Action)

// WarningCallback receives messages that do not fail the draft.
type WarningCallback[D Draft, R Resource] func(message string, old R, draft D)

// BeforeCreateCallback may replace the draft before it is created. Returning nil skips
// the creation.
type BeforeCreateCallback[D Draft] func(draft D) D

// BeforeUpdateCallback may replace the update actions. It is only called with a non-empty
// list; an empty result means nothing is updated.
type BeforeUpdateCallback[D Draft, R Resource] func(actions []Action, draft D, old R) []Action

// Options configures a Pipeline. Callbacks may be called concurrently.
type Options[D Draft, R Resource] struct {
	// BatchSize is the number of drafts processed together. Defaults to DefaultBatchSize.
	BatchSize int
	// Concurrency bounds the drafts of one batch written at the same time.
	Concurrency int
	// MaxActions bounds the actions sent in one update request.
	MaxActions int
	// CacheSize bounds the key cache built when Cache is nil.
	CacheSize int
	// Cache is an existing key cache to reuse across runs.
	Cache *keycache.Cache

	ErrorCallback   ErrorCallback[D, R]
	WarningCallback WarningCallback[D, R]
	BeforeCreate    BeforeCreateCallback[D]
	BeforeUpdate    BeforeUpdateCallback[D, R]

	// Deferral parks drafts with missing sibling references instead of failing them.
	Deferral *Deferral
}

// Deferral configures where drafts waiting for missing references are kept.
type Deferral struct {
	Store deferred.Store
	// Container groups the waiting drafts of this pipeline. Defaults to DefaultContainer.
	Container string
}

// DefaultContainer returns the default deferral container for kind.
func DefaultContainer(kind Kind) string {
	return "catalogsync.unresolved." + string(kind)
}

func (o Options[D, R]) withDefaults(kind Kind) Options[D, R] {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.MaxActions <= 0 {
		o.MaxActions = DefaultMaxActions
	}
	if o.CacheSize <= 0 {
		o.CacheSize = keycache.DefaultSize
	}
	if o.Deferral != nil && o.Deferral.Store == nil {
		o.Deferral = nil
	}
	if o.Deferral != nil {
		d := *o.Deferral
		if d.Container == "" {
			d.Container = DefaultContainer(kind)
		}
		o.Deferral = &d
	}
	return o
}
