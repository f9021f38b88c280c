package reconcile

import (
	"context"

	"catalog-sync/core/keycache"
)

// Ref is one reference field of a draft.
type Ref struct {
	// Field names the draft field, e.g. "parent" or "categories".
	Field string
	// Kind is the kind of the referenced resource.
	Kind Kind
	// Reference is the value of the field. Nil when the field is absent.
	Reference *Reference
}

// ResolveFunc resolves one reference field. It returns the reference to store in the
// resolved draft.
type ResolveFunc func(field string, kind Kind, ref *Reference) (*Reference, error)

// Adapter supplies the entity specific parts of a sync.
// Every method must be safe for concurrent use and free of side effects.
type Adapter[D Draft, R Resource] interface {
	// Kind returns the kind of resource the adapter syncs.
	Kind() Kind

	// Validate runs entity specific checks on a draft whose key is already known to be set.
	// The returned error message is reported as is.
	Validate(draft D) error

	// References lists every reference field of the draft, collections included.
	References(draft D) []Ref

	// ResolveReferences returns a copy of draft with every reference replaced by the result
	// of resolve. The first error aborts the resolution.
	ResolveReferences(draft D, resolve ResolveFunc) (D, error)

	// Diff returns the ordered update actions that converge old towards draft and the
	// warnings for differences that cannot be expressed as actions. It must be deterministic.
	Diff(old R, draft D) ([]Action, []string)
}

// Service reads and writes resources of one kind on the remote platform.
type Service[D Draft, R Resource] interface {
	keycache.Lookup

	// FetchByKeys returns the existing resources whose keys are in keys.
	FetchByKeys(ctx context.Context, keys []string) ([]R, error)

	// FetchByKey returns the resource with the given key. The boolean is false when the
	// resource does not exist.
	FetchByKey(ctx context.Context, key string) (R, bool, error)

	// Create creates a resource from draft.
	Create(ctx context.Context, draft D) (R, error)

	// Update applies actions to resource using its version. It returns an error wrapping
	// ErrConflict when the version is stale.
	Update(ctx context.Context, resource R, actions []Action) (R, error)
}
