package reconcile

import (
	"catalog-sync/core/keycache"
	"catalog-sync/core/utils"
)

// ReferenceResolver replaces natural keys in drafts with cached identifiers.
type ReferenceResolver[D Draft, R Resource] struct {
	adapter Adapter[D, R]
	cache   *keycache.Cache
}

// NewReferenceResolver creates a resolver reading from cache.
func NewReferenceResolver[D Draft, R Resource](adapter Adapter[D, R], cache *keycache.Cache) *ReferenceResolver[D, R] {
	return &ReferenceResolver[D, R]{adapter: adapter, cache: cache}
}

// Resolve returns a copy of draft whose references all carry identifiers.
// The cache must already hold the referenced keys; see keycache.Cache.FillFor.
func (r *ReferenceResolver[D, R]) Resolve(draft D) (D, error) {
	entity := r.adapter.Kind()
	draftKey := draft.GetKey()

	return r.adapter.ResolveReferences(draft, func(field string, kind Kind, ref *Reference) (*Reference, error) {
		if ref == nil || ref.IsByID() {
			return ref, nil
		}
		if utils.IsBlank(ref.Key) {
			return nil, newBlankKeyError(entity, draftKey, field, kind)
		}

		id, ok := r.cache.ID(string(kind), ref.Key)
		if !ok {
			return nil, newMissingKeyError(entity, draftKey, field, kind, ref.Key)
		}

		typeID := ref.TypeID
		if typeID == "" {
			typeID = string(kind)
		}
		return &Reference{TypeID: typeID, ID: id}, nil
	})
}

// Missing returns, per referenced kind, the valid keys of draft that are not cached.
func (r *ReferenceResolver[D, R]) Missing(draft D) map[Kind][]string {
	missing := make(map[Kind][]string)
	for _, ref := range r.adapter.References(draft) {
		if !ref.Reference.IsByKey() || ref.Reference.HasBlankKey() {
			continue
		}
		if _, ok := r.cache.ID(string(ref.Kind), ref.Reference.Key); !ok {
			missing[ref.Kind] = append(missing[ref.Kind], ref.Reference.Key)
		}
	}
	for kind, keys := range missing {
		missing[kind] = utils.SortedUnique(keys)
	}
	return missing
}
