package reconcile

import (
	"fmt"

	"catalog-sync/core/utils"
)

// Rejection is a draft refused by the validator.
type Rejection[D Draft] struct {
	Draft   D
	Message string
}

// BatchValidator splits a batch into processable and rejected drafts.
type BatchValidator[D Draft, R Resource] struct {
	adapter Adapter[D, R]
}

// NewBatchValidator creates a validator for the adapter's drafts.
func NewBatchValidator[D Draft, R Resource](adapter Adapter[D, R]) *BatchValidator[D, R] {
	return &BatchValidator[D, R]{adapter: adapter}
}

// Validate checks every draft of batch. The first failing rule rejects a draft. Keys
// referenced by valid drafts are returned per referenced kind, sorted and deduplicated.
func (v *BatchValidator[D, R]) Validate(batch []D) (valid []D, referenced map[Kind][]string, rejected []Rejection[D]) {
	entity := v.adapter.Kind().Entity()
	referenced = make(map[Kind][]string)

	var zero D
	for _, draft := range batch {
		if draft == zero {
			rejected = append(rejected, Rejection[D]{Draft: draft, Message: fmt.Sprintf("%sDraft is null.", entity)})
			continue
		}
		if utils.IsBlank(draft.GetKey()) {
			rejected = append(rejected, Rejection[D]{
				Draft:   draft,
				Message: fmt.Sprintf("%sDraft with name: %s doesn't have a key.", entity, draft.DisplayName()),
			})
			continue
		}
		if err := v.adapter.Validate(draft); err != nil {
			rejected = append(rejected, Rejection[D]{Draft: draft, Message: err.Error()})
			continue
		}

		valid = append(valid, draft)
		for _, ref := range v.adapter.References(draft) {
			if ref.Reference.IsByKey() && !ref.Reference.HasBlankKey() {
				referenced[ref.Kind] = append(referenced[ref.Kind], ref.Reference.Key)
			}
		}
	}

	for kind, keys := range referenced {
		referenced[kind] = utils.SortedUnique(keys)
	}
	return valid, referenced, rejected
}
