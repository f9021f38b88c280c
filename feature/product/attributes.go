package product

import (
	"bytes"
	"encoding/json"

	"catalog-sync/core/reconcile"
)

// productRef decodes value as a product reference. Objects of any other shape are not
// references.
func productRef(value json.RawMessage) (*reconcile.Reference, bool) {
	var ref reconcile.Reference
	if err := json.Unmarshal(value, &ref); err != nil {
		return nil, false
	}
	if ref.TypeID != string(reconcile.KindProduct) {
		return nil, false
	}
	return &ref, true
}

// attributeRefs lists the product references held by value: a single reference or the
// references of an array.
func attributeRefs(value json.RawMessage) []*reconcile.Reference {
	switch firstByte(value) {
	case '{':
		if ref, ok := productRef(value); ok {
			return []*reconcile.Reference{ref}
		}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(value, &items); err != nil {
			return nil
		}
		var refs []*reconcile.Reference
		for _, item := range items {
			if ref, ok := productRef(item); ok {
				refs = append(refs, ref)
			}
		}
		return refs
	}
	return nil
}

// resolveAttribute returns value with every product reference replaced by the result of
// resolve. Values without references are returned unchanged.
func resolveAttribute(field string, value json.RawMessage, resolve reconcile.ResolveFunc) (json.RawMessage, error) {
	replace := func(item json.RawMessage) (json.RawMessage, error) {
		ref, ok := productRef(item)
		if !ok {
			return item, nil
		}
		resolved, err := resolve(field, reconcile.KindProduct, ref)
		if err != nil {
			return nil, err
		}
		return json.Marshal(resolved)
	}

	switch firstByte(value) {
	case '{':
		return replace(value)
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(value, &items); err != nil {
			return value, nil
		}
		changed := false
		for i, item := range items {
			out, err := replace(item)
			if err != nil {
				return nil, err
			}
			if !bytes.Equal(out, item) {
				items[i] = out
				changed = true
			}
		}
		if !changed {
			return value, nil
		}
		return json.Marshal(items)
	}
	return value, nil
}

func firstByte(value json.RawMessage) byte {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// attributesByName indexes attributes by name. The first of duplicated names wins.
func attributesByName(attrs []Attribute) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(attrs))
	for _, a := range attrs {
		if _, dup := out[a.Name]; !dup {
			out[a.Name] = a.Value
		}
	}
	return out
}
