package reconcile

import (
	"encoding/json"
	"reflect"
)

// UpdateIf returns the action built by build when old and new differ.
func UpdateIf[T comparable](old, new T, build func() Action) []Action {
	if old == new {
		return nil
	}
	return []Action{build()}
}

// UpdateIfChanged is UpdateIf for values compared with Equal.
func UpdateIfChanged[T any](old, new T, build func() Action) []Action {
	if Equal(old, new) {
		return nil
	}
	return []Action{build()}
}

// Equal reports whether a and b hold the same value. Nil and empty maps or slices are equal,
// pointers are compared by what they point to.
func Equal(a, b any) bool {
	return valueEqual(reflect.ValueOf(a), reflect.ValueOf(b))
}

func valueEqual(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return isEmpty(a) && isEmpty(b)
	}
	if a.Type() != b.Type() {
		return false
	}

	switch a.Kind() {
	case reflect.Pointer, reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return valueEqual(a.Elem(), b.Elem())
	case reflect.Map:
		if a.Len() != b.Len() {
			return false
		}
		iter := a.MapRange()
		for iter.Next() {
			other := b.MapIndex(iter.Key())
			if !other.IsValid() || !valueEqual(iter.Value(), other) {
				return false
			}
		}
		return true
	case reflect.Slice, reflect.Array:
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !valueEqual(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !valueEqual(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	default:
		return a.Equal(b)
	}
}

func isEmpty(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Map, reflect.Slice:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// DiffCollection diffs two collections whose items are matched by a stable sub-key.
// It returns the removals of old items without a match (in old order), then the changes
// of matched items (in new order), then the additions of new items (in new order).
// Only the first item of a duplicated sub-key takes part in the diff.
func DiffCollection[O, N any](
	old []O,
	new []N,
	oldKey func(O) string,
	newKey func(N) string,
	remove func(O) []Action,
	change func(O, N) []Action,
	add func(N) []Action,
) []Action {
	oldByKey := make(map[string]O, len(old))
	for _, o := range old {
		k := oldKey(o)
		if _, dup := oldByKey[k]; !dup {
			oldByKey[k] = o
		}
	}
	newKeys := make(map[string]struct{}, len(new))
	for _, n := range new {
		newKeys[newKey(n)] = struct{}{}
	}

	var removals, changes, additions []Action
	seenOld := make(map[string]struct{}, len(old))
	for _, o := range old {
		k := oldKey(o)
		if _, dup := seenOld[k]; dup {
			continue
		}
		seenOld[k] = struct{}{}
		if _, kept := newKeys[k]; !kept && remove != nil {
			removals = append(removals, remove(o)...)
		}
	}

	seenNew := make(map[string]struct{}, len(new))
	for _, n := range new {
		k := newKey(n)
		if _, dup := seenNew[k]; dup {
			continue
		}
		seenNew[k] = struct{}{}
		if o, exists := oldByKey[k]; exists {
			if change != nil {
				changes = append(changes, change(o, n)...)
			}
		} else if add != nil {
			additions = append(additions, add(n)...)
		}
	}

	out := make([]Action, 0, len(removals)+len(changes)+len(additions))
	out = append(out, removals...)
	out = append(out, changes...)
	return append(out, additions...)
}

// JSONEqual reports whether a and b encode the same JSON value. Absent and null values are
// equal; invalid JSON is compared byte by byte.
func JSONEqual(a, b json.RawMessage) bool {
	var av, bv any
	errA := json.Unmarshal(orNull(a), &av)
	errB := json.Unmarshal(orNull(b), &bv)
	if errA != nil || errB != nil {
		return string(a) == string(b)
	}
	return reflect.DeepEqual(av, bv)
}

func orNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}
