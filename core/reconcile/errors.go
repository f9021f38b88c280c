package reconcile

import "fmt"

// BlankKeyReason is reported for a reference whose key is blank.
const BlankKeyReason = "The value of the 'key' field of the resource identifier is blank (null/empty)."

// ReferenceResolutionError reports a reference that could not be resolved.
type ReferenceResolutionError struct {
	// Entity is the kind of the draft being resolved.
	Entity Kind
	// DraftKey is the key of the draft being resolved.
	DraftKey string
	// Field is the reference field that failed.
	Field string
	// Kind is the kind of the referenced resource.
	Kind Kind
	// Key is the referenced key.
	Key string
	// Missing is true when the key is valid but no resource with that key exists.
	Missing bool
	// Reason describes the failure.
	Reason string
}

func (e *ReferenceResolutionError) Error() string {
	return fmt.Sprintf("Failed to resolve '%s' reference on %sDraft with key:'%s'. Reason: %s",
		e.Field, e.Entity.Entity(), e.DraftKey, e.Reason)
}

func newBlankKeyError(entity Kind, draftKey, field string, kind Kind) *ReferenceResolutionError {
	return &ReferenceResolutionError{
		Entity:   entity,
		DraftKey: draftKey,
		Field:    field,
		Kind:     kind,
		Reason:   BlankKeyReason,
	}
}

func newMissingKeyError(entity Kind, draftKey, field string, kind Kind, key string) *ReferenceResolutionError {
	return &ReferenceResolutionError{
		Entity:   entity,
		DraftKey: draftKey,
		Field:    field,
		Kind:     kind,
		Key:      key,
		Missing:  true,
		Reason:   fmt.Sprintf("%s with key '%s' doesn't exist.", kind.Entity(), key),
	}
}
