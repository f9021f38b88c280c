package reconcile

import "strings"

// Reference points from a draft to another resource, either by natural key or by
// identifier. A reference carrying a key (or carrying neither) is resolved through the key
// cache; a reference carrying only an id is taken as is.
type Reference struct {
	TypeID string `json:"typeId,omitempty"`
	ID     string `json:"id,omitempty"`
	Key    string `json:"key,omitempty"`
}

// ByKey returns a reference to the resource of kind with the given natural key.
func ByKey(kind Kind, key string) *Reference {
	return &Reference{TypeID: string(kind), Key: key}
}

// ByID returns a reference to the resource of kind with the given identifier.
func ByID(kind Kind, id string) *Reference {
	return &Reference{TypeID: string(kind), ID: id}
}

// IsByKey reports whether r has to be resolved through its key.
func (r *Reference) IsByKey() bool {
	return r != nil && (r.Key != "" || r.ID == "")
}

// IsByID reports whether r already carries an identifier and no key.
func (r *Reference) IsByID() bool {
	return r != nil && r.Key == "" && r.ID != ""
}

// HasBlankKey reports whether r must be resolved by key but the key is blank.
func (r *Reference) HasBlankKey() bool {
	return r.IsByKey() && strings.TrimSpace(r.Key) == ""
}

// RefID returns the identifier of r, or "" for a nil reference.
func RefID(r *Reference) string {
	if r == nil {
		return ""
	}
	return r.ID
}

// RefKey returns the key of r, or "" for a nil reference.
func RefKey(r *Reference) string {
	if r == nil {
		return ""
	}
	return r.Key
}
