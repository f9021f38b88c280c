package deferred

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"
)

// ErrNotFound is returned when a deferred entry does not exist.
var ErrNotFound = errors.New("deferred draft not found")

// DefaultPageSize is the number of entries fetched per page when scanning a container.
const DefaultPageSize = 500

// WaitingDraft is a draft that references resources which do not exist yet.
type WaitingDraft struct {
	// Key is the natural key of the waiting draft.
	Key string `json:"key"`
	// Draft is the JSON encoded draft.
	Draft json.RawMessage `json:"draft"`
	// MissingKeys are the referenced keys that could not be resolved.
	MissingKeys []string `json:"missingReferencedKeys"`
}

// Entry is a stored waiting draft.
type Entry struct {
	WaitingDraft

	// ID is the composite identifier of the entry.
	ID string `json:"id"`
	// Container groups the entries of one resource kind.
	Container string `json:"container"`
	// LastModified is the time of the last save.
	LastModified time.Time `json:"lastModifiedAt"`
}

// Store persists waiting drafts keyed by (container, key).
type Store interface {
	// Save upserts draft in container and returns its composite id.
	Save(ctx context.Context, container string, draft WaitingDraft) (string, error)
	// Find lazily iterates the entries of container, page by page.
	// Ranging over the sequence again restarts the scan.
	Find(ctx context.Context, container string) iter.Seq2[Entry, error]
	// Delete removes the entry with the given composite id.
	// It returns ErrNotFound when there is no such entry.
	Delete(ctx context.Context, id string) error
	// Containers lists the known containers. A container may be empty.
	Containers(ctx context.Context) ([]string, error)
}

// ComposeID returns the composite id of an entry.
func ComposeID(container, key string) string {
	return container + "/" + key
}

// SplitID splits a composite id into container and key.
func SplitID(id string) (container, key string, err error) {
	container, key, ok := strings.Cut(id, "/")
	if !ok || container == "" || key == "" {
		return "", "", fmt.Errorf("invalid deferred draft id %q", id)
	}
	return container, key, nil
}

// envelope is the serialized form used by the key-value backends.
type envelope struct {
	WaitingDraft
	LastModified time.Time `json:"lastModifiedAt"`
}

func (e envelope) entry(container string) Entry {
	return Entry{
		WaitingDraft: e.WaitingDraft,
		ID:           ComposeID(container, e.Key),
		Container:    container,
		LastModified: e.LastModified,
	}
}

func validate(container string, draft WaitingDraft) error {
	if container == "" || strings.Contains(container, "/") {
		return fmt.Errorf("invalid container %q", container)
	}
	if strings.TrimSpace(draft.Key) == "" {
		return errors.New("waiting draft has no key")
	}
	return nil
}
