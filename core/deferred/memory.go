package deferred

import (
	"context"
	"iter"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps waiting drafts in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]map[string]envelope
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]map[string]envelope),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, container string, draft WaitingDraft) (string, error) {
	if err := validate(container, draft); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries[container] == nil {
		s.entries[container] = make(map[string]envelope)
	}
	s.entries[container][draft.Key] = envelope{WaitingDraft: draft, LastModified: s.now().UTC()}
	return ComposeID(container, draft.Key), nil
}

func (s *MemoryStore) Find(_ context.Context, container string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		s.mu.RLock()
		keys := make([]string, 0, len(s.entries[container]))
		for k := range s.entries[container] {
			keys = append(keys, k)
		}
		s.mu.RUnlock()
		slices.Sort(keys)

		for _, k := range keys {
			s.mu.RLock()
			e, ok := s.entries[container][k]
			s.mu.RUnlock()
			if !ok {
				continue
			}
			if !yield(e.entry(container), nil) {
				return
			}
		}
	}
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	container, key, err := SplitID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[container][key]; !ok {
		return ErrNotFound
	}
	delete(s.entries[container], key)
	if len(s.entries[container]) == 0 {
		delete(s.entries, container)
	}
	return nil
}

func (s *MemoryStore) Containers(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.entries))
	for c := range s.entries {
		out = append(out, c)
	}
	slices.Sort(out)
	return out, nil
}

// SetClock replaces the time source used for LastModified.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}
