package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// testDraft is a minimal category-like draft with a sibling reference (parent) and a
// reference to another kind (type).
type testDraft struct {
	Key    string     `json:"key"`
	Name   string     `json:"name"`
	Parent *Reference `json:"parent,omitempty"`
	Type   *Reference `json:"type,omitempty"`
}

func (d *testDraft) GetKey() string      { return d.Key }
func (d *testDraft) DisplayName() string { return d.Name }

type testResource struct {
	ID      string
	Key     string
	Version int64
	Name    string
	Parent  *Reference
	Type    *Reference
}

func (r *testResource) GetID() string     { return r.ID }
func (r *testResource) GetKey() string    { return r.Key }
func (r *testResource) GetVersion() int64 { return r.Version }

type changeName struct {
	Name string `json:"name"`
}

func (changeName) ActionName() string { return "changeName" }

type changeParent struct {
	Parent *Reference `json:"parent"`
}

func (changeParent) ActionName() string { return "changeParent" }

type testAdapter struct {
	validate func(*testDraft) error
}

func (a *testAdapter) Kind() Kind { return KindCategory }

func (a *testAdapter) Validate(d *testDraft) error {
	if a.validate != nil {
		return a.validate(d)
	}
	return nil
}

func (a *testAdapter) References(d *testDraft) []Ref {
	return []Ref{
		{Field: "parent", Kind: KindCategory, Reference: d.Parent},
		{Field: "custom.type", Kind: KindType, Reference: d.Type},
	}
}

func (a *testAdapter) ResolveReferences(d *testDraft, resolve ResolveFunc) (*testDraft, error) {
	out := *d
	var err error
	if out.Parent, err = resolve("parent", KindCategory, d.Parent); err != nil {
		return nil, err
	}
	if out.Type, err = resolve("custom.type", KindType, d.Type); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *testAdapter) Diff(old *testResource, d *testDraft) ([]Action, []string) {
	var actions []Action
	var warnings []string
	actions = append(actions, UpdateIf(old.Name, d.Name, func() Action { return changeName{Name: d.Name} })...)
	if d.Parent == nil && old.Parent != nil {
		warnings = append(warnings, fmt.Sprintf("Cannot unset 'parent' field of category with id '%s'.", old.ID))
	} else if RefID(old.Parent) != RefID(d.Parent) {
		actions = append(actions, changeParent{Parent: d.Parent})
	}
	return actions, warnings
}

// fakeService is an in-memory platform with optimistic concurrency.
type fakeService struct {
	mu        sync.Mutex
	resources map[string]*testResource // by key
	others    map[Kind]map[string]string
	nextID    int

	lookupErr     error
	fetchErr      error
	fetchByKeyErr error
	createErr     map[string]error
	updateErr     error
	conflicts     int
	onConflict    func(s *fakeService)

	lookupCalls     int
	fetchCalls      int
	fetchByKeyCalls int
	createCalls     int
	updateCalls     int
	updateSizes     []int
}

func newFakeService(existing ...*testResource) *fakeService {
	s := &fakeService{
		resources: make(map[string]*testResource),
		others:    make(map[Kind]map[string]string),
		createErr: make(map[string]error),
	}
	for _, r := range existing {
		s.resources[r.Key] = r
	}
	return s
}

func (s *fakeService) LookupKeys(_ context.Context, kind string, keys []string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookupCalls++
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	out := make(map[string]string)
	for _, k := range keys {
		if Kind(kind) == KindCategory {
			if r, ok := s.resources[k]; ok {
				out[r.ID] = k
			}
			continue
		}
		if id, ok := s.others[Kind(kind)][k]; ok {
			out[id] = k
		}
	}
	return out, nil
}

func (s *fakeService) FetchByKeys(_ context.Context, keys []string) ([]*testResource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchCalls++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	var out []*testResource
	for _, k := range keys {
		if r, ok := s.resources[k]; ok {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeService) FetchByKey(_ context.Context, key string) (*testResource, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchByKeyCalls++
	if s.fetchByKeyErr != nil {
		return nil, false, s.fetchByKeyErr
	}
	r, ok := s.resources[key]
	if !ok {
		return nil, false, nil
	}
	cp := *r
	return &cp, true, nil
}

func (s *fakeService) Create(_ context.Context, d *testDraft) (*testResource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if err := s.createErr[d.Key]; err != nil {
		return nil, err
	}
	s.nextID++
	r := &testResource{
		ID:      fmt.Sprintf("id-%d", s.nextID),
		Key:     d.Key,
		Version: 1,
		Name:    d.Name,
		Parent:  d.Parent,
		Type:    d.Type,
	}
	s.resources[d.Key] = r
	cp := *r
	return &cp, nil
}

func (s *fakeService) Update(_ context.Context, res *testResource, actions []Action) (*testResource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	s.updateSizes = append(s.updateSizes, len(actions))
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	if s.conflicts > 0 {
		s.conflicts--
		if s.onConflict != nil {
			s.onConflict(s)
		}
		return nil, fmt.Errorf("version %d is stale: %w", res.Version, ErrConflict)
	}

	stored, ok := s.resources[res.Key]
	if !ok {
		return nil, ErrNotFound
	}
	if stored.Version != res.Version {
		return nil, fmt.Errorf("version %d is stale: %w", res.Version, ErrConflict)
	}
	for _, a := range actions {
		switch a := a.(type) {
		case changeName:
			stored.Name = a.Name
		case changeParent:
			stored.Parent = a.Parent
		}
	}
	stored.Version++
	cp := *stored
	return &cp, nil
}

// recorder collects callback invocations.
type recorder struct {
	mu       sync.Mutex
	errors   []string
	causes   []error
	warnings []string
}

func (r *recorder) onError(msg string, cause error, _ *testResource, _ *testDraft, _ []Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
	r.causes = append(r.causes, cause)
}

func (r *recorder) onWarning(msg string, _ *testResource, _ *testDraft) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, msg)
}

func newTestPipeline(t *testing.T, svc *fakeService, opts Options[*testDraft, *testResource]) (*Pipeline[*testDraft, *testResource], *recorder) {
	t.Helper()
	rec := &recorder{}
	if opts.ErrorCallback == nil {
		opts.ErrorCallback = rec.onError
	}
	if opts.WarningCallback == nil {
		opts.WarningCallback = rec.onWarning
	}
	p, err := NewPipeline[*testDraft, *testResource](&testAdapter{}, svc, opts, nil)
	if err != nil {
		t.Fatalf("failed to create pipeline: %v", err)
	}
	return p, rec
}

func assertConservation(t *testing.T, s *Statistics) {
	t.Helper()
	assert.Equal(t, s.Processed(),
		s.Created()+s.Updated()+s.Unchanged()+s.Failed()+s.Unresolved()+s.Skipped(),
		"processed must equal the sum of terminal outcomes")
}

var errBoom = errors.New("boom")
