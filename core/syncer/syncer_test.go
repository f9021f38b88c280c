package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"catalog-sync/core/deferred"
	"catalog-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Key    string               `json:"key"`
	Name   string               `json:"name"`
	Parent *reconcile.Reference `json:"parent,omitempty"`
}

func (d *item) GetKey() string      { return d.Key }
func (d *item) DisplayName() string { return d.Name }

type itemResource struct {
	ID      string
	Key     string
	Version int64
	Name    string
}

func (r *itemResource) GetID() string     { return r.ID }
func (r *itemResource) GetKey() string    { return r.Key }
func (r *itemResource) GetVersion() int64 { return r.Version }

type rename struct {
	Name string `json:"name"`
}

func (rename) ActionName() string { return "changeName" }

type itemAdapter struct{}

func (itemAdapter) Kind() reconcile.Kind { return reconcile.KindCategory }
func (itemAdapter) Validate(*item) error { return nil }

func (itemAdapter) References(d *item) []reconcile.Ref {
	return []reconcile.Ref{{Field: "parent", Kind: reconcile.KindCategory, Reference: d.Parent}}
}

func (itemAdapter) ResolveReferences(d *item, resolve reconcile.ResolveFunc) (*item, error) {
	out := *d
	var err error
	if out.Parent, err = resolve("parent", reconcile.KindCategory, d.Parent); err != nil {
		return nil, err
	}
	return &out, nil
}

func (itemAdapter) Diff(old *itemResource, d *item) ([]reconcile.Action, []string) {
	return reconcile.UpdateIf(old.Name, d.Name, func() reconcile.Action { return rename{Name: d.Name} }), nil
}

type itemService struct {
	mu    sync.Mutex
	items map[string]*itemResource
}

func newItemService() *itemService {
	return &itemService{items: map[string]*itemResource{}}
}

func (s *itemService) LookupKeys(_ context.Context, _ string, keys []string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]string{}
	for _, k := range keys {
		if r, ok := s.items[k]; ok {
			out[r.ID] = k
		}
	}
	return out, nil
}

func (s *itemService) FetchByKeys(_ context.Context, keys []string) ([]*itemResource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*itemResource
	for _, k := range keys {
		if r, ok := s.items[k]; ok {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *itemService) FetchByKey(_ context.Context, key string) (*itemResource, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.items[key]
	return r, ok, nil
}

func (s *itemService) Create(_ context.Context, d *item) (*itemResource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &itemResource{ID: fmt.Sprintf("id-%d", len(s.items)+1), Key: d.Key, Version: 1, Name: d.Name}
	s.items[d.Key] = r
	cp := *r
	return &cp, nil
}

func (s *itemService) Update(_ context.Context, res *itemResource, actions []reconcile.Action) (*itemResource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.items[res.Key]
	for _, a := range actions {
		stored.Name = a.(rename).Name
	}
	stored.Version++
	cp := *stored
	return &cp, nil
}

func newTestRunner(store deferred.Store) (*Typed[*item, *itemResource], *itemService) {
	svc := newItemService()
	deps := Deps{
		Store:    store,
		Sync:     reconcile.Config{BatchSize: 10},
		Deferral: deferred.Config{Backend: deferred.BackendMemory, ContainerPrefix: "sync."},
	}
	return NewWithService[*item, *itemResource](itemAdapter{}, svc, "items", deps), svc
}

func TestTyped_Run(t *testing.T) {
	ctx := context.Background()
	runner, svc := newTestRunner(nil)

	res, err := runner.Run(ctx, func(out any) error {
		return json.Unmarshal([]byte(`[{"key":"a","name":"A"},null,{"name":"keyless"}]`), out)
	}, RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, int64(3), res.Processed)
	assert.Equal(t, int64(1), res.Created)
	assert.Equal(t, int64(2), res.Failed)
	assert.ElementsMatch(t, []string{
		"CategoryDraft is null.",
		"CategoryDraft with name: keyless doesn't have a key.",
	}, res.Errors)
	assert.NotEmpty(t, res.RunID)
	assert.Contains(t, svc.items, "a")

	_, err = runner.Run(ctx, func(any) error { return errors.New("bad input") }, RunOptions{})
	assert.EqualError(t, err, "failed to decode category drafts: bad input")
}

func TestTyped_Sync_Deferral(t *testing.T) {
	tests := []struct {
		name           string
		opts           RunOptions
		wantUnresolved int64
		wantFailed     int64
		wantWaiting    int
	}{
		{"deferred", RunOptions{}, 1, 0, 1},
		{"deferral disabled", RunOptions{NoDefer: true}, 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := deferred.NewMemoryStore()
			runner, _ := newTestRunner(store)

			res, err := runner.Sync(context.Background(), []*item{
				{Key: "child", Name: "C", Parent: reconcile.ByKey(reconcile.KindCategory, "parent")},
			}, tt.opts)
			require.NoError(t, err)

			assert.Equal(t, tt.wantUnresolved, res.Unresolved)
			assert.Equal(t, tt.wantFailed, res.Failed)

			waiting := 0
			for _, err := range store.Find(context.Background(), "sync.category") {
				require.NoError(t, err)
				waiting++
			}
			assert.Equal(t, tt.wantWaiting, waiting)
		})
	}
}

func TestTyped_Sync_TruncatesMessages(t *testing.T) {
	runner, _ := newTestRunner(nil)
	drafts := make([]*item, maxMessages+5)

	res, err := runner.Sync(context.Background(), drafts, RunOptions{})
	require.NoError(t, err)

	assert.Len(t, res.Errors, maxMessages)
	assert.True(t, res.Truncated)
	assert.Equal(t, int64(maxMessages+5), res.Failed)
}

func TestFeature_HandleSync(t *testing.T) {
	runner, _ := newTestRunner(nil)
	feature := NewFeature(runner, nil)
	assert.Equal(t, "sync-items", feature.Name())

	app := fiber.New()
	require.NoError(t, feature.Load(app))

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"synced", `[{"key":"a","name":"A"}]`, fiber.StatusOK, `"created":1`},
		{"malformed", `{"key":`, fiber.StatusBadRequest, `"error":"failed to decode category drafts`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/sync/items?batch_size=5", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, string(body), tt.wantBody)
		})
	}
}
