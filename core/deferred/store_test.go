package deferred

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waiting(key string, missing ...string) WaitingDraft {
	return WaitingDraft{
		Key:         key,
		Draft:       json.RawMessage(`{"key":"` + key + `"}`),
		MissingKeys: missing,
	}
}

func collect(t *testing.T, store Store, container string) []Entry {
	t.Helper()
	var entries []Entry
	for e, err := range store.Find(context.Background(), container) {
		require.NoError(t, err)
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

// runStoreContract exercises the behavior every Store backend shares.
func runStoreContract(t *testing.T, store Store) {
	ctx := context.Background()

	id, err := store.Save(ctx, "products", waiting("p1", "x"))
	require.NoError(t, err)
	assert.Equal(t, "products/p1", id)

	// upsert
	_, err = store.Save(ctx, "products", waiting("p1", "x", "y"))
	require.NoError(t, err)
	_, err = store.Save(ctx, "products", waiting("p2", "z"))
	require.NoError(t, err)
	_, err = store.Save(ctx, "products", waiting("p3", "z"))
	require.NoError(t, err)
	_, err = store.Save(ctx, "states", waiting("s1", "s0"))
	require.NoError(t, err)

	entries := collect(t, store, "products")
	require.Len(t, entries, 3)
	assert.Equal(t, "p1", entries[0].Key)
	assert.Equal(t, "products/p1", entries[0].ID)
	assert.Equal(t, "products", entries[0].Container)
	assert.Equal(t, []string{"x", "y"}, entries[0].MissingKeys)
	assert.JSONEq(t, `{"key":"p1"}`, string(entries[0].Draft))
	assert.False(t, entries[0].LastModified.IsZero())

	// restartable
	assert.Len(t, collect(t, store, "products"), 3)

	// stopping early is fine
	for range store.Find(ctx, "products") {
		break
	}

	assert.Empty(t, collect(t, store, "unknown"))

	containers, err := store.Containers(ctx)
	require.NoError(t, err)
	assert.Subset(t, containers, []string{"products", "states"})

	require.NoError(t, store.Delete(ctx, "products/p1"))
	assert.ErrorIs(t, store.Delete(ctx, "products/p1"), ErrNotFound)
	assert.Len(t, collect(t, store, "products"), 2)

	assert.Error(t, store.Delete(ctx, "no-separator"))

	_, err = store.Save(ctx, "", waiting("p9"))
	assert.Error(t, err)
	_, err = store.Save(ctx, "products", waiting(" "))
	assert.Error(t, err)
}

func TestSplitID(t *testing.T) {
	tests := []struct {
		id        string
		container string
		key       string
		wantErr   bool
	}{
		{"products/p1", "products", "p1", false},
		{"products/a/b", "products", "a/b", false},
		{"products/", "", "", true},
		{"/p1", "", "", true},
		{"p1", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			container, key, err := SplitID(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.container, container)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.id, ComposeID(container, key))
		})
	}
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}
