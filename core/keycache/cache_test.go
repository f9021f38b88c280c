package keycache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLookup resolves keys listed in known and records every page it receives.
type fakeLookup struct {
	mu    sync.Mutex
	known map[string]string // key -> id
	pages [][]string
	err   error
}

func (f *fakeLookup) LookupKeys(_ context.Context, _ string, keys []string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages = append(f.pages, append([]string(nil), keys...))
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]string)
	for _, k := range keys {
		if id, ok := f.known[k]; ok {
			out[id] = k
		}
	}
	return out, nil
}

func TestCache_AddAndGet(t *testing.T) {
	c, err := New(&fakeLookup{}, Options{})
	require.NoError(t, err)

	c.Add("category", "id-1", "shoes")

	key, ok := c.Get("category", "id-1")
	assert.True(t, ok)
	assert.Equal(t, "shoes", key)

	id, ok := c.ID("category", "shoes")
	assert.True(t, ok)
	assert.Equal(t, "id-1", id)

	_, ok = c.Get("product", "id-1")
	assert.False(t, ok, "kinds must not share entries")
}

func TestCache_AddLastWriteWins(t *testing.T) {
	c, err := New(&fakeLookup{}, Options{})
	require.NoError(t, err)

	c.Add("category", "id-1", "old")
	c.Add("category", "id-1", "new")

	key, ok := c.Get("category", "id-1")
	assert.True(t, ok)
	assert.Equal(t, "new", key)

	_, ok = c.ID("category", "old")
	assert.False(t, ok)
	id, ok := c.ID("category", "new")
	assert.True(t, ok)
	assert.Equal(t, "id-1", id)
}

func TestCache_AddIgnoresBlank(t *testing.T) {
	c, err := New(&fakeLookup{}, Options{})
	require.NoError(t, err)

	c.Add("category", "", "k")
	c.Add("category", "id", " ")
	assert.Equal(t, 0, c.Len())
}

func TestCache_Bounded(t *testing.T) {
	c, err := New(&fakeLookup{}, Options{Size: 2})
	require.NoError(t, err)

	c.Add("category", "1", "a")
	c.Add("category", "2", "b")
	c.Add("category", "3", "c")

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("category", "1")
	assert.False(t, ok, "least recently used entry is evicted first")
}

func TestCache_FillFor(t *testing.T) {
	t.Run("ResolvesExistingKeys", func(t *testing.T) {
		lookup := &fakeLookup{known: map[string]string{"a": "id-a", "b": "id-b"}}
		c, err := New(lookup, Options{})
		require.NoError(t, err)

		err = c.FillFor(context.Background(), "category", []string{"a", "b", "missing", "", "a"})
		require.NoError(t, err)

		id, ok := c.ID("category", "a")
		assert.True(t, ok)
		assert.Equal(t, "id-a", id)
		_, ok = c.ID("category", "missing")
		assert.False(t, ok)

		require.Len(t, lookup.pages, 1)
		assert.Equal(t, []string{"a", "b", "missing"}, lookup.pages[0])
	})

	t.Run("SkipsCachedKeys", func(t *testing.T) {
		lookup := &fakeLookup{}
		c, err := New(lookup, Options{})
		require.NoError(t, err)
		c.Add("category", "id-a", "a")

		require.NoError(t, c.FillFor(context.Background(), "category", []string{"a"}))
		assert.Empty(t, lookup.pages)
	})

	t.Run("Pages", func(t *testing.T) {
		known := make(map[string]string)
		keys := make([]string, 0, 1200)
		for i := 0; i < 1200; i++ {
			k := fmt.Sprintf("k%04d", i)
			keys = append(keys, k)
			known[k] = "id-" + k
		}
		lookup := &fakeLookup{known: known}
		c, err := New(lookup, Options{})
		require.NoError(t, err)

		require.NoError(t, c.FillFor(context.Background(), "product", keys))

		sizes := make([]int, 0, len(lookup.pages))
		for _, p := range lookup.pages {
			sizes = append(sizes, len(p))
		}
		sort.Ints(sizes)
		assert.Equal(t, []int{200, 500, 500}, sizes)
		assert.Equal(t, 1200, c.Len())
	})

	t.Run("LookupError", func(t *testing.T) {
		lookup := &fakeLookup{err: errors.New("boom")}
		c, err := New(lookup, Options{})
		require.NoError(t, err)

		err = c.FillFor(context.Background(), "category", []string{"a"})
		assert.ErrorContains(t, err, "boom")
	})

	t.Run("NothingToLookUp", func(t *testing.T) {
		var calls atomic.Int32
		c, err := New(LookupFunc(func(context.Context, string, []string) (map[string]string, error) {
			calls.Add(1)
			return nil, nil
		}), Options{})
		require.NoError(t, err)

		require.NoError(t, c.FillFor(context.Background(), "category", []string{"", "  "}))
		assert.Zero(t, calls.Load())
	})
}

func TestCache_ConcurrentAccess(t *testing.T) {
	lookup := &fakeLookup{known: map[string]string{}}
	for i := 0; i < 100; i++ {
		lookup.known[fmt.Sprintf("k%d", i)] = fmt.Sprintf("id%d", i)
	}
	c, err := New(lookup, Options{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			keys := []string{fmt.Sprintf("k%d", i*10)}
			_ = c.FillFor(context.Background(), "state", keys)
			c.Get("state", fmt.Sprintf("id%d", i))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		_, ok := c.ID("state", fmt.Sprintf("k%d", i*10))
		assert.True(t, ok)
	}
}
