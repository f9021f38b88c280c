package keycache

import (
	"context"
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"catalog-sync/core/utils"
)

const (
	// DefaultSize is the default number of entries kept per direction.
	DefaultSize = 10_000
	// DefaultPageSize is the default number of keys sent in one lookup call.
	DefaultPageSize = 500
)

// Lookup resolves natural keys of one resource kind in bulk.
// It returns the identifiers that exist, mapped to their keys.
type Lookup interface {
	LookupKeys(ctx context.Context, kind string, keys []string) (map[string]string, error)
}

// LookupFunc adapts a function to the Lookup interface.
type LookupFunc func(ctx context.Context, kind string, keys []string) (map[string]string, error)

// LookupKeys calls f.
func (f LookupFunc) LookupKeys(ctx context.Context, kind string, keys []string) (map[string]string, error) {
	return f(ctx, kind, keys)
}

type entry struct {
	kind  string
	value string
}

// Cache is a bounded, thread-safe id <-> key cache.
type Cache struct {
	mu       sync.Mutex
	keys     *lru.Cache // (kind, id) -> key
	ids      *lru.Cache // (kind, key) -> id
	lookup   Lookup
	pageSize int
	sf       singleflight.Group
}

// Options configures a Cache.
type Options struct {
	// Size bounds the number of cached entries. Defaults to DefaultSize.
	Size int
	// PageSize bounds the number of keys per lookup call. Defaults to DefaultPageSize.
	PageSize int
}

// New creates a cache backed by lookup.
func New(lookup Lookup, opts Options) (*Cache, error) {
	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	keys, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create key cache: %w", err)
	}
	ids, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create id cache: %w", err)
	}

	return &Cache{
		keys:     keys,
		ids:      ids,
		lookup:   lookup,
		pageSize: pageSize,
	}, nil
}

// Get returns the key cached for id.
func (c *Cache) Get(kind, id string) (string, bool) {
	v, ok := c.keys.Get(entry{kind: kind, value: id})
	if !ok {
		return "", false
	}
	return v.(string), true
}

// ID returns the identifier cached for key. A reverse entry whose id no longer maps
// back to key is treated as absent.
func (c *Cache) ID(kind, key string) (string, bool) {
	v, ok := c.ids.Get(entry{kind: kind, value: key})
	if !ok {
		return "", false
	}
	id := v.(string)
	if current, ok := c.keys.Peek(entry{kind: kind, value: id}); !ok || current.(string) != key {
		return "", false
	}
	return id, true
}

// Add stores the (id, key) pair. The last write for an id wins.
func (c *Cache) Add(kind, id, key string) {
	if id == "" || utils.IsBlank(key) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if previous, ok := c.keys.Peek(entry{kind: kind, value: id}); ok && previous.(string) != key {
		c.ids.Remove(entry{kind: kind, value: previous.(string)})
	}
	c.keys.Add(entry{kind: kind, value: id}, key)
	c.ids.Add(entry{kind: kind, value: key}, id)
}

// Len returns the number of cached ids.
func (c *Cache) Len() int {
	return c.keys.Len()
}

// FillFor looks up every key of kind that is not cached yet and caches the ones that exist.
// Blank keys are ignored. Keys the lookup does not return stay absent.
func (c *Cache) FillFor(ctx context.Context, kind string, keys []string) error {
	missing := make([]string, 0, len(keys))
	for _, key := range utils.SortedUnique(keys) {
		if _, ok := c.ID(kind, key); !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, page := range utils.Chunk(missing, c.pageSize) {
		g.Go(func() error {
			return c.fillPage(gctx, kind, page)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to look up %s keys: %w", kind, err)
	}
	return nil
}

func (c *Cache) fillPage(ctx context.Context, kind string, page []string) error {
	flightKey := kind + "|" + strings.Join(page, "\x00")
	_, err, _ := c.sf.Do(flightKey, func() (interface{}, error) {
		found, err := c.lookup.LookupKeys(ctx, kind, page)
		if err != nil {
			return nil, err
		}
		for id, key := range found {
			c.Add(kind, id, key)
		}
		return nil, nil
	})
	return err
}
