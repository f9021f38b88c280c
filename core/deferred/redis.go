package deferred

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps waiting drafts as JSON values under <prefix>:<container>:<key>.
// Containers are indexed in the set <prefix>:containers.
type RedisStore struct {
	client   *redis.Client
	prefix   string
	pageSize int64
	now      func() time.Time
}

// NewRedisStore creates a Redis backed store.
func NewRedisStore(client *redis.Client, prefix string, pageSize int) *RedisStore {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if prefix == "" {
		prefix = "deferred"
	}
	return &RedisStore{
		client:   client,
		prefix:   prefix,
		pageSize: int64(pageSize),
		now:      time.Now,
	}
}

func (s *RedisStore) entryKey(container, key string) string {
	return s.prefix + ":" + container + ":" + key
}

func (s *RedisStore) containersKey() string {
	return s.prefix + ":containers"
}

func (s *RedisStore) Save(ctx context.Context, container string, draft WaitingDraft) (string, error) {
	if err := validate(container, draft); err != nil {
		return "", err
	}

	data, err := json.Marshal(envelope{WaitingDraft: draft, LastModified: s.now().UTC()})
	if err != nil {
		return "", fmt.Errorf("failed to encode waiting draft %s: %w", draft.Key, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.entryKey(container, draft.Key), data, 0)
	pipe.SAdd(ctx, s.containersKey(), container)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to save waiting draft %s: %w", draft.Key, err)
	}

	return ComposeID(container, draft.Key), nil
}

// Find walks the container with SCAN, fetching every page with MGET.
func (s *RedisStore) Find(ctx context.Context, container string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		match := escapePattern(s.prefix+":"+container+":") + "*"
		var cursor uint64
		for {
			keys, next, err := s.client.Scan(ctx, cursor, match, s.pageSize).Result()
			if err != nil {
				yield(Entry{}, fmt.Errorf("failed to scan waiting drafts of %s: %w", container, err))
				return
			}

			if len(keys) > 0 {
				values, err := s.client.MGet(ctx, keys...).Result()
				if err != nil {
					yield(Entry{}, fmt.Errorf("failed to load waiting drafts of %s: %w", container, err))
					return
				}
				for i, v := range values {
					raw, ok := v.(string)
					if !ok {
						// deleted between SCAN and MGET
						continue
					}
					var env envelope
					if err := json.Unmarshal([]byte(raw), &env); err != nil {
						if !yield(Entry{}, fmt.Errorf("failed to decode %s: %w", keys[i], err)) {
							return
						}
						continue
					}
					if !yield(env.entry(container), nil) {
						return
					}
				}
			}

			if next == 0 {
				return
			}
			cursor = next
		}
	}
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	container, key, err := SplitID(id)
	if err != nil {
		return err
	}

	n, err := s.client.Del(ctx, s.entryKey(container, key)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete waiting draft %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) Containers(ctx context.Context) ([]string, error) {
	containers, err := s.client.SMembers(ctx, s.containersKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	slices.Sort(containers)
	return containers, nil
}

func escapePattern(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
