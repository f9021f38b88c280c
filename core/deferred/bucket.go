package deferred

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/url"
	"path"
	"strings"
	"time"

	"catalog-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// BucketStore stores one JSON object per waiting draft in an object storage bucket.
// Objects are named <prefix>/<container>/<escaped key>.json.
type BucketStore struct {
	client storage.Client
	bucket string
	prefix string
}

// NewBucketStore returns a store writing below prefix in bucket.
func NewBucketStore(client storage.Client, bucket, prefix string) *BucketStore {
	return &BucketStore{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (s *BucketStore) containerPrefix(container string) string {
	if s.prefix == "" {
		return container + "/"
	}
	return s.prefix + "/" + container + "/"
}

func (s *BucketStore) objectName(container, key string) string {
	return s.containerPrefix(container) + url.PathEscape(key) + ".json"
}

func (s *BucketStore) Save(ctx context.Context, container string, draft WaitingDraft) (string, error) {
	if err := validate(container, draft); err != nil {
		return "", err
	}

	data, err := json.Marshal(envelope{WaitingDraft: draft, LastModified: time.Now().UTC()})
	if err != nil {
		return "", fmt.Errorf("failed to encode waiting draft %s: %w", draft.Key, err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, s.objectName(container, draft.Key),
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("failed to upload waiting draft %s: %w", draft.Key, err)
	}

	return ComposeID(container, draft.Key), nil
}

// Find lists the container recursively. The listing itself is paged by the storage client.
func (s *BucketStore) Find(ctx context.Context, container string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
			Prefix:    s.containerPrefix(container),
			Recursive: true,
		})
		for obj := range objects {
			if obj.Err != nil {
				yield(Entry{}, fmt.Errorf("failed to list waiting drafts of %s: %w", container, obj.Err))
				return
			}
			if !strings.HasSuffix(obj.Key, ".json") {
				continue
			}

			entry, err := s.read(ctx, container, obj)
			if !yield(entry, err) {
				return
			}
		}
	}
}

func (s *BucketStore) read(ctx context.Context, container string, obj minio.ObjectInfo) (Entry, error) {
	reader, err := s.client.GetObject(ctx, s.bucket, obj.Key, minio.GetObjectOptions{})
	if err != nil {
		return Entry{}, fmt.Errorf("failed to download %s: %w", obj.Key, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read %s: %w", obj.Key, err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Entry{}, fmt.Errorf("failed to decode %s: %w", obj.Key, err)
	}
	if !obj.LastModified.IsZero() {
		env.LastModified = obj.LastModified
	}
	return env.entry(container), nil
}

func (s *BucketStore) Delete(ctx context.Context, id string) error {
	container, key, err := SplitID(id)
	if err != nil {
		return err
	}
	name := s.objectName(container, key)

	if _, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{}); err != nil {
		if storage.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to stat %s: %w", name, err)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}

func (s *BucketStore) Containers(ctx context.Context) ([]string, error) {
	root := ""
	if s.prefix != "" {
		root = s.prefix + "/"
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var containers []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: root}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list containers: %w", obj.Err)
		}
		if !strings.HasSuffix(obj.Key, "/") {
			continue
		}
		containers = append(containers, path.Base(strings.TrimSuffix(obj.Key, "/")))
	}
	return containers, nil
}
