// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small interface so that S3 compatible stores
// (AWS S3, self-hosted MinIO) can hold deferred drafts, and so that storage interactions
// can be mocked in unit tests (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: bucket bootstrap, wrapped by EnsureBucket.
//   - PutObject / GetObject / StatObject / RemoveObject: single object access.
//   - ListObjects: prefix listing, recursive or one level deep.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
