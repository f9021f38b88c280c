// Package deferred persists drafts whose references could not be resolved yet.
//
// A waiting draft is stored under a container (one per resource kind) and its own natural
// key. Later sync runs look the container up again, and once every missing reference exists
// the draft is synced and its entry removed.
//
// # Backends
//
//   - GormStore: a waiting_drafts table in the service database (MySQL or SQLite).
//   - BucketStore: one JSON object per draft in an S3/MinIO bucket.
//   - RedisStore: JSON values under prefixed keys with a container index set.
//   - MemoryStore: process local, for single runs and tests.
//
// # Cleanup
//
// Entries that nobody resolves are abandoned eventually. Cleaner removes every entry whose
// last modification is older than a retention window and reports how many were deleted.
package deferred
