// Package reconcile converges remote catalog resources towards desired-state drafts.
//
// The engine is generic over a draft type D and a resource type R. An entity plugs in
// through two collaborators:
//
//   - Adapter: validates drafts, lists and resolves their references, and computes the
//     ordered update actions between a resource and a draft.
//   - Service: reads and writes resources on the remote platform and looks natural keys up
//     in bulk.
//
// # Pipeline
//
// Pipeline.Sync splits the drafts into batches and processes the batches strictly in order.
// For every batch it:
//
//  1. Validates the drafts and collects the keys they reference.
//  2. Fills the key cache for every referenced kind.
//  3. Resolves references from natural keys to identifiers.
//  4. Fetches the existing resources matching the batch once.
//  5. Creates new resources and updates existing ones concurrently.
//
// An update that fails on a stale version is retried exactly once against a freshly fetched
// resource. Every outcome is reported through counters on Statistics and the callbacks of
// Options; Sync itself never fails.
//
// # Deferral
//
// When deferral is enabled, a draft whose sibling references do not exist yet is parked in a
// deferred.Store instead of failing. It is synced as soon as the missing siblings are created,
// in the same run or a later one.
package reconcile
