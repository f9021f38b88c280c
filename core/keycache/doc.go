// Package keycache maps remote resource identifiers to natural keys.
//
// The cache is bounded and evicts the least recently used entries first. It is filled in
// bulk through a Lookup collaborator: FillFor splits the requested keys into pages and
// resolves every page concurrently, collapsing identical in-flight lookups. Keys that do
// not resolve simply stay absent.
//
// Entries are kept per resource kind, so a category and a product sharing a natural key
// never collide.
package keycache
