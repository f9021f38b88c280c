// Package utils contains small helpers shared across the sync engine and its features.
//
// # Batching
//
// Chunk splits an ordered slice into consecutive batches of a fixed size without copying
// the underlying elements.
//
// # Keys
//
// IsBlank and SortedUnique normalize natural keys before they are looked up or logged.
//
// # Draft files
//
// DecodeFile reads a JSON or YAML file into the given value. YAML input is converted through
// its JSON form so that the same struct tags serve both formats.
package utils
