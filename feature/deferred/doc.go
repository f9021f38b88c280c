// Package deferred publishes the deferred draft store on the HTTP server: listing the
// drafts that wait for missing references and deleting the stale ones.
package deferred
