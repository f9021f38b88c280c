// Package platform is the HTTP client of the remote commerce platform.
//
// Endpoint implements reconcile.Service for one resource type on top of the REST API, and
// Client.LookupKeys implements keycache.Lookup through the GraphQL endpoint so the key cache
// can be filled with a single round trip per page of keys.
package platform
