// Package syncer binds the reconcile engine of one resource kind to the platform client
// and exposes it to the CLI and the HTTP server.
//
// A Runner decodes a batch of drafts, runs a reconcile.Pipeline with the configured
// options and collects the messages of the error and warning callbacks into a Result.
// Feature publishes a Runner as POST /sync/<route>.
package syncer
