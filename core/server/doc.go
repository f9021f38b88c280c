// Package server holds the HTTP server configuration.
//
// The start command reads the listen port, the API key protecting every route and the
// limits applied to uploaded draft batches from Config.
package server
