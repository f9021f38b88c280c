// Package config loads the configuration of catalog-sync.
//
// Values come from a .env file (if present) and the environment, mapped as SECTION_FIELD
// (e.g. SYNC_BATCH_SIZE, API_PROJECT_KEY). Defaults live in the `default` struct tags of
// each section's Config type:
//   - Server: port, API key and request limits
//   - Log: level and format
//   - API: the remote platform (base url, project, token, timeout, page size)
//   - Sync: batch size, concurrency, key cache size, actions per request
//   - Deferral: backend (none, memory, database, storage, redis), containers, retention
//   - Database, Storage, Redis: connections of the deferral backends
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
