// Package database opens the relational database used for deferred drafts.
//
// It wraps GORM and supports two drivers: MySQL for deployments and SQLite for local
// runs and tests. Connect verifies the connection with a ping bounded by the configured
// timeout, so callers can treat the database as optional and degrade gracefully.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("Database unavailable", zap.Error(err))
//	}
package database
