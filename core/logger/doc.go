// Package logger provides a structured logging facility based on Zap.
//
// New builds a json logger for production or a development logger when the level is
// debug. WithRayID attaches the request ray id stored by the rayid middleware so every
// log line of a sync request can be correlated.
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
