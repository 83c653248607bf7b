// Package logger builds the zap logger used across the application.
//
// # Configuration
//
//   - Level: debug, info, warn, error. Debug also enables zap's development
//     config (caller, stack traces on warn).
//   - Format: json (default) or console with colored levels.
//
// # Request correlation
//
// The rayid middleware stores a request id in the fiber context; WithRayID
// copies it onto a logger so every line written while serving a request
// carries the same ray_id. Passes carry their own pass_id field.
//
// # Usage
//
//	log, err := logger.New(&cfg.Log)
//	log.Info("Pass finished", zap.Int("added", 3))
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Trigger failed", zap.Error(err))
package logger
