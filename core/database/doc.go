// Package database opens the gorm connection used by the database ledger.
//
// Two drivers are supported: mysql for a shared server and sqlite for a
// single-host file (or ":memory:" in tests). The connection is verified with
// a ping before it is returned, bounded by Config.TimeoutSeconds.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return fmt.Errorf("ledger database: %w", err)
//	}
package database
