// Package config loads the application configuration.
//
// Values come from, in increasing priority: the `default` struct tags, an
// optional config.yaml, the .env file and the process environment. Keys map
// to environment variables by upper-casing and replacing dots, so
// mirror.token is MIRROR_TOKEN. GITHUB_TOKEN and DRIVE_FOLDER_ID are also
// honored for mirror.token and source.folder_id.
//
// # Configuration Structure
//
//   - Log: level and format
//   - Source: drive folder or bucket prefix being mirrored
//   - Mirror: GitHub repository folder or bucket prefix receiving files
//   - Ledger: JSON file or database table of synced names, and the lock path
//   - Sync: concurrency, retries, serve interval, extension filter
//   - Storage: S3/MinIO connection for bucket kinds
//   - Database: connection for the database ledger
//   - Server: HTTP port and API key for serve mode
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
