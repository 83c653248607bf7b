package config

import (
	"strings"
	"time"
)

// Source kinds.
const (
	SourceDrive  = "drive"
	SourceBucket = "bucket"
)

// Mirror kinds.
const (
	MirrorGitHub = "github"
	MirrorBucket = "bucket"
)

// Ledger drivers.
const (
	LedgerFile     = "file"
	LedgerDatabase = "database"
)

// SourceConfig selects the folder being mirrored.
type SourceConfig struct {
	// Kind is drive or bucket.
	Kind string `mapstructure:"kind" default:"drive"`
	// FolderID is the Drive folder id (drive kind).
	FolderID string `mapstructure:"folder_id" default:""`
	// CredentialsFile is the service account key (drive kind).
	CredentialsFile string `mapstructure:"credentials_file" default:"service_account.json"`
	// Prefix is the object prefix inside storage.bucket (bucket kind).
	Prefix string `mapstructure:"prefix" default:""`
}

// MirrorConfig selects the destination.
type MirrorConfig struct {
	// Kind is github or bucket.
	Kind string `mapstructure:"kind" default:"github"`
	// Token authenticates against GitHub.
	Token string `mapstructure:"token" default:""`
	// Owner is the repository owner.
	Owner string `mapstructure:"owner" default:""`
	// Repo is the repository name.
	Repo string `mapstructure:"repo" default:""`
	// Repository is "owner/repo", used when Owner and Repo are empty.
	Repository string `mapstructure:"repository" default:""`
	// Branch receives the commits.
	Branch string `mapstructure:"branch" default:"main"`
	// Folder is the path inside the repository, or the prefix in the bucket.
	Folder string `mapstructure:"folder" default:"public/map-screenshots"`
	// CommitAuthor is an optional "Name <email>" committer.
	CommitAuthor string `mapstructure:"commit_author" default:""`
	// BaseURL overrides the GitHub API root.
	BaseURL string `mapstructure:"base_url" default:""`
	// TimeoutSeconds bounds each request to the mirror.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Timeout returns TimeoutSeconds as a duration.
func (c MirrorConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LedgerConfig selects where synced names are recorded.
type LedgerConfig struct {
	// Driver is file or database.
	Driver string `mapstructure:"driver" default:"file"`
	// Path is the JSON file (file driver). "~" is expanded.
	Path string `mapstructure:"path" default:"./public/synced_files.json"`
	// Table is the table name (database driver).
	Table string `mapstructure:"table" default:"synced_files"`
	// LockPath overrides the pass lock location. Empty derives it from Path.
	LockPath string `mapstructure:"lock_path" default:""`
}

// SyncConfig tunes passes.
type SyncConfig struct {
	// Concurrency is the number of items processed at once per phase.
	Concurrency int `mapstructure:"concurrency" default:"4"`
	// MaxRetries is the retry budget per remote operation.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// RetryInitialMs is the first backoff delay.
	RetryInitialMs int `mapstructure:"retry_initial_ms" default:"500"`
	// RetryMaxMs caps the backoff delay.
	RetryMaxMs int `mapstructure:"retry_max_ms" default:"5000"`
	// IntervalSeconds is the delay between passes in serve mode.
	IntervalSeconds int `mapstructure:"interval_seconds" default:"300"`
	// Extensions limits mirrored names to these extensions (comma separated).
	Extensions string `mapstructure:"extensions" default:""`
}

// ExtensionList splits Extensions, dropping blanks.
func (c SyncConfig) ExtensionList() []string {
	var out []string
	for _, ext := range strings.Split(c.Extensions, ",") {
		if ext = strings.TrimSpace(ext); ext != "" {
			out = append(out, ext)
		}
	}
	return out
}

// Interval returns IntervalSeconds as a duration.
func (c SyncConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}
