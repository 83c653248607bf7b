package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"screenshot-mirror/core/database"
	"screenshot-mirror/core/logger"
	"screenshot-mirror/core/server"
	"screenshot-mirror/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Source selects the folder being mirrored.
	Source SourceConfig `mapstructure:"source"`
	// Mirror selects the destination.
	Mirror MirrorConfig `mapstructure:"mirror"`
	// Ledger selects where synced names are stored.
	Ledger LedgerConfig `mapstructure:"ledger"`
	// Sync tunes passes.
	Sync SyncConfig `mapstructure:"sync"`
	// Storage holds the S3/MinIO connection used by bucket kinds.
	Storage storage.Config `mapstructure:"storage"`
	// Database holds the connection used by the database ledger.
	Database database.Config `mapstructure:"database"`
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
}

// legacyEnv maps keys to extra environment variable names still honored.
var legacyEnv = map[string][]string{
	"mirror.token":      {"MIRROR_TOKEN", "GITHUB_TOKEN"},
	"source.folder_id":  {"SOURCE_FOLDER_ID", "DRIVE_FOLDER_ID"},
	"mirror.repository": {"MIRROR_REPOSITORY", "GITHUB_REPO"},
}

// LoadConfig loads configuration from defaults, an optional config.yaml in
// path, the .env file in path and the environment, in increasing priority.
func LoadConfig(path string) (*Config, error) {
	// A missing .env is normal in production.
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()

	bindValues(v, Config{}, "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	// SECTION_KEY -> section.key
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range legacyEnv {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate reports missing or inconsistent settings for the selected kinds.
func (c *Config) Validate() error {
	var errs []error

	switch c.Source.Kind {
	case SourceDrive:
		if c.Source.FolderID == "" {
			errs = append(errs, errors.New("source.folder_id is required for the drive source"))
		}
	case SourceBucket:
		if c.Storage.Bucket == "" {
			errs = append(errs, errors.New("storage.bucket is required for the bucket source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source.kind %q", c.Source.Kind))
	}

	switch c.Mirror.Kind {
	case MirrorGitHub:
		if (c.Mirror.Owner == "" || c.Mirror.Repo == "") && c.Mirror.Repository == "" {
			errs = append(errs, errors.New("mirror.owner and mirror.repo (or mirror.repository) are required for the github mirror"))
		}
		if c.Mirror.Token == "" {
			errs = append(errs, errors.New("mirror.token is required for the github mirror"))
		}
	case MirrorBucket:
		if c.Storage.Bucket == "" {
			errs = append(errs, errors.New("storage.bucket is required for the bucket mirror"))
		}
		if c.Source.Kind == SourceBucket && strings.Trim(c.Source.Prefix, "/") == strings.Trim(c.Mirror.Folder, "/") {
			errs = append(errs, errors.New("source.prefix and mirror.folder must differ when both use the bucket"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown mirror.kind %q", c.Mirror.Kind))
	}

	switch c.Ledger.Driver {
	case LedgerFile:
		if c.Ledger.Path == "" {
			errs = append(errs, errors.New("ledger.path is required for the file ledger"))
		}
	case LedgerDatabase:
		if c.Ledger.LockPath == "" && c.Ledger.Path == "" {
			errs = append(errs, errors.New("ledger.lock_path or ledger.path is required to place the pass lock"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown ledger.driver %q", c.Ledger.Driver))
	}

	if c.Sync.Concurrency < 1 {
		errs = append(errs, errors.New("sync.concurrency must be at least 1"))
	}
	if c.Sync.MaxRetries < 0 {
		errs = append(errs, errors.New("sync.max_retries must not be negative"))
	}

	return errors.Join(errs...)
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
