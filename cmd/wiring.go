package cmd

import (
	"context"
	"fmt"
	"time"

	"screenshot-mirror/core/config"
	"screenshot-mirror/core/database"
	"screenshot-mirror/core/ledger"
	"screenshot-mirror/core/lock"
	"screenshot-mirror/core/logger"
	"screenshot-mirror/core/reconcile"
	"screenshot-mirror/core/storage"
	"screenshot-mirror/feature/bucket"
	"screenshot-mirror/feature/drive"
	"screenshot-mirror/feature/github"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// bootstrap loads and validates configuration and builds the logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}

// openLedger builds the configured ledger and returns the path of the pass
// lock guarding it.
func openLedger(ctx context.Context, cfg *config.Config) (reconcile.Ledger, string, error) {
	ledgerPath, err := homedir.Expand(cfg.Ledger.Path)
	if err != nil {
		return nil, "", fmt.Errorf("expand ledger path: %w", err)
	}
	lockPath := cfg.Ledger.LockPath
	if lockPath == "" {
		lockPath = lock.PathFor(ledgerPath)
	}
	if lockPath, err = homedir.Expand(lockPath); err != nil {
		return nil, "", fmt.Errorf("expand lock path: %w", err)
	}

	switch cfg.Ledger.Driver {
	case config.LedgerDatabase:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, "", fmt.Errorf("failed to connect to database: %w", err)
		}
		l := ledger.NewSQL(db, cfg.Ledger.Table)
		if err := l.Migrate(ctx); err != nil {
			return nil, "", fmt.Errorf("failed to migrate ledger table: %w", err)
		}
		return l, lockPath, nil
	default:
		return ledger.NewFile(afero.NewOsFs(), ledgerPath), lockPath, nil
	}
}

func openSource(ctx context.Context, cfg *config.Config) (reconcile.Source, error) {
	switch cfg.Source.Kind {
	case config.SourceBucket:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, err
		}
		return bucket.NewSource(client, cfg.Storage.Bucket, cfg.Source.Prefix), nil
	default:
		return drive.New(ctx, drive.Config{
			FolderID:        cfg.Source.FolderID,
			CredentialsFile: cfg.Source.CredentialsFile,
		})
	}
}

func openMirror(ctx context.Context, cfg *config.Config) (reconcile.Mirror, error) {
	switch cfg.Mirror.Kind {
	case config.MirrorBucket:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, err
		}
		m := bucket.NewMirror(client, cfg.Storage.Bucket, cfg.Mirror.Folder)
		if err := m.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return github.New(ctx, github.Config{
			Token:        cfg.Mirror.Token,
			Owner:        cfg.Mirror.Owner,
			Repo:         cfg.Mirror.Repo,
			Repository:   cfg.Mirror.Repository,
			Branch:       cfg.Mirror.Branch,
			Folder:       cfg.Mirror.Folder,
			CommitAuthor: cfg.Mirror.CommitAuthor,
			Timeout:      cfg.Mirror.Timeout(),
			BaseURL:      cfg.Mirror.BaseURL,
		})
	}
}

func engineOptions(cfg *config.Config) reconcile.Options {
	return reconcile.Options{
		Concurrency: cfg.Sync.Concurrency,
		Retry: reconcile.RetryPolicy{
			MaxRetries:      cfg.Sync.MaxRetries,
			InitialInterval: time.Duration(cfg.Sync.RetryInitialMs) * time.Millisecond,
			MaxInterval:     time.Duration(cfg.Sync.RetryMaxMs) * time.Millisecond,
		},
		Filter: reconcile.ExtensionFilter(cfg.Sync.ExtensionList()),
	}
}

// pipeline is everything a pass needs.
type pipeline struct {
	engine   *reconcile.Engine
	ledger   reconcile.Ledger
	lockPath string
}

func buildPipeline(ctx context.Context, cfg *config.Config, l *zap.Logger) (*pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	led, lockPath, err := openLedger(ctx, cfg)
	if err != nil {
		return nil, err
	}
	src, err := openSource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create source client: %w", err)
	}
	mir, err := openMirror(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create mirror client: %w", err)
	}

	return &pipeline{
		engine:   reconcile.NewEngine(src, mir, led, l, engineOptions(cfg)),
		ledger:   led,
		lockPath: lockPath,
	}, nil
}

// run executes one pass while holding the pass lock.
func (p *pipeline) run(ctx context.Context) (*reconcile.Report, error) {
	lk, err := lock.Acquire(p.lockPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lk.Release() }()

	return p.engine.Run(ctx)
}
