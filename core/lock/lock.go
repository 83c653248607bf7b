// Package lock guarantees that at most one pass runs against a ledger at a
// time, across processes, using an advisory file lock next to the ledger.
package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"screenshot-mirror/core/reconcile"

	"github.com/gofrs/flock"
)

// Suffix is appended to the ledger location to derive the lock path.
const Suffix = ".lock"

// Lock is a held pass lock.
type Lock struct {
	mu   sync.Mutex
	fl   *flock.Flock
	held bool
}

// PathFor returns the lock path guarding a ledger stored at ledgerPath.
func PathFor(ledgerPath string) string {
	return ledgerPath + Suffix
}

// Acquire takes the lock at path without blocking. When another holder has
// it, the returned error wraps reconcile.ErrPassActive.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", reconcile.ErrPassActive, path)
	}
	return &Lock{fl: fl, held: true}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.fl.Path()
}

// Release frees the lock. Releasing twice is a no-op.
func (l *Lock) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.held {
		return nil
	}
	l.held = false
	return l.fl.Unlock()
}
