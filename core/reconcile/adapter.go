package reconcile

import (
	"context"
	"io"
)

// Source lists and reads items from the store being mirrored.
// Implementations have no side effects.
type Source interface {
	// List returns every item currently in the source folder.
	// Failures must be classified as KindSourceUnavailable.
	List(ctx context.Context) ([]Item, error)

	// Fetch opens a stream over the item's bytes. The caller closes it.
	// Failures are KindSourceUnavailable or KindSourceItemMissing.
	Fetch(ctx context.Context, item Item) (io.ReadCloser, error)
}

// Mirror is the destination store.
type Mirror interface {
	// Exists reports whether name is present. "Not found" is a normal false;
	// only transport failures return an error (KindMirrorUnavailable).
	Exists(ctx context.Context, name string) (bool, error)

	// Put creates or replaces name with content. Implementations resolve the
	// current revision of name immediately before writing so the write cannot
	// silently overwrite a concurrent change.
	Put(ctx context.Context, name string, content []byte) error

	// Delete removes name. A missing object is reported as KindMirrorItemMissing,
	// which the engine treats as success.
	Delete(ctx context.Context, name string) error
}

// Ledger persists the set of names believed to be synced to the mirror.
type Ledger interface {
	// Load returns the stored set. It always returns a usable (possibly empty)
	// set; a non-nil error is KindLedgerRead and only explains why the set is empty.
	Load(ctx context.Context) (map[string]struct{}, error)

	// Save atomically replaces the stored set. Failures are KindLedgerWrite.
	Save(ctx context.Context, names map[string]struct{}) error
}
