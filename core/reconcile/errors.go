package reconcile

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the engine can decide between retrying,
// isolating the item, or aborting the pass.
type Kind string

const (
	// KindUnknown is reported for errors that carry no classification.
	KindUnknown Kind = "UNKNOWN"
	// KindSourceUnavailable is a transport or auth failure talking to the source.
	KindSourceUnavailable Kind = "SOURCE_UNAVAILABLE"
	// KindSourceItemMissing means the source no longer has the item.
	KindSourceItemMissing Kind = "SOURCE_ITEM_MISSING"
	// KindMirrorUnavailable is a transport or auth failure talking to the mirror.
	KindMirrorUnavailable Kind = "MIRROR_UNAVAILABLE"
	// KindMirrorConflict means the mirror rejected a write because the revision moved.
	KindMirrorConflict Kind = "MIRROR_CONFLICT"
	// KindMirrorItemMissing means the named object is not on the mirror.
	KindMirrorItemMissing Kind = "MIRROR_ITEM_MISSING"
	// KindLedgerRead means the ledger could not be read and was treated as empty.
	KindLedgerRead Kind = "LEDGER_READ"
	// KindLedgerWrite means the ledger could not be persisted.
	KindLedgerWrite Kind = "LEDGER_WRITE"
	// KindInvariant means the engine detected an internal inconsistency.
	KindInvariant Kind = "INVARIANT"
	// KindCanceled marks items abandoned because the pass was canceled.
	KindCanceled Kind = "CANCELED"
)

var (
	// ErrPassActive is returned when another pass holds the ledger lock.
	ErrPassActive = errors.New("another pass is already running against this ledger")

	// ErrStateUnknown is returned when the mirror was mutated but the ledger
	// could not be saved. The next pass diffs against stale data.
	ErrStateUnknown = errors.New("sync state unknown: mirror was modified but the ledger was not saved")
)

// Error is a classified failure of a single operation.
type Error struct {
	Kind Kind
	Op   Op
	Name string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg += " " + string(e.Op)
	}
	if e.Name != "" {
		msg += fmt.Sprintf(" %q", e.Name)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with a kind, the failing operation and the item name.
func NewError(kind Kind, op Op, name string, err error) *Error {
	return &Error{Kind: kind, Op: op, Name: name, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsTransient reports whether err is worth retrying within the same pass.
func IsTransient(err error) bool {
	switch KindOf(err) {
	case KindSourceUnavailable, KindMirrorUnavailable:
		return true
	default:
		return false
	}
}
