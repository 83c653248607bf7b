package reconcile

import "time"

// Item is a named unit in the source store.
// Name is the only identity used to match source and mirror; ID is opaque
// and only used to fetch the bytes back from the source.
type Item struct {
	// ID is the source-side identifier.
	ID string `json:"id" yaml:"id"`

	// Name is the key used for comparison and as the mirror path.
	Name string `json:"name" yaml:"name"`
}

// Op names a remote operation for logs and failure records.
type Op string

const (
	OpList   Op = "list"
	OpFetch  Op = "fetch"
	OpExists Op = "exists"
	OpPut    Op = "put"
	OpDelete Op = "delete"
	OpLoad   Op = "load"
	OpSave   Op = "save"
)

// Failure records one item that could not be processed during a pass.
type Failure struct {
	// Name is the item name.
	Name string `json:"name" yaml:"name"`

	// Op is the operation that failed.
	Op Op `json:"op" yaml:"op"`

	// Kind is the error classification.
	Kind Kind `json:"kind" yaml:"kind"`

	// Reason is the human-readable error message.
	Reason string `json:"reason" yaml:"reason"`
}

// Report is the outcome of one pass.
type Report struct {
	// PassID uniquely identifies the pass in logs.
	PassID string `json:"pass_id" yaml:"pass_id"`

	// StartedAt is when the pass began.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// FinishedAt is when the pass ended.
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`

	// Deleted lists names removed from the mirror (or already gone).
	Deleted []string `json:"deleted" yaml:"deleted"`

	// Added lists names fetched from the source and written to the mirror.
	Added []string `json:"added" yaml:"added"`

	// Skipped lists names already present on the mirror that were adopted
	// into the ledger without a transfer.
	Skipped []string `json:"skipped" yaml:"skipped"`

	// Failures lists per-item failures. They are retried on the next pass.
	Failures []Failure `json:"failures" yaml:"failures"`

	// LedgerSaved is true when the working set was persisted.
	LedgerSaved bool `json:"ledger_saved" yaml:"ledger_saved"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary" yaml:"summary"`
}

// Summary provides aggregate counts for a pass.
type Summary struct {
	// Known is the number of names loaded from the ledger.
	Known int `json:"known" yaml:"known"`

	// Source is the number of distinct names in the source listing.
	Source int `json:"source" yaml:"source"`

	// Deleted counts successful deletions.
	Deleted int `json:"deleted" yaml:"deleted"`

	// Added counts successful uploads.
	Added int `json:"added" yaml:"added"`

	// Skipped counts names adopted through the existence check.
	Skipped int `json:"skipped" yaml:"skipped"`

	// Unchanged counts names present in both the ledger and the source.
	Unchanged int `json:"unchanged" yaml:"unchanged"`

	// Ignored counts source names rejected by the name filter.
	Ignored int `json:"ignored" yaml:"ignored"`

	// Retained counts ignored names kept in the ledger untouched.
	Retained int `json:"retained" yaml:"retained"`

	// Failed counts per-item failures.
	Failed int `json:"failed" yaml:"failed"`

	// Ledger is the size of the saved working set.
	Ledger int `json:"ledger" yaml:"ledger"`
}

// Mutated reports whether the pass changed the mirror.
func (r *Report) Mutated() bool {
	return len(r.Deleted) > 0 || len(r.Added) > 0
}

// HasFailures reports whether any item failed.
func (r *Report) HasFailures() bool {
	return len(r.Failures) > 0
}
