// Package reconcile mirrors a source folder into a destination store, keeping
// the destination in step with additions and removals on the source.
//
// The package owns the reconciliation pass and nothing else: talking to the
// concrete stores and persisting the ledger are delegated to the Source,
// Mirror and Ledger interfaces (see feature/drive, feature/github,
// feature/bucket and core/ledger).
//
// # Pass
//
// A pass loads the ledger (the set of names already synced), lists the source
// and computes a Plan:
//
//   - Removed: ledger names absent from the source. Each is deleted from the
//     mirror; the name leaves the ledger only once the delete succeeded or the
//     object was already gone.
//   - Added: source names absent from the ledger. If the mirror already has
//     the name (a previous pass crashed before saving) it is adopted without a
//     transfer, otherwise it is fetched from the source and written.
//   - Unchanged: names in both. They are not touched; comparison is by name only.
//   - Retained: ledger names the source still lists but the Filter rejects.
//     They stay in the ledger and on the mirror. Only a name missing from a
//     complete listing is ever deleted.
//
// Deletions complete before additions start. Within a phase items run with
// bounded concurrency and every remote call is retried with exponential
// backoff when the failure is transient. A failing item never stops the pass;
// it is recorded in the Report and retried on the next pass.
//
// The ledger is written once, at the end. A failed source listing aborts the
// pass before any mirror change; a failed ledger save after mirror changes is
// reported as ErrStateUnknown.
//
// # Usage
//
//	engine := reconcile.NewEngine(source, mirror, ledger, logger, reconcile.Options{
//	    Concurrency: 4,
//	    Retry:       reconcile.DefaultRetryPolicy(),
//	})
//	report, err := engine.Run(ctx)
package reconcile
