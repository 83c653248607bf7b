// Package ledger stores the set of names already synced to the mirror.
//
// Two backends implement reconcile.Ledger:
//
//   - File keeps a JSON array of names on an afero filesystem. Saves go to a
//     temporary file in the same directory and are renamed over the target,
//     so a crash never leaves a half-written ledger behind.
//   - SQL keeps one row per name in a gorm-managed table and replaces the
//     whole set inside a transaction.
//
// Both degrade to an empty set when the stored data cannot be read. That is
// safe: every name then goes through the mirror existence check on the next
// pass instead of being uploaded blindly.
//
// # Usage
//
//	l := ledger.NewFile(afero.NewOsFs(), "./public/synced_files.json")
//	names, err := l.Load(ctx) // err is only a warning
package ledger
