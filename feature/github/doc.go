// Package github mirrors files into a folder of a GitHub repository through
// the repository contents API.
//
// Each put and delete is its own commit on the configured branch. Writes
// resolve the current blob SHA right before committing and send it back, so
// GitHub rejects the write with 409 if the file moved in between; that is
// reported as reconcile.KindMirrorConflict and retried on the next pass.
//
// Error mapping:
//
//   - 404 on a read: not present (Exists returns false, Delete reports
//     reconcile.KindMirrorItemMissing).
//   - 409 and 422: reconcile.KindMirrorConflict.
//   - Rate limits, 401/403, 5xx and transport errors:
//     reconcile.KindMirrorUnavailable.
package github
