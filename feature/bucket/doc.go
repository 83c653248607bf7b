// Package bucket exposes an S3/MinIO prefix as a reconcile source or mirror.
//
// Object keys are "<prefix>/<name>". The source lists every object under the
// prefix (objects in nested "directories" are skipped since names are flat);
// the mirror writes, stats and removes objects under its own prefix.
//
// The mirror overwrites without a revision check: S3 offers no conditional
// put through this client, so concurrent writers are last-writer-wins.
package bucket
