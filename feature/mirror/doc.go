// Package mirror exposes the reconciliation engine over HTTP in serve mode.
//
// # Routes
//
//   - GET  /mirror/status  last pass outcome (404 before the first pass)
//   - POST /mirror/sync    run a pass now; ?async=true returns 202 at once
//   - GET  /mirror/ledger  names currently recorded as synced
//
// Concurrent triggers, from HTTP or the scheduler, share a single pass:
// a trigger arriving while a pass is running waits for it and receives its
// result instead of starting another. Passes outlive the request that
// started them so a client disconnect never aborts a pass halfway.
package mirror
