// Package middleware groups the fiber middleware used by serve mode.
//
// # Components
//
//   - auth: API key check on the X-API-Key header.
//   - rayid: per-request id stored in Locals("ray_id") and echoed in the
//     X-Ray-ID response header, picked up by logger.WithRayID.
//
// rayid is registered first so even rejected requests are traceable.
package middleware
