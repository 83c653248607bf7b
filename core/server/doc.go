// Package server holds the HTTP server configuration used by the serve
// command: listen port, API key and whether swagger docs are exposed.
package server
