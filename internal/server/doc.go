// Package server manages the lifecycle of the application's transport
// servers and background workers.
//
// It starts the HTTP server and the reconciler, waits for SIGTERM, SIGINT,
// or SIGQUIT, and shuts everything down gracefully: in-flight requests are
// drained and workers observe context cancellation.
package server
