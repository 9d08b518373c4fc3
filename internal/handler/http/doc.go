// Package http implements the HTTP transport layer of the application.
//
// It exposes route wiring, request handlers, and middleware used by the REST
// API. Cross-cutting concerns such as request tracing and access logging are
// handled in this package before requests are delegated to the service layer.
//
// Every endpoint answers with a JSON envelope carrying a "success" flag;
// failures additionally carry a human-readable "error" string. The mapping
// from domain errors to HTTP status codes lives in errors_mapper.go.
package http
