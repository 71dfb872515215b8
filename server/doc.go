// Package server runs the web front end: a Gin engine mounted on a ServeMux,
// served over HTTP/1.1 and h2c.
//
// Middleware (server/middleware) wraps the whole mux, so locale routing,
// request IDs, logging, tracing and metrics see every route. Probe endpoints
// live in server/endpoint.
package server
