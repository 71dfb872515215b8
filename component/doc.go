// Package component defines lifecycle-managed parts of the service (HTTP
// server, Redis, telemetry, the query cache) and a registry that starts
// them in order and stops them in reverse.
package component
