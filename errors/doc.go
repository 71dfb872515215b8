// Package errors provides the application error type shared by marketweb's
// packages: a machine-readable code, a user-facing message, the HTTP status to
// answer with, and whether the failed operation may be retried.
package errors
