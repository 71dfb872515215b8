// Package version reports build metadata.
//
// Version, Commit and BuildTime are stamped at link time:
//
//	go build -ldflags "-X github.com/kbukum/marketweb/version.Version=1.4.0 \
//	  -X github.com/kbukum/marketweb/version.Commit=$(git rev-parse --short HEAD)"
//
// Anything left unset falls back to the VCS settings the Go toolchain
// records in the binary.
package version
