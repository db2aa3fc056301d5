// Package version reports the build version of iterkit binaries.
//
// Version is set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/iterkit/version.Version=1.0.0"
//
// Commit and dirty state are read from the Go build info when available.
package version
