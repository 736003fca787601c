// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/jedrzejginter/toolkit/pkg/buildinfo.Version=1.4.0 \
//	    -X github.com/jedrzejginter/toolkit/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/jedrzejginter/toolkit/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// The CLI is released in lockstep with the @ginterdev/toolkit npm package, so
// Version doubles as the version scaffolded projects pin that package to.
package buildinfo

import (
	"fmt"
	"strings"
)

var (
	// Version is the semantic version without a "v" prefix (e.g., "1.2.3").
	// Set via ldflags: -X github.com/jedrzejginter/toolkit/pkg/buildinfo.Version=...
	Version = "0.0.0-dev"

	// Commit is the git commit SHA.
	// Set via ldflags: -X github.com/jedrzejginter/toolkit/pkg/buildinfo.Commit=...
	Commit = "none"

	// Date is the build timestamp.
	// Set via ldflags: -X github.com/jedrzejginter/toolkit/pkg/buildinfo.Date=...
	Date = "unknown"
)

// PackageVersion returns Version in the form npm expects.
func PackageVersion() string {
	return strings.TrimPrefix(Version, "v")
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
