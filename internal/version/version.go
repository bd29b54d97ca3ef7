// Package version holds the changelog-gen build information. It has no
// internal dependencies so any package can import it.
package version

import (
	"fmt"
	"runtime"
	"strings"
)

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// ShortCommit returns the first eight characters of the commit hash.
func ShortCommit() string {
	if len(Commit) > 8 {
		return Commit[:8]
	}
	return Commit
}

// Field is one labeled line of build information.
type Field struct {
	Label string
	Value string
}

// Fields returns the build information in display order.
func Fields() []Field {
	return []Field{
		{"Version", Version},
		{"Commit", ShortCommit()},
		{"Built", BuildDate},
		{"Go", runtime.Version()},
		{"Platform", runtime.GOOS + "/" + runtime.GOARCH},
	}
}

// Plain renders the build information for scripts, one "key: value" per line.
func Plain() string {
	var b strings.Builder
	fmt.Fprintf(&b, "changelog-gen %s\n", Version)
	fmt.Fprintf(&b, "commit: %s\n", Commit)
	fmt.Fprintf(&b, "built: %s\n", BuildDate)
	fmt.Fprintf(&b, "go: %s\n", runtime.Version())
	fmt.Fprintf(&b, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	return b.String()
}
