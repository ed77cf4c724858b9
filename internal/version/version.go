// Package version exposes the build identity printed by the "version"
// subcommand. The variables below are overridden with -ldflags at release
// build time; a plain `go build` produces a "dev" binary.
package version

// Overridable at build time, e.g.:
//
//	go build -ldflags "\
//	  -X github.com/evmbench/evmbench/internal/version.Version=$(git describe --tags) \
//	  -X github.com/evmbench/evmbench/internal/version.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/evmbench/evmbench/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the release tag, or "dev" for local builds.
	Version = "dev"

	// Commit identifies the source revision the binary was built from.
	Commit = "unknown"

	// BuildTime is the UTC build timestamp in RFC3339 format.
	BuildTime = "unknown"
)

// Info renders the full build identity on one line.
func Info() string {
	return "evmbench " + Version + " (commit: " + Commit + ", built: " + BuildTime + ")"
}
