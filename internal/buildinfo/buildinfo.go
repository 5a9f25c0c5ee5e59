// Package buildinfo holds build-time variables injected via ldflags.
package buildinfo

import "fmt"

// Populated by -ldflags at build time; defaults used for local dev.
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Summary returns a one-line description of the build.
func Summary() string {
	return fmt.Sprintf("fairshare %s (commit %s, built %s)", Version, GitCommit, BuildDate)
}
