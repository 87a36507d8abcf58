// Package version holds build metadata injected via ldflags.
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// UserAgent identifies outbound requests, e.g. "nearbite/1.2.0 (abc123)".
func UserAgent() string {
	return fmt.Sprintf("nearbite/%s (%s)", Version, Commit)
}
