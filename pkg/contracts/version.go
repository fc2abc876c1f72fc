// Package contracts holds the build identity shared by the server and the CLI.
package contracts

import (
	"fmt"
	"runtime"
)

// Version of the dashboard. BuildTime and GitCommit are stamped with -ldflags -X.
const Version = "0.3.0"

var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Banner is the one-line identity printed by kpireport -version.
func Banner() string {
	commit := GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("kpireport %s (%s, built %s) %s %s/%s",
		Version, commit, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
