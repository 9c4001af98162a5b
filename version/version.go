// Package version exposes build metadata injected at link time.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time via
// -ldflags "-X github.com/teranos/ANNX/version.Version=v1.2.3 ...".
var (
	Version    = "dev"     // semantic version when built from a tag
	CommitHash = "unknown" // git commit the binary was built from
	BuildTime  = "unknown" // build timestamp
)

// Info is a point-in-time snapshot of the build metadata.
type Info struct {
	Version    string
	CommitHash string
	BuildTime  string
	GoVersion  string
	Platform   string
}

// Get returns the current build metadata.
func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders the one-line form shown by `annx version`.
func (i Info) String() string {
	return fmt.Sprintf("annx %s (commit %s, built %s, %s %s)",
		i.Version, i.Short(), i.BuildTime, i.GoVersion, i.Platform)
}

// Short returns the abbreviated commit hash.
func (i Info) Short() string {
	if len(i.CommitHash) > 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
