// Package version holds build information injected with -ldflags.
package version

import (
	"fmt"
	"runtime"

	"github.com/teranos/contractgen/contract"
)

// Build information. These variables are set at build time via ldflags.
var (
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

// Info contains version and build information
type Info struct {
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
	// IRSchema is the range of IR document versions the binary reads
	IRSchema string `json:"ir_schema"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		IRSchema:   contract.SupportedSchema,
	}
}

// String returns a human-readable version string
func (i Info) String() string {
	return fmt.Sprintf("contractgen %s (commit %s, built %s)", i.Version, i.Short(), i.BuildTime)
}

// Short returns the commit hash truncated to seven characters
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
