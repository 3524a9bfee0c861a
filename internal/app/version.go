package app

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set via -ldflags "-X github.com/tejashwikalptaru/gospot/internal/app.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string
}

// GetBuildInfo returns the build information. A missing commit is filled in from
// the VCS stamp the go tool embeds.
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok && info.GitCommit == "unknown" {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				info.GitCommit = s.Value
			}
		}
	}
	return info
}

// String is the one-line form printed by -version and logged at startup.
func (b BuildInfo) String() string {
	return fmt.Sprintf("gospot %s (commit: %s, built: %s, %s %s)",
		b.Version, b.GitCommit, b.BuildTime, b.GoVersion, b.Platform)
}
