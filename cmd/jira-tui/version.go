package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X main.Version=1.2.0 -X main.Commit=abc123 -X main.Date=2026-01-14".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// VersionInfo describes the build. Binaries installed with `go install` carry
// no ldflags, so the module version and VCS stamp are used instead.
func VersionInfo() string {
	version, commit, date := Version, Commit, Date
	if info, ok := debug.ReadBuildInfo(); ok && version == "dev" {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			version = v
		}
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && commit == "none":
				commit = s.Value
			case s.Key == "vcs.time" && date == "unknown":
				date = s.Value
			}
		}
	}
	return fmt.Sprintf("jira-tui %s (commit: %s, built: %s, %s/%s)",
		version, commit, date, runtime.GOOS, runtime.GOARCH)
}
