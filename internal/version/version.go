// Package version reports the fieldreport build, shown by --version and doctor.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via ldflags, e.g.
// -X github.com/example/fieldreport/internal/version.Release=1.2.0
var (
	Release   = "dev"
	Commit    = ""
	BuildTime = ""
)

// Info describes one build.
type Info struct {
	Release   string
	Commit    string
	BuildTime string
	Modified  bool
}

// Current returns the ldflags values, filling any that are empty from the
// VCS stamp the Go toolchain embeds in the binary.
func Current() Info {
	info := Info{Release: Release, Commit: Commit, BuildTime: BuildTime}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = fillFromBuild(info, bi.Settings)
	}
	return info
}

func fillFromBuild(info Info, settings []debug.BuildSetting) Info {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String formats the build as "fieldreport <release> (commit: <sha>, built: <time>)".
func (i Info) String() string {
	commit := i.Commit
	if commit == "" {
		commit = "unknown"
	} else if len(commit) > 7 {
		commit = commit[:7]
	}
	if i.Modified {
		commit += "-dirty"
	}
	built := i.BuildTime
	if built == "" {
		built = "unknown"
	}
	return fmt.Sprintf("fieldreport %s (commit: %s, built: %s)", i.Release, commit, built)
}

// String returns the current build description.
func String() string {
	return Current().String()
}
