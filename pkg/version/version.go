// Package version reports build information for compass binaries.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   string // Set via ldflags.
	BuildDate string // Set via ldflags.

	Revision  = revision(readSettings())
	GoVersion = runtime.Version()
	GoOS      = runtime.GOOS
	GoArch    = runtime.GOARCH
)

// GetVersion returns [Version], or the VCS revision for development builds.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	return Revision
}

// String describes the build in one line.
func String() string {
	s := fmt.Sprintf("compass %s (%s) %s %s/%s", GetVersion(), Revision, GoVersion, GoOS, GoArch)
	if BuildDate != "" {
		s += " built " + BuildDate
	}

	return s
}

func readSettings() map[string]string {
	settings := map[string]string{}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return settings
	}

	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}

	return settings
}

// revision returns the short VCS revision from build settings, marked
// "-dirty" when the tree was modified.
func revision(settings map[string]string) string {
	rev, ok := settings["vcs.revision"]
	if !ok || rev == "" {
		return "unknown"
	}

	if len(rev) > 7 {
		rev = rev[:7]
	}

	if settings["vcs.modified"] == "true" {
		rev += "-dirty"
	}

	return rev
}
