// Package buildinfo holds version information injected at build time via ldflags.
package buildinfo

import "runtime/debug"

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

func init() {
	if Version != "dev" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		Version = v
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			CommitHash = s.Value
		case "vcs.time":
			BuildDate = s.Value
		}
	}
}
