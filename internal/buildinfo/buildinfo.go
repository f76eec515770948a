// Package buildinfo reports the module version recorded by the Go
// toolchain at build time.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

const devVersion = "dev"

// Version returns the module version, or "dev" for local builds.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return devVersion
	}
	return normalizeVersion(info.Main.Version)
}

func normalizeVersion(v string) string {
	if v == "" || v == "(devel)" {
		return devVersion
	}
	return v
}

// Revision returns the VCS revision embedded in the binary, truncated
// to twelve characters, or "" when the build carries no VCS stamp.
func Revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			return shortHash(setting.Value)
		}
	}
	return ""
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

// String renders the version with the VCS revision when one is known.
func String() string {
	version := Version()
	if rev := Revision(); rev != "" {
		return fmt.Sprintf("%s (%s)", version, rev)
	}
	return version
}
