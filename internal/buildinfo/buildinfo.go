package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Version returns the module version or "dev" when unset.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return "dev"
	}
	version := info.Main.Version
	if version == "" || version == "(devel)" {
		return "dev"
	}
	return version
}

// Revision returns the short VCS revision recorded at compile time, with a
// "-dirty" suffix for modified trees.
func Revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return ""
	}
	var revision, modified string
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value
		}
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if revision != "" && modified == "true" {
		revision += "-dirty"
	}
	return revision
}

// Tags returns the GOFLAGS build tags recorded at compile time.
func Tags() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == "-tags" {
			return setting.Value
		}
	}
	return ""
}

// Describe returns the version string plus revision and tags when present.
func Describe() string {
	out := Version()
	if revision := Revision(); revision != "" {
		out = fmt.Sprintf("%s (%s)", out, revision)
	}
	if tags := Tags(); tags != "" {
		out = fmt.Sprintf("%s [tags: %s]", out, tags)
	}
	return out
}
