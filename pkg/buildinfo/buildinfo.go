// Package buildinfo contains build information.
//
// Build information should be set during compilation by passing
// -ldflags "-X src.wkbench.dev/pkg/buildinfo.Var=value" to "go build" or
// "go install".
package buildinfo

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"src.wkbench.dev/pkg/prog"
)

// VersionBase is the version of wkbench. On development commits, it is the
// next release.
const VersionBase = "0.3.0"

// VCSOverride may be set during compilation to
// "<commit timestamp>-<commit hash>" (e.g. "20220401235958-123456789012"),
// for builds from a source tree without version control metadata.
var VCSOverride string

// Reproducible identifies whether the build is reproducible.
var Reproducible = "false"

// Value contains all the build information.
var Value = Type{
	Version:      devVersion(VersionBase, VCSOverride, debug.ReadBuildInfo),
	GoVersion:    runtime.Version(),
	Reproducible: Reproducible == "true",
}

// Type contains all the build information.
type Type struct {
	Version      string
	GoVersion    string
	Reproducible bool
}

func devVersion(next, vcsOverride string, readBuildInfo func() (*debug.BuildInfo, bool)) string {
	if vcsOverride != "" {
		return next + "-dev.0." + vcsOverride
	}
	fallback := next + "-dev.unknown"
	bi, ok := readBuildInfo()
	if !ok {
		return fallback
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		return strings.TrimPrefix(v, "v")
	}
	var revision, timeString string
	modified := false
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.time":
			timeString = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if revision == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, timeString)
	if err != nil {
		return fallback
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	version := fmt.Sprintf("%s-dev.0.%s-%s", next, t.UTC().Format("20060102150405"), revision)
	if modified {
		version += "-dirty"
	}
	return version
}

// Program is the buildinfo subprogram, run with -version.
type Program struct{}

func (Program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if !f.Version {
		return prog.ErrNotSuitable
	}
	if len(args) > 0 {
		return prog.BadUsage("arguments are not allowed with -version")
	}
	fmt.Fprintln(fds[1], "Version:", Value.Version)
	fmt.Fprintln(fds[1], "Go version:", Value.GoVersion)
	if Value.Reproducible {
		fmt.Fprintln(fds[1], "Reproducible build")
	}
	return nil
}
