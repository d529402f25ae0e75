package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the lattice CLI.
// These variables can be overridden at build time via -ldflags.

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with per-component colors. Rendering happens
// at call time, after color.NoColor is settled, so --color on|off is
// honored. Versions that do not split into major.minor.patch come back
// unstyled.
func Colored() string {
	rest := Version
	suffix := ""
	if i := strings.IndexAny(rest, "-+"); i >= 0 {
		rest, suffix = rest[:i], rest[i:]
	}
	parts := strings.Split(rest, ".")
	if len(parts) != 3 {
		return Version
	}
	return versionMajorColor.Sprint(parts[0]) + "." +
		versionMinorColor.Sprint(parts[1]) + "." +
		versionPatchColor.Sprint(parts[2]) + suffix
}
