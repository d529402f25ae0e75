package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestVersionDefault(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestVersionCanBeOverridden(t *testing.T) {
	origVersion := Version
	defer func() { Version = origVersion }()

	// Simulates build-time ldflags.
	Version = "1.2.3"
	if Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", Version, "1.2.3")
	}
}

func TestColoredRespectsNoColor(t *testing.T) {
	origVersion := Version
	origNoColor := color.NoColor
	defer func() {
		Version = origVersion
		color.NoColor = origNoColor
	}()

	Version = "1.2.3-dev"
	color.NoColor = true
	if got := Colored(); got != "1.2.3-dev" {
		t.Errorf("Colored() with colors off = %q, want plain version", got)
	}

	color.NoColor = false
	got := Colored()
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("Colored() with colors on has no escape codes: %q", got)
	}
	if !strings.HasSuffix(got, "-dev") {
		t.Errorf("Colored() dropped the suffix: %q", got)
	}
}

func TestColoredFallsBackOnOddShape(t *testing.T) {
	origVersion := Version
	defer func() { Version = origVersion }()

	Version = "snapshot"
	if got := Colored(); got != "snapshot" {
		t.Errorf("Colored() = %q, want the raw version", got)
	}
}
