// Package ansi detects terminal styling support and applies simple text
// attributes (bold) to output, the way a CLI decides whether to colorize
// its own progress lines.
package ansi

import (
	"os"

	"golang.org/x/term"
)

// ColorProfile classifies how much styling a destination terminal
// supports. osColorProfile (OS-specific) and the env overrides below
// are the only things that produce one.
type ColorProfile string

const (
	ColorProfileTrueColor ColorProfile = "true_color"
	ColorProfileANSI256   ColorProfile = "ansi256"
	ColorProfileANSI      ColorProfile = "ansi16"
	ColorProfileUncolored ColorProfile = "uncolored"
)

// GetColorProfile detects the current stdout's styling support, honoring
// NO_COLOR/CLICOLOR/CLICOLOR_FORCE before falling back to OS/terminal
// detection.
func GetColorProfile() (ColorProfile, error) {
	if envNoColor() {
		return ColorProfileUncolored, nil
	}

	profile, err := osColorProfile()
	if err != nil {
		return ColorProfileUncolored, err
	}

	if profile == ColorProfileUncolored && cliColorForced() {
		return ColorProfileANSI, nil
	}

	return profile, nil
}

// Enabled reports whether p supports any styling at all.
func (p ColorProfile) Enabled() bool {
	return p != ColorProfileUncolored
}

func envNoColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return true
	}
	return os.Getenv("CLICOLOR") == "0" && !cliColorForced()
}

func cliColorForced() bool {
	forced := os.Getenv("CLICOLOR_FORCE")
	if forced == "" {
		return false
	}
	return forced != "0"
}

func stdoutIsTTY() bool {
	if os.Getenv("CI") != "" {
		return false
	}
	fd := os.Stdout.Fd()
	return term.IsTerminal(int(fd))
}
