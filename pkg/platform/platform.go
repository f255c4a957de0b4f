// Package platform selects the battery diagnostic command, and the parser
// for its output, for the operating system batteryd runs on.
package platform

import (
	"runtime"

	"github.com/batteryd/batteryd/pkg/parser"
)

// ID identifies a platform with a known battery diagnostic command.
type ID string

const (
	Linux       ID = "linux"
	Darwin      ID = "darwin"
	Windows     ID = "windows"
	Unsupported ID = "unsupported"
)

// Profile pairs a platform's diagnostic command with the parser for its
// output. A Profile is resolved once at startup and never modified.
type Profile struct {
	ID      ID
	Command string
	Parse   parser.Func
}

// Supported reports whether the profile has a command to run.
func (p Profile) Supported() bool {
	return p.Command != ""
}

var profiles = map[ID]Profile{
	Linux: {
		ID:      Linux,
		Command: `upower -i /org/freedesktop/UPower/devices/battery_BAT0 | grep -E "state|time to empty|to full|percentage"`,
		Parse:   parser.KeyValue,
	},
	Darwin: {
		ID:      Darwin,
		Command: `pmset -g batt | egrep "([0-9]+%).*" -o`,
		Parse:   parser.Delimited,
	},
	Windows: {
		ID:      Windows,
		Command: `WMIC Path Win32_Battery`,
		Parse:   parser.Columns,
	},
}

// Current returns the ID of the running operating system.
func Current() ID {
	return FromGOOS(runtime.GOOS)
}

// FromGOOS maps a GOOS value to an ID. Anything without a diagnostic
// command is Unsupported.
func FromGOOS(goos string) ID {
	switch goos {
	case "linux":
		return Linux
	case "darwin":
		return Darwin
	case "windows":
		return Windows
	default:
		return Unsupported
	}
}

// Resolve returns the profile for id. Unknown platforms get an empty
// command and a parser that always yields empty fields, so the server
// keeps running and answers with an empty record.
func Resolve(id ID) Profile {
	if p, ok := profiles[id]; ok {
		return p
	}
	return Profile{
		ID:    Unsupported,
		Parse: parser.Nop,
	}
}
