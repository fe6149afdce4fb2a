package writer

import (
	"strings"

	"github.com/go-sif/tabula/errors"
)

// Mode determines what happens when a destination already holds data
type Mode int

const (
	// ModeErrorIfExists fails with a DestinationExistsError
	ModeErrorIfExists Mode = iota
	// ModeAppend adds a new part file alongside the existing ones
	ModeAppend
	// ModeOverwrite replaces the existing part files
	ModeOverwrite
	// ModeIgnore leaves the destination untouched and writes nothing
	ModeIgnore
)

// ParseMode parses a mode name, such as "overwrite" or "errorifexists"
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "error", "errorifexists", "error-if-exists", "default":
		return ModeErrorIfExists, nil
	case "append":
		return ModeAppend, nil
	case "overwrite":
		return ModeOverwrite, nil
	case "ignore":
		return ModeIgnore, nil
	}
	return ModeErrorIfExists, errors.InvalidArgumentError{Argument: "mode", Reason: "unknown save mode " + name}
}

// String returns the name of a Mode
func (m Mode) String() string {
	switch m {
	case ModeAppend:
		return "append"
	case ModeOverwrite:
		return "overwrite"
	case ModeIgnore:
		return "ignore"
	default:
		return "error"
	}
}
