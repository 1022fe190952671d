// Package output renders command results for terminals and for pipes.
package output

import (
	"fmt"
	"strings"
)

// Mode selects how command results are written.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto" // TTY=text, non-TTY=markdown
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
	ModeCSV      Mode = "csv"
	ModeYAML     Mode = "yaml"
)

// Modes returns every accepted mode, for flag completion.
func Modes() []string {
	return []string{
		string(ModeAuto), string(ModeText), string(ModeMarkdown),
		string(ModeJSON), string(ModeCSV), string(ModeYAML),
	}
}

// ParseMode parses a mode name. The empty string is ModeAuto; "md" is
// accepted for markdown.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case "md":
		return ModeMarkdown, nil
	case ModeAuto, ModeText, ModeMarkdown, ModeJSON, ModeCSV, ModeYAML:
		return m, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want one of %s)", s, strings.Join(Modes(), ", "))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler so config decoding
// rejects unknown modes.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// String returns the mode name.
func (m Mode) String() string {
	return string(m)
}
