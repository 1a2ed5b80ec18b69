package view

import (
	"fmt"
	"strings"
)

// ViewType represents which view layer to use.
type ViewType rune

const (
	ViewNone  ViewType = 0
	ViewHuman ViewType = 'H'
	ViewJSON  ViewType = 'J'
	ViewYAML  ViewType = 'Y'
)

// String returns the string representation of the ViewType.
func (vt ViewType) String() string {
	switch vt {
	case ViewNone:
		return "none"
	case ViewHuman:
		return "human"
	case ViewJSON:
		return "json"
	case ViewYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// ParseOutputFormat maps the -o flag to a view type. The empty string
// selects the human view.
func ParseOutputFormat(s string) (ViewType, error) {
	switch strings.ToLower(s) {
	case "", "human":
		return ViewHuman, nil
	case "json":
		return ViewJSON, nil
	case "yaml":
		return ViewYAML, nil
	}
	return ViewNone, fmt.Errorf("unknown output format %q", s)
}

// ParseLogLevel maps the SPVGEN_LOG value to a level. Unknown values keep
// logging silent.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn":
		return LogLevelWarn
	case "error":
		return LogLevelError
	}
	return LogLevelSilent
}
