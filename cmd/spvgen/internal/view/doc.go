// Package view provides output formatting and logging for the spvgen CLI.
//
// The package uses a layered architecture: CLI → Viewer → Stream → io.Writer.
// Viewers handle format-specific rendering (human/json/yaml), while Stream
// provides basic output operations. Logs go to the stream's log writer and
// are human-readable in the human view.
package view
