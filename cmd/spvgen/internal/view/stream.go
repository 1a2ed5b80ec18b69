package view

import (
	"fmt"
	"io"
)

// Stream wraps the writers views render to. Logs go to LogWriter so that
// machine-readable output on Writer stays parseable.
type Stream struct {
	Writer    io.Writer
	LogWriter io.Writer
}

// NewStream returns a stream that writes output and logs to w.
func NewStream(w io.Writer) *Stream {
	return &Stream{
		Writer:    w,
		LogWriter: w,
	}
}

// WithLogWriter redirects logs to w.
func (s *Stream) WithLogWriter(w io.Writer) *Stream {
	s.LogWriter = w
	return s
}

func (s *Stream) Println(args ...any) {
	fmt.Fprintln(s.Writer, args...)
}

func (s *Stream) Printf(fmtStr string, args ...any) {
	fmt.Fprintf(s.Writer, fmtStr, args...)
}
