// Package output writes rendered lines to the consumer, typically a
// status-bar renderer reading stdout.
package output

import (
	"fmt"
	"io"
)

// Sink writes one line per render. Consecutive identical lines are
// suppressed so the status bar is only redrawn when the text actually
// changes. Writes are unbuffered, so line-oriented consumers see each
// update as soon as it is emitted.
type Sink struct {
	w       io.Writer
	last    string
	written bool
}

// New returns a sink writing to w.
func New(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Write emits line followed by a newline, unless it equals the previously
// written line.
func (s *Sink) Write(line string) error {
	if s.written && line == s.last {
		return nil
	}
	if _, err := fmt.Fprintln(s.w, line); err != nil {
		return err
	}
	s.last = line
	s.written = true
	return nil
}

// Last returns the most recently written line.
func (s *Sink) Last() string {
	return s.last
}
