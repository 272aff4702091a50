package sink

import (
	"bytes"
	"fmt"
	"strings"
)

// SourceWriter is an append-only text sink for generated source. It tracks
// the current line length and keeps a stack of absolute indentation columns,
// which the renderer uses to align vertically laid-out parameter lists with
// the column where the opening parenthesis ended.
//
// A SourceWriter is not safe for concurrent use; each declaration-rendering
// call owns its writer exclusively.
type SourceWriter struct {
	buf         bytes.Buffer
	spaces      []int
	tabWidth    int
	lineStarted bool
	lineLen     int
}

// NewSourceWriter returns a SourceWriter with the default tab width of 2.
func NewSourceWriter() *SourceWriter {
	return &SourceWriter{tabWidth: 2}
}

// NewSourceWriterIndent returns a SourceWriter with a custom tab width.
func NewSourceWriterIndent(tabWidth int) *SourceWriter {
	if tabWidth < 0 {
		tabWidth = 0
	}
	return &SourceWriter{tabWidth: tabWidth}
}

func (w *SourceWriter) indent() int {
	if len(w.spaces) == 0 {
		return 0
	}
	return w.spaces[len(w.spaces)-1]
}

// WriteString appends s to the current line, emitting pending indentation
// first. s must not contain newlines; use NewLine for line breaks.
func (w *SourceWriter) WriteString(s string) {
	if s == "" {
		return
	}
	if !w.lineStarted {
		ind := w.indent()
		w.buf.WriteString(strings.Repeat(" ", ind))
		w.lineLen = ind
		w.lineStarted = true
	}
	w.buf.WriteString(s)
	w.lineLen += len(s)
}

// Writef appends formatted text to the current line.
func (w *SourceWriter) Writef(format string, args ...any) {
	w.WriteString(fmt.Sprintf(format, args...))
}

// NewLine terminates the current line.
func (w *SourceWriter) NewLine() {
	w.buf.WriteByte('\n')
	w.lineStarted = false
	w.lineLen = 0
}

// BlankLine terminates the current line if one is in progress and emits one
// empty line.
func (w *SourceWriter) BlankLine() {
	if w.lineStarted {
		w.NewLine()
	}
	w.NewLine()
}

// PushSpaces pushes an absolute indentation column.
func (w *SourceWriter) PushSpaces(n int) {
	if n < 0 {
		n = 0
	}
	w.spaces = append(w.spaces, n)
}

// PushTab pushes an indentation column one tab width deeper than the current
// one.
func (w *SourceWriter) PushTab() {
	w.spaces = append(w.spaces, w.indent()+w.tabWidth)
}

// PopIndent removes the most recently pushed indentation column. Popping an
// empty stack is a no-op.
func (w *SourceWriter) PopIndent() {
	if len(w.spaces) > 0 {
		w.spaces = w.spaces[:len(w.spaces)-1]
	}
}

// LineLength returns the length the current line would have before the next
// write: the characters written so far, or the pending indentation if the
// line has not started.
func (w *SourceWriter) LineLength() int {
	if w.lineStarted {
		return w.lineLen
	}
	return w.indent()
}

// Len returns the number of bytes written so far.
func (w *SourceWriter) Len() int { return w.buf.Len() }

// String returns everything written so far.
func (w *SourceWriter) String() string { return w.buf.String() }

// Bytes returns everything written so far.
func (w *SourceWriter) Bytes() []byte { return w.buf.Bytes() }
