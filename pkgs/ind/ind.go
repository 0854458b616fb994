// Package ind provides small output helpers for emitting code: an
// indentation-aware writer, and a list separator that stays quiet the
// first time around. Package generator does not use them; it renders its
// output through text/template.
package ind

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Writer wraps an io.Writer with two-space indentation tracking, so a
// caller can Indent()/Outdent() around class bodies and function bodies
// without threading an explicit depth through every emit call.
type Writer struct {
	w      *bufio.Writer
	depth  int
	atBOL  bool // true once a newline has been written and no text since
	prefix string
}

// New wraps w for indented output.
func New(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w), atBOL: true, prefix: "  "}
}

// Indent increases the indentation level by one.
func (w *Writer) Indent() { w.depth++ }

// Outdent decreases the indentation level by one, floored at zero.
func (w *Writer) Outdent() {
	if w.depth > 0 {
		w.depth--
	}
}

// Printf writes formatted text, inserting the current indentation at the
// start of every line.
func (w *Writer) Printf(format string, args ...interface{}) {
	s := fmt.Sprintf(format, args...)
	for _, r := range s {
		if w.atBOL && r != '\n' {
			w.w.WriteString(strings.Repeat(w.prefix, w.depth))
			w.atBOL = false
		}
		w.w.WriteRune(r)
		if r == '\n' {
			w.atBOL = true
		}
	}
}

// Line writes s followed by a newline, honoring indentation.
func (w *Writer) Line(s string) { w.Printf("%s\n", s) }

// Flush flushes the underlying buffered writer.
func (w *Writer) Flush() error { return w.w.Flush() }

// ListSep emits its separator on every call after the first, so callers can
// write "(", then a ListSep before every element, without special-casing
// the first element.
//
//	comma := ind.NewListSep(", ")
//	w.Printf("(")
//	for _, c := range children {
//	    w.Printf("%s%s", comma.Sep(), c.Name)
//	}
//	w.Printf(")")
type ListSep struct {
	sep     string
	printed bool
}

// NewListSep creates a ListSep using sep as the separator (", " if empty).
func NewListSep(sep string) *ListSep {
	if sep == "" {
		sep = ", "
	}
	return &ListSep{sep: sep}
}

// Sep returns the separator, or "" the first time it's called.
func (l *ListSep) Sep() string {
	if !l.printed {
		l.printed = true
		return ""
	}
	return l.sep
}

// Reset clears the separator state so it can be reused for another list.
func (l *ListSep) Reset() { l.printed = false }
