package generator

import (
	"fmt"
	"strings"
)

// Error represents a failure while turning a validated IR into backend
// source text: a malformed template, a chunk the sink doesn't have, or an
// I/O failure writing the output streams. Parse-time and validate-time
// problems are reported through package diag instead; by the time
// generation runs, the IR is already known to be well-formed, so Error
// exists for the generator's own internal failures.
type Error struct {
	Stage   string // "model", "template", "io"
	Message string
	Detail  string
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Stage != "" {
		b.WriteString(fmt.Sprintf("[%s] ", e.Stage))
	}
	b.WriteString(e.Message)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func newModelError(format string, args ...interface{}) *Error {
	return &Error{Stage: "model", Message: fmt.Sprintf(format, args...)}
}

func newTemplateError(name string, err error) *Error {
	return &Error{Stage: "template", Message: fmt.Sprintf("template %q", name), Detail: err.Error()}
}

func newIOError(what string, err error) *Error {
	return &Error{Stage: "io", Message: what, Detail: err.Error()}
}
