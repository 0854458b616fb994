// Package diag collects and renders compiler diagnostics.
//
// The compiler batches diagnostics rather than stopping at the first one:
// the parser resynchronizes at the next top-level declaration, the validator
// runs all four of its passes regardless of earlier findings, and code
// generation only proceeds once the final error count is zero.
package diag

import (
	"fmt"
	"strings"
)

// Kind is the severity of a diagnostic.
type Kind int

const (
	Warning Kind = iota
	Error
	Fatal
)

func (k Kind) String() string {
	switch k {
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "diagnostic"
	}
}

// Position locates a diagnostic in the original source.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.Line == 0 {
		return p.File
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Category groups diagnostics for documentation and testing purposes.
type Category string

const (
	CategorySyntax         Category = "syntax"
	CategoryUndefined      Category = "undefined-state"
	CategoryIntraSet       Category = "intra-set-transition"
	CategoryUnusedEvent    Category = "unused-event"
	CategoryUndefinedChild Category = "undefined-child"
	CategoryInternal       Category = "internal"
	CategoryIO             Category = "io"
	CategoryType           Category = "type-mismatch"
)

// Diagnostic is a single compiler message.
type Diagnostic struct {
	Kind     Kind
	Category Category
	Message  string
	Pos      Position
	Snippet  string // optional source line, used to render a caret
}

// Error renders a diagnostic the way the compiler prints it: kind, category,
// location, message, and an optional caret pointing at the offending column.
func (d Diagnostic) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: %s", d.Pos, d.Kind, d.Message)
	if d.Category != "" {
		fmt.Fprintf(&b, " [%s]", d.Category)
	}
	if d.Snippet != "" {
		fmt.Fprintf(&b, "\n   |\n%4d | %s\n   | %s^",
			d.Pos.Line, d.Snippet, strings.Repeat(" ", max(d.Pos.Column-1, 0)))
	}
	return b.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Bag accumulates diagnostics across the pipeline and decides the final
// exit status: code generation only runs once ErrorCount() is zero.
type Bag struct {
	items []Diagnostic
}

// NewBag creates an empty diagnostic bag.
func NewBag() *Bag { return &Bag{} }

// Add records a diagnostic.
func (b *Bag) Add(d Diagnostic) { b.items = append(b.items, d) }

// Warn records a warning.
func (b *Bag) Warn(pos Position, cat Category, format string, args ...interface{}) {
	b.Add(Diagnostic{Kind: Warning, Category: cat, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// Err records an error.
func (b *Bag) Err(pos Position, cat Category, format string, args ...interface{}) {
	b.Add(Diagnostic{Kind: Error, Category: cat, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// All returns every diagnostic recorded so far, in recording order.
func (b *Bag) All() []Diagnostic { return b.items }

// ErrorCount returns the number of Error-or-worse diagnostics recorded.
func (b *Bag) ErrorCount() int {
	n := 0
	for _, d := range b.items {
		if d.Kind >= Error {
			n++
		}
	}
	return n
}

// HasErrors reports whether code generation must be skipped.
func (b *Bag) HasErrors() bool { return b.ErrorCount() > 0 }

// FatalError is a diagnostic that aborts the compiler immediately: popping a
// semantic-stack value of the wrong type, a nil info where one was required,
// an unrecognized symbol-kind bit. It always indicates a compiler bug, never
// a problem with the user's source.
type FatalError struct {
	Diagnostic
}

func NewFatal(format string, args ...interface{}) *FatalError {
	return &FatalError{Diagnostic{
		Kind:     Fatal,
		Category: CategoryInternal,
		Message:  "internal error: " + fmt.Sprintf(format, args...),
	}}
}

func (f *FatalError) Error() string { return f.Diagnostic.Error() }
