package parser

import (
	"fmt"

	"github.com/aledsdavies/chsmc/pkgs/diag"
	"github.com/aledsdavies/chsmc/pkgs/lexer"
)

// pos converts the parser's current token into a diag.Position, filling in
// a source line snippet so diag.Diagnostic.Error can render a caret.
func (p *Parser) pos() diag.Position {
	return p.posOf(p.cur)
}

func (p *Parser) posOf(tok lexer.Token) diag.Position {
	return diag.Position{File: p.filename, Line: tok.Line, Column: tok.Column}
}

func (p *Parser) snippet(line int) string {
	if line <= 0 || line > len(p.lines) {
		return ""
	}
	return p.lines[line-1]
}

// errorf records a syntax error at the current token.
func (p *Parser) errorf(cat diag.Category, format string, args ...interface{}) {
	d := diag.Diagnostic{
		Kind:     diag.Error,
		Category: cat,
		Pos:      p.pos(),
		Snippet:  p.snippet(p.cur.Line),
		Message:  fmt.Sprintf(format, args...),
	}
	p.bag.Add(d)
}

// warnf records a warning at pos.
func (p *Parser) warnf(pos diag.Position, cat diag.Category, format string, args ...interface{}) {
	p.bag.Warn(pos, cat, format, args...)
}
