package parser

import (
	"strings"

	"github.com/aledsdavies/chsmc/pkgs/diag"
	"github.com/aledsdavies/chsmc/pkgs/ir"
	"github.com/aledsdavies/chsmc/pkgs/lexer"
	"github.com/aledsdavies/chsmc/pkgs/paramscan"
	"github.com/aledsdavies/chsmc/pkgs/sink"
	"github.com/aledsdavies/chsmc/pkgs/symtab"
)

// Parser drives the CHSM grammar over a live lexer, rather than over a
// pre-tokenized slice: several grammar positions push a lexer mode
// immediately before pulling the next token, and that push must land
// exactly between two token fetches, never across buffered lookahead. See
// captureHostRegion.
type Parser struct {
	lex *lexer.Lexer
	cur lexer.Token

	filename string
	lines    []string

	bag  *diag.Bag
	tbl  *symtab.Table
	sink *sink.Sink

	chsm *ir.CHSM

	dialect paramscan.Lang
	stack   semanticStack

	sawChsm bool

	// auxSeq gives every sink chunk a source-order sequence number,
	// independent of the per-kind condition/target/action ID counters on
	// ir.CHSM. writeAux increments it; nothing reads it back.
	auxSeq int
}

// New creates a parser over src. filename is used for diagnostic
// positions and line directives; dialect selects the parameter-name
// extraction rule (paramscan.CPP or paramscan.Java) matching the chosen
// code-generation backend.
func New(src, filename string, dialect paramscan.Lang) (*Parser, error) {
	sk, err := sink.New()
	if err != nil {
		return nil, err
	}
	p := &Parser{
		lex:      lexer.New(src),
		filename: filename,
		lines:    strings.Split(src, "\n"),
		bag:      diag.NewBag(),
		tbl:      symtab.New(),
		sink:     sk,
		chsm:     &ir.CHSM{},
		dialect:  dialect,
	}
	// Open scope 1 (symtab.ScopeGlobal) up front, so the chsm body and
	// every cluster/set body open scopes above it and closing them never
	// destroys global infos.
	p.tbl.OpenScope()
	p.advance()
	return p, nil
}

// Close releases the parser's user-code sink. Safe to call once parsing
// (and, if successful, code generation's sink read-back) is done.
func (p *Parser) Close() error { return p.sink.Close() }

// Diagnostics returns every diagnostic recorded during parsing.
func (p *Parser) Diagnostics() *diag.Bag { return p.bag }

// Sink exposes the user-code sink so the generator can rewind and read it
// back once validation passes.
func (p *Parser) Sink() *sink.Sink { return p.sink }
