package lexer

import "fmt"

// TokenType enumerates CHSM's lexical token kinds: punctuation, keywords,
// literals, and the opaque "code chunk" kind produced while a non-Normal
// mode is active (see mode.go).
type TokenType int

const (
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
	LANGLE   // <
	RANGLE   // >
	LBRACE   // {
	RBRACE   // }
	COMMA    // ,
	SEMI     // ;
	DOT      // .
	COLON    // :
	COLONCOLON // ::
	ARROW    // ->
	ELLIPSIS // ...
	PERCENT  // %
	EQUALS   // =
	AMP      // &
	STAR     // *
	DOLLAR   // $
	LBRACE_PCT // %{
	RBRACE_PCT // %}

	// Identifiers and literals
	IDENT
	INT

	// Host-language fragments, captured verbatim by a non-Normal lexer mode.
	CODE_CHUNK

	// Keywords
	CHSM
	CLUSTER
	DEEP
	ENTER
	EVENT
	EXIT
	FINAL
	HISTORY
	IN
	IS
	PARAM
	SET
	STATE
	UPON
	PUBLIC
)

var tokenNames = map[TokenType]string{
	EOF:        "EOF",
	ILLEGAL:    "ILLEGAL",
	LPAREN:     "(",
	RPAREN:     ")",
	LBRACKET:   "[",
	RBRACKET:   "]",
	LANGLE:     "<",
	RANGLE:     ">",
	LBRACE:     "{",
	RBRACE:     "}",
	COMMA:      ",",
	SEMI:       ";",
	DOT:        ".",
	COLON:      ":",
	COLONCOLON: "::",
	ARROW:      "->",
	ELLIPSIS:   "...",
	PERCENT:    "%",
	EQUALS:     "=",
	AMP:        "&",
	STAR:       "*",
	DOLLAR:     "$",
	LBRACE_PCT: "%{",
	RBRACE_PCT: "%}",
	IDENT:      "IDENT",
	INT:        "INT",
	CODE_CHUNK: "CODE_CHUNK",
	CHSM:       "chsm",
	CLUSTER:    "cluster",
	DEEP:       "deep",
	ENTER:      "enter",
	EVENT:      "event",
	EXIT:       "exit",
	FINAL:      "final",
	HISTORY:    "history",
	IN:         "in",
	IS:         "is",
	PARAM:      "param",
	SET:        "set",
	STATE:      "state",
	UPON:       "upon",
	PUBLIC:     "public",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Keywords maps the reserved-word spellings to their token type. It is a
// literal map kept separately from tokenNames.
var Keywords = map[string]TokenType{
	"chsm":    CHSM,
	"cluster": CLUSTER,
	"deep":    DEEP,
	"enter":   ENTER,
	"event":   EVENT,
	"exit":    EXIT,
	"final":   FINAL,
	"history": HISTORY,
	"in":      IN,
	"is":      IS,
	"param":   PARAM,
	"set":     SET,
	"state":   STATE,
	"upon":    UPON,
	"public":  PUBLIC,
}

// Token is one lexical unit: its type, literal text, and source position.
// CODE_CHUNK tokens additionally carry the line on which the chunk began,
// which is what the code generator's line directives point back to.
type Token struct {
	Type   TokenType
	Value  string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Type, t.Value, t.Line, t.Column)
}
