package lexer

import "testing"

func collectTypes(l *Lexer) []TokenType {
	var types []TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == EOF {
			return types
		}
	}
}

func TestNormalPunctuationAndKeywords(t *testing.T) {
	src := `chsm Foo is cluster bar is state baz upon evt -> qux::quux { } ( ) [ ] < > , . :: -> ... % = & * $ %{ %}`
	l := New(src)
	want := []TokenType{
		CHSM, IDENT, IS, CLUSTER, IDENT, IS, STATE, IDENT,
		UPON, IDENT, ARROW, IDENT, COLONCOLON, IDENT,
		LBRACE, RBRACE, LPAREN, RPAREN, LBRACKET, RBRACKET,
		LANGLE, RANGLE, COMMA, DOT, COLONCOLON, ARROW, ELLIPSIS,
		PERCENT, EQUALS, AMP, STAR, DOLLAR, LBRACE_PCT, RBRACE_PCT, EOF,
	}
	got := collectTypes(l)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d\ngot: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCommentsSkipped(t *testing.T) {
	src := "state // trailing comment\nfoo /* block\ncomment */ is"
	l := New(src)
	got := collectTypes(l)
	want := []TokenType{STATE, IDENT, IS, EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestIntegerLiteral(t *testing.T) {
	l := New("param 42 is")
	l.NextToken() // param
	tok := l.NextToken()
	if tok.Type != INT || tok.Value != "42" {
		t.Fatalf("got %v, want INT(42)", tok)
	}
}

func TestLineColumnTracking(t *testing.T) {
	l := New("state\nfoo")
	tok := l.NextToken() // state, line 1
	if tok.Line != 1 {
		t.Fatalf("state token line = %d, want 1", tok.Line)
	}
	tok = l.NextToken() // foo, line 2
	if tok.Line != 2 {
		t.Fatalf("foo token line = %d, want 2", tok.Line)
	}
}

func TestHostChunkBalancesBrackets(t *testing.T) {
	l := New("[ if (a < b) { return x[0]; } ] rest")
	l.NextToken() // '[' is consumed in Normal mode before the push, as the parser does
	l.PushMode(MaybeHostExpr)
	tok := l.NextToken()
	l.PopMode()
	want := " if (a < b) { return x[0]; } "
	if tok.Type != CODE_CHUNK || tok.Value != want {
		t.Fatalf("got %#v, want CODE_CHUNK(%q)", tok, want)
	}
	next := l.NextToken()
	if next.Type != RBRACKET {
		t.Fatalf("token after chunk = %s, want RBRACKET", next.Type)
	}
}

func TestHostParamsBalancesParens(t *testing.T) {
	l := New("(int x, std::vector<int> y) rest")
	l.NextToken() // '(' is consumed in Normal mode before the push, as the parser does
	l.PushMode(MaybeHostParams)
	tok := l.NextToken()
	l.PopMode()
	want := "int x, std::vector<int> y"
	if tok.Type != CODE_CHUNK || tok.Value != want {
		t.Fatalf("got %#v, want CODE_CHUNK(%q)", tok, want)
	}
	next := l.NextToken()
	if next.Type != RPAREN {
		t.Fatalf("token after chunk = %s, want RPAREN", next.Type)
	}
}

func TestHostParamsStringLiteralHidesDelimiters(t *testing.T) {
	l := New(`(const char* s = "a)b") rest`)
	l.NextToken() // '(' is consumed in Normal mode before the push, as the parser does
	l.PushMode(MaybeHostParams)
	tok := l.NextToken()
	l.PopMode()
	want := `const char* s = "a)b"`
	if tok.Value != want {
		t.Fatalf("got %q, want %q", tok.Value, want)
	}
	if next := l.NextToken(); next.Type != RPAREN {
		t.Fatalf("token after chunk = %s, want RPAREN", next.Type)
	}
}

func TestHostClassCapturesQualifiedTemplateName(t *testing.T) {
	l := New("foo::Bar<int, baz::Qux> is cluster")
	l.PushMode(MaybeHostClass)
	tok := l.NextToken()
	l.PopMode()
	want := "foo::Bar<int, baz::Qux>"
	if tok.Value != want {
		t.Fatalf("got %q, want %q", tok.Value, want)
	}
	next := l.NextToken()
	if next.Type != IS {
		t.Fatalf("token after chunk = %s, want IS", next.Type)
	}
}

func TestHostClassTerminatesOnBrace(t *testing.T) {
	l := New("Foo { cluster bar")
	l.PushMode(MaybeHostClass)
	tok := l.NextToken()
	l.PopMode()
	if tok.Value != "Foo " {
		t.Fatalf("got %q, want %q", tok.Value, "Foo ")
	}
	if next := l.NextToken(); next.Type != LBRACE {
		t.Fatalf("token after chunk = %s, want LBRACE", next.Type)
	}
}

func TestIllegalCharacter(t *testing.T) {
	l := New("state #")
	l.NextToken()
	tok := l.NextToken()
	if tok.Type != ILLEGAL || tok.Value != "#" {
		t.Fatalf("got %v, want ILLEGAL(#)", tok)
	}
}
