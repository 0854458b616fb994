package parser

import "github.com/aledsdavies/chsmc/pkgs/symtab"

// valueKind tags a semanticStack entry so checkTag can catch a mismatched
// push/pop pair (Design Note 4: "the parser's heterogeneous push/pop is
// best modeled with a typed sum... and debug-only tag checks").
type valueKind int

const (
	valInt valueKind = iota
	valSym
)

type value struct {
	kind valueKind
	i    int
	sym  *symtab.Symbol
}

// semanticStack is the parser's typed push/pop stack for semantic values
// threaded across nested grammar productions. Parser carries one, but no
// production pushes or pops it at present. Entries are either a plain int or a symbol-table pointer; checkTag
// (see stack_debug.go/stack_release.go) verifies the kind on every pop when
// built with the chsmdebug tag.
type semanticStack struct {
	values []value
}

func (s *semanticStack) PushInt(i int) {
	s.values = append(s.values, value{kind: valInt, i: i})
}

func (s *semanticStack) PushSym(sym *symtab.Symbol) {
	s.values = append(s.values, value{kind: valSym, sym: sym})
}

func (s *semanticStack) PopInt() int {
	v := s.pop()
	checkTag(v, valInt)
	return v.i
}

func (s *semanticStack) PopSym() *symtab.Symbol {
	v := s.pop()
	checkTag(v, valSym)
	return v.sym
}

func (s *semanticStack) Len() int { return len(s.values) }

func (s *semanticStack) pop() value {
	v := s.values[len(s.values)-1]
	s.values = s.values[:len(s.values)-1]
	return v
}
