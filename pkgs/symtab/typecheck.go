package symtab

import "strings"

// Kind classifies the concrete type of an Info as a bitmask, mirroring the
// reference compiler's base_info::symbol_type (compiler_util.h) — the set
// is closed over the info kinds package ir defines, but symtab can't import
// ir (ir imports symtab for Base/Symbol), so the mapping from a concrete
// Info to its Kind lives on the Info itself via Kinded, not here.
type Kind uint

const (
	KindChild Kind = 1 << iota
	KindCHSM
	KindState
	KindGlobal
	KindCluster
	KindSet
	KindEnterExitEvent
	KindUserEvent
)

// Kinded is implemented by an Info that can report its Kind for TypeCheck.
// Named InfoKind rather than Kind so it doesn't collide with ir.Event's own
// Kind field (EventEnter/EventExit).
type Kinded interface {
	Info
	InfoKind() Kind
}

// Condition mirrors compiler_util.h's type_condition: what TypeCheck should
// require about whether the symbol has info at all, independent of whether
// that info's Kind matches.
type Condition int

const (
	// MayExist accepts either no info or info of a matching Kind.
	MayExist Condition = iota
	// NoInfo requires the symbol currently have no info; a matching Kind
	// present at all is rejected, to prevent defining the same name twice
	// at the same scope.
	NoInfo
	// MustExist requires the symbol already have info of a matching Kind —
	// used where a prior declaration is mandatory, e.g. the base event
	// named in an event declaration.
	MustExist
)

// TypeCheck asserts that sym's current info (if any) is one of the allowed
// types, per condition. It reports ok=false whenever present info's Kind
// doesn't intersect types, regardless of condition: a wrong-typed symbol is
// always an error. When sym has no info at all, ok reflects only whether
// condition permits that (MustExist rejects it, MayExist/NoInfo accept it).
// actual is the Kind found (KindNone if no info, or if the info doesn't
// implement Kinded), for the caller to format into a diagnostic via
// KindString.
//
// TypeCheck does not itself emit a diagnostic (unlike the reference
// compiler's type_check, which wrote directly to its global error stream):
// this package has no diag.Bag to write into without importing package diag
// for no other reason, so its callers (all in pkgs/parser) format their
// own message around the returned Kind.
func TypeCheck(sym *Symbol, types Kind, condition Condition) (ok bool, actual Kind) {
	if sym == nil {
		return condition != MustExist, KindNone
	}
	info := sym.Current()
	if info == nil {
		return condition != MustExist, KindNone
	}
	k, isKinded := info.(Kinded)
	if !isKinded {
		return condition != MustExist, KindNone
	}
	actual = k.InfoKind()
	if actual&types == KindNone {
		return false, actual
	}
	return condition != NoInfo, actual
}

var kindNames = []struct {
	bit  Kind
	name string
}{
	{KindChild, "child"},
	{KindCHSM, "chsm"},
	{KindState, "state"},
	{KindGlobal, "state"},
	{KindCluster, "cluster"},
	{KindSet, "set"},
	{KindEnterExitEvent, "enter/exit-event"},
	{KindUserEvent, "event"},
}

// KindString renders types as an "or"-separated list of type names, for
// diagnostics ("state or cluster \"foo\": state expected"). KindNone renders
// as "undeclared".
func KindString(types Kind) string {
	if types == KindNone {
		return "undeclared"
	}
	var names []string
	seen := make(map[string]bool)
	for _, kn := range kindNames {
		if types&kn.bit != 0 && !seen[kn.name] {
			names = append(names, kn.name)
			seen[kn.name] = true
		}
	}
	if len(names) == 0 {
		return "undeclared"
	}
	return strings.Join(names, " or ")
}

// KindNone is the zero Kind: no info, or info of a kind TypeCheck doesn't
// recognize.
const KindNone Kind = 0
