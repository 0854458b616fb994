package validator

import (
	"github.com/aledsdavies/chsmc/pkgs/diag"
	"github.com/aledsdavies/chsmc/pkgs/ir"
	"github.com/aledsdavies/chsmc/pkgs/symtab"
)

// checkTransitionWellFormedness rejects a transition whose from- and
// to-states' nearest common ancestor is a Set: a Set's children run
// concurrently, so there is no single active state for such a transition
// to leave from or arrive at, unlike a Cluster's mutually exclusive
// children. Internal ("...") and computed-target ("$ { expr }")
// transitions have no literal to-state and are exempt.
func checkTransitionWellFormedness(chsm *ir.CHSM, bag *diag.Bag) {
	for _, t := range chsm.Transitions {
		if t.Internal || t.Computed || t.To == nil {
			continue
		}
		fromState := ir.StateOf(t.From.Current())
		toState := ir.StateOf(t.To.Current())
		if fromState == nil || toState == nil {
			continue // an undeclared endpoint is already reported by checkDefinedness
		}

		from := ancestorChain(t.From)
		to := ancestorChain(t.To)
		ancestor := lowestCommonAncestor(from, to)
		if ancestor == nil {
			continue
		}
		if ir.IsSet(ancestor.Current()) {
			bag.Err(t.Pos, diag.CategoryIntraSet,
				"transition from %q to %q crosses between members of set %q: a transition cannot leave or enter a single member of a concurrently-active set",
				t.From.Name, t.To.Name, ancestor.Name)
		}
	}
}

// ancestorChain returns sym's path from the root cluster down to sym
// itself, inclusive.
func ancestorChain(sym *symtab.Symbol) []*symtab.Symbol {
	var reversed []*symtab.Symbol
	for cur := sym; cur != nil; {
		reversed = append(reversed, cur)
		st := ir.StateOf(cur.Current())
		if st == nil {
			break
		}
		cur = st.Parent
	}
	chain := make([]*symtab.Symbol, len(reversed))
	for i, sym := range reversed {
		chain[len(reversed)-1-i] = sym
	}
	return chain
}

// lowestCommonAncestor returns the deepest symbol shared by both root-to-
// leaf paths, or nil if they share nothing (which should not happen for
// two states in the same machine, since both paths start at the root).
func lowestCommonAncestor(a, b []*symtab.Symbol) *symtab.Symbol {
	var last *symtab.Symbol
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			break
		}
		last = a[i]
	}
	return last
}
