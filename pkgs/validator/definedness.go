package validator

import (
	"github.com/aledsdavies/chsmc/pkgs/diag"
	"github.com/aledsdavies/chsmc/pkgs/ir"
)

// checkDefinedness reports every child name that was listed in a
// cluster/set's parenthesized child list but never itself declared with a
// state/cluster/set statement, and every state name referenced by a
// transition but never declared anywhere in the file.
//
// An undefined Child placeholder is destroyed before this pass runs
// (symtab.Table.CloseScope evicts it when the scope it was declared in
// closes), which is why the parser tracks every one it created in
// CHSM.PendingChildren. A Global placeholder lives at global scope and is
// still the symbol's current info here unless a declaration upgraded it;
// CHSM.PendingGlobals lists every such symbol.
func checkDefinedness(chsm *ir.CHSM, bag *diag.Bag) {
	for _, child := range chsm.PendingChildren {
		if child.Defined {
			continue
		}
		bag.Warn(child.RefPos, diag.CategoryUndefinedChild,
			"child state named in %q's child list was never declared", child.Parent.Name)
	}

	for _, sym := range chsm.PendingGlobals {
		g, ok := sym.Current().(*ir.Global)
		if !ok {
			continue // upgraded to a real state; nothing to report
		}
		bag.Err(g.RefPos, diag.CategoryUndefined, "state %q is never declared", sym.Name)
	}
}
