// Package validator runs the compiler's post-parse semantic passes: the
// checks that need the whole IR in hand rather than a single token of
// lookahead, and so cannot live in the parser's semantic actions.
//
// Validate runs all four passes unconditionally, batching their
// diagnostics into the same bag the parser used, regardless of whether an
// earlier pass already found something wrong — code generation is the only
// stage gated on bag.HasErrors().
package validator

import (
	"github.com/aledsdavies/chsmc/pkgs/diag"
	"github.com/aledsdavies/chsmc/pkgs/ir"
	"github.com/aledsdavies/chsmc/pkgs/symtab"
)

// Validate runs the enter/exit back-patch, child-definedness,
// event-usedness, and transition well-formedness passes over chsm,
// recording findings in bag. No pass consults tbl.
func Validate(chsm *ir.CHSM, tbl *symtab.Table, bag *diag.Bag) {
	backpatchEnterExit(chsm)
	checkDefinedness(chsm, bag)
	checkEventUsedness(chsm, bag)
	checkTransitionWellFormedness(chsm, bag)
}
