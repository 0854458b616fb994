package validator

import (
	"github.com/aledsdavies/chsmc/pkgs/diag"
	"github.com/aledsdavies/chsmc/pkgs/ir"
)

// checkEventUsedness warns about every declared UserEvent that no
// transition's "EVENT ':'" prefix ever names: such an event can never fire
// anything, so it is almost certainly a typo or a leftover from an edit, but
// it is not a hard error — the compiler still has a complete, well-typed
// event to emit.
func checkEventUsedness(chsm *ir.CHSM, bag *diag.Bag) {
	for _, sym := range chsm.Events {
		ue, ok := sym.Current().(*ir.UserEvent)
		if !ok || ue.Used {
			continue
		}
		bag.Warn(ue.Pos, diag.CategoryUnusedEvent, "event %q is declared but never named by a transition", ue.Name)
	}
}
