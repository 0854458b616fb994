package validator

import "github.com/aledsdavies/chsmc/pkgs/ir"

// backpatchEnterExit sets HasEnterEvent/HasExitEvent on every state that
// owns a synthetic enter or exit event with at least one transition
// registered against it, so the generator knows whether a state's
// enter/exit method must broadcast an event in addition to running any
// upon-enter/upon-exit action. This is purely additive to
// HasEnterAction/HasExitAction, which the parser already set directly from
// the source's upon clauses: a state can have an action with no triggered
// event, an event with no action, both, or neither.
func backpatchEnterExit(chsm *ir.CHSM) {
	for _, sym := range chsm.Events {
		ev, ok := sym.Current().(*ir.Event)
		if !ok || !ev.HasOutgoingTransitions() {
			continue
		}
		st := ir.StateOf(ev.State.Current())
		if st == nil {
			continue
		}
		switch ev.Kind {
		case ir.EventEnter:
			st.HasEnterEvent = true
		case ir.EventExit:
			st.HasExitEvent = true
		}
	}
}
