// Package ir defines the compiler's intermediate representation: the
// tagged-variant family of per-scope info records that hang off symbols in
// package symtab, plus an Accept/Visitor interface for walking them.
//
// States and events are created at their first syntactic appearance
// (possibly as Child or Global placeholders) and mutated into their final
// kind once the parser reaches their definition; the parser's realize
// helper does this through symtab.Table.Upgrade.
package ir

import (
	"github.com/aledsdavies/chsmc/pkgs/diag"
	"github.com/aledsdavies/chsmc/pkgs/symtab"
)

// Child is a placeholder for a name appearing in a parent's child list
// before its own definition has been seen. It is scoped to the parent's
// enclosing scope, so it is destroyed when that scope closes; the
// validator's child-definedness pass (via CHSM.PendingChildren) then warns
// about any Child that was never defined.
type Child struct {
	symtab.Base
	Parent  *symtab.Symbol
	Defined bool
	RefPos  diag.Position // location of the first reference, for diagnostics
}

// InfoKind implements symtab.Kinded, for TypeCheck.
func (*Child) InfoKind() symtab.Kind { return symtab.KindChild }

// Global is a forward reference to a state that has not yet been defined.
// Unlike Child, it lives at global scope and is retained until the state
// is finally defined (upgraded in place) or until end of compilation,
// where it becomes a validator error ("state never defined").
type Global struct {
	symtab.Base
	RefPos diag.Position
}

// InfoKind implements symtab.Kinded, for TypeCheck.
func (*Global) InfoKind() symtab.Kind { return symtab.KindGlobal }

// State is a plain state: a leaf with no children, or the not-yet-typed
// base shared by Cluster and Set.
type State struct {
	symtab.Base
	Name           string
	Parent         *symtab.Symbol // nil only for the root cluster
	DerivedFrom    string         // backend-specific base-class name, "" if none
	HasEnterAction bool
	HasExitAction  bool
	EnterActionID  int // aux ID the "enter" chunk was written to the sink under, 0 if none
	ExitActionID   int // aux ID the "exit" chunk was written to the sink under, 0 if none
	HasEnterEvent  bool // back-patched by the validator's enter/exit pass
	HasExitEvent   bool
	Final          bool // marks a cluster child as a terminal state
	ID             int   // serial ID assigned in declaration order
	Pos            diag.Position
}

// Accept implements the generator's visitor dispatch for a plain state.
func (s *State) Accept(v Visitor) error { return v.VisitState(s) }

// InfoKind implements symtab.Kinded, for TypeCheck. Cluster and Set embed
// State but each define their own InfoKind, so this only fires for a plain
// (childless) state.
func (*State) InfoKind() symtab.Kind { return symtab.KindState }

// Cluster is a State whose children are mutually exclusive: at most one is
// active at a time. History, if set, means the cluster remembers which
// child was last active and re-enters it rather than the default child.
type Cluster struct {
	State
	History  bool
	Deep     bool // "deep" implies History and propagates it to every descendant cluster
	Children []*symtab.Symbol // ordered, per invariant 4
}

func (c *Cluster) Accept(v Visitor) error { return v.VisitCluster(c) }

// InfoKind implements symtab.Kinded, overriding State's promoted method.
func (*Cluster) InfoKind() symtab.Kind { return symtab.KindCluster }

// Set is a State whose children are all active concurrently.
type Set struct {
	State
	Children []*symtab.Symbol
}

func (s *Set) Accept(v Visitor) error { return v.VisitSet(s) }

// InfoKind implements symtab.Kinded, overriding State's promoted method.
func (*Set) InfoKind() symtab.Kind { return symtab.KindSet }

// EventKind distinguishes the two synthetic events the compiler generates
// for every state.
type EventKind int

const (
	EventEnter EventKind = iota
	EventExit
)

func (k EventKind) String() string {
	if k == EventExit {
		return "exit"
	}
	return "enter"
}

// Event is a synthetic enter- or exit-event for a named state.
type Event struct {
	symtab.Base
	Kind          EventKind
	State         *symtab.Symbol
	TransitionIDs []int // indices into CHSM.Transitions that trigger on this event
}

func (e *Event) Accept(v Visitor) error { return v.VisitEvent(e) }

// InfoKind implements symtab.Kinded, for TypeCheck. Named InfoKind rather
// than Kind since Event already has a Kind field (EventEnter/EventExit).
func (*Event) InfoKind() symtab.Kind { return symtab.KindEnterExitEvent }

// HasOutgoingTransitions reports whether at least one transition triggers
// on this event — the condition the validator's back-patching pass checks
// before setting the owning state's HasEnterEvent/HasExitEvent flag.
func (e *Event) HasOutgoingTransitions() bool { return len(e.TransitionIDs) > 0 }

// PreconditionMode selects how a UserEvent's precondition, if any, was
// written.
type PreconditionMode int

const (
	PreconditionNone PreconditionMode = iota
	PreconditionExpression
	PreconditionFunction
)

// Param is one parameter of a UserEvent, captured via the host-language
// parameter scanner (package paramscan): DeclTemplate holds the original
// declaration with the parameter's name replaced by a single '$', ready
// for paramscan.StuffDecl to re-stuff with a prefix and name at emission
// time.
type Param struct {
	Name         string
	DeclTemplate string
	Line         int
}

// UserEvent is a named event declared with the `event` keyword. It may
// derive from a single base event (single inheritance), carries its own
// ordered parameter list, and may be guarded by a precondition.
type UserEvent struct {
	infoBase
	Name              string
	Base              *symtab.Symbol // optional base UserEvent, nil if none
	Params            []Param
	Precondition      PreconditionMode
	PreconditionAuxID int // 0 if PreconditionNone
	TransitionIDs     []int
	DeclIndex         int // position in CHSM.Events, for ordering invariant 6
	Used              bool
	Pos               diag.Position
}

// infoBase lets UserEvent embed symtab.Base under a name that does not
// collide with its own Base (base-event) field.
type infoBase = symtab.Base

func (u *UserEvent) Accept(v Visitor) error { return v.VisitUserEvent(u) }

// InfoKind implements symtab.Kinded, for TypeCheck.
func (*UserEvent) InfoKind() symtab.Kind { return symtab.KindUserEvent }

// HasAnyParameters is the transitive OR up the base-event chain (invariant
// 8): true if this event or any ancestor in its base chain declares at
// least one parameter.
func (u *UserEvent) HasAnyParameters() bool {
	for e := u; e != nil; e = baseUserEvent(e) {
		if len(e.Params) > 0 {
			return true
		}
	}
	return false
}

func baseUserEvent(u *UserEvent) *UserEvent {
	if u.Base == nil {
		return nil
	}
	if be, ok := u.Base.Current().(*UserEvent); ok {
		return be
	}
	return nil
}

// Transition connects a from-state to an (optional) to-state, triggered by
// whatever event's TransitionIDs names its index.
type Transition struct {
	symtab.Base
	From        *symtab.Symbol
	To          *symtab.Symbol // nil for internal or computed-target transitions
	Internal    bool           // "..." target: no state change, action runs
	Computed    bool           // "$ { expr }" target: resolved at runtime
	ConditionID int            // 0 means "no condition present"
	TargetID    int            // 0 means "no target function present"
	ActionID    int            // 0 means "no action present"
	DeclIndex   int            // position in CHSM.Transitions, for invariant 5
	Pos         diag.Position
}

func (t *Transition) Accept(v Visitor) error { return v.VisitTransition(t) }

// CHSM is the singleton root record produced by parsing a `chsm` block. At
// most one exists per compilation (invariant 2).
type CHSM struct {
	symtab.Base
	Name        string
	DerivedFrom string
	Public      bool
	Root        *symtab.Symbol // the root cluster's symbol; Root info is *Cluster
	CtorParams  []Param

	States      []*symtab.Symbol // all State/Cluster/Set symbols, declaration order
	Events      []*symtab.Symbol // all Event/UserEvent symbols, declaration order
	Transitions []*Transition    // declaration order (invariant 5)

	// PendingChildren and PendingGlobals are every Child/Global placeholder
	// the parser ever created, tracked independently of symtab scope
	// closing (which would otherwise destroy the very record the
	// validator's passes 2 and 4-adjacent "forward ref never resolved"
	// checks need to inspect once parsing is done).
	PendingChildren []*Child
	PendingGlobals  []*symtab.Symbol

	nextConditionID int
	nextTargetID    int
	nextActionID    int
}

func (c *CHSM) Accept(v Visitor) error { return v.VisitCHSM(c) }

// InfoKind implements symtab.Kinded, for TypeCheck.
func (*CHSM) InfoKind() symtab.Kind { return symtab.KindCHSM }

// NextConditionID, NextTargetID, and NextActionID hand out fresh,
// 1-based auxiliary-function IDs; 0 is reserved to mean "none present"
// (invariant 7).
func (c *CHSM) NextConditionID() int { c.nextConditionID++; return c.nextConditionID }
func (c *CHSM) NextTargetID() int    { c.nextTargetID++; return c.nextTargetID }
func (c *CHSM) NextActionID() int    { c.nextActionID++; return c.nextActionID }

// AddState appends a newly realized state/cluster/set symbol to the
// declaration-order list and assigns it the next serial ID.
func (c *CHSM) AddState(sym *symtab.Symbol, st *State) {
	st.ID = len(c.States)
	c.States = append(c.States, sym)
}

// AddEvent appends a newly realized event symbol to the declaration-order
// list.
func (c *CHSM) AddEvent(sym *symtab.Symbol) {
	c.Events = append(c.Events, sym)
}

// AddTransition appends a transition, in declaration order, and returns it.
func (c *CHSM) AddTransition(t *Transition) *Transition {
	t.DeclIndex = len(c.Transitions)
	c.Transitions = append(c.Transitions, t)
	return t
}

// Visitor walks the IR polymorphically; each concrete info kind's Accept
// method dispatches to the matching Visit* method. Nothing in this module
// implements it: generator.BuildModel walks the IR with type switches.
type Visitor interface {
	VisitCHSM(*CHSM) error
	VisitCluster(*Cluster) error
	VisitSet(*Set) error
	VisitState(*State) error
	VisitEvent(*Event) error
	VisitUserEvent(*UserEvent) error
	VisitTransition(*Transition) error
}

// Node is any IR record an Accept-based visitor can be driven over.
type Node interface {
	Accept(Visitor) error
}

// StateOf extracts the common State fields from any of the three state
// kinds, returning nil if info isn't a state at all.
func StateOf(info symtab.Info) *State {
	switch s := info.(type) {
	case *State:
		return s
	case *Cluster:
		return &s.State
	case *Set:
		return &s.State
	default:
		return nil
	}
}

// ParentOf follows a state's parent pointer to the parent's Cluster or Set
// info, or nil for the root.
func ParentOf(st *State) symtab.Info {
	if st.Parent == nil {
		return nil
	}
	return st.Parent.Current()
}

// ChildrenOf returns a state's ordered child list for Cluster/Set infos,
// or nil for a plain State (invariant 4).
func ChildrenOf(info symtab.Info) []*symtab.Symbol {
	switch s := info.(type) {
	case *Cluster:
		return s.Children
	case *Set:
		return s.Children
	default:
		return nil
	}
}

// IsSet reports whether info is a Set (used by the validator's
// nearest-common-ancestor check).
func IsSet(info symtab.Info) bool {
	_, ok := info.(*Set)
	return ok
}
