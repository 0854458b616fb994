package generator

import (
	"io"
	"strconv"
	"strings"

	"github.com/aledsdavies/chsmc/pkgs/ir"
	"github.com/aledsdavies/chsmc/pkgs/mangle"
	"github.com/aledsdavies/chsmc/pkgs/paramscan"
	"github.com/aledsdavies/chsmc/pkgs/sink"
	"github.com/aledsdavies/chsmc/pkgs/symtab"
)

// Options controls details of generation that aren't themselves part of the
// IR: whether line directives point user-code errors back at the CHSM
// source (spec 4.6/6, the --no-line / -P flag) and the source file name
// those directives cite. The backend language is not part of Options: the
// caller picks a Backend itself (see ByName).
type Options struct {
	NoLine     bool
	SourceFile string
}

// Param is one host-language parameter, restuffed from its template with a
// backend-appropriate name by the time it reaches a template.
type Param struct {
	Name string
	Decl string
}

// AuxBody is one piece of raw host-language text pulled back out of the
// sink, ready to be preceded by a line directive and dropped verbatim into
// the definition stream.
type AuxBody struct {
	Line int
	Text string
}

// State is a flattened, generator-ready view of an ir.State/Cluster/Set.
type State struct {
	ID             int
	Name           string
	Mangled        string // flat mangled name, for synthesized function names
	Qualified      string // "::"-joined nested-class path from (but excluding) the root
	Kind           string // "state", "cluster", "set"
	ParentMangled  string // "" for the root
	DerivedFrom    string
	History        bool
	Deep           bool
	Final          bool
	HasEnterAction bool
	HasExitAction  bool
	HasEnterEvent  bool
	HasExitEvent   bool
	EnterAction    *AuxBody
	ExitAction     *AuxBody
	ChildIDs       []int // cluster/set children, declaration order; nil for a plain state
}

// ChildArrayLiteral renders ChildIDs as a brace-delimited, -1-terminated
// literal (spec 4.6: "parents pass a trailing children_ array of
// child-state IDs terminated by -1"), or "" for a plain state.
func (s State) ChildArrayLiteral() string {
	if s.Kind != "cluster" && s.Kind != "set" {
		return ""
	}
	var b strings.Builder
	b.WriteString("{")
	for _, id := range s.ChildIDs {
		b.WriteString(strconv.Itoa(id))
		b.WriteString(", ")
	}
	b.WriteString("-1}")
	return b.String()
}

// Event is a flattened view of an ir.Event (synthetic enter/exit) or
// ir.UserEvent (user-declared).
type Event struct {
	ID                int
	Name              string
	Mangled           string
	Kind              string // "enter", "exit", "user"
	StateID           int    // owning state's ID, for enter/exit; -1 for a user event
	BaseMangled       string // "" if no base event
	Params            []Param
	HasAnyParameters  bool
	Precondition      string // "none", "expr", "func"
	PreconditionBody  *AuxBody
	TransitionIndices []int
}

// ParamDecls renders Params as a comma-joined parameter-declaration list
// for the event's dispatch-function signature, each restuffed from its
// captured template with the backend-neutral name paramscan already
// extracted.
func (e Event) ParamDecls() string {
	parts := make([]string, len(e.Params))
	for i, p := range e.Params {
		parts[i] = p.Decl
	}
	return strings.Join(parts, ", ")
}

// TransitionIndexLiteral renders TransitionIndices as a brace-delimited,
// -1-terminated literal for the per-event transitions_[] index array spec
// 6 names.
func (e Event) TransitionIndexLiteral() string {
	var b strings.Builder
	b.WriteString("{")
	for _, idx := range e.TransitionIndices {
		b.WriteString(strconv.Itoa(idx))
		b.WriteString(", ")
	}
	b.WriteString("-1}")
	return b.String()
}

// Transition is a flattened view of an ir.Transition.
type Transition struct {
	Index       int
	FromID      int
	ToID        int // -1 when Internal or Computed
	Internal    bool
	Computed    bool
	Condition   *AuxBody
	ConditionFn string
	Target      *AuxBody
	TargetFn    string
	Action      *AuxBody
	ActionFn    string
}

// Model is the complete, language-agnostic description of a compiled CHSM
// machine a backend's templates render from.
type Model struct {
	Name        string
	DerivedFrom string
	Public      bool
	History     bool
	CtorParams  []Param
	Preamble    *AuxBody
	States      []State
	Events      []Event
	Transitions []Transition
	NoLine      bool
	SourceFile  string
}

// BuildModel flattens a validated IR (chsm must already have passed
// package validator with no errors) plus the sink's captured host-code
// chunks into a Model ready for template rendering. chunks should be a
// fresh reader over a rewound sink (sink.Sink.NewChunkReader after
// sink.Sink.Rewind).
func BuildModel(chsm *ir.CHSM, tbl *symtab.Table, chunks *sink.ChunkReader, opts Options) (*Model, error) {
	aux, err := readAux(chunks)
	if err != nil {
		return nil, err
	}

	m := &Model{
		Name:        chsm.Name,
		DerivedFrom: chsm.DerivedFrom,
		Public:      chsm.Public,
		NoLine:      opts.NoLine,
		SourceFile:  opts.SourceFile,
	}
	for _, p := range chsm.CtorParams {
		m.CtorParams = append(m.CtorParams, Param{Name: p.Name, Decl: paramscan.StuffDecl(p.DeclTemplate, "", p.Name)})
	}
	if root, ok := chsm.Root.Current().(*ir.Cluster); ok {
		m.History = root.History
	}
	if body, ok := aux.takeExact("preamble", 0); ok {
		m.Preamble = body
	}

	for _, sym := range chsm.States {
		st, err := buildState(sym, aux)
		if err != nil {
			return nil, err
		}
		m.States = append(m.States, st)
	}

	for _, sym := range chsm.Events {
		ev, err := buildEvent(sym, aux)
		if err != nil {
			return nil, err
		}
		m.Events = append(m.Events, ev)
	}

	for _, t := range chsm.Transitions {
		m.Transitions = append(m.Transitions, buildTransition(t, aux))
	}

	return m, nil
}

func buildState(sym *symtab.Symbol, aux *auxIndex) (State, error) {
	info := sym.Current()
	base := ir.StateOf(info)
	if base == nil {
		return State{}, newModelError("symbol %q in CHSM.States is not a state", sym.Name)
	}

	out := State{
		ID:             base.ID,
		Name:           base.Name,
		Mangled:        mangle.Mangle(dottedPath(sym)),
		Qualified:      qualifiedPath(sym),
		DerivedFrom:    base.DerivedFrom,
		Final:          base.Final,
		HasEnterAction: base.HasEnterAction,
		HasExitAction:  base.HasExitAction,
		HasEnterEvent:  base.HasEnterEvent,
		HasExitEvent:   base.HasExitEvent,
	}
	if base.Parent != nil {
		out.ParentMangled = mangle.Mangle(dottedPath(base.Parent))
	}
	if body, ok := aux.take("enter", base.EnterActionID); ok {
		out.EnterAction = body
	}
	if body, ok := aux.take("exit", base.ExitActionID); ok {
		out.ExitAction = body
	}

	switch s := info.(type) {
	case *ir.Cluster:
		out.Kind = "cluster"
		out.History = s.History
		out.Deep = s.Deep
		out.ChildIDs = childIDs(s.Children)
	case *ir.Set:
		out.Kind = "set"
		out.ChildIDs = childIDs(s.Children)
	default:
		out.Kind = "state"
	}
	return out, nil
}

func childIDs(children []*symtab.Symbol) []int {
	ids := make([]int, 0, len(children))
	for _, c := range children {
		if st := ir.StateOf(c.Current()); st != nil {
			ids = append(ids, st.ID)
		}
	}
	return ids
}

func buildEvent(sym *symtab.Symbol, aux *auxIndex) (Event, error) {
	switch e := sym.Current().(type) {
	case *ir.Event:
		stateID := -1
		if st := ir.StateOf(e.State.Current()); st != nil {
			stateID = st.ID
		}
		return Event{
			Name:              sym.Name,
			Mangled:           mangle.Mangle(sym.Name),
			Kind:              e.Kind.String(),
			StateID:           stateID,
			TransitionIndices: e.TransitionIDs,
		}, nil
	case *ir.UserEvent:
		ev := Event{
			Name:              e.Name,
			Mangled:           mangle.Mangle(e.Name),
			Kind:              "user",
			StateID:           -1,
			HasAnyParameters:  e.HasAnyParameters(),
			TransitionIndices: e.TransitionIDs,
		}
		for _, p := range e.Params {
			ev.Params = append(ev.Params, Param{Name: p.Name, Decl: paramscan.StuffDecl(p.DeclTemplate, "", p.Name)})
		}
		if e.Base != nil {
			ev.BaseMangled = mangle.Mangle(e.Base.Name)
		}
		switch e.Precondition {
		case ir.PreconditionExpression:
			ev.Precondition = "expr"
			if body, ok := aux.take("precond-expr", e.PreconditionAuxID); ok {
				ev.PreconditionBody = body
			}
		case ir.PreconditionFunction:
			ev.Precondition = "func"
			if body, ok := aux.take("precond-func", e.PreconditionAuxID); ok {
				ev.PreconditionBody = body
			}
		default:
			ev.Precondition = "none"
		}
		return ev, nil
	default:
		return Event{}, newModelError("symbol %q in CHSM.Events is neither *ir.Event nor *ir.UserEvent", sym.Name)
	}
}

func buildTransition(t *ir.Transition, aux *auxIndex) Transition {
	out := Transition{
		Index:    t.DeclIndex,
		FromID:   -1,
		ToID:     -1,
		Internal: t.Internal,
		Computed: t.Computed,
	}
	if st := ir.StateOf(t.From.Current()); st != nil {
		out.FromID = st.ID
	}
	if t.To != nil {
		if st := ir.StateOf(t.To.Current()); st != nil {
			out.ToID = st.ID
		}
	}
	if t.ConditionID != 0 {
		out.ConditionFn = auxFnName("cond", t.ConditionID)
		if body, ok := aux.take("cond", t.ConditionID); ok {
			out.Condition = body
		}
	}
	if t.TargetID != 0 {
		out.TargetFn = auxFnName("target", t.TargetID)
		if body, ok := aux.take("target", t.TargetID); ok {
			out.Target = body
		}
	}
	if t.ActionID != 0 {
		out.ActionFn = auxFnName("action", t.ActionID)
		if body, ok := aux.take("action", t.ActionID); ok {
			out.Action = body
		}
	}
	return out
}

func auxFnName(kind string, id int) string {
	return "aux_" + kind + "_" + strconv.Itoa(id)
}

// dottedPath walks sym's parent chain from the root down to sym inclusive,
// joining state names with '.' — the form package mangle expects (see its
// doc comment).
func dottedPath(sym *symtab.Symbol) string {
	var parts []string
	for st := ir.StateOf(sym.Current()); st != nil; {
		parts = append(parts, st.Name)
		if st.Parent == nil {
			break
		}
		st = ir.StateOf(st.Parent.Current())
	}
	reverse(parts)
	return strings.Join(parts, ".")
}

// qualifiedPath is the nested-class reference path used by a backend's
// generated type references (e.g. "trunk::leaf" in C++), which — unlike
// the mangled function-name form — is not bijective and omits the root,
// since the root state's class is the machine class itself.
func qualifiedPath(sym *symtab.Symbol) string {
	var parts []string
	for st := ir.StateOf(sym.Current()); st != nil && st.Parent != nil; {
		parts = append(parts, st.Name)
		st = ir.StateOf(st.Parent.Current())
	}
	reverse(parts)
	return strings.Join(parts, "::")
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// auxIndex is every chunk the parser diverted into the sink, keyed by
// (kind, id) so the model builder can reattach each one to the IR node
// that owns it.
type auxIndex struct {
	byKey map[string]sink.Chunk
}

func readAux(r *sink.ChunkReader) (*auxIndex, error) {
	idx := &auxIndex{byKey: make(map[string]sink.Chunk)}
	for {
		c, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, newIOError("reading captured host code", err)
		}
		idx.byKey[c.Kind+"#"+strconv.Itoa(c.ID)] = c
	}
	return idx, nil
}

// take looks up a chunk whose aux ID is a "0 means none present" field
// (invariant 7): id 0 is treated as absent without even consulting the
// index.
func (a *auxIndex) take(kind string, id int) (*AuxBody, bool) {
	if id == 0 {
		return nil, false
	}
	return a.takeExact(kind, id)
}

// takeExact looks up a chunk by its literal (kind, id) key, with no
// "0 means absent" special case — used for the file-scope preamble, whose
// id is genuinely 0.
func (a *auxIndex) takeExact(kind string, id int) (*AuxBody, bool) {
	c, ok := a.byKey[kind+"#"+strconv.Itoa(id)]
	if !ok {
		return nil, false
	}
	return &AuxBody{Line: c.Line, Text: c.Text}, true
}
