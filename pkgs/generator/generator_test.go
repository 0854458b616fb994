package generator

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aledsdavies/chsmc/pkgs/paramscan"
	"github.com/aledsdavies/chsmc/pkgs/parser"
	"github.com/aledsdavies/chsmc/pkgs/validator"
)

func buildModel(t *testing.T, src string, dialect paramscan.Lang, opts Options) *Model {
	t.Helper()
	p, err := parser.New(src, "test.chsm", dialect)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	chsm, tbl, bag := p.Parse()
	if bag.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", bag.All())
	}
	validator.Validate(chsm, tbl, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected validation errors: %v", bag.All())
	}

	sk := p.Sink()
	if err := sk.Rewind(); err != nil {
		t.Fatalf("Rewind: %v", err)
	}
	m, err := BuildModel(chsm, tbl, sk.NewChunkReader(), opts)
	if err != nil {
		t.Fatalf("BuildModel: %v", err)
	}
	return m
}

func TestBuildModelSmokeSingleLeafState(t *testing.T) {
	m := buildModel(t, `chsm M() is { state s; }`, paramscan.CPP, Options{})

	if len(m.States) != 2 { // root cluster + s
		t.Fatalf("States = %+v, want 2 (root + s)", m.States)
	}
	var s *State
	for i := range m.States {
		if m.States[i].Name == "s" {
			s = &m.States[i]
		}
	}
	if s == nil {
		t.Fatal("state s not found in model")
	}
	if s.Kind != "state" {
		t.Errorf("s.Kind = %q, want %q", s.Kind, "state")
	}
	if s.ParentMangled == "" {
		t.Error("s.ParentMangled should name the root cluster")
	}
}

func TestBuildModelClusterChildArrayLiteral(t *testing.T) {
	m := buildModel(t, `chsm M() is {
	cluster c(a, b) is {
		state a;
		a -> b;
		state b;
	}
}`, paramscan.CPP, Options{})

	var c *State
	for i := range m.States {
		if m.States[i].Name == "c" {
			c = &m.States[i]
		}
	}
	if c == nil {
		t.Fatal("cluster c not found")
	}
	if c.Kind != "cluster" {
		t.Fatalf("c.Kind = %q, want cluster", c.Kind)
	}
	if len(c.ChildIDs) != 2 {
		t.Fatalf("c.ChildIDs = %v, want 2 entries", c.ChildIDs)
	}
	if got, want := c.ChildArrayLiteral(), "-1}"; !strings.HasSuffix(got, want) {
		t.Errorf("ChildArrayLiteral() = %q, want suffix %q", got, want)
	}
}

func TestBuildModelTransitionCarriesAuxBodies(t *testing.T) {
	m := buildModel(t, `chsm M() is {
	state a;
	a -> b [ x > 0 ] { log(); };
	state b;
}`, paramscan.CPP, Options{})

	if len(m.Transitions) != 1 {
		t.Fatalf("Transitions = %+v, want 1", m.Transitions)
	}
	tr := m.Transitions[0]
	if tr.Condition == nil || !strings.Contains(tr.Condition.Text, "x > 0") {
		t.Errorf("transition Condition = %+v, want text containing 'x > 0'", tr.Condition)
	}
	if tr.Action == nil || !strings.Contains(tr.Action.Text, "log();") {
		t.Errorf("transition Action = %+v, want text containing 'log();'", tr.Action)
	}
	if tr.ConditionFn == "" || tr.ActionFn == "" {
		t.Errorf("transition = %+v, want both ConditionFn and ActionFn set", tr)
	}
}

func TestBuildModelEventPreconditionExpression(t *testing.T) {
	m := buildModel(t, `chsm M() is {
	event e [x > 0];
	state s;
}`, paramscan.CPP, Options{})

	var e *Event
	for i := range m.Events {
		if m.Events[i].Name == "e" {
			e = &m.Events[i]
		}
	}
	if e == nil {
		t.Fatal("event e not found")
	}
	if e.Precondition != "expr" {
		t.Fatalf("e.Precondition = %q, want %q", e.Precondition, "expr")
	}
	if e.PreconditionBody == nil || !strings.Contains(e.PreconditionBody.Text, "x > 0") {
		t.Errorf("e.PreconditionBody = %+v, want text containing 'x > 0'", e.PreconditionBody)
	}
}

func TestBuildModelPreambleIsAuxZero(t *testing.T) {
	m := buildModel(t, "%{\n#include <foo.h>\n%}\nchsm M() is { state s; }", paramscan.CPP, Options{})

	if m.Preamble == nil {
		t.Fatal("Preamble should be populated from the file-scope %{ ... %} block")
	}
	if !strings.Contains(m.Preamble.Text, "#include <foo.h>") {
		t.Errorf("Preamble.Text = %q, want it to contain the include line", m.Preamble.Text)
	}
}

func TestCXXGenerateProducesDeclAndDefWithSentinels(t *testing.T) {
	m := buildModel(t, `chsm M() is {
	state a;
	a -> b;
	state b;
}`, paramscan.CPP, Options{SourceFile: "test.chsm"})

	decl, def, err := CXX{}.Generate(m)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, stream := range []struct {
		name string
		text []byte
	}{{"decl", decl}, {"def", def}} {
		if !strings.Contains(string(stream.text), "THE END") {
			t.Errorf("%s stream missing \"THE END\" sentinel", stream.name)
		}
		if !strings.HasPrefix(string(stream.text), "// Generated by chsmc") {
			t.Errorf("%s stream missing banner line", stream.name)
		}
	}
	if !strings.Contains(string(decl), "class state_") {
		t.Error("decl stream should declare a class per state")
	}
	if !strings.Contains(string(decl), "state_[") {
		t.Error("decl stream should declare the per-instance state_[] pointer table")
	}
	if !strings.Contains(string(def), "machine_M::machine_M(") {
		t.Error("def stream should define the machine constructor")
	}
	if !strings.Contains(string(def), "state_[0] = &") {
		t.Error("def stream's machine constructor body should populate state_[]")
	}
	if !strings.Contains(string(def), "transition const machine_M::transition_[]") {
		t.Error("def stream should define the transition_[] flat array")
	}
}

func TestCXXGenerateDefinesPerStateMemberAndCtorInitializer(t *testing.T) {
	m := buildModel(t, `chsm M() is { state s; }`, paramscan.CPP, Options{SourceFile: "test.chsm"})

	var s State
	for _, st := range m.States {
		if st.Name == "s" {
			s = st
		}
	}
	if s.Mangled == "" {
		t.Fatal("state s not found in model")
	}

	decl, def, err := CXX{}.Generate(m)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(string(decl), "state_"+s.Mangled+" "+s.Mangled+";") {
		t.Errorf("decl stream should declare a %q member of type state_%s on the machine class", s.Mangled, s.Mangled)
	}
	if !strings.Contains(string(def), "state_"+s.Mangled+"::state_"+s.Mangled+"(char const *name, state *parent") {
		t.Error("def stream should define the leaf state's own constructor")
	}
	if !strings.Contains(string(def), s.Mangled+"(\"s\", &") {
		t.Error("machine constructor's member-initializer list should construct the state member by name, passing its parent")
	}
}

func TestCXXGenerateEventPreconditionExpressionUsesBaseParamBlockTypedef(t *testing.T) {
	m := buildModel(t, `chsm M() is {
	event e [x > 0];
	state s;
}`, paramscan.CPP, Options{SourceFile: "test.chsm"})

	decl, def, err := CXX{}.Generate(m)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(string(decl), "typedef event::param_block base_param_block;") {
		t.Error("decl stream should typedef base_param_block inside event_e::param_block")
	}
	if !strings.Contains(string(def), "base_param_block::precondition()") {
		t.Error("def stream's precondition() should call through base_param_block, not a bare 'base'")
	}
	if strings.Contains(string(def), "base::precondition()") {
		t.Error("def stream should not reference an undeclared 'base' type")
	}
}

func TestCXXGenerateEmitsLineDirectiveUnlessSuppressed(t *testing.T) {
	src := `chsm M() is {
	state a upon exit { log(); };
}`
	withLines := buildModel(t, src, paramscan.CPP, Options{SourceFile: "test.chsm"})
	_, def, err := CXX{}.Generate(withLines)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(string(def), "#line") {
		t.Error("def stream should contain a #line directive when NoLine is false")
	}

	suppressed := buildModel(t, src, paramscan.CPP, Options{SourceFile: "test.chsm", NoLine: true})
	_, def2, err := CXX{}.Generate(suppressed)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if strings.Contains(string(def2), "#line") {
		t.Error("def stream should not contain a #line directive when NoLine is true")
	}
}

func TestJavaGenerateSingleStreamCoversBothExtents(t *testing.T) {
	m := buildModel(t, `chsm M() is {
	state a;
	a -> b;
	state b;
}`, paramscan.Java, Options{SourceFile: "test.chsmj"})

	decl, def, err := Java{}.Generate(m)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if diff := cmp.Diff(string(decl), string(def)); diff != "" {
		t.Errorf("Java backend should render the same text for decl and def streams (-decl +def):\n%s", diff)
	}
	if !strings.Contains(string(def), "class machine_M") {
		t.Error("Java output should declare the machine class")
	}
}

func TestJavaGenerateEmitsPreconditionMethod(t *testing.T) {
	m := buildModel(t, `chsm M() is {
	event e [x > 0];
	state s;
}`, paramscan.Java, Options{SourceFile: "test.chsmj"})

	_, def, err := Java{}.Generate(m)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(string(def), "boolean precondition()") {
		t.Error("Java output should emit a precondition() method for an event with an expression-form precondition")
	}
	if !strings.Contains(string(def), "super.precondition()") {
		t.Error("Java output's expression-form precondition should call through super.precondition()")
	}
	if !strings.Contains(string(def), "x > 0") {
		t.Error("Java output should include the captured precondition expression body")
	}
}

func TestInferFromExtension(t *testing.T) {
	cases := []struct {
		path string
		want string // backend Name(), "" for nil
	}{
		{"foo.chsmc", "cxx"},
		{"foo.chsmj", "java"},
		{"foo.txt", ""},
	}
	for _, c := range cases {
		b := InferFromExtension(c.path)
		got := ""
		if b != nil {
			got = b.Name()
		}
		if got != c.want {
			t.Errorf("InferFromExtension(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}
