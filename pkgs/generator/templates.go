package generator

import (
	"strconv"
	"strings"
)

// funcMap supplies the handful of helpers the templates below need beyond
// plain field access: a line directive (spec 4.6, gated on --no-line) in
// each backend's own comment syntax, and simple string glue text/template
// has no operator for.
func funcMap(lineDirective func(file string, line int) string) map[string]interface{} {
	return map[string]interface{}{
		"line": lineDirective,
		"join": func(sep string, items []string) string { return strings.Join(items, sep) },
	}
}

// cxxLineDirective renders a standard preprocessor line directive, or ""
// when suppressed.
func cxxLineDirective(noLine bool) func(string, int) string {
	return func(file string, line int) string {
		if noLine || file == "" {
			return ""
		}
		return "#line " + strconv.Itoa(line) + " \"" + file + "\"\n"
	}
}

// javaLineDirective has no language-level equivalent to #line, so it
// emits a comment a human (or an IDE jumping to the CHSM source) can still
// use; it does not change compiler diagnostics the way the C++ directive
// does.
func javaLineDirective(noLine bool) func(string, int) string {
	return func(file string, line int) string {
		if noLine || file == "" {
			return ""
		}
		return "// " + file + ":" + strconv.Itoa(line) + "\n"
	}
}

// cxxDeclTemplate is the header: one class per state, per event, and the
// machine class itself — with a real per-state member on the machine (4.6
// emission rule b) — plus the transition_[] and per-event transitions_X_[]
// flat array declarations spec 6 names. state_ is a per-instance array of
// state pointers (not a compile-time POD table: see cxxDefTemplate's
// constructor body), populated once every state member exists.
//
// machine_{{.Name}} is forward-declared before the per-state classes since
// each state's enter/exit action parameters are pointers-to-member of the
// machine class, which the state class only needs declared, not complete.
const cxxDeclTemplate = `// Generated by chsmc. DO NOT EDIT.
#pragma once

{{- if .Preamble}}
{{line .SourceFile .Preamble.Line}}{{.Preamble.Text}}
{{- end}}

class machine_{{.Name}};
{{range .States}}
class state_{{.Mangled}} : public {{if eq .Kind "cluster"}}cluster{{else if eq .Kind "set"}}set{{else}}state{{end}}{{if .DerivedFrom}}, public {{.DerivedFrom}}{{end}} {
public:
  state_{{.Mangled}}(char const *name, state *parent{{if .HasEnterAction}}, bool (machine_{{$.Name}}::*enter_action)(){{end}}{{if .HasExitAction}}, bool (machine_{{$.Name}}::*exit_action)(){{end}}{{if eq .Kind "cluster"}}, bool history{{end}});
{{if .ChildArrayLiteral}}private:
  static int const children_[];
{{end}}};
{{end}}
{{range .Events}}
class event_{{.Mangled}} : public {{if eq .Kind "user"}}{{if .BaseMangled}}event_{{.BaseMangled}}{{else}}event{{end}}{{else}}event{{end}} {
public:
  struct param_block : public {{if and (eq .Kind "user") .BaseMangled}}event_{{.BaseMangled}}::param_block{{else}}event::param_block{{end}} {
    typedef {{if and (eq .Kind "user") .BaseMangled}}event_{{.BaseMangled}}::param_block{{else}}event::param_block{{end}} base_param_block;
    {{range .Params}}{{.Decl}};
    {{end}}
  };
};
{{end}}

class {{if .Public}}CHSM_PUBLIC {{end}}machine_{{.Name}}{{if .DerivedFrom}} : public {{.DerivedFrom}}{{end}} {
public:
  machine_{{.Name}}({{range $i, $p := .CtorParams}}{{if $i}}, {{end}}{{$p.Decl}}{{end}});

{{range .States}}  state_{{.Mangled}} {{.Mangled}};
{{end}}
  state *state_[{{len .States}} + 1];
  static transition const transition_[];
{{range .Events}}{{if .TransitionIndices}}  static int const transitions_{{.Mangled}}_[];
{{end}}{{end}}
};

// THE END
`

// cxxDefTemplate is the implementation: each per-state class's own
// constructor (forwarding to its cluster/set/state base), the machine
// constructor's member-initializer list over every state member (4.6
// emission rule c) followed by a body that populates the per-instance
// state_[] pointer table, the transition_[] flat array, and every
// auxiliary function's body pulled back out of the sink.
const cxxDefTemplate = `// Generated by chsmc. DO NOT EDIT.

{{range .States}}{{if .ChildArrayLiteral}}int const state_{{.Mangled}}::children_[] = {{.ChildArrayLiteral}};
{{end}}{{end}}

{{range .States}}
state_{{.Mangled}}::state_{{.Mangled}}(char const *name, state *parent{{if .HasEnterAction}}, bool (machine_{{$.Name}}::*enter_action)(){{end}}{{if .HasExitAction}}, bool (machine_{{$.Name}}::*exit_action)(){{end}}{{if eq .Kind "cluster"}}, bool history{{end}})
  : {{if eq .Kind "cluster"}}cluster{{else if eq .Kind "set"}}set{{else}}state{{end}}(name, parent{{if .HasEnterAction}}, enter_action{{end}}{{if .HasExitAction}}, exit_action{{end}}{{if eq .Kind "cluster"}}, history{{end}}) {
}
{{end}}

machine_{{.Name}}::machine_{{.Name}}({{range $i, $p := .CtorParams}}{{if $i}}, {{end}}{{$p.Decl}}{{end}})
  : {{range $i, $s := .States}}{{if $i}},
    {{end}}{{$s.Mangled}}("{{$s.Name}}", {{if $s.ParentMangled}}&{{$s.ParentMangled}}{{else}}nullptr{{end}}{{if $s.HasEnterAction}}, &machine_{{$.Name}}::enter_{{$s.Mangled}}{{end}}{{if $s.HasExitAction}}, &machine_{{$.Name}}::exit_{{$s.Mangled}}{{end}}{{if eq $s.Kind "cluster"}}, {{if $s.History}}true{{else}}false{{end}}{{end}}){{end}} {
{{range $i, $s := .States}}  state_[{{$i}}] = &{{$s.Mangled}};
{{end}}  state_[{{len .States}}] = nullptr;
}

transition const machine_{{.Name}}::transition_[] = {
{{range .Transitions}}  { {{if .ConditionFn}}&{{.ConditionFn}}{{else}}nullptr{{end}}, {{.FromID}}, {{.ToID}}, {{if .TargetFn}}&{{.TargetFn}}{{else}}nullptr{{end}}, {{if .ActionFn}}&{{.ActionFn}}{{else}}nullptr{{end}} },
{{end}}};

{{range .Events}}{{if .TransitionIndices}}int const machine_{{$.Name}}::transitions_{{.Mangled}}_[] = {{.TransitionIndexLiteral}};
{{end}}{{end}}

{{range .States}}
{{if .EnterAction}}bool machine_{{$.Name}}::enter_{{.Mangled}}() {
{{line $.SourceFile .EnterAction.Line}}{{.EnterAction.Text}}
}
{{end}}
{{if .ExitAction}}bool machine_{{$.Name}}::exit_{{.Mangled}}() {
{{line $.SourceFile .ExitAction.Line}}{{.ExitAction.Text}}
}
{{end}}
{{end}}

{{range .Events}}{{if eq .Precondition "expr"}}bool event_{{.Mangled}}::param_block::precondition() const {
  return base_param_block::precondition() && (
{{line $.SourceFile .PreconditionBody.Line}}{{.PreconditionBody.Text}}
  );
}
{{else if eq .Precondition "func"}}bool event_{{.Mangled}}::param_block::precondition() const {
{{line $.SourceFile .PreconditionBody.Line}}{{.PreconditionBody.Text}}
}
{{end}}{{end}}

{{range .Transitions}}
{{if .Condition}}bool {{.ConditionFn}}(event const &e) {
{{line $.SourceFile .Condition.Line}}{{.Condition.Text}}
}
{{end}}
{{if .Target}}state *{{.TargetFn}}(event const &e) {
{{line $.SourceFile .Target.Line}}{{.Target.Text}}
}
{{end}}
{{if .Action}}void {{.ActionFn}}(event const &e) {
{{line $.SourceFile .Action.Line}}{{.Action.Text}}
}
{{end}}
{{end}}

// THE END
`

// javaTemplate is the single output file Java's backend produces (no
// declaration/definition split, per 4.6's "may be the same stream").
const javaTemplate = `// Generated by chsmc. DO NOT EDIT.

{{- if .Preamble}}
{{line .SourceFile .Preamble.Line}}{{.Preamble.Text}}
{{- end}}

{{if .Public}}public {{end}}class machine_{{.Name}}{{if .DerivedFrom}} extends {{.DerivedFrom}}{{end}} {

  public machine_{{.Name}}({{range $i, $p := .CtorParams}}{{if $i}}, {{end}}{{$p.Decl}}{{end}}) {
  }

{{range .States}}
  static class state_{{.Mangled}} extends {{if eq .Kind "cluster"}}Cluster{{else if eq .Kind "set"}}Set{{else}}State{{end}} {
  }
{{end}}

{{range .Events}}
  static class event_{{.Mangled}} extends {{if eq .Kind "user"}}{{if .BaseMangled}}event_{{.BaseMangled}}{{else}}Event{{end}}{{else}}Event{{end}} {
    static class ParamBlock extends {{if and (eq .Kind "user") .BaseMangled}}event_{{.BaseMangled}}.ParamBlock{{else}}Event.ParamBlock{{end}} {
      {{range .Params}}{{.Decl}};
      {{end}}
      {{if eq .Precondition "expr"}}boolean precondition() {
        return super.precondition() && (
{{line $.SourceFile .PreconditionBody.Line}}{{.PreconditionBody.Text}}
        );
      }
      {{else if eq .Precondition "func"}}boolean precondition() {
{{line $.SourceFile .PreconditionBody.Line}}{{.PreconditionBody.Text}}
      }
      {{end}}
    }
  }
{{end}}

  static final StateInfo[] state_ = {
{{range .States}}    new StateInfo("{{.Name}}", {{if .ParentMangled}}"{{.ParentMangled}}"{{else}}null{{end}}, {{.HasEnterAction}}, {{.HasExitAction}}, {{.HasEnterEvent}}, {{.HasExitEvent}}),
{{end}}  };

  static final TransitionInfo[] transition_ = {
{{range .Transitions}}    new TransitionInfo({{.FromID}}, {{.ToID}}{{if .ConditionFn}}, "{{.ConditionFn}}"{{end}}{{if .TargetFn}}, "{{.TargetFn}}"{{end}}{{if .ActionFn}}, "{{.ActionFn}}"{{end}}),
{{end}}  };

{{range .Events}}{{if .TransitionIndices}}  static final int[] transitions_{{.Mangled}}_ = {{.TransitionIndexLiteral}};
{{end}}{{end}}

{{range .States}}
{{if .EnterAction}}  boolean enter_{{.Mangled}}() {
{{line $.SourceFile .EnterAction.Line}}{{.EnterAction.Text}}
  }
{{end}}
{{if .ExitAction}}  boolean exit_{{.Mangled}}() {
{{line $.SourceFile .ExitAction.Line}}{{.ExitAction.Text}}
  }
{{end}}
{{end}}

{{range .Transitions}}
{{if .Condition}}  boolean {{.ConditionFn}}(Event e) {
{{line $.SourceFile .Condition.Line}}{{.Condition.Text}}
  }
{{end}}
{{if .Target}}  State {{.TargetFn}}(Event e) {
{{line $.SourceFile .Target.Line}}{{.Target.Text}}
  }
{{end}}
{{if .Action}}  void {{.ActionFn}}(Event e) {
{{line $.SourceFile .Action.Line}}{{.Action.Text}}
  }
{{end}}
{{end}}

  // THE END
}
`
