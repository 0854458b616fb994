// Package generator implements the compiler's code-generation stage
// (spec 4.6): rendering a validated IR into C++ or Java source text via
// text/template, the same mechanism the teacher's Go-source generator
// used, repointed at two host languages instead of one.
package generator

import (
	"bytes"
	"path/filepath"
	"strings"
	"text/template"
)

// Backend turns a Model into the source text of the two output streams
// spec 4.6 describes (declaration/header and definition/implementation;
// some backends use the same stream for both).
type Backend interface {
	// Name identifies the backend for --language / -x and error messages.
	Name() string
	// DeclExt and DefExt are the file extensions Generate's two return
	// values should be written under.
	DeclExt() string
	DefExt() string
	// Generate renders m into (declaration, definition) source text.
	Generate(m *Model) (decl []byte, def []byte, err error)
}

// ByName returns the backend named name ("cxx", "c++" or "cpp" for C++,
// "java" for Java), or nil for any other name.
func ByName(name string) Backend {
	switch name {
	case "cxx", "c++", "cpp":
		return CXX{}
	case "java":
		return Java{}
	default:
		return nil
	}
}

// InferFromExtension guesses a backend from a source file's extension,
// per spec 6: ".chsmc" selects C++, ".chsmj" selects Java. Returns nil if
// the extension is unrecognized, so the caller can fall back to
// requiring an explicit --language flag.
func InferFromExtension(path string) Backend {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".chsmc":
		return CXX{}
	case ".chsmj":
		return Java{}
	default:
		return nil
	}
}

// CXX renders a two-stream C++ header/implementation pair.
type CXX struct{}

func (CXX) Name() string    { return "cxx" }
func (CXX) DeclExt() string { return ".h" }
func (CXX) DefExt() string  { return ".cc" }

func (CXX) Generate(m *Model) (decl []byte, def []byte, err error) {
	decl, err = render("cxx-decl", cxxDeclTemplate, m, cxxLineDirective(m.NoLine))
	if err != nil {
		return nil, nil, err
	}
	def, err = render("cxx-def", cxxDefTemplate, m, cxxLineDirective(m.NoLine))
	if err != nil {
		return nil, nil, err
	}
	return decl, def, nil
}

// Java renders a single-file implementation; DeclExt and DefExt name the
// same extension since Java has no separate interface file for this kind
// of generated class (4.6: "may be the same stream when the backend
// language doesn't separate them").
type Java struct{}

func (Java) Name() string    { return "java" }
func (Java) DeclExt() string { return ".java" }
func (Java) DefExt() string  { return ".java" }

func (Java) Generate(m *Model) (decl []byte, def []byte, err error) {
	out, err := render("java", javaTemplate, m, javaLineDirective(m.NoLine))
	if err != nil {
		return nil, nil, err
	}
	return out, out, nil
}

func render(name, body string, m *Model, lineDirective func(string, int) string) ([]byte, error) {
	tmpl, err := template.New(name).Funcs(funcMap(lineDirective)).Parse(body)
	if err != nil {
		return nil, newTemplateError(name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, m); err != nil {
		return nil, newTemplateError(name, err)
	}
	return buf.Bytes(), nil
}
