package paramscan

import "testing"

func TestScanParamsSimpleCPP(t *testing.T) {
	params, err := ScanParams("int x, double y", 1, CPP)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(params) != 2 {
		t.Fatalf("got %d params, want 2: %+v", len(params), params)
	}
	if params[0].Name != "x" || params[0].Decl != "int $" {
		t.Errorf("param 0 = %+v", params[0])
	}
	if params[1].Name != "y" || params[1].Decl != "double $" {
		t.Errorf("param 1 = %+v", params[1])
	}
}

func TestScanParamsPointerCPP(t *testing.T) {
	params, err := ScanParams("T *x", 1, CPP)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(params) != 1 || params[0].Name != "x" {
		t.Fatalf("got %+v", params)
	}
}

func TestScanParamsFunctionPointerCPP(t *testing.T) {
	// The name is the right-most identifier in the left-most parens: "foo",
	// not "i". This is the canonical hard case from chsmc's own comments.
	params, err := ScanParams("T (*const foo)(U i)", 1, CPP)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(params) != 1 {
		t.Fatalf("got %d params, want 1: %+v", len(params), params)
	}
	if params[0].Name != "foo" {
		t.Fatalf("name = %q, want foo", params[0].Name)
	}
}

func TestScanParamsJavaArrayBrackets(t *testing.T) {
	// Java's rule is simpler: always the right-most identifier.
	params, err := ScanParams("int x[], String y", 1, Java)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(params) != 2 || params[0].Name != "x" || params[1].Name != "y" {
		t.Fatalf("got %+v", params)
	}
}

func TestScanParamsTemplateTypeCPP(t *testing.T) {
	params, err := ScanParams("std::vector<int> items", 1, CPP)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(params) != 1 || params[0].Name != "items" {
		t.Fatalf("got %+v", params)
	}
}

func TestScanParamsEmpty(t *testing.T) {
	params, err := ScanParams("", 1, CPP)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(params) != 0 {
		t.Fatalf("got %+v, want none", params)
	}
}

func TestStuffDeclRoundTrip(t *testing.T) {
	// Property: for any scanned param, StuffDecl(decl, "", name) recovers
	// a declaration equivalent to the original (modulo the name's
	// position, which StuffDecl is exactly designed to restore).
	cases := []struct{ decl, s1, s2, want string }{
		{"int $", "", "x", "int x"},
		{"T (*const $)(U i)", "", "foo", "T (*const foo)(U i)"},
		{"T $", "P", "x", "T Px"},
	}
	for _, c := range cases {
		got := StuffDecl(c.decl, c.s1, c.s2)
		if got != c.want {
			t.Errorf("StuffDecl(%q, %q, %q) = %q, want %q", c.decl, c.s1, c.s2, got, c.want)
		}
	}
}

func TestStuffDeclNoPlaceholderIsNoop(t *testing.T) {
	got := StuffDecl("void", "P", "x")
	if got != "void" {
		t.Errorf("got %q, want unchanged", got)
	}
}
