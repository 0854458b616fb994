package symtab

import "testing"

type testInfo struct {
	Base
	tag string
}

func newTestInfo(tag string) *testInfo { return &testInfo{tag: tag} }

func TestScopingShadowAndRestore(t *testing.T) {
	tbl := New()

	tbl.OpenScope() // scope 1 (global)
	a1 := newTestInfo("outer")
	tbl.InsertHere("A", a1)

	tbl.OpenScope() // scope 2
	a2 := newTestInfo("inner")
	tbl.InsertHere("A", a2)

	if got := tbl.Lookup("A"); got != Info(a2) {
		t.Fatalf("expected inner info visible, got %v", got)
	}

	tbl.CloseScope() // back to scope 1
	if got := tbl.Lookup("A"); got != Info(a1) {
		t.Fatalf("expected outer info restored, got %v", got)
	}

	tbl.CloseScope() // back to scope 0
	if got := tbl.Lookup("A"); got != nil {
		t.Fatalf("expected symbol gone after closing last scope, got %v", got)
	}
}

func TestGlobalInsertWhileNestedShadowedByNested(t *testing.T) {
	tbl := New()
	tbl.OpenScope() // 1
	tbl.OpenScope() // 2

	inner := newTestInfo("inner")
	tbl.InsertHere("B", inner)

	global := newTestInfo("global")
	tbl.Insert("B", global, ScopeGlobal)

	if got := tbl.Lookup("B"); got != Info(inner) {
		t.Fatalf("nested info should still shadow a global insert, got %v", got)
	}

	tbl.CloseScope() // close scope 2, drop inner
	if got := tbl.Lookup("B"); got != Info(global) {
		t.Fatalf("global info should surface once nested scope closes, got %v", got)
	}
}

func TestUpgradePreservesIdentityAndMovesScope(t *testing.T) {
	tbl := New()
	tbl.OpenScope() // 1
	tbl.OpenScope() // 2

	placeholder := newTestInfo("placeholder")
	sym := tbl.InsertHere("C", placeholder)

	real := newTestInfo("real")
	got := tbl.Upgrade("C", real, ScopeGlobal)
	if got != sym {
		t.Fatalf("Upgrade changed symbol identity")
	}
	if tbl.Lookup("C") != Info(real) {
		t.Fatalf("expected upgraded info visible, got %v", tbl.Lookup("C"))
	}

	// Closing the placeholder's original scope (2) must not destroy the
	// upgraded info, since Upgrade moved it to ScopeGlobal.
	tbl.CloseScope()
	if tbl.Lookup("C") != Info(real) {
		t.Fatalf("upgraded info should survive closing its old scope, got %v", tbl.Lookup("C"))
	}
}
