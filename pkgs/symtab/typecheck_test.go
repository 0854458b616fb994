package symtab

import "testing"

type kindedTestInfo struct {
	Base
	kind Kind
}

func (k *kindedTestInfo) InfoKind() Kind { return k.kind }

func newKindedTestInfo(kind Kind) *kindedTestInfo { return &kindedTestInfo{kind: kind} }

func TestTypeCheckMatchingKindPasses(t *testing.T) {
	tbl := New()
	sym := tbl.InsertHere("s", newKindedTestInfo(KindState))

	ok, actual := TypeCheck(sym, KindState|KindCluster, MayExist)
	if !ok {
		t.Fatalf("expected ok=true, got actual=%v", actual)
	}
	if actual != KindState {
		t.Errorf("actual = %v, want KindState", actual)
	}
}

func TestTypeCheckWrongKindFails(t *testing.T) {
	tbl := New()
	sym := tbl.InsertHere("e", newKindedTestInfo(KindUserEvent))

	ok, actual := TypeCheck(sym, KindState|KindCluster|KindSet, MayExist)
	if ok {
		t.Fatal("expected ok=false for a UserEvent checked against state kinds")
	}
	if actual != KindUserEvent {
		t.Errorf("actual = %v, want KindUserEvent", actual)
	}
}

func TestTypeCheckMustExistRejectsAbsentSymbol(t *testing.T) {
	tbl := New()
	ok, actual := TypeCheck(tbl.LookupSymbol("nope"), KindState, MustExist)
	if ok {
		t.Fatal("expected ok=false: MustExist should reject a symbol with no info at all")
	}
	if actual != KindNone {
		t.Errorf("actual = %v, want KindNone", actual)
	}
}

func TestTypeCheckMayExistAcceptsAbsentSymbol(t *testing.T) {
	tbl := New()
	ok, _ := TypeCheck(tbl.LookupSymbol("nope"), KindState, MayExist)
	if !ok {
		t.Fatal("expected ok=true: MayExist should accept a forward reference with no info yet")
	}
}

func TestTypeCheckNoInfoRejectsAlreadyPresent(t *testing.T) {
	tbl := New()
	sym := tbl.InsertHere("s", newKindedTestInfo(KindState))

	ok, _ := TypeCheck(sym, KindState, NoInfo)
	if ok {
		t.Fatal("expected ok=false: NoInfo requires the symbol not already carry matching info")
	}
}

func TestTypeCheckUnkindedInfoTreatedAsNoKind(t *testing.T) {
	tbl := New()
	sym := tbl.InsertHere("s", newTestInfo("plain")) // testInfo from symtab_test.go, not Kinded

	ok, actual := TypeCheck(sym, KindState, MayExist)
	if !ok {
		t.Fatalf("MayExist should still pass when info doesn't implement Kinded, got actual=%v", actual)
	}
	if actual != KindNone {
		t.Errorf("actual = %v, want KindNone for an un-Kinded info", actual)
	}
}

func TestKindStringJoinsWithOr(t *testing.T) {
	if got, want := KindString(KindState|KindCluster), "state or cluster"; got != want {
		t.Errorf("KindString = %q, want %q", got, want)
	}
	if got, want := KindString(KindNone), "undeclared"; got != want {
		t.Errorf("KindString(KindNone) = %q, want %q", got, want)
	}
	// KindState and KindGlobal both render as "state"; the dedup in
	// KindString must collapse them to one entry, not "state or state".
	if got, want := KindString(KindState|KindGlobal), "state"; got != want {
		t.Errorf("KindString(KindState|KindGlobal) = %q, want %q", got, want)
	}
}
