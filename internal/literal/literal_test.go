package literal

import (
	"testing"

	"limbo/internal/term"
)

func setup() (*term.Factory, term.Sort) {
	f := term.NewFactory()
	return f, f.Sorts.CreateNonrigid()
}

func TestNewNormalisesOrder(t *testing.T) {
	f, sort := setup()
	a := f.CreateAtom(f.Symbols.CreateName(sort))
	b := f.CreateAtom(f.Symbols.CreateName(sort))
	if !Eq(a, b).Equal(Eq(b, a)) {
		t.Fatalf("expected Eq(a,b) and Eq(b,a) to normalise to the same literal")
	}
}

func TestValidReflexive(t *testing.T) {
	f, sort := setup()
	a := f.CreateAtom(f.Symbols.CreateName(sort))
	if !Eq(a, a).Valid() {
		t.Errorf("expected a=a to be valid")
	}
	if Neq(a, a).Valid() {
		t.Errorf("expected a!=a to not be valid")
	}
}

func TestValidDistinctNames(t *testing.T) {
	f, sort := setup()
	a := f.CreateAtom(f.Symbols.CreateName(sort))
	b := f.CreateAtom(f.Symbols.CreateName(sort))
	if !Neq(a, b).Valid() {
		t.Errorf("expected a!=b to be valid for distinct ground names")
	}
	if Eq(a, b).Valid() {
		t.Errorf("expected a=b to not be valid for distinct ground names")
	}
}

func TestComplementary(t *testing.T) {
	f, sort := setup()
	a := f.CreateAtom(f.Symbols.CreateName(sort))
	b := f.CreateAtom(f.Symbols.CreateName(sort))
	if !Complementary(Eq(a, b), Neq(a, b)) {
		t.Errorf("expected Eq(a,b) and Neq(a,b) to be complementary")
	}
	if Complementary(Eq(a, b), Eq(a, b)) {
		t.Errorf("expected a literal to not be complementary with itself")
	}
}

func TestFlip(t *testing.T) {
	f, sort := setup()
	a := f.CreateAtom(f.Symbols.CreateName(sort))
	b := f.CreateAtom(f.Symbols.CreateName(sort))
	l := Eq(a, b)
	if !Complementary(l, l.Flip()) {
		t.Errorf("expected a literal and its flip to be complementary")
	}
}

func TestSubsumesViaVariable(t *testing.T) {
	f, sort := setup()
	v := f.CreateAtom(f.Symbols.CreateVariable(sort))
	n := f.CreateAtom(f.Symbols.CreateName(sort))
	general := Eq(v, n)
	specific := Eq(n, n)
	if !Subsumes(f, general, specific) {
		t.Errorf("expected v=n to subsume n=n")
	}
	if Subsumes(f, specific, general) {
		t.Errorf("expected n=n to not subsume v=n")
	}
}

func TestProperlySubsumesExcludesIdentity(t *testing.T) {
	f, sort := setup()
	n := f.CreateAtom(f.Symbols.CreateName(sort))
	l := Eq(n, n)
	if ProperlySubsumes(f, l, l) {
		t.Errorf("expected a literal to not properly subsume itself")
	}
}

func TestCompareOrdersByLHSAndSentinel(t *testing.T) {
	f, sort := setup()
	a := f.CreateAtom(f.Symbols.CreateName(sort))
	b := f.CreateAtom(f.Symbols.CreateName(sort))
	min := Min(a)
	real := Eq(a, b)
	if Compare(min, real) >= 0 {
		t.Errorf("expected sentinel Min literal to sort before a real literal sharing lhs")
	}
}
