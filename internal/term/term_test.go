package term

import "testing"

func newTestFactory() (*Factory, Sort, Sort) {
	f := NewFactory()
	nonrigid := f.Sorts.CreateNonrigid()
	rigid := f.Sorts.CreateRigid()
	return f, nonrigid, rigid
}

func TestCreateTermInterns(t *testing.T) {
	f, sort, _ := newTestFactory()
	n1 := f.Symbols.CreateName(sort)
	a1 := f.CreateAtom(n1)
	a2 := f.CreateAtom(n1)
	if a1 != a2 {
		t.Fatalf("expected interned atoms to be equal, got %v != %v", a1, a2)
	}
}

func TestDistinctArgsProduceDistinctTerms(t *testing.T) {
	f, sort, _ := newTestFactory()
	fn := f.Symbols.CreateFunction(sort, 1)
	n1 := f.CreateAtom(f.Symbols.CreateName(sort))
	n2 := f.CreateAtom(f.Symbols.CreateName(sort))
	t1 := f.CreateTerm(fn, []Term{n1})
	t2 := f.CreateTerm(fn, []Term{n2})
	if t1 == t2 {
		t.Fatalf("expected distinct terms for distinct arguments")
	}
}

func TestRigidFunctionOfNamesIsName(t *testing.T) {
	f, _, rigid := newTestFactory()
	fn := f.Symbols.CreateFunction(rigid, 1)
	n := f.CreateAtom(f.Symbols.CreateName(rigid))
	ground := f.CreateTerm(fn, []Term{n})
	if !ground.Name() {
		t.Fatalf("expected rigid function of names to be name-like")
	}
}

func TestNonrigidFunctionOfNamesIsNotName(t *testing.T) {
	f, sort, _ := newTestFactory()
	fn := f.Symbols.CreateFunction(sort, 1)
	n := f.CreateAtom(f.Symbols.CreateName(sort))
	ground := f.CreateTerm(fn, []Term{n})
	if ground.Name() {
		t.Fatalf("expected nonrigid function to not be name-like")
	}
}

func TestGroundAndPrimitive(t *testing.T) {
	f, sort, _ := newTestFactory()
	fn := f.Symbols.CreateFunction(sort, 1)
	n := f.CreateAtom(f.Symbols.CreateName(sort))
	v := f.CreateAtom(f.Symbols.CreateVariable(sort))
	ground := f.CreateTerm(fn, []Term{n})
	nonground := f.CreateTerm(fn, []Term{v})

	if !f.Ground(ground) {
		t.Errorf("expected ground term to be ground")
	}
	if f.Ground(nonground) {
		t.Errorf("expected term with variable to not be ground")
	}
	if !f.Primitive(ground) {
		t.Errorf("expected non-rigid function of a name to be primitive")
	}
	if f.Primitive(nonground) {
		t.Errorf("expected term with variable arg to not be primitive")
	}
}

func TestUnifyVariableBinding(t *testing.T) {
	f, sort, _ := newTestFactory()
	fn := f.Symbols.CreateFunction(sort, 2)
	v1 := f.CreateAtom(f.Symbols.CreateVariable(sort))
	v2 := f.CreateAtom(f.Symbols.CreateVariable(sort))
	n1 := f.CreateAtom(f.Symbols.CreateName(sort))
	n2 := f.CreateAtom(f.Symbols.CreateName(sort))

	lhs := f.CreateTerm(fn, []Term{v1, v2})
	rhs := f.CreateTerm(fn, []Term{n1, n2})

	sub, ok := f.UnifyTerms(lhs, rhs, DefaultUnifyCfg)
	if !ok {
		t.Fatalf("expected unification to succeed")
	}
	b1, ok := sub.Lookup(v1)
	if !ok || b1 != n1 {
		t.Errorf("expected v1 bound to n1, got %v (ok=%v)", b1, ok)
	}
	b2, ok := sub.Lookup(v2)
	if !ok || b2 != n2 {
		t.Errorf("expected v2 bound to n2, got %v (ok=%v)", b2, ok)
	}
}

func TestUnifyFailsOnDistinctNames(t *testing.T) {
	f, sort, _ := newTestFactory()
	n1 := f.CreateAtom(f.Symbols.CreateName(sort))
	n2 := f.CreateAtom(f.Symbols.CreateName(sort))
	if _, ok := f.UnifyTerms(n1, n2, DefaultUnifyCfg); ok {
		t.Fatalf("expected unification between distinct names to fail")
	}
}

func TestUnifyOccursCheck(t *testing.T) {
	f, sort, _ := newTestFactory()
	fn := f.Symbols.CreateFunction(sort, 1)
	v := f.CreateAtom(f.Symbols.CreateVariable(sort))
	cyclic := f.CreateTerm(fn, []Term{v})

	if _, ok := f.UnifyTerms(v, cyclic, UnifyTwoWay|OccursCheck); ok {
		t.Fatalf("expected occurs-check to reject a cyclic binding")
	}
	if _, ok := f.UnifyTerms(v, cyclic, UnifyTwoWay); !ok {
		t.Fatalf("expected unification without occurs-check to succeed")
	}
}

func TestUnifyOneWayRejectsBindingOnRestrictedSide(t *testing.T) {
	f, sort, _ := newTestFactory()
	v := f.CreateAtom(f.Symbols.CreateVariable(sort))
	n := f.CreateAtom(f.Symbols.CreateName(sort))
	if _, ok := f.UnifyTerms(n, v, UnifyLeft); ok {
		t.Fatalf("expected one-way unification to refuse binding the right-hand variable")
	}
}

func TestSubstitute(t *testing.T) {
	f, sort, _ := newTestFactory()
	fn := f.Symbols.CreateFunction(sort, 1)
	v := f.CreateAtom(f.Symbols.CreateVariable(sort))
	n := f.CreateAtom(f.Symbols.CreateName(sort))
	t1 := f.CreateTerm(fn, []Term{v})

	sub := NewSubstitution()
	sub.Add(v, n)
	result := f.Substitute(t1, sub.AsFunc())
	expected := f.CreateTerm(fn, []Term{n})
	if result != expected {
		t.Fatalf("expected substitution to rebuild term with n, got %v want %v", result, expected)
	}
}

func TestSubstituteSharesUnchangedSubtrees(t *testing.T) {
	f, sort, _ := newTestFactory()
	fn := f.Symbols.CreateFunction(sort, 1)
	n := f.CreateAtom(f.Symbols.CreateName(sort))
	t1 := f.CreateTerm(fn, []Term{n})

	sub := NewSubstitution()
	result := f.Substitute(t1, sub.AsFunc())
	if result != t1 {
		t.Fatalf("expected no-op substitution to return the identical term")
	}
}

func TestIsomorphic(t *testing.T) {
	f, sort, _ := newTestFactory()
	fn := f.Symbols.CreateFunction(sort, 2)
	v1 := f.CreateAtom(f.Symbols.CreateVariable(sort))
	v2 := f.CreateAtom(f.Symbols.CreateVariable(sort))
	w1 := f.CreateAtom(f.Symbols.CreateVariable(sort))
	w2 := f.CreateAtom(f.Symbols.CreateVariable(sort))

	lhs := f.CreateTerm(fn, []Term{v1, v2})
	rhs := f.CreateTerm(fn, []Term{w1, w2})

	if _, ok := f.IsomorphicTerms(lhs, rhs); !ok {
		t.Fatalf("expected isomorphism between differently-named variable structures")
	}

	asymmetric := f.CreateTerm(fn, []Term{v1, v1})
	if _, ok := f.IsomorphicTerms(asymmetric, rhs); ok {
		t.Fatalf("expected non-isomorphism when one side reuses a variable and the other doesn't")
	}
}

func TestMentions(t *testing.T) {
	f, sort, _ := newTestFactory()
	fn := f.Symbols.CreateFunction(sort, 1)
	v := f.CreateAtom(f.Symbols.CreateVariable(sort))
	n := f.CreateAtom(f.Symbols.CreateName(sort))
	wrapped := f.CreateTerm(fn, []Term{v})

	if !f.Mentions(wrapped, v) {
		t.Errorf("expected wrapped term to mention its argument")
	}
	if f.Mentions(wrapped, n) {
		t.Errorf("expected wrapped term to not mention an unrelated name")
	}
}
