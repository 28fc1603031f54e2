package kernel

import (
	"context"
	"testing"

	"limbo/internal/bat"
	"limbo/internal/clause"
	"limbo/internal/formula"
	"limbo/internal/literal"
	"limbo/internal/setup"
	"limbo/internal/term"
)

func newTestKernel(t *testing.T, clauses []clause.Clause) (*Kernel, *bat.BAT, term.Sort) {
	t.Helper()
	b := bat.New()
	sort := b.Factory.Sorts.CreateNonrigid()
	s := setup.New(b.Factory, clauses, nil)
	return New(b, s, nil), b, sort
}

func TestEntailsClauseByPlainSubsumption(t *testing.T) {
	k, b, sort := newTestKernel(t, nil)
	v := b.Factory.CreateAtom(b.Factory.Symbols.CreateVariable(sort))
	n := b.Factory.CreateAtom(b.Factory.Symbols.CreateName(sort))
	unit := clause.New(b.Factory, literal.Eq(v, n))
	k.Setup.Clauses = []clause.Clause{unit}

	target := clause.New(b.Factory, literal.Eq(v, n))
	if !k.EntailsClause(context.Background(), target, 0) {
		t.Fatalf("expected plain subsumption to entail the target at depth 0")
	}
}

// TestEntailsClauseRequiresSufficientSplitDepth builds the classic
// resolution chain [p,q], [!p,r], [!q,r] |= r, grounded as equalities over
// a unary function so none of p/q/r collapse under the unique-name
// assumption (spec §3). Deriving r in the !p branch needs a nested split
// on q, so the target is only entailed once depth allows two splits.
func TestEntailsClauseRequiresSufficientSplitDepth(t *testing.T) {
	k, b, sort := newTestKernel(t, nil)
	f := b.Factory
	q := f.Symbols.CreateFunction(sort, 1)
	na := f.CreateAtom(f.Symbols.CreateName(sort))
	nb := f.CreateAtom(f.Symbols.CreateName(sort))
	nc := f.CreateAtom(f.Symbols.CreateName(sort))
	truth := f.CreateAtom(f.Symbols.CreateName(sort))

	p := literal.Eq(f.CreateTerm(q, []term.Term{na}), truth)
	qq := literal.Eq(f.CreateTerm(q, []term.Term{nb}), truth)
	r := literal.Eq(f.CreateTerm(q, []term.Term{nc}), truth)

	c1 := clause.New(f, p, qq)
	c2 := clause.New(f, p.Flip(), r)
	c3 := clause.New(f, qq.Flip(), r)
	k.Setup.Clauses = []clause.Clause{c1, c2, c3}

	target := clause.New(f, r)
	if k.EntailsClause(context.Background(), target, 1) {
		t.Fatalf("expected depth 1 to be insufficient to derive r")
	}
	if !k.EntailsClause(context.Background(), target, 2) {
		t.Fatalf("expected depth 2 to derive r via a nested split on q")
	}
}

// TestEntailsClauseSplitsOnSensedFluent checks the sense-splitting layer in
// isolation: depth 0 disables PEL splitting entirely, so the target clause
// [tl], whose only literal holds after two actions, can only be derived by
// splitting on the sensing outcome of the first action.
func TestEntailsClauseSplitsOnSensedFluent(t *testing.T) {
	k, b, sort := newTestKernel(t, nil)
	f := b.Factory
	actSort := f.Sorts.CreateNonrigid()
	actA := f.CreateAtom(f.Symbols.CreateName(actSort))
	actB := f.CreateAtom(f.Symbols.CreateName(actSort))
	fn := f.Symbols.CreateFunction(sort, 1)
	n := f.CreateAtom(f.Symbols.CreateName(sort))
	m := f.CreateAtom(f.Symbols.CreateName(sort))

	tl := literal.EqAfter([]term.Term{actA, actB}, f.CreateTerm(fn, []term.Term{m}), n)
	sfA := b.SFLiteral(nil, actA, true)

	c1 := clause.New(f, sfA.Flip(), tl)
	c2 := clause.New(f, sfA, tl)
	k.Setup.Clauses = []clause.Clause{c1, c2}

	target := clause.New(f, tl)
	if !k.EntailsClause(context.Background(), target, 0) {
		t.Fatalf("expected the sense layer to derive tl by splitting on SF(actA)")
	}
}

func TestEntailsClauseFailsWhenOnlyOneSensingBranchCovered(t *testing.T) {
	k, b, sort := newTestKernel(t, nil)
	f := b.Factory
	actSort := f.Sorts.CreateNonrigid()
	actA := f.CreateAtom(f.Symbols.CreateName(actSort))
	actB := f.CreateAtom(f.Symbols.CreateName(actSort))
	fn := f.Symbols.CreateFunction(sort, 1)
	n := f.CreateAtom(f.Symbols.CreateName(sort))
	m := f.CreateAtom(f.Symbols.CreateName(sort))

	tl := literal.EqAfter([]term.Term{actA, actB}, f.CreateTerm(fn, []term.Term{m}), n)
	sfA := b.SFLiteral(nil, actA, true)

	c1 := clause.New(f, sfA.Flip(), tl)
	k.Setup.Clauses = []clause.Clause{c1}

	target := clause.New(f, tl)
	if k.EntailsClause(context.Background(), target, 0) {
		t.Fatalf("expected entailment to fail with only one sensing branch covered")
	}
}

func TestConsistentDetectsComplementaryUnits(t *testing.T) {
	k, b, sort := newTestKernel(t, nil)
	f := b.Factory
	n := f.CreateAtom(f.Symbols.CreateName(sort))
	v := f.CreateAtom(f.Symbols.CreateVariable(sort))
	p := literal.Eq(v, n)
	k.Setup.Clauses = []clause.Clause{clause.New(f, p), clause.New(f, p.Flip())}

	if k.Consistent(context.Background(), 1) {
		t.Fatalf("expected complementary unit clauses to be detected as inconsistent at depth 1")
	}
}

func TestConsistentEmptySetup(t *testing.T) {
	k, _, _ := newTestKernel(t, nil)
	if !k.Consistent(context.Background(), 2) {
		t.Fatalf("expected an empty setup to be consistent")
	}
}

func TestEntailsFormulaRequiresEveryCNFClause(t *testing.T) {
	k, b, sort := newTestKernel(t, nil)
	f := b.Factory
	v := f.CreateAtom(f.Symbols.CreateVariable(sort))
	n := f.CreateAtom(f.Symbols.CreateName(sort))
	m := f.CreateAtom(f.Symbols.CreateName(sort))
	k.Setup.Clauses = []clause.Clause{clause.New(f, literal.Eq(v, n))}

	// "v=n and v=m" is ENNF'd/simplified to itself (already a conjunction
	// of ground-free literals); only the first conjunct is in the setup.
	phi := formula.And(formula.Lit(literal.Eq(v, n)), formula.Lit(literal.Eq(v, m)))
	if k.EntailsFormula(context.Background(), phi, 0) {
		t.Fatalf("expected entailment to fail when only one conjunct is in the setup")
	}

	k.Setup.Clauses = append(k.Setup.Clauses, clause.New(f, literal.Eq(v, m)))
	if !k.EntailsFormula(context.Background(), phi, 0) {
		t.Fatalf("expected entailment to succeed once both conjuncts are in the setup")
	}
}

func TestConsistentCachesPerDepth(t *testing.T) {
	k, b, sort := newTestKernel(t, nil)
	f := b.Factory
	n := f.CreateAtom(f.Symbols.CreateName(sort))
	v := f.CreateAtom(f.Symbols.CreateVariable(sort))
	p := literal.Eq(v, n)
	k.Setup.Clauses = []clause.Clause{clause.New(f, p), clause.New(f, p.Flip())}

	first := k.Consistent(context.Background(), 1)
	second := k.Consistent(context.Background(), 1)
	if first != second {
		t.Fatalf("expected a cached consistency verdict to be stable across calls")
	}
}
