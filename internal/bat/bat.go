// Package bat implements the basic-action-theory data contracts (Ewff,
// UnivClause, BoxUnivClause) of spec §3, and a parser for the BAT surface
// language of spec §6.
package bat

import (
	"limbo/internal/clause"
	"limbo/internal/formula"
	"limbo/internal/herbrand"
	"limbo/internal/literal"
	"limbo/internal/term"
)

// UnivClause is a static universal clause "ewff -> clause": the clause
// holds in the initial situation whenever the ewff guard is satisfied by
// the grounding substitution. Vars/Names are precomputed at construction
// rather than recomputed per grounding attempt, mirroring the original
// setup.h's univ_clause_t varset/stdset fields.
type UnivClause struct {
	Ewff   Ewff
	Clause clause.Clause
	vars   []term.Term
	names  []term.Term
}

// NewUnivClause builds a static universal clause, precomputing its free
// variables and mentioned names.
func NewUnivClause(f *term.Factory, guard Ewff, c clause.Clause) UnivClause {
	vars := guard.Vars(f, nil)
	var names []term.Term
	for _, l := range c.Literals() {
		vars = collectVars(f, l.LHS(), vars)
		vars = collectVars(f, l.RHS(), vars)
		names = collectNames(f, l.LHS(), names)
		names = collectNames(f, l.RHS(), names)
	}
	return UnivClause{Ewff: guard, Clause: c, vars: vars, names: names}
}

// Vars returns the clause's free variables.
func (u UnivClause) Vars() []term.Term { return u.vars }

// Names returns the standard names the clause mentions.
func (u UnivClause) Names() []term.Term { return u.names }

// BoxUnivClause is a dynamic/boxed universal clause: it holds after every
// finite action sequence, so the grounder instantiates it once per
// action-sequence prefix appearing in the query (spec §3, §4.6).
type BoxUnivClause struct {
	UnivClause
}

// NewBoxUnivClause builds a boxed universal clause.
func NewBoxUnivClause(f *term.Factory, guard Ewff, c clause.Clause) BoxUnivClause {
	return BoxUnivClause{UnivClause: NewUnivClause(f, guard, c)}
}

func collectVars(f *term.Factory, t term.Term, out []term.Term) []term.Term {
	f.Traverse(t, func(sub term.Term) bool {
		if f.Variable(sub) {
			out = appendIfMissing(out, sub)
		}
		return true
	})
	return out
}

func collectNames(f *term.Factory, t term.Term, out []term.Term) []term.Term {
	f.Traverse(t, func(sub term.Term) bool {
		if sub.Name() {
			out = appendIfMissing(out, sub)
		}
		return true
	})
	return out
}

func appendIfMissing(out []term.Term, t term.Term) []term.Term {
	for _, o := range out {
		if o == t {
			return out
		}
	}
	return append(out, t)
}

// DefaultBeliefDepth is a split-depth budget for belief(φ => ψ) markers;
// see DESIGN.md's Open Question decision. AddBelief does not read it: the
// boxed clauses a belief line produces carry no depth of their own.
const DefaultBeliefDepth = 1

// BAT holds the parsed static and dynamic (boxed) clause sets of a basic
// action theory, plus the symbol tables needed to resolve a query written
// against the same vocabulary.
type BAT struct {
	Factory *term.Factory
	Static  []UnivClause
	Boxed   []BoxUnivClause

	Sorts map[string]term.Sort
	Names map[string]term.Term
	Funs  map[string]term.Symbol
	Vars  map[string]term.Term

	sfFuns map[term.Sort]term.Symbol
}

// New returns an empty BAT bound to a fresh term factory.
func New() *BAT {
	return &BAT{
		Factory: term.NewFactory(),
		Sorts:   make(map[string]term.Sort),
		Names:   make(map[string]term.Term),
		Funs:    make(map[string]term.Symbol),
		Vars:    make(map[string]term.Term),
		sfFuns:  make(map[term.Sort]term.Symbol),
	}
}

// AddStatic compiles body (an arbitrary action/quantifier-free formula,
// since static clauses describe the initial situation only) under guard
// into zero or more UnivClauses via ENNF -> Simplify -> CNF, appending
// them to b.Static.
func (b *BAT) AddStatic(guard Ewff, body formula.Formula) {
	for _, c := range b.compile(body) {
		b.Static = append(b.Static, NewUnivClause(b.Factory, guard, c))
	}
}

// AddBoxed compiles body under guard into zero or more BoxUnivClauses.
func (b *BAT) AddBoxed(guard Ewff, body formula.Formula) {
	for _, c := range b.compile(body) {
		b.Boxed = append(b.Boxed, NewBoxUnivClause(b.Factory, guard, c))
	}
}

// AddBelief reduces belief(phi => psi) to the boxed material conditional
// box(~phi v psi), the Open Question resolution recorded in DESIGN.md
// (spec gives no separate belief-revision algorithm, and excludes
// probabilistic reasoning, so a plain boxed conditional is the simplest
// reading consistent with Know<k> semantics). The resulting clauses are
// ordinary boxed clauses; no split depth is attached to them.
func (b *BAT) AddBelief(guard Ewff, phi, psi formula.Formula) {
	b.AddBoxed(guard, formula.Or(formula.Not(phi), psi))
}

func (b *BAT) compile(body formula.Formula) []clause.Clause {
	h := herbrand.New()
	for _, n := range b.Names {
		h.AddTerm(b.Factory, n)
	}
	ennf := formula.ENNF(b.Factory, h, body)
	simplified := formula.Simplify(b.Factory, ennf)
	return formula.CNF(b.Factory, simplified)
}

// HPlus builds the Herbrand universe for this BAT together with
// additional query names: the union of BAT names and query names, plus one
// fresh name for each sort of a BAT clause's variables that has no name in
// that union (so existentials always have something to range over even in
// a BAT with no declared names of that sort). A sort that already has
// names gets no fresh name.
func (b *BAT) HPlus(queryNames []term.Term) *herbrand.HPlus {
	h := herbrand.New()
	for _, n := range b.Names {
		h.AddTerm(b.Factory, n)
	}
	for _, n := range queryNames {
		h.AddTerm(b.Factory, n)
	}
	for _, uc := range b.Static {
		for _, v := range uc.Vars() {
			h.Ensure(b.Factory, b.Factory.Sort(v))
		}
	}
	for _, bc := range b.Boxed {
		for _, v := range bc.Vars() {
			h.Ensure(b.Factory, b.Factory.Sort(v))
		}
	}
	return h
}

// Literal is a convenience re-export so callers building formulas against
// a BAT's vocabulary don't need a separate import for simple atom
// construction.
func Literal(lhs, rhs term.Term, positive bool) literal.Literal {
	return literal.New(lhs, rhs, positive)
}

// TrueName exposes the reserved boolean-true standard name T (see
// trueName in parser.go) to other packages that need to parse the same
// bare-predicate-means-equality-to-T convention, such as the
// query-language parser.
func (b *BAT) TrueName() term.Term {
	return b.trueName()
}

// SF returns the reserved sensing-fluent function symbol for the given
// action sort, minting it (and the Bool sort/T name it returns into) on
// first use per sort. Spec §3/§4.9 reserve a symbol "SF" whose value after
// an action records whether that action's sensing came back positive; one
// symbol per action sort is needed since SF's domain must match whatever
// sort the BAT's actions are declared over.
func (b *BAT) SF(actionSort term.Sort) term.Symbol {
	if sym, ok := b.sfFuns[actionSort]; ok {
		return sym
	}
	b.trueName() // ensures the (nonrigid) Bool sort exists
	sym := b.Factory.Symbols.CreateFunction(b.Sorts["Bool"], 1)
	b.sfFuns[actionSort] = sym
	return sym
}

// SFLiteral builds the ground literal "SF(action) = T" (or its negation)
// under the given action-sequence prefix, the sensing-fluent atom the
// kernel splits on in step 3 of entailment (spec §4.9).
func (b *BAT) SFLiteral(prefix []term.Term, action term.Term, positive bool) literal.Literal {
	sf := b.SF(b.Factory.Sort(action))
	app := b.Factory.CreateTerm(sf, []term.Term{action})
	return literal.New(app, b.trueName(), positive).WithPrefix(prefix)
}

// ActionSorts returns every sort SF has been asked about so far: the only
// notion of "the action sort(s)" this BAT distinguishes, since spec §3
// never reserves a dedicated Action sort and actions are otherwise just
// names of whatever sort a clause's action prefixes use.
func (b *BAT) ActionSorts() []term.Sort {
	sorts := make([]term.Sort, 0, len(b.sfFuns))
	for s := range b.sfFuns {
		sorts = append(sorts, s)
	}
	return sorts
}
