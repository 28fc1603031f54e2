// Package formula implements the objective (action- and quantifier-aware,
// but non-epistemic) formula language that queries and basic action
// theories are built from, plus the transforms the query driver applies
// to it: extended negation normal form (ENNF), simplification, conjunctive
// normal form, and action-sequence collection.
//
// Formulas are built through constructor functions rather than struct
// literals, mirroring the Reader/Builder encapsulation of the predecessor
// "lela" formula.h: callers never see or depend on the tag representation.
package formula

import (
	"limbo/internal/clause"
	"limbo/internal/herbrand"
	"limbo/internal/literal"
	"limbo/internal/term"
)

type tag uint8

const (
	tagLit tag = iota
	tagNot
	tagOr
	tagAnd
	tagExists
	tagAction
	tagTrue
	tagFalse
)

// Formula is an immutable node in the objective formula language: a
// literal, its negation, a binary disjunction or conjunction, an
// existential quantification, or "after performing action a, f holds".
type Formula struct {
	tag  tag
	lit  literal.Literal
	sub  []Formula // Not: [f]; Or/And: [lhs, rhs]; Exists/Action: [f]
	v    term.Term // Exists: bound variable
	act  term.Term // Action: the action term
}

// Lit lifts a literal to a formula.
func Lit(l literal.Literal) Formula { return Formula{tag: tagLit, lit: l} }

// Not negates f.
func Not(f Formula) Formula { return Formula{tag: tagNot, sub: []Formula{f}} }

// Or is the disjunction of lhs and rhs.
func Or(lhs, rhs Formula) Formula { return Formula{tag: tagOr, sub: []Formula{lhs, rhs}} }

// And is the conjunction of lhs and rhs.
func And(lhs, rhs Formula) Formula { return Formula{tag: tagAnd, sub: []Formula{lhs, rhs}} }

// OrAll folds Or over fs, defaulting to an unsatisfiable formula when fs is
// empty (the disjunctive identity).
func OrAll(fs ...Formula) Formula {
	if len(fs) == 0 {
		return falseFormula
	}
	out := fs[0]
	for _, f := range fs[1:] {
		out = Or(out, f)
	}
	return out
}

// AndAll folds And over fs; an empty fs is the trivially true conjunction.
func AndAll(fs ...Formula) Formula {
	if len(fs) == 0 {
		return trueFormula
	}
	out := fs[0]
	for _, f := range fs[1:] {
		out = And(out, f)
	}
	return out
}

// Exists binds v (existentially) in f.
func Exists(v term.Term, f Formula) Formula {
	return Formula{tag: tagExists, v: v, sub: []Formula{f}}
}

// Action builds "after performing a, f holds".
func Action(a term.Term, f Formula) Formula {
	return Formula{tag: tagAction, act: a, sub: []Formula{f}}
}

// Forall binds v (universally) in f, via the standard ∀v.φ ≡ ¬∃v.¬φ
// reduction: the AST has no separate universal tag, so ENNF/CNF only ever
// need to handle Not/Exists.
func Forall(v term.Term, f Formula) Formula {
	return Not(Exists(v, Not(f)))
}

// Walk visits every node of f, pre-order.
func (f Formula) Walk(visit func(Formula)) {
	visit(f)
	for _, s := range f.sub {
		s.Walk(visit)
	}
}

// substituteVar rewrites every occurrence of v in g (inside literal terms,
// action terms, and action prefixes) to n. Quantified variables are
// assumed fresh per Exists, so nested Exists nodes are left alone.
func substituteVar(fac *term.Factory, g Formula, v, n term.Term) Formula {
	theta := func(t term.Term) (term.Term, bool) {
		if t == v {
			return n, true
		}
		return term.Term{}, false
	}
	switch g.tag {
	case tagLit:
		l := g.lit
		newActions := make([]term.Term, len(l.Actions()))
		for i, a := range l.Actions() {
			newActions[i] = fac.Substitute(a, theta)
		}
		nl := literal.New(fac.Substitute(l.LHS(), theta), fac.Substitute(l.RHS(), theta), l.Positive()).WithPrefix(newActions)
		return Lit(nl)
	case tagNot:
		return Not(substituteVar(fac, g.sub[0], v, n))
	case tagOr:
		return Or(substituteVar(fac, g.sub[0], v, n), substituteVar(fac, g.sub[1], v, n))
	case tagAnd:
		return And(substituteVar(fac, g.sub[0], v, n), substituteVar(fac, g.sub[1], v, n))
	case tagExists:
		return Exists(g.v, substituteVar(fac, g.sub[0], v, n))
	case tagAction:
		return Action(fac.Substitute(g.act, theta), substituteVar(fac, g.sub[0], v, n))
	default:
		return g
	}
}

// ennf pushes negations down to literal level, tracking the action prefix
// z accumulated so far and whether the current subformula is under an odd
// number of negations (flip). Grounded on query.c's query_ennf_h(f, z,
// flip): Not(Or) becomes And(Not,Not), Not(And) becomes Or(Not,Not),
// Not(Action a. f) becomes Action a. Not(f) (actions are deterministic, so
// negation commutes with them), and Exists is materialised as a finite
// disjunction (or, flipped, conjunction) over the Herbrand universe h
// before recursing (spec §4.4).
func ennf(fac *term.Factory, h *herbrand.HPlus, f Formula, z []term.Term, flip bool) Formula {
	switch f.tag {
	case tagLit:
		l := f.lit.WithPrefix(z)
		if flip {
			l = l.Flip()
		}
		return Lit(l)
	case tagNot:
		return ennf(fac, h, f.sub[0], z, !flip)
	case tagOr:
		lhs := ennf(fac, h, f.sub[0], z, flip)
		rhs := ennf(fac, h, f.sub[1], z, flip)
		if flip {
			return And(lhs, rhs)
		}
		return Or(lhs, rhs)
	case tagAnd:
		lhs := ennf(fac, h, f.sub[0], z, flip)
		rhs := ennf(fac, h, f.sub[1], z, flip)
		if flip {
			return Or(lhs, rhs)
		}
		return And(lhs, rhs)
	case tagExists:
		names := h.Names(fac.Sort(f.v))
		parts := make([]Formula, len(names))
		for i, n := range names {
			parts[i] = substituteVar(fac, f.sub[0], f.v, n)
		}
		var combined Formula
		if flip {
			combined = AndAll(parts...)
		} else {
			combined = OrAll(parts...)
		}
		return ennf(fac, h, combined, z, flip)
	case tagAction:
		// Actions are dropped as a node here: the accumulated prefix is
		// carried forward and baked into each LIT leaf instead, so ENNF's
		// output never contains an ACT node (spec §4.4 output invariant).
		return ennf(fac, h, f.sub[0], append(append([]term.Term(nil), z...), f.act), flip)
	case tagTrue:
		if flip {
			return falseFormula
		}
		return f
	case tagFalse:
		if flip {
			return trueFormula
		}
		return f
	default:
		return f
	}
}

// ENNF rewrites f into extended negation normal form over the Herbrand
// universe h: negation, existentials and actions are all eliminated,
// leaving only EQ/NEQ/LIT/OR/AND (EQ/NEQ being represented as Lit).
func ENNF(fac *term.Factory, h *herbrand.HPlus, f Formula) Formula {
	return ennf(fac, h, f, nil, false)
}

// simplify evaluates ground equalities and propagates the resulting
// constants, short-circuiting Or/And the moment one side is decided
// (grounded on query.c's query_simplify).
func simplify(f *term.Factory, g Formula) Formula {
	switch g.tag {
	case tagLit:
		if g.lit.Valid() {
			return trueFormula
		}
		if g.lit.Unsatisfiable() {
			return falseFormula
		}
		return g
	case tagNot:
		s := simplify(f, g.sub[0])
		if isTrue(s) {
			return falseFormula
		}
		if isFalse(s) {
			return trueFormula
		}
		return Not(s)
	case tagOr:
		lhs := simplify(f, g.sub[0])
		if isTrue(lhs) {
			return trueFormula
		}
		rhs := simplify(f, g.sub[1])
		if isTrue(rhs) {
			return trueFormula
		}
		if isFalse(lhs) {
			return rhs
		}
		if isFalse(rhs) {
			return lhs
		}
		return Or(lhs, rhs)
	case tagAnd:
		lhs := simplify(f, g.sub[0])
		if isFalse(lhs) {
			return falseFormula
		}
		rhs := simplify(f, g.sub[1])
		if isFalse(rhs) {
			return falseFormula
		}
		if isTrue(lhs) {
			return rhs
		}
		if isTrue(rhs) {
			return lhs
		}
		return And(lhs, rhs)
	case tagExists:
		return Exists(g.v, simplify(f, g.sub[0]))
	case tagAction:
		return Action(g.act, simplify(f, g.sub[0]))
	default:
		return g
	}
}

// Simplify evaluates trivial ground (in)equalities in f and propagates the
// resulting boolean constants.
func Simplify(f *term.Factory, g Formula) Formula { return simplify(f, g) }

// True and False are the boolean constants that Simplify and ENNF
// propagate; CNF treats them as the empty conjunction and empty
// disjunction respectively.
var (
	trueFormula  = Formula{tag: tagTrue}
	falseFormula = Formula{tag: tagFalse}
)

// True returns the trivially-true formula.
func True() Formula { return trueFormula }

// False returns the trivially-false formula.
func False() Formula { return falseFormula }

func isTrue(f Formula) bool  { return f.tag == tagTrue }
func isFalse(f Formula) bool { return f.tag == tagFalse }

// Names collects every distinct standard name occurring in f: on either
// side of a literal, in a literal's action prefix, or as an Action node's
// action term. Used by the query driver to seed the Herbrand universe a
// query needs (spec §4.5) without exposing f's tag representation.
func Names(f Formula) []term.Term {
	var out []term.Term
	add := func(t term.Term) {
		if !t.Name() {
			return
		}
		for _, o := range out {
			if o == t {
				return
			}
		}
		out = append(out, t)
	}
	f.Walk(func(g Formula) {
		switch g.tag {
		case tagLit:
			add(g.lit.LHS())
			add(g.lit.RHS())
			for _, a := range g.lit.Actions() {
				add(a)
			}
		case tagAction:
			add(g.act)
		}
	})
	return out
}

// VarSorts collects the sort of every Exists-bound variable in f, so the
// query driver can guarantee the Herbrand universe has at least one name
// per sort the query quantifies over, even one the BAT itself never
// mentions (spec §4.5).
func VarSorts(fac *term.Factory, f Formula) []term.Sort {
	var out []term.Sort
	f.Walk(func(g Formula) {
		if g.tag != tagExists {
			return
		}
		s := fac.Sort(g.v)
		for _, o := range out {
			if o == s {
				return
			}
		}
		out = append(out, s)
	})
	return out
}

// EnnfZs collects the distinct non-empty action-sequence prefixes (in
// first-seen order) appearing on any LIT of an ENNF'd formula f, used by
// the query driver to choose the action prefixes the BAT's boxed clauses
// are grounded at (the kernel collects its sensed-fluent split prefixes
// separately, from each clause's literals). Grounded on query.c's query_ennf_zs /
// clause_action_sequences; since ENNF already bakes action prefixes into
// each literal (rather than leaving ACT nodes standing), this walks
// literals instead of ACT nodes.
func EnnfZs(f Formula) [][]term.Term {
	var out [][]term.Term
	f.Walk(func(g Formula) {
		if g.tag != tagLit {
			return
		}
		if z := g.lit.Actions(); len(z) > 0 {
			out = appendUnique(out, z)
		}
	})
	return out
}

func appendUnique(zs [][]term.Term, z []term.Term) [][]term.Term {
	for _, existing := range zs {
		if sameSeq(existing, z) {
			return zs
		}
	}
	return append(zs, z)
}

func sameSeq(a, b []term.Term) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CNF converts an ENNF'd, action- and quantifier-free formula (i.e. one
// built only from Lit/Not/Or/And, with action prefixes already baked into
// its literals and existentials already expanded by ENNF) into an
// equivalent set of clauses, distributing Or over And via
// clause union (grounded on query.c's query_cnf).
func CNF(f *term.Factory, g Formula) []clause.Clause {
	switch g.tag {
	case tagTrue:
		return nil
	case tagFalse:
		return []clause.Clause{{}}
	case tagLit:
		return []clause.Clause{clause.New(f, g.lit)}
	case tagNot:
		// g is ENNF'd, so Not can only wrap a literal here.
		return []clause.Clause{clause.New(f, g.sub[0].lit.Flip())}
	case tagAnd:
		return append(CNF(f, g.sub[0]), CNF(f, g.sub[1])...)
	case tagOr:
		lhs := CNF(f, g.sub[0])
		rhs := CNF(f, g.sub[1])
		out := make([]clause.Clause, 0, len(lhs)*len(rhs))
		for _, lc := range lhs {
			for _, rc := range rhs {
				out = append(out, lc.Union(f, rc))
			}
		}
		return out
	default:
		panic("formula: CNF requires an action- and quantifier-free formula")
	}
}
