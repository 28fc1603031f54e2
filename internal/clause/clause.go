// Package clause implements normalised disjunctions of literals, the unit
// of storage for a Setup (spec §4.3).
package clause

import (
	"sort"

	"limbo/internal/literal"
	"limbo/internal/term"
)

// Clause is a disjunction of literals, kept sorted and deduplicated by
// Normalize so that two clauses with the same literals always compare
// equal slice-wise.
type Clause struct {
	lits []literal.Literal
}

// New builds a clause from lits, normalising it immediately.
func New(f *term.Factory, lits ...literal.Literal) Clause {
	return Clause{lits: lits}.Normalize(f)
}

// Literals returns the clause's (normalised) literals. The returned slice
// must not be mutated by callers.
func (c Clause) Literals() []literal.Literal { return c.lits }

// Len reports the number of literals.
func (c Clause) Len() int { return len(c.lits) }

// Empty reports whether this is the empty clause (unsatisfiable).
func (c Clause) Empty() bool { return len(c.lits) == 0 }

// Unit reports whether this clause has exactly one literal.
func (c Clause) Unit() bool { return len(c.lits) == 1 }

// Normalize sorts the clause's literals, drops literals that are
// unsatisfiable on their own, drops literals properly subsumed by another
// literal already in the clause, and collapses to the single-literal
// valid clause ⊤ as soon as any literal (or a complementary pair) makes
// the whole disjunction trivially true. Grounded on the normalisation loop
// of the original "limbo" clause.h, adapted from its manual memory-pool
// allocation to plain Go slices.
func (c Clause) Normalize(f *term.Factory) Clause {
	kept := make([]literal.Literal, 0, len(c.lits))
	for _, l := range c.lits {
		if l.Valid() {
			return Clause{lits: []literal.Literal{l}}
		}
		if l.Unsatisfiable() {
			continue
		}
		kept = append(kept, l)
	}

	sort.Slice(kept, func(i, j int) bool { return literal.Less(kept[i], kept[j]) })

	out := kept[:0:0]
	for i, l := range kept {
		redundant := false
		for j, o := range kept {
			if i == j {
				continue
			}
			if literal.ProperlySubsumes(f, o, l) {
				redundant = true
				break
			}
			if literal.Complementary(l, o) {
				return Clause{lits: []literal.Literal{literal.Eq(l.LHS(), l.LHS())}}
			}
		}
		if !redundant {
			out = append(out, l)
		}
	}
	return Clause{lits: dedup(out)}
}

func dedup(lits []literal.Literal) []literal.Literal {
	out := lits[:0:0]
	for i, l := range lits {
		if i > 0 && l.Equal(lits[i-1]) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Valid reports whether this clause is the trivially-true clause produced
// by Normalize collapsing on a valid or complementary literal.
func (c Clause) Valid() bool {
	return len(c.lits) == 1 && c.lits[0].Valid()
}

// Substitute applies theta to every literal and re-normalises the result,
// used by the grounder to instantiate a universal clause's free variables
// with Herbrand-universe names (spec §4.6).
func (c Clause) Substitute(f *term.Factory, theta func(term.Term) (term.Term, bool)) Clause {
	lits := make([]literal.Literal, len(c.lits))
	for i, l := range c.lits {
		lits[i] = l.Substitute(f, theta)
	}
	return New(f, lits...)
}

// Union returns the (normalised) disjunction of c and o's literals.
func (c Clause) Union(f *term.Factory, o Clause) Clause {
	merged := append(append([]literal.Literal(nil), c.lits...), o.lits...)
	return Clause{lits: merged}.Normalize(f)
}

// Subsumes reports whether c subsumes o: every literal of c subsumes some
// literal of o, so that whenever c's disjunction holds, o's does too.
// Grounded on the original clause.h's Clause::Subsumes.
func Subsumes(f *term.Factory, c, o Clause) bool {
	for _, cl := range c.lits {
		found := false
		for _, ol := range o.lits {
			if literal.Subsumes(f, cl, ol) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Equal reports whether c and o have identical (already-normalised)
// literal sequences.
func (c Clause) Equal(o Clause) bool {
	if len(c.lits) != len(o.lits) {
		return false
	}
	for i := range c.lits {
		if !c.lits[i].Equal(o.lits[i]) {
			return false
		}
	}
	return true
}
