// Package pel computes the positive-extended-literal domain the reasoning
// kernel splits over (spec §4.8): a least fixed point seeded by the query
// clause's atoms and closed under "any setup clause mentioning an atom
// already in the set contributes all of its atoms", plus the second
// optimisation that lets splitting skip an already-unit-decided atom
// unless some setup clause still has unit-propagation or subsumption
// potential against it. Grounded on original_source/src/setup.h's comment
// block describing pel_compute_f and the relevance predicate it documents
// before query.c's splitting loop consumes it.
package pel

import (
	"limbo/internal/clause"
	"limbo/internal/literal"
)

// Atom returns the canonical positive form of l: l itself if positive,
// otherwise its flip. Two literals that are the same fact under opposite
// polarity always have the same atom (spec §3 "A PEL is a primitive
// equality f(n̄) = n, always positive; its dual in the split is the
// negation").
func Atom(l literal.Literal) literal.Literal {
	if l.Positive() {
		return l
	}
	return l.Flip()
}

func contains(atoms []literal.Literal, a literal.Literal) bool {
	for _, o := range atoms {
		if o.Equal(a) {
			return true
		}
	}
	return false
}

// mentions reports whether clause d contains a literal whose atom is a.
func mentions(d clause.Clause, a literal.Literal) bool {
	for _, l := range d.Literals() {
		if Atom(l).Equal(a) {
			return true
		}
	}
	return false
}

// Compute derives the minimised PEL for query relative to setup: start
// from query's atoms, then repeatedly pull in every atom of any setup
// clause that already mentions a known atom (positively or negatively),
// until nothing new is added.
func Compute(setup []clause.Clause, query clause.Clause) []literal.Literal {
	var atoms []literal.Literal
	add := func(c clause.Clause) bool {
		changed := false
		for _, l := range c.Literals() {
			a := Atom(l)
			if !contains(atoms, a) {
				atoms = append(atoms, a)
				changed = true
			}
		}
		return changed
	}
	add(query)
	for changed := true; changed; {
		changed = false
		for _, d := range setup {
			touchesKnownAtom := false
			for _, l := range d.Literals() {
				if contains(atoms, Atom(l)) {
					touchesKnownAtom = true
					break
				}
			}
			if touchesKnownAtom && add(d) {
				changed = true
			}
		}
	}
	return atoms
}

// hasUnitFor reports whether setup already contains a unit clause whose
// single literal has atom a (either polarity).
func hasUnitFor(setup []clause.Clause, a literal.Literal) bool {
	for _, d := range setup {
		if d.Unit() && Atom(d.Literals()[0]).Equal(a) {
			return true
		}
	}
	return false
}

// diffSize counts the literals of d that do not occur (literal-exact) in
// c, i.e. |d \ c|.
func diffSize(d, c clause.Clause) int {
	count := 0
	for _, l := range d.Literals() {
		found := false
		for _, o := range c.Literals() {
			if l.Equal(o) {
				found = true
				break
			}
		}
		if !found {
			count++
		}
	}
	return count
}

// AllAtoms returns every atom mentioned by any clause in setup. Unlike
// Compute, it is not seeded from or closed over a query clause: the
// kernel's consistency check needs exactly this unminimised set, since its
// query is the empty clause and Compute's closure would never have
// anything to seed from (spec §4.9's "entailment of the empty clause
// under the full, non-minimised PEL").
func AllAtoms(setup []clause.Clause) []literal.Literal {
	var atoms []literal.Literal
	for _, d := range setup {
		for _, l := range d.Literals() {
			a := Atom(l)
			if !contains(atoms, a) {
				atoms = append(atoms, a)
			}
		}
	}
	return atoms
}

// Relevant decides whether ell is still worth splitting on at remaining
// budget k against clause c, applying the second optimisation (spec
// §4.8): an atom with no unit decision yet is always relevant; one that
// already has a unit decision is only relevant if some setup clause still
// has unit-propagation potential (mentions it and has at most k+1
// literals) or subsumption potential against c (|d \ c| <= k).
func Relevant(setup []clause.Clause, ell literal.Literal, c clause.Clause, k int) bool {
	a := Atom(ell)
	if !hasUnitFor(setup, a) {
		return true
	}
	// A unit clause always trivially "mentions ℓ with length <= k+1", but
	// that's the very decision already on record, not fresh potential —
	// the search for rule (i)/(ii) potential only looks at non-unit
	// clauses, consistent with propagate_units already having folded
	// whatever a lone unit could contribute.
	for _, d := range setup {
		if d.Unit() {
			continue
		}
		if mentions(d, a) && d.Len() <= k+1 {
			return true
		}
		if diffSize(d, c) <= k {
			return true
		}
	}
	return false
}
