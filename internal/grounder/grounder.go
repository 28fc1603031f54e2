// Package grounder instantiates a basic action theory's universal clauses
// into ground clauses over a bounded Herbrand universe, per spec §4.6.
// Grounded on original_source/src/setup.h's setup_init_static /
// setup_init_dynamic comment block: static clauses are instantiated once,
// against every variable assignment the clause's ewff guard accepts; boxed
// clauses are instantiated once per action-sequence prefix appearing in the
// query, since a box(phi) clause holds after every finite sequence of
// actions, not only the empty one.
package grounder

import (
	"limbo/internal/bat"
	"limbo/internal/clause"
	"limbo/internal/herbrand"
	"limbo/internal/literal"
	"limbo/internal/term"
)

// Prefixes returns every prefix (including the empty sequence) of every
// sequence in zs, deduplicated, with the empty sequence first.
func Prefixes(zs [][]term.Term) [][]term.Term {
	out := [][]term.Term{{}}
	for _, z := range zs {
		for i := 1; i <= len(z); i++ {
			out = appendUniquePrefix(out, z[:i])
		}
	}
	return out
}

func appendUniquePrefix(out [][]term.Term, z []term.Term) [][]term.Term {
	for _, existing := range out {
		if sameSeq(existing, z) {
			return out
		}
	}
	return append(out, z)
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

// GroundClauses instantiates static over every variable assignment its
// guard admits, and boxed over every (assignment, action-prefix) pair,
// where the prefixes range over queryZs's prefixes, dropping any resulting
// literal whose action vector ends in an action outside h (spec §4.6).
func GroundClauses(f *term.Factory, h *herbrand.HPlus, static []bat.UnivClause, boxed []bat.BoxUnivClause, queryZs [][]term.Term) []clause.Clause {
	var out []clause.Clause
	for _, uc := range static {
		out = append(out, groundUniv(f, h, uc, nil)...)
	}
	prefixes := Prefixes(queryZs)
	for _, bc := range boxed {
		for _, z := range prefixes {
			out = append(out, groundUniv(f, h, bc.UnivClause, z)...)
		}
	}
	return out
}

func groundUniv(f *term.Factory, h *herbrand.HPlus, uc bat.UnivClause, z []term.Term) []clause.Clause {
	var out []clause.Clause
	vars := uc.Vars()
	domains := make([][]term.Term, len(vars))
	for i, v := range vars {
		domains[i] = h.Names(f.Sort(v))
		if len(domains[i]) == 0 {
			return out
		}
	}
	assign := make([]term.Term, len(vars))
	var enumerate func(i int)
	enumerate = func(i int) {
		if i == len(vars) {
			sub := term.NewSubstitution()
			for j, v := range vars {
				sub.Add(v, assign[j])
			}
			theta := sub.AsFunc()
			if !uc.Ewff.Eval(f, theta) {
				return
			}
			ground := uc.Clause.Substitute(f, theta)
			if withPrefix, ok := groundWithPrefix(f, h, ground, z); ok {
				out = append(out, withPrefix)
			}
			return
		}
		for _, n := range domains[i] {
			assign[i] = n
			enumerate(i + 1)
		}
	}
	enumerate(0)
	return out
}

// groundWithPrefix prepends z to every literal's action vector, returning
// false if that makes any literal's action vector end in an action outside
// h (spec §4.6 "literals whose action vector ends in an action not in H+
// are skipped" — such a clause is vacuously satisfied and contributes
// nothing, so it is dropped entirely rather than kept with a dangling
// literal).
func groundWithPrefix(f *term.Factory, h *herbrand.HPlus, c clause.Clause, z []term.Term) (clause.Clause, bool) {
	if len(z) == 0 {
		return c, true
	}
	lits := c.Literals()
	prefixed := make([]literal.Literal, len(lits))
	for i, l := range lits {
		pl := l.WithPrefix(z)
		if actions := pl.Actions(); len(actions) > 0 && !h.Contains(actions[len(actions)-1]) {
			return clause.Clause{}, false
		}
		prefixed[i] = pl
	}
	return clause.New(f, prefixed...), true
}
