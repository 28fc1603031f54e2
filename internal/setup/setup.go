// Package setup implements the mutable ground-clause store the reasoning
// kernel queries and splits over: minimisation, unit propagation,
// split-aware subsumption, sensing-result assertion, and a consistency
// cache keyed by split depth. Grounded on original_source/src/setup.h's
// extensive comment block (the same document the reasoning kernel's
// control flow is grounded on) and query.c's call sites into
// setup_subsumes/setup_propagate_units.
package setup

import (
	"go.uber.org/zap"

	"limbo/internal/clause"
	"limbo/internal/literal"
	"limbo/internal/term"
)

// Setup is a mutable set of ground clauses plus a consistency cache keyed
// by split depth k. Per spec §5's shared-resource policy, it is mutated
// only by Minimize, PropagateUnits and AddSensingResult; splitting never
// mutates it, passing its growing assumption set by value instead.
type Setup struct {
	Factory *term.Factory
	Clauses []clause.Clause

	consistency map[int]bool
	log         *zap.Logger
}

// New wraps clauses (already grounded) into a Setup. log may be nil, in
// which case a no-op logger is used.
func New(f *term.Factory, clauses []clause.Clause, log *zap.Logger) *Setup {
	if log == nil {
		log = zap.NewNop()
	}
	return &Setup{
		Factory:     f,
		Clauses:     append([]clause.Clause(nil), clauses...),
		consistency: make(map[int]bool),
		log:         log,
	}
}

func (s *Setup) invalidateConsistency() {
	s.consistency = make(map[int]bool)
}

// Minimize drops any clause subsumed by another (spec §4.7): quadratic
// worst case, kept simple since the corpus's benchmarks are small BATs,
// not the adversarial case the original's Bloom-filter fingerprint
// shortcut was built for.
func (s *Setup) Minimize() {
	kept := make([]clause.Clause, 0, len(s.Clauses))
	for i, c := range s.Clauses {
		subsumed := false
		for j, o := range s.Clauses {
			if i == j {
				continue
			}
			if !clause.Subsumes(s.Factory, o, c) {
				continue
			}
			// Mutually-subsuming (i.e. duplicate) clauses: keep only the
			// earlier occurrence so Minimize also dedupes.
			if clause.Subsumes(s.Factory, c, o) && i < j {
				continue
			}
			subsumed = true
			break
		}
		if !subsumed {
			kept = append(kept, c)
		}
	}
	s.Clauses = kept
	s.log.Debug("setup minimized", zap.Int("clauses", len(s.Clauses)))
	s.invalidateConsistency()
}

// PropagateUnits repeatedly resolves every unit clause against every
// other clause containing its complement, discarding a resolvent that an
// existing clause already subsumes, until no clause changes (spec §4.7).
func (s *Setup) PropagateUnits() {
	for {
		changed := false
		units := s.unitLiterals()
		for _, u := range units {
			for i, c := range s.Clauses {
				resolved, ok := resolveAgainst(s.Factory, c, u)
				if !ok || resolved.Equal(c) {
					continue
				}
				if s.subsumedByAnother(resolved, i) {
					continue
				}
				s.Clauses[i] = resolved
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	s.log.Debug("units propagated", zap.Int("clauses", len(s.Clauses)))
	s.invalidateConsistency()
}

func (s *Setup) unitLiterals() []literal.Literal {
	var units []literal.Literal
	for _, c := range s.Clauses {
		if c.Unit() {
			units = append(units, c.Literals()[0])
		}
	}
	return units
}

// resolveAgainst drops from c any literal that is the complement of u,
// returning the re-normalised result and whether anything was removed.
func resolveAgainst(f *term.Factory, c clause.Clause, u literal.Literal) (clause.Clause, bool) {
	lits := c.Literals()
	kept := make([]literal.Literal, 0, len(lits))
	removed := false
	for _, l := range lits {
		if literal.Complementary(l, u) {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	if !removed {
		return c, false
	}
	return clause.New(f, kept...), true
}

func (s *Setup) subsumedByAnother(c clause.Clause, skip int) bool {
	for i, o := range s.Clauses {
		if i == skip {
			continue
		}
		if clause.Subsumes(s.Factory, o, c) {
			return true
		}
	}
	return false
}

// Subsumes reports whether some setup clause d, after unit-resolving away
// any literal whose complement is in split, has every remaining literal
// present in c — sound evidence that setup ∧ split entails c (spec §4.7).
func (s *Setup) Subsumes(split []literal.Literal, c clause.Clause) bool {
	for _, d := range s.Clauses {
		if resolvesInto(d, split, c) {
			return true
		}
	}
	return false
}

func resolvesInto(d clause.Clause, split []literal.Literal, c clause.Clause) bool {
	cLits := c.Literals()
	for _, l := range d.Literals() {
		if complementOf(l, split) {
			continue
		}
		if !litIn(cLits, l) {
			return false
		}
	}
	return true
}

func complementOf(l literal.Literal, split []literal.Literal) bool {
	for _, s := range split {
		if literal.Complementary(l, s) {
			return true
		}
	}
	return false
}

func litIn(lits []literal.Literal, l literal.Literal) bool {
	for _, o := range lits {
		if o.Equal(l) {
			return true
		}
	}
	return false
}

// AddSensingResult appends the unit clause [SF(a)·z] (positive iff r) and
// invalidates the consistency cache only when necessary: adding a fact can
// only invalidate a depth's cached "consistent" verdict if the new
// literal's complement was already entailed by the old setup, which a
// minimised-PEL subsumption check (here, a plain unit-complement scan)
// approximates cheaply without re-running the full kernel (spec §4.7).
func (s *Setup) AddSensingResult(sfLiteral literal.Literal) {
	unit := clause.New(s.Factory, sfLiteral)
	s.Clauses = append(s.Clauses, unit)
	if s.complementAlreadyUnit(sfLiteral) {
		s.invalidateConsistency()
	}
}

func (s *Setup) complementAlreadyUnit(l literal.Literal) bool {
	flipped := l.Flip()
	for _, c := range s.Clauses {
		if c.Unit() && c.Literals()[0].Equal(flipped) {
			return true
		}
	}
	return false
}

// ConsistencyChecker decides, from scratch, whether the setup is
// consistent at split depth k. It is supplied by the kernel (which alone
// knows how to run the splitting procedure) to avoid an import cycle
// between setup and kernel.
type ConsistencyChecker func(k int) bool

// GuaranteeConsistency returns the cached verdict for depth k if present,
// otherwise computes it via check and caches the result (spec §4.7's
// "bitmap keyed by k", §4.9's "cached in a bitmap keyed by k").
func (s *Setup) GuaranteeConsistency(k int, check ConsistencyChecker) bool {
	if v, ok := s.consistency[k]; ok {
		return v
	}
	v := check(k)
	s.consistency[k] = v
	return v
}

// AssumeConsistent lets a caller with an external promise of consistency
// at depth k (spec §4.7's "external promise that lets the engine skip the
// full-PEL initial inconsistency check") seed the cache directly.
func (s *Setup) AssumeConsistent(k int) {
	s.consistency[k] = true
}
