// Package kernel implements the splitting proof procedure that decides
// entailment against a Setup: case-split on a bounded number of PEL
// literals, then on sensed-fluent outcomes, falling back to plain
// subsumption at each step. Grounded on original_source/src/query.c's
// query_test_clause/query_test_split/query_test_sense three-layer
// recursion, with the mutated litset_t replaced by a split assumption set
// threaded through by value (spec §5's "splitting never mutates the
// setup").
package kernel

import (
	"context"

	"go.uber.org/zap"

	"limbo/internal/bat"
	"limbo/internal/clause"
	"limbo/internal/formula"
	"limbo/internal/literal"
	"limbo/internal/pel"
	"limbo/internal/setup"
	"limbo/internal/term"
)

// Kernel decides entailment over a BAT-grounded Setup.
type Kernel struct {
	BAT   *bat.BAT
	Setup *setup.Setup
	log   *zap.Logger
}

// New builds a Kernel over setup s, grounded against b. log may be nil.
func New(b *bat.BAT, s *setup.Setup, log *zap.Logger) *Kernel {
	if log == nil {
		log = zap.NewNop()
	}
	return &Kernel{BAT: b, Setup: s, log: log}
}

// EntailsClause decides setup ⊧_k c (spec §4.9), splitting on up to k PEL
// literals before falling back to sensed-fluent splitting.
func (k *Kernel) EntailsClause(ctx context.Context, c clause.Clause, depth int) bool {
	return k.split(ctx, nil, c, depth, false)
}

// Consistent reports whether the setup is consistent at split depth k:
// spec §4.9 defines this as the setup not entailing the empty clause under
// the full (non-minimised) PEL, cached per k via Setup.GuaranteeConsistency.
func (k *Kernel) Consistent(ctx context.Context, depth int) bool {
	return k.Setup.GuaranteeConsistency(depth, func(d int) bool {
		return !k.split(ctx, nil, clause.Clause{}, d, true)
	})
}

// EntailsFormula decides entailment of phi, an already ENNF'd and
// simplified formula (the same one the caller used to ground k.Setup, so
// its action prefixes line up with what was grounded): CNF, then require
// every resulting clause to be entailed (query.c's query_test, the tail
// end after grounding). A bare True/False simplification result degrades
// gracefully, since CNF treats those as the empty clause set and the
// single empty clause respectively (spec §4.9).
func (k *Kernel) EntailsFormula(ctx context.Context, phi formula.Formula, depth int) bool {
	for _, c := range formula.CNF(k.BAT.Factory, phi) {
		if !k.EntailsClause(ctx, c, depth) {
			return false
		}
	}
	return true
}

// split is query_test_split: check subsumption, then, while depth remains,
// try splitting on each PEL candidate not already decided in this branch;
// both polarities must entail c for a candidate to close the branch. If no
// candidate was even tried (the PEL is empty, or every candidate was
// already decided), or depth is exhausted, fall through to sense.
func (k *Kernel) split(ctx context.Context, assumed []literal.Literal, c clause.Clause, depth int, fullPEL bool) bool {
	if k.Setup.Subsumes(assumed, c) {
		return true
	}
	if err := ctx.Err(); err != nil {
		k.log.Debug("entailment check abandoned", zap.Error(err))
		return false
	}
	if depth <= 0 {
		return k.sense(ctx, assumed, c, actionPrefixes(c))
	}

	var candidates []literal.Literal
	if fullPEL {
		candidates = pel.AllAtoms(k.Setup.Clauses)
	} else {
		candidates = pel.Compute(k.Setup.Clauses, c)
	}
	tried := false
	for _, ell := range candidates {
		if inSplit(assumed, ell) {
			continue
		}
		if !fullPEL && !pel.Relevant(k.Setup.Clauses, ell, c, depth) {
			continue
		}
		tried = true
		k.log.Debug("splitting on PEL literal", zap.Int("depth", depth))

		if !k.split(ctx, append(assumed, ell), c, depth-1, fullPEL) {
			continue
		}
		if k.split(ctx, append(assumed, ell.Flip()), c, depth-1, fullPEL) {
			return true
		}
	}
	if !tried {
		return k.sense(ctx, assumed, c, actionPrefixes(c))
	}
	return false
}

// sense is query_test_sense: pop one action-sequence prefix z off the
// stack zs; if non-empty, split on SF of z's last action held after z's
// remaining prefix, requiring both polarities to hold against the
// (unchanged) rest of the stack. Does not consume split depth.
func (k *Kernel) sense(ctx context.Context, assumed []literal.Literal, c clause.Clause, zs [][]term.Term) bool {
	if k.Setup.Subsumes(assumed, c) {
		return true
	}
	if err := ctx.Err(); err != nil {
		return false
	}
	if len(zs) == 0 {
		return false
	}
	z := zs[len(zs)-1]
	rest := zs[:len(zs)-1]
	if len(z) == 0 {
		return false
	}
	prefix := z[:len(z)-1]
	action := z[len(z)-1]
	sf := k.BAT.SFLiteral(prefix, action, true)
	k.log.Debug("splitting on sensed fluent", zap.Int("prefixLen", len(prefix)))

	if !k.sense(ctx, append(assumed, sf), c, rest) {
		return false
	}
	return k.sense(ctx, append(assumed, sf.Flip()), c, rest)
}

func inSplit(assumed []literal.Literal, ell literal.Literal) bool {
	flipped := ell.Flip()
	for _, s := range assumed {
		if s.Equal(ell) || s.Equal(flipped) {
			return true
		}
	}
	return false
}

// actionPrefixes collects, for every literal of c, every non-empty prefix
// of that literal's action vector (lengths 1 through len(vector), the full
// vector included), deduplicated in first-seen order. sense splits each
// entry into its last action and the actions before it, so every action
// of every vector, the last one included, has its sensing outcome split on.
func actionPrefixes(c clause.Clause) [][]term.Term {
	var zs [][]term.Term
	for _, l := range c.Literals() {
		z := l.Actions()
		for j := 1; j <= len(z); j++ {
			zs = appendUniquePrefix(zs, z[:j])
		}
	}
	return zs
}

func appendUniquePrefix(zs [][]term.Term, z []term.Term) [][]term.Term {
	for _, existing := range zs {
		if samePrefix(existing, z) {
			return zs
		}
	}
	return append(zs, z)
}

func samePrefix(a, b []term.Term) bool {
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
