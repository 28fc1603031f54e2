// Package query implements the query driver: given a basic action theory
// and a closed objective formula, ground a fresh setup scoped to that
// formula's own names and action prefixes, then hand it to the reasoning
// kernel. Grounded on original_source/src/query.c's query_test top-level
// function, which the kernel package's three-layer splitter (the tail end
// of the same function) is grounded on.
package query

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"limbo/internal/bat"
	"limbo/internal/formula"
	"limbo/internal/grounder"
	"limbo/internal/kernel"
	"limbo/internal/setup"
	"limbo/internal/term"
)

// SensingResult is a previously observed sensing outcome to assert into
// the setup before deciding entailment (spec §4.9's sensing_results
// parameter to query_test).
type SensingResult struct {
	Prefix   []term.Term
	Action   term.Term
	Positive bool
}

// Driver answers entailment queries against a basic action theory. Unlike
// Setup, which is mutable shared state, a Driver builds a fresh Setup per
// query: each query's own names and action prefixes determine what the
// Herbrand universe and the grounded clause set need to cover, so setups
// are not reused across differently-scoped queries (spec §4.5, §4.6).
type Driver struct {
	BAT *bat.BAT
	log *zap.Logger
}

// New builds a Driver over bat. log may be nil.
func New(b *bat.BAT, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{BAT: b, log: log}
}

// Ask decides whether phi is entailed at split depth k, given any sensing
// results observed so far. Each call gets its own trace id for logging
// (github.com/google/uuid, matching internal/browser/session_manager.go's
// uuid.NewString() session-id pattern).
func (d *Driver) Ask(ctx context.Context, phi formula.Formula, depth int, sensed []SensingResult) bool {
	traceID := uuid.NewString()
	log := d.log.With(zap.String("query_id", traceID))

	fac := d.BAT.Factory
	h := d.BAT.HPlus(formula.Names(phi))
	for _, s := range formula.VarSorts(fac, phi) {
		h.Ensure(fac, s)
	}

	ennf := formula.ENNF(fac, h, phi)
	simplified := formula.Simplify(fac, ennf)
	zs := formula.EnnfZs(simplified)

	clauses := grounder.GroundClauses(fac, h, d.BAT.Static, d.BAT.Boxed, zs)
	s := setup.New(fac, clauses, log)
	for _, sr := range sensed {
		s.AddSensingResult(d.BAT.SFLiteral(sr.Prefix, sr.Action, sr.Positive))
	}
	s.PropagateUnits()

	k := kernel.New(d.BAT, s, log)
	result := k.EntailsFormula(ctx, simplified, depth)
	log.Debug("query answered", zap.Bool("result", result), zap.Int("depth", depth))
	return result
}

// AskGlobal decides "G Know<k> phi": phi holds now and after every action
// drawn from the BAT's declared action sorts (BAT.ActionSorts, the only
// notion of "an action" this engine distinguishes), unrolled up to depth
// actions deep. Open Question resolution (DESIGN.md): spec §6 describes
// entailment "after any finite action sequence", but §1's Non-goals exclude
// unbounded quantification, so the sequence length is bounded by the same
// depth that bounds split work — G Know<k> is "true k actions into the
// future", not truly unbounded. A BAT with no declared action sorts (no SF
// use) has nothing to range over, so AskGlobal degenerates to Ask.
func (d *Driver) AskGlobal(ctx context.Context, phi formula.Formula, depth int, sensed []SensingResult) bool {
	if !d.Ask(ctx, phi, depth, sensed) {
		return false
	}
	if depth <= 0 {
		return true
	}
	h := d.BAT.HPlus(formula.Names(phi))
	for _, sort := range d.BAT.ActionSorts() {
		for _, a := range h.Names(sort) {
			if !d.AskGlobal(ctx, formula.Action(a, phi), depth-1, sensed) {
				return false
			}
		}
	}
	return true
}

// AskAll decides every query in phis concurrently, each against its own
// freshly-grounded setup (queries don't share mutable state, so they're
// safe to fan out), short-circuiting on the first context cancellation.
// Grounded on internal/campaign/intelligence_gatherer.go's
// errgroup.WithContext fan-out pattern (golang.org/x/sync/errgroup).
func (d *Driver) AskAll(ctx context.Context, phis []formula.Formula, depth int, sensed []SensingResult) ([]bool, error) {
	results := make([]bool, len(phis))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, phi := range phis {
		i, phi := i, phi
		eg.Go(func() error {
			results[i] = d.Ask(egCtx, phi, depth, sensed)
			return egCtx.Err()
		})
	}
	if err := eg.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
