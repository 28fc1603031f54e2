// Package herbrand builds the bounded Herbrand universe (HPlus) that the
// grounder instantiates quantified variables over.
package herbrand

import "limbo/internal/term"

// HPlus is, per sort, the set of standard names that occur in the basic
// action theory and the query, plus one fresh name for any sort that
// would otherwise have none (spec §4.5: quantification ranges over a
// finite, non-empty universe per sort). Grounded on the original
// setup.h's bat_hplus construction.
type HPlus struct {
	bySort map[term.Sort][]term.Term
	seen   map[term.Term]bool
}

// New returns an empty Herbrand universe.
func New() *HPlus {
	return &HPlus{bySort: make(map[term.Sort][]term.Term), seen: make(map[term.Term]bool)}
}

// Add records that name belongs to the universe. Non-names are ignored so
// callers can feed it arbitrary subterms without filtering first.
func (h *HPlus) Add(f *term.Factory, name term.Term) {
	if !name.Name() || h.seen[name] {
		return
	}
	h.seen[name] = true
	sort := f.Sort(name)
	h.bySort[sort] = append(h.bySort[sort], name)
}

// AddTerm walks t and adds every name subterm it mentions, so it can be
// called directly on clause/formula arguments during BAT and query
// ingestion.
func (h *HPlus) AddTerm(f *term.Factory, t term.Term) {
	f.Traverse(t, func(sub term.Term) bool {
		h.Add(f, sub)
		return true
	})
}

// Ensure guarantees sort has at least one name in the universe, minting a
// fresh one if none occurred naturally.
func (h *HPlus) Ensure(f *term.Factory, sort term.Sort) {
	if len(h.bySort[sort]) > 0 {
		return
	}
	h.Add(f, f.CreateAtom(f.Symbols.CreateName(sort)))
}

// Contains reports whether name is a member of the universe.
func (h *HPlus) Contains(name term.Term) bool { return h.seen[name] }

// Names returns the universe's names of the given sort. The returned
// slice must not be mutated by callers.
func (h *HPlus) Names(sort term.Sort) []term.Term { return h.bySort[sort] }

// Sorts returns the sorts currently represented in the universe.
func (h *HPlus) Sorts() []term.Sort {
	out := make([]term.Sort, 0, len(h.bySort))
	for s := range h.bySort {
		out = append(out, s)
	}
	return out
}
