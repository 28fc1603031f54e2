package bat

import "limbo/internal/term"

type ewffTag uint8

const (
	ewffTrue ewffTag = iota
	ewffEq
	ewffNeq
	ewffAnd
	ewffOr
	ewffNot
)

// Ewff is an equality-only formula used as a guard on a universal BAT
// clause (spec §3 "Ewff"): it may only compare terms for (in)equality and
// combine those comparisons with ~, ^, v.
type Ewff struct {
	tag      ewffTag
	lhs, rhs term.Term
	sub      []Ewff
}

// EwffTrue is the guard that is always satisfied.
func EwffTrue() Ewff { return Ewff{tag: ewffTrue} }

// EwffEq guards on lhs = rhs.
func EwffEq(lhs, rhs term.Term) Ewff { return Ewff{tag: ewffEq, lhs: lhs, rhs: rhs} }

// EwffNeq guards on lhs != rhs.
func EwffNeq(lhs, rhs term.Term) Ewff { return Ewff{tag: ewffNeq, lhs: lhs, rhs: rhs} }

// EwffAnd is the conjunction of a and b.
func EwffAnd(a, b Ewff) Ewff { return Ewff{tag: ewffAnd, sub: []Ewff{a, b}} }

// EwffOr is the disjunction of a and b.
func EwffOr(a, b Ewff) Ewff { return Ewff{tag: ewffOr, sub: []Ewff{a, b}} }

// EwffNot negates a.
func EwffNot(a Ewff) Ewff { return Ewff{tag: ewffNot, sub: []Ewff{a}} }

// Eval decides whether e holds once its variables are resolved by theta
// (ordinarily a grounding substitution vars -> H+ names).
func (e Ewff) Eval(f *term.Factory, theta func(term.Term) (term.Term, bool)) bool {
	switch e.tag {
	case ewffTrue:
		return true
	case ewffEq:
		return f.Substitute(e.lhs, theta) == f.Substitute(e.rhs, theta)
	case ewffNeq:
		return f.Substitute(e.lhs, theta) != f.Substitute(e.rhs, theta)
	case ewffAnd:
		return e.sub[0].Eval(f, theta) && e.sub[1].Eval(f, theta)
	case ewffOr:
		return e.sub[0].Eval(f, theta) || e.sub[1].Eval(f, theta)
	case ewffNot:
		return !e.sub[0].Eval(f, theta)
	default:
		return false
	}
}

// Vars appends e's free variables (deduplicated) to out and returns the
// result.
func (e Ewff) Vars(f *term.Factory, out []term.Term) []term.Term {
	switch e.tag {
	case ewffEq, ewffNeq:
		out = appendVar(f, out, e.lhs)
		out = appendVar(f, out, e.rhs)
	case ewffAnd, ewffOr:
		out = e.sub[0].Vars(f, out)
		out = e.sub[1].Vars(f, out)
	case ewffNot:
		out = e.sub[0].Vars(f, out)
	}
	return out
}

func appendVar(f *term.Factory, out []term.Term, t term.Term) []term.Term {
	var res []term.Term
	f.Traverse(t, func(sub term.Term) bool {
		if f.Variable(sub) {
			res = append(res, sub)
		}
		return true
	})
	for _, v := range res {
		found := false
		for _, o := range out {
			if o == v {
				found = true
				break
			}
		}
		if !found {
			out = append(out, v)
		}
	}
	return out
}
