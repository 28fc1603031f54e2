// Package literal implements equality literals over interned terms: the
// atomic proposition "z · (lhs = rhs)" or its negation, where z is the
// action-sequence prefix (possibly empty) under which the equality is
// asserted. Per spec §4.2, every non-modal atomic proposition in this
// fragment is an equality — a fluent application F(n1,...,nk) = v is
// itself a primitive term compared against a name, so Literal needs no
// separate fluent case; the action prefix is carried alongside rather than
// folded into the term, per spec §4.4 ("prepend the accumulated action
// prefix z to the literal's own action vector").
package literal

import "limbo/internal/term"

// Literal is a (possibly negated) equality between two terms, holding
// after the given action-sequence prefix, normalised so
// structurally-equal literals always compare bit-for-bit equal.
type Literal struct {
	lhs, rhs term.Term
	positive bool
	sentinel bool
	actions  []term.Term
}

// New builds the literal lhs = rhs (positive) or lhs != rhs (negative)
// holding after the empty action sequence, ordering lhs/rhs by term id so
// that l = r and r = l always produce the same value (original "limbo"
// literal.h keeps the pair ordered so complementary literals are
// recognised by plain equality).
func New(lhs, rhs term.Term, positive bool) Literal {
	if rhs.Less(lhs) {
		lhs, rhs = rhs, lhs
	}
	return Literal{lhs: lhs, rhs: rhs, positive: positive}
}

// Eq is shorthand for New(lhs, rhs, true).
func Eq(lhs, rhs term.Term) Literal { return New(lhs, rhs, true) }

// Neq is shorthand for New(lhs, rhs, false).
func Neq(lhs, rhs term.Term) Literal { return New(lhs, rhs, false) }

// EqAfter builds lhs = rhs holding after the given action-sequence prefix.
func EqAfter(actions []term.Term, lhs, rhs term.Term) Literal {
	return New(lhs, rhs, true).WithPrefix(actions)
}

// NeqAfter builds lhs != rhs holding after the given action-sequence
// prefix.
func NeqAfter(actions []term.Term, lhs, rhs term.Term) Literal {
	return New(lhs, rhs, false).WithPrefix(actions)
}

// Min returns a sentinel literal that compares less than every real
// literal sharing the same lhs, for use as a lower bound when
// binary-searching the sorted PEL containers of spec §4.8 (original
// "limbo" literal.h's Literal::Min).
func Min(lhs term.Term) Literal { return Literal{lhs: lhs, sentinel: true} }

func (l Literal) LHS() term.Term       { return l.lhs }
func (l Literal) RHS() term.Term       { return l.rhs }
func (l Literal) Positive() bool       { return l.positive }
func (l Literal) Negative() bool       { return !l.positive }
func (l Literal) Sentinel() bool       { return l.sentinel }
func (l Literal) Actions() []term.Term { return l.actions }

// Ground0 reports the literal holds after no actions at all.
func (l Literal) Ground0() bool { return len(l.actions) == 0 }

// Flip returns the literal with the opposite polarity over the same terms
// and action prefix.
func (l Literal) Flip() Literal {
	return Literal{lhs: l.lhs, rhs: l.rhs, positive: !l.positive, actions: l.actions}
}

// WithPrefix returns l with prefix prepended to its existing action
// sequence, as ENNF does when it pushes an accumulated ACT prefix down to
// a LIT leaf (spec §4.4).
func (l Literal) WithPrefix(prefix []term.Term) Literal {
	if len(prefix) == 0 {
		return l
	}
	actions := make([]term.Term, 0, len(prefix)+len(l.actions))
	actions = append(actions, prefix...)
	actions = append(actions, l.actions...)
	return Literal{lhs: l.lhs, rhs: l.rhs, positive: l.positive, sentinel: l.sentinel, actions: actions}
}

// Substitute applies theta to both sides and to the action prefix,
// returning a freshly re-normalised literal (New re-sorts lhs/rhs, since a
// substitution can change which side has the smaller id).
func (l Literal) Substitute(f *term.Factory, theta func(term.Term) (term.Term, bool)) Literal {
	actions := make([]term.Term, len(l.actions))
	for i, a := range l.actions {
		actions[i] = f.Substitute(a, theta)
	}
	return New(f.Substitute(l.lhs, theta), f.Substitute(l.rhs, theta), l.positive).WithPrefix(actions)
}

func sameActions(a, b []term.Term) bool {
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

// Equal is bit-for-bit equality, which (thanks to New's normalisation) is
// the same as logical literal identity.
func (l Literal) Equal(o Literal) bool {
	return l.lhs == o.lhs && l.rhs == o.rhs && l.positive == o.positive &&
		l.sentinel == o.sentinel && sameActions(l.actions, o.actions)
}

// Valid reports whether l is true independent of any model: a positive
// literal between one term and itself, or between two distinct ground
// names a negative literal (spec §4.2's trivial equalities).
func (l Literal) Valid() bool {
	if l.lhs == l.rhs {
		return l.positive
	}
	if l.lhs.Name() && l.rhs.Name() {
		return !l.positive
	}
	return false
}

// Unsatisfiable is the dual of Valid: true when l is false independent of
// any model.
func (l Literal) Unsatisfiable() bool {
	return l.Flip().Valid()
}

// Complementary reports whether l and o directly contradict each other:
// same terms, same action prefix, opposite polarity.
func Complementary(l, o Literal) bool {
	return l.lhs == o.lhs && l.rhs == o.rhs && l.positive != o.positive && sameActions(l.actions, o.actions)
}

// matches reports whether a substitution of l's variables alone (fixing o)
// makes the two literals identical term-for-term; action prefixes (always
// ground by the time clauses reach the setup) must already agree exactly.
func matches(f *term.Factory, l, o Literal) bool {
	if !sameActions(l.actions, o.actions) {
		return false
	}
	sub := term.NewSubstitution()
	return f.Unify(l.lhs, o.lhs, sub, term.UnifyLeft) && f.Unify(l.rhs, o.rhs, sub, term.UnifyLeft)
}

// Subsumes reports whether l subsumes o: whenever l holds in a model
// (under some substitution of l's variables), o also holds. Grounded on
// the original literal.h's Literal::Subsumes.
func Subsumes(f *term.Factory, l, o Literal) bool {
	return l.positive == o.positive && matches(f, l, o)
}

// ProperlySubsumes is Subsumes with the additional requirement that l and
// o are not already the same literal, matching
// Literal::ProperlySubsumes's use in clause simplification.
func ProperlySubsumes(f *term.Factory, l, o Literal) bool {
	return !l.Equal(o) && Subsumes(f, l, o)
}

// Compare imposes a total order on literals, primarily by lhs id so that
// PEL's sorted containers (spec §4.8) can locate all literals about a
// given lhs by binary search, with Min sentinels sorting first.
func Compare(l, o Literal) int {
	if l.lhs.ID() != o.lhs.ID() {
		if l.lhs.ID() < o.lhs.ID() {
			return -1
		}
		return 1
	}
	if l.sentinel != o.sentinel {
		if l.sentinel {
			return -1
		}
		return 1
	}
	if l.rhs.ID() != o.rhs.ID() {
		if l.rhs.ID() < o.rhs.ID() {
			return -1
		}
		return 1
	}
	if l.positive != o.positive {
		if !l.positive {
			return -1
		}
		return 1
	}
	if len(l.actions) != len(o.actions) {
		if len(l.actions) < len(o.actions) {
			return -1
		}
		return 1
	}
	for i := range l.actions {
		if l.actions[i].ID() != o.actions[i].ID() {
			if l.actions[i].ID() < o.actions[i].ID() {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Less is Compare(l, o) < 0, for use with sort.Slice.
func Less(l, o Literal) bool { return Compare(l, o) < 0 }
