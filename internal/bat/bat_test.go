package bat

import (
	"strings"
	"testing"
)

func TestParseDeclarationsAndStaticClause(t *testing.T) {
	src := `
# a tiny kinship theory
sort Human
name mary : Human
name george : Human
fun father/1 : Human
var X : Human
var Y : Human

static true ? father(X) = george v X != mary
`
	b, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(b.Static) != 1 {
		t.Fatalf("expected 1 static clause, got %d", len(b.Static))
	}
	if b.Static[0].Clause.Len() != 2 {
		t.Fatalf("expected 2 literals in the compiled clause, got %d", b.Static[0].Clause.Len())
	}
}

func TestParseBarePredicateIsEqualityToT(t *testing.T) {
	src := `
sort Human
name mary : Human
fun aussie/1 : Human

static true ? aussie(mary)
`
	b, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(b.Static) != 1 || b.Static[0].Clause.Len() != 1 {
		t.Fatalf("expected a single unit clause, got %+v", b.Static)
	}
	lit := b.Static[0].Clause.Literals()[0]
	if !lit.Positive() {
		t.Fatalf("expected bare predicate to compile to a positive equality against T")
	}
}

func TestParseNegatedBarePredicate(t *testing.T) {
	src := `
sort Human
name mary : Human
fun aussie/1 : Human

static true ? ~aussie(mary)
`
	b, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	lit := b.Static[0].Clause.Literals()[0]
	if lit.Positive() {
		t.Fatalf("expected ~aussie(mary) to compile to a negative literal")
	}
}

func TestParseBoxedClauseWithActionPrefix(t *testing.T) {
	src := `
sort Human
sort Act
name mary : Human
name open : Act
fun door/0 : Human

box true ? open:door() = mary v door() != mary
`
	b, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(b.Boxed) != 1 {
		t.Fatalf("expected 1 boxed clause, got %d", len(b.Boxed))
	}
}

func TestParseBeliefReducesToBoxedConditional(t *testing.T) {
	src := `
sort Human
name mary : Human
fun aussie/1 : Human
fun happy/1 : Human

belief true ? aussie(mary) => happy(mary)
`
	b, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(b.Boxed) != 1 {
		t.Fatalf("expected belief to compile into a single boxed clause, got %d", len(b.Boxed))
	}
	if b.Static != nil {
		t.Fatalf("expected belief not to touch Static")
	}
}

func TestParseGuardedStaticClause(t *testing.T) {
	src := `
sort Human
name mary : Human
name george : Human
var X : Human
fun father/1 : Human

static X != mary ? father(X) = george
`
	b, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(b.Static) != 1 {
		t.Fatalf("expected 1 static clause, got %d", len(b.Static))
	}
	if len(b.Static[0].Vars()) != 1 {
		t.Fatalf("expected the guard variable to be precomputed, got %v", b.Static[0].Vars())
	}
}

func TestParseRejectsUndeclaredIdentifier(t *testing.T) {
	src := `
sort Human
static true ? nobody(mary)
`
	if _, err := Parse(strings.NewReader(src)); err == nil {
		t.Fatalf("expected an error for an undeclared function")
	}
}

func TestParseRejectsUnknownStatement(t *testing.T) {
	src := `bogus true ? true`
	if _, err := Parse(strings.NewReader(src)); err == nil {
		t.Fatalf("expected an error for an unrecognised statement keyword")
	}
}

func TestParseSkipsBlankAndCommentLines(t *testing.T) {
	src := `

# comment only
sort Human

`
	b, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if _, ok := b.Sorts["Human"]; !ok {
		t.Fatalf("expected sort Human to be declared")
	}
}
