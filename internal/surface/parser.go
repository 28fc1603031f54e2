// Package surface implements the query-language parser of spec §6: terms
// (Name, Variable, f(t1,...,tk)) and formulas (equality, literal, ^, v, ~,
// exists, forall, after-action [a]phi, and the epistemic operators
// Know<k>/G Know<k>). Grounded on internal/bat/parser.go's hand-rolled
// lexer and recursive-descent structure, extended with quantifier scoping
// (bat's surface language only ever has pre-declared variables, since BAT
// clauses are universally closed, but a query formula needs fresh
// quantifier-bound variables scoped to the quantifier's own body) and with
// Know<k>/G Know<k> as formula-level operators rather than a top-level
// wrapper: a nested Know<k> subformula is decided eagerly at parse time
// against the driver's current setup (no sensing results) and collapses to
// a boolean constant, so the formula handed back to the caller never
// contains an epistemic node.
package surface

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"unicode"

	"limbo/internal/bat"
	"limbo/internal/formula"
	"limbo/internal/literal"
	"limbo/internal/query"
	"limbo/internal/term"
)

// ParseError reports a malformed query, per spec §7 "Malformed input
// (parser): surfaced to the caller ... the core is never invoked."
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return fmt.Sprintf("query: %s", e.Msg) }

// Parse reads a single formula from r, resolving terms against b's declared
// sorts/names/functions and deciding any nested Know<k>/G Know<k>
// subformula eagerly via d (which may be nil if the text contains no
// epistemic operator).
func Parse(b *bat.BAT, d *query.Driver, r io.Reader) (formula.Formula, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return formula.Formula{}, err
	}
	toks, err := lex(string(data))
	if err != nil {
		return formula.Formula{}, &ParseError{Msg: err.Error()}
	}
	p := &parser{toks: toks, bat: b, driver: d, scopes: []map[string]term.Term{{}}}
	f := p.iff()
	if p.err != nil {
		return formula.Formula{}, &ParseError{Msg: p.err.Error()}
	}
	if p.peek().kind != tokEOF {
		return formula.Formula{}, &ParseError{Msg: fmt.Sprintf("unexpected trailing input at %q", p.peek().text)}
	}
	return f, nil
}

// --- tokenizer ---

type tokenKind uint8

const (
	tokIdent tokenKind = iota
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokComma
	tokColon
	tokDot
	tokTilde
	tokCaret
	tokArrow
	tokIff
	tokEq
	tokNeq
	tokLt
	tokGt
	tokEOF
)

type token struct {
	kind tokenKind
	text string
}

func lex(src string) ([]token, error) {
	var toks []token
	r := []rune(src)
	i := 0
	for i < len(r) {
		c := r[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case c == '[':
			toks = append(toks, token{tokLBracket, "["})
			i++
		case c == ']':
			toks = append(toks, token{tokRBracket, "]"})
			i++
		case c == ',':
			toks = append(toks, token{tokComma, ","})
			i++
		case c == '.':
			toks = append(toks, token{tokDot, "."})
			i++
		case c == '~':
			toks = append(toks, token{tokTilde, "~"})
			i++
		case c == '^':
			toks = append(toks, token{tokCaret, "^"})
			i++
		case c == '<' && hasPrefix(r, i, "<->"):
			toks = append(toks, token{tokIff, "<->"})
			i += 3
		case c == '-' && hasPrefix(r, i, "->"):
			toks = append(toks, token{tokArrow, "->"})
			i += 2
		case c == '!' && hasPrefix(r, i, "!="):
			toks = append(toks, token{tokNeq, "!="})
			i += 2
		case c == '=':
			toks = append(toks, token{tokEq, "="})
			i++
		case c == ':':
			toks = append(toks, token{tokColon, ":"})
			i++
		case c == '<':
			toks = append(toks, token{tokLt, "<"})
			i++
		case c == '>':
			toks = append(toks, token{tokGt, ">"})
			i++
		case unicode.IsLetter(c) || c == '_':
			j := i + 1
			for j < len(r) && (unicode.IsLetter(r[j]) || unicode.IsDigit(r[j]) || r[j] == '_') {
				j++
			}
			toks = append(toks, token{tokIdent, string(r[i:j])})
			i = j
		case unicode.IsDigit(c):
			j := i + 1
			for j < len(r) && unicode.IsDigit(r[j]) {
				j++
			}
			toks = append(toks, token{tokIdent, string(r[i:j])})
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q", c)
		}
	}
	toks = append(toks, token{tokEOF, ""})
	return toks, nil
}

func hasPrefix(r []rune, i int, s string) bool {
	if i+len(s) > len(r) {
		return false
	}
	return string(r[i:i+len(s)]) == s
}

// --- parser ---

type parser struct {
	toks   []token
	pos    int
	bat    *bat.BAT
	driver *query.Driver
	scopes []map[string]term.Term
	err    error
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(k tokenKind) token {
	t := p.next()
	if t.kind != k && p.err == nil {
		p.err = fmt.Errorf("unexpected token %q", t.text)
	}
	return t
}

func (p *parser) expectIdent() string {
	return p.expect(tokIdent).text
}

func (p *parser) tryIdent(text string) bool {
	if p.peek().kind == tokIdent && p.peek().text == text {
		p.next()
		return true
	}
	return false
}

func (p *parser) isOrKeyword() bool {
	return p.peek().kind == tokIdent && p.peek().text == "v"
}

func (p *parser) fail(format string, args ...any) {
	if p.err == nil {
		p.err = fmt.Errorf(format, args...)
	}
}

// iff := implies ( '<->' implies )*
func (p *parser) iff() formula.Formula {
	left := p.implies()
	for p.peek().kind == tokIff {
		p.next()
		right := p.implies()
		left = formula.And(formula.Or(formula.Not(left), right), formula.Or(left, formula.Not(right)))
	}
	return left
}

// implies := or ( '->' or )*
func (p *parser) implies() formula.Formula {
	left := p.or()
	for p.peek().kind == tokArrow {
		p.next()
		right := p.or()
		left = formula.Or(formula.Not(left), right)
	}
	return left
}

// or := and ( 'v' and )*
func (p *parser) or() formula.Formula {
	left := p.and()
	for p.isOrKeyword() {
		p.next()
		right := p.and()
		left = formula.Or(left, right)
	}
	return left
}

// and := unary ( '^' unary )*
func (p *parser) and() formula.Formula {
	left := p.unary()
	for p.peek().kind == tokCaret {
		p.next()
		right := p.unary()
		left = formula.And(left, right)
	}
	return left
}

// unary := '~' unary | '(' iff ')' | '[' term ']' unary
//        | ('exists'|'forall') IDENT ':' IDENT '.' unary
//        | ('G')? 'Know' '<' NUMBER '>' unary
//        | term ( '=' term | '!=' term )?
func (p *parser) unary() formula.Formula {
	switch {
	case p.peek().kind == tokTilde:
		p.next()
		return formula.Not(p.unary())
	case p.peek().kind == tokLParen:
		p.next()
		f := p.iff()
		p.expect(tokRParen)
		return f
	case p.peek().kind == tokLBracket:
		p.next()
		a := p.term()
		p.expect(tokRBracket)
		return formula.Action(a, p.unary())
	case p.tryIdent("exists"):
		return p.quantifier(false)
	case p.tryIdent("forall"):
		return p.quantifier(true)
	case p.peek().kind == tokIdent && p.peek().text == "G" && p.toks[p.pos+1].kind == tokIdent && p.toks[p.pos+1].text == "Know":
		p.next()
		return p.know(true)
	case p.tryIdent("Know"):
		return p.know(false)
	}
	t := p.term()
	switch {
	case p.peek().kind == tokEq:
		p.next()
		return formula.Lit(literal.New(t, p.term(), true))
	case p.peek().kind == tokNeq:
		p.next()
		return formula.Lit(literal.New(t, p.term(), false))
	default:
		return formula.Lit(literal.New(t, p.bat.TrueName(), true))
	}
}

// quantifier parses "IDENT ':' IDENT '.' unary" after the exists/forall
// keyword has already been consumed, binding a fresh variable scoped to
// the quantifier's own body only.
func (p *parser) quantifier(universal bool) formula.Formula {
	name := p.expectIdent()
	p.expect(tokColon)
	sortName := p.expectIdent()
	sort, ok := p.bat.Sorts[sortName]
	if !ok {
		p.fail("undeclared sort %q", sortName)
		return formula.Formula{}
	}
	p.expect(tokDot)

	v := p.bat.Factory.CreateAtom(p.bat.Factory.Symbols.CreateVariable(sort))
	p.scopes = append(p.scopes, map[string]term.Term{name: v})
	body := p.unary()
	p.scopes = p.scopes[:len(p.scopes)-1]

	if universal {
		return formula.Forall(v, body)
	}
	return formula.Exists(v, body)
}

// know parses "'<' NUMBER '>' unary" after Know/G Know has been consumed,
// deciding the embedded formula immediately against the driver (no sensing
// results: a nested epistemic check is answered from the setup as it
// stands, not from the caller's own in-progress sensing log) and folding
// the result into a boolean constant.
func (p *parser) know(global bool) formula.Formula {
	p.expect(tokLt)
	depthTok := p.expect(tokIdent)
	depth, err := strconv.Atoi(depthTok.text)
	if err != nil {
		p.fail("invalid depth %q", depthTok.text)
	}
	p.expect(tokGt)
	inner := p.unary()
	if p.err != nil {
		return formula.Formula{}
	}
	if p.driver == nil {
		p.fail("formula uses Know<k> but no driver was supplied to evaluate it")
		return formula.Formula{}
	}
	var result bool
	if global {
		result = p.driver.AskGlobal(context.Background(), inner, depth, nil)
	} else {
		result = p.driver.Ask(context.Background(), inner, depth, nil)
	}
	if result {
		return formula.True()
	}
	return formula.False()
}

func (p *parser) term() term.Term {
	name := p.expectIdent()
	if p.peek().kind == tokLParen {
		p.next()
		var args []term.Term
		if p.peek().kind != tokRParen {
			args = append(args, p.term())
			for p.peek().kind == tokComma {
				p.next()
				args = append(args, p.term())
			}
		}
		p.expect(tokRParen)
		sym, ok := p.bat.Funs[name]
		if !ok {
			p.fail("undeclared function %q", name)
			return term.Null
		}
		return p.bat.Factory.CreateTerm(sym, args)
	}
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if v, ok := p.scopes[i][name]; ok {
			return v
		}
	}
	if v, ok := p.bat.Vars[name]; ok {
		return v
	}
	if n, ok := p.bat.Names[name]; ok {
		return n
	}
	p.fail("undeclared identifier %q", name)
	return term.Term{}
}
