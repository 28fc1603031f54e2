package bat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"limbo/internal/formula"
	"limbo/internal/literal"
	"limbo/internal/term"
)

// This file implements the line-oriented parser for the BAT surface
// language of spec §6: one declaration or clause per line, scanned with
// bufio.Scanner the way togatoga-gatosat/dimacs.go scans one DIMACS clause
// per line, but with a small recursive-descent expression parser in place
// of dimacs.go's flat int-literal list, since BAT clause bodies need the
// connectives (`~`, `^`, `v`, `->`, `<->`), action prefixes (`A:phi`), and
// equality atoms (`t1 = t2`) of spec §6, not just signed literal ids.
//
// Supported lines:
//
//	sort S [rigid]
//	name n : S
//	fun f/N : S
//	var X : S
//	static <ewff> ? <clause>
//	box <ewff> ? <clause>
//	belief <ewff> ? <phi> => <psi>
//
// <ewff> is `true` or an equality-only formula (~ ^ v over t1=t2/t1!=t2);
// <clause>/<phi>/<psi> are full formulas: literals (bare `P(args)` means
// `P(args) = T`), `~`, `^`, `v`, `->`, `<->`, parens, and action prefixes
// `A:phi`. Lines starting with `#` and blank lines are ignored.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string { return fmt.Sprintf("bat: line %d: %s", e.Line, e.Msg) }

// Parse reads a BAT source from r into a fresh BAT.
func Parse(r io.Reader) (*BAT, error) {
	b := New()
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := b.parseLine(line); err != nil {
			return nil, &ParseError{Line: lineNo, Msg: err.Error()}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *BAT) parseLine(line string) error {
	toks, err := lex(line)
	if err != nil {
		return err
	}
	p := &parser{toks: toks, bat: b}
	kw := p.expectIdent()
	if p.err != nil {
		return p.err
	}
	switch kw {
	case "sort":
		name := p.expectIdent()
		rigid := p.tryIdent("rigid")
		var s term.Sort
		if rigid {
			s = b.Factory.Sorts.CreateRigid()
		} else {
			s = b.Factory.Sorts.CreateNonrigid()
		}
		b.Sorts[name] = s
	case "name":
		n := p.expectIdent()
		p.expect(tokColon)
		sortName := p.expectIdent()
		sort, ok := b.Sorts[sortName]
		if !ok {
			return fmt.Errorf("undeclared sort %q", sortName)
		}
		b.Names[n] = b.Factory.CreateAtom(b.Factory.Symbols.CreateName(sort))
	case "fun":
		fname := p.expectIdent()
		p.expect(tokSlash)
		arityText := p.expectIdent()
		if p.err != nil {
			return p.err
		}
		name, arity, err := splitFunSpec(fname + "/" + arityText)
		if err != nil {
			return err
		}
		p.expect(tokColon)
		sortName := p.expectIdent()
		sort, ok := b.Sorts[sortName]
		if !ok {
			return fmt.Errorf("undeclared sort %q", sortName)
		}
		b.Funs[name] = b.Factory.Symbols.CreateFunction(sort, arity)
	case "var":
		name := p.expectIdent()
		p.expect(tokColon)
		sortName := p.expectIdent()
		sort, ok := b.Sorts[sortName]
		if !ok {
			return fmt.Errorf("undeclared sort %q", sortName)
		}
		b.Vars[name] = b.Factory.CreateAtom(b.Factory.Symbols.CreateVariable(sort))
	case "static", "box":
		guard := p.ewff()
		p.expect(tokQuestion)
		body := p.iff()
		if p.err != nil {
			return p.err
		}
		if kw == "static" {
			b.AddStatic(guard, body)
		} else {
			b.AddBoxed(guard, body)
		}
	case "belief":
		guard := p.ewff()
		p.expect(tokQuestion)
		phi := p.iff()
		p.expect(tokEqArrow)
		psi := p.iff()
		if p.err != nil {
			return p.err
		}
		b.AddBelief(guard, phi, psi)
	default:
		return fmt.Errorf("unknown statement %q", kw)
	}
	if p.err != nil {
		return p.err
	}
	if p.peek().kind != tokEOF {
		return fmt.Errorf("unexpected trailing input at %q", p.peek().text)
	}
	return nil
}

func splitFunSpec(spec string) (string, uint8, error) {
	idx := strings.IndexByte(spec, '/')
	if idx < 0 {
		return "", 0, fmt.Errorf("function declaration must be name/arity, got %q", spec)
	}
	n, err := strconv.Atoi(spec[idx+1:])
	if err != nil || n < 0 || n > 255 {
		return "", 0, fmt.Errorf("invalid arity in %q", spec)
	}
	return spec[:idx], uint8(n), nil
}

// trueName returns the reserved boolean-true standard name T, used as the
// implicit right-hand side of a bare predicate literal like `P(args)`,
// minting the Bool sort and the name lazily on first use. Bool is
// nonrigid: predicates declared `fun p/k : Bool` must stay fluents (a
// ground p(n̄) is a Primitive application, per spec §3), not collapse into
// the name heap the way a rigid sort's ground applications do.
func (b *BAT) trueName() term.Term {
	if n, ok := b.Names["T"]; ok {
		return n
	}
	sort, ok := b.Sorts["Bool"]
	if !ok {
		sort = b.Factory.Sorts.CreateNonrigid()
		b.Sorts["Bool"] = sort
	}
	n := b.Factory.CreateAtom(b.Factory.Symbols.CreateName(sort))
	b.Names["T"] = n
	return n
}

// --- tokenizer ---

type tokenKind uint8

const (
	tokIdent tokenKind = iota
	tokLParen
	tokRParen
	tokComma
	tokColon
	tokSlash
	tokTilde
	tokCaret
	tokArrow
	tokIff
	tokEq
	tokNeq
	tokQuestion
	tokEqArrow
	tokEOF
)

type token struct {
	kind tokenKind
	text string
}

func lex(line string) ([]token, error) {
	var toks []token
	r := []rune(line)
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
		case c == ',':
			toks = append(toks, token{tokComma, ","})
			i++
		case c == '/':
			toks = append(toks, token{tokSlash, "/"})
			i++
		case c == '~':
			toks = append(toks, token{tokTilde, "~"})
			i++
		case c == '^':
			toks = append(toks, token{tokCaret, "^"})
			i++
		case c == '?':
			toks = append(toks, token{tokQuestion, "?"})
			i++
		case c == '<' && hasPrefix(r, i, "<->"):
			toks = append(toks, token{tokIff, "<->"})
			i += 3
		case c == '-' && hasPrefix(r, i, "->"):
			toks = append(toks, token{tokArrow, "->"})
			i += 2
		case c == '=' && hasPrefix(r, i, "=>"):
			toks = append(toks, token{tokEqArrow, "=>"})
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
	toks []token
	pos  int
	bat  *BAT
	err  error
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
	t := p.expect(tokIdent)
	return t.text
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

// unary := '~' unary | '(' iff ')' | term (':' unary | ('=' | '!=') term)?
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
	}
	t := p.term()
	switch {
	case p.peek().kind == tokColon:
		p.next()
		return formula.Action(t, p.unary())
	case p.peek().kind == tokEq:
		p.next()
		return formula.Lit(literal.New(t, p.term(), true))
	case p.peek().kind == tokNeq:
		p.next()
		return formula.Lit(literal.New(t, p.term(), false))
	default:
		return formula.Lit(literal.New(t, p.bat.trueName(), true))
	}
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
			return term.Term{}
		}
		return p.bat.Factory.CreateTerm(sym, args)
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

func (p *parser) fail(format string, args ...any) {
	if p.err == nil {
		p.err = fmt.Errorf(format, args...)
	}
}

// ewff := ewffOr
func (p *parser) ewff() Ewff {
	return p.ewffOr()
}

func (p *parser) ewffOr() Ewff {
	left := p.ewffAnd()
	for p.isOrKeyword() {
		p.next()
		left = EwffOr(left, p.ewffAnd())
	}
	return left
}

func (p *parser) ewffAnd() Ewff {
	left := p.ewffUnary()
	for p.peek().kind == tokCaret {
		p.next()
		left = EwffAnd(left, p.ewffUnary())
	}
	return left
}

func (p *parser) ewffUnary() Ewff {
	switch {
	case p.peek().kind == tokTilde:
		p.next()
		return EwffNot(p.ewffUnary())
	case p.peek().kind == tokLParen:
		p.next()
		e := p.ewff()
		p.expect(tokRParen)
		return e
	case p.peek().kind == tokIdent && p.peek().text == "true" && p.toks[p.pos+1].kind != tokEq && p.toks[p.pos+1].kind != tokNeq:
		p.next()
		return EwffTrue()
	}
	lhs := p.term()
	switch {
	case p.peek().kind == tokEq:
		p.next()
		return EwffEq(lhs, p.term())
	case p.peek().kind == tokNeq:
		p.next()
		return EwffNeq(lhs, p.term())
	default:
		p.fail("expected = or != in ewff")
		return EwffTrue()
	}
}
