// Package calc evaluates plain arithmetic expressions. The grammar is closed
// over numbers, + - * / // % ** and parentheses: no identifiers, no function
// calls, nothing that could reach outside the expression.
package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidExpression = errors.New("invalid expression")
	ErrDivisionByZero    = errors.New("division by zero")
)

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenOperator
	tokenLeftParen
	tokenRightParen
)

type token struct {
	kind tokenKind
	text string
	val  float64
}

// Eval evaluates an arithmetic expression. "//" is floor division, "%" is the
// floored modulo, "**" is exponentiation (right-associative).
func Eval(expr string) (float64, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return 0, err
	}
	if len(tokens) == 0 {
		return 0, fmt.Errorf("%w: empty expression", ErrInvalidExpression)
	}
	p := &parser{tokens: tokens}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.tokens) {
		return 0, fmt.Errorf("%w: unexpected %q", ErrInvalidExpression, p.tokens[p.pos].text)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: result out of range", ErrInvalidExpression)
	}
	return v, nil
}

func tokenize(expr string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c >= '0' && c <= '9' || c == '.':
			j := i
			for j < len(expr) && (expr[j] >= '0' && expr[j] <= '9' || expr[j] == '.') {
				j++
			}
			text := expr[i:j]
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q", ErrInvalidExpression, text)
			}
			tokens = append(tokens, token{kind: tokenNumber, text: text, val: v})
			i = j
		case c == '(':
			tokens = append(tokens, token{kind: tokenLeftParen, text: "("})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokenRightParen, text: ")"})
			i++
		case c == '+' || c == '-' || c == '%':
			tokens = append(tokens, token{kind: tokenOperator, text: string(c)})
			i++
		case c == '*' || c == '/':
			if i+1 < len(expr) && expr[i+1] == c {
				tokens = append(tokens, token{kind: tokenOperator, text: strings.Repeat(string(c), 2)})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tokenOperator, text: string(c)})
				i++
			}
		default:
			return nil, fmt.Errorf("%w: unexpected character %q", ErrInvalidExpression, string(c))
		}
	}
	return tokens, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

// expr := term { ("+" | "-") term }
func (p *parser) parseExpr() (float64, error) {
	v, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokenOperator || (t.text != "+" && t.text != "-") {
			return v, nil
		}
		p.pos++
		rhs, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if t.text == "+" {
			v += rhs
		} else {
			v -= rhs
		}
	}
}

// term := unary { ("*" | "/" | "//" | "%") unary }
func (p *parser) parseTerm() (float64, error) {
	v, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokenOperator {
			return v, nil
		}
		switch t.text {
		case "*", "/", "//", "%":
		default:
			return v, nil
		}
		p.pos++
		rhs, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		switch t.text {
		case "*":
			v *= rhs
		case "/":
			if rhs == 0 {
				return 0, ErrDivisionByZero
			}
			v /= rhs
		case "//":
			if rhs == 0 {
				return 0, ErrDivisionByZero
			}
			v = math.Floor(v / rhs)
		case "%":
			if rhs == 0 {
				return 0, ErrDivisionByZero
			}
			v = flooredMod(v, rhs)
		}
	}
}

// unary := ("+" | "-") unary | power
//
// "**" binds tighter than a leading sign, so -2**2 is -(2**2).
func (p *parser) parseUnary() (float64, error) {
	t, ok := p.peek()
	if ok && t.kind == tokenOperator && (t.text == "+" || t.text == "-") {
		p.pos++
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if t.text == "-" {
			return -v, nil
		}
		return v, nil
	}
	return p.parsePower()
}

// power := primary [ "**" unary ]
func (p *parser) parsePower() (float64, error) {
	v, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}
	t, ok := p.peek()
	if !ok || t.kind != tokenOperator || t.text != "**" {
		return v, nil
	}
	p.pos++
	exp, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	return math.Pow(v, exp), nil
}

// primary := number | "(" expr ")"
func (p *parser) parsePrimary() (float64, error) {
	t, ok := p.peek()
	if !ok {
		return 0, fmt.Errorf("%w: unexpected end of expression", ErrInvalidExpression)
	}
	switch t.kind {
	case tokenNumber:
		p.pos++
		return t.val, nil
	case tokenLeftParen:
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		t, ok := p.peek()
		if !ok || t.kind != tokenRightParen {
			return 0, fmt.Errorf("%w: missing closing parenthesis", ErrInvalidExpression)
		}
		p.pos++
		return v, nil
	default:
		return 0, fmt.Errorf("%w: unexpected %q", ErrInvalidExpression, t.text)
	}
}

// flooredMod keeps the sign of the divisor, so -7 % 3 == 2.
func flooredMod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}
