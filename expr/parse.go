package expr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// SyntaxError describes why an expression could not be parsed.
type SyntaxError struct {
	Input  string
	Reason string
}

func (err *SyntaxError) Error() string {
	return fmt.Sprintf("invalid expression %q: %v", err.Input, err.Reason)
}

var errEmpty = errors.New("empty expression")

// Parse parses a complete expression; every token of s must be consumed.
//
// Precedence from lowest to highest is: + -, * /, ^ (right associative),
// unary minus, then atoms. An atom is a parenthesized expression, a :name
// reference, a function name applied to a unary operand, or a finite number.
func Parse(s string) (Expr, error) {
	toks := tokenize(strings.TrimSpace(s))
	if len(toks) == 0 {
		return nil, &SyntaxError{s, errEmpty.Error()}
	}
	p := parser{toks: toks}
	e, err := p.additive()
	if err == nil && p.pos < len(p.toks) {
		err = fmt.Errorf("unexpected %q", p.toks[p.pos])
	}
	if err != nil {
		return nil, &SyntaxError{s, err.Error()}
	}
	return e, nil
}

// tokenize splits on whitespace and around the operator and paren characters;
// any other run of characters becomes a single token.
func tokenize(s string) (toks []string) {
	start := -1
	for i, r := range s {
		switch {
		case unicode.IsSpace(r):
			if start >= 0 {
				toks = append(toks, s[start:i])
				start = -1
			}
		case strings.ContainsRune("+-*/^()", r):
			if start >= 0 {
				toks = append(toks, s[start:i])
				start = -1
			}
			toks = append(toks, string(r))
		default:
			if start < 0 {
				start = i
			}
		}
	}
	if start >= 0 {
		toks = append(toks, s[start:])
	}
	return toks
}

type parser struct {
	toks []string
	pos  int
}

func (p *parser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return ""
}

func (p *parser) next() string {
	tok := p.peek()
	if tok != "" {
		p.pos++
	}
	return tok
}

func (p *parser) additive() (Expr, error) {
	left, err := p.multiplicative()
	for err == nil {
		tok := p.peek()
		if tok != "+" && tok != "-" {
			break
		}
		p.next()
		var right Expr
		if right, err = p.multiplicative(); err == nil {
			left = Binary{Op(tok[0]), left, right}
		}
	}
	return left, err
}

func (p *parser) multiplicative() (Expr, error) {
	left, err := p.power()
	for err == nil {
		tok := p.peek()
		if tok != "*" && tok != "/" {
			break
		}
		p.next()
		var right Expr
		if right, err = p.power(); err == nil {
			left = Binary{Op(tok[0]), left, right}
		}
	}
	return left, err
}

func (p *parser) power() (Expr, error) {
	left, err := p.unary()
	if err != nil || p.peek() != "^" {
		return left, err
	}
	p.next()
	right, err := p.power()
	if err != nil {
		return nil, err
	}
	return Binary{OpPow, left, right}, nil
}

func (p *parser) unary() (Expr, error) {
	if p.peek() == "-" {
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return Neg{x}, nil
	}
	return p.atom()
}

func (p *parser) atom() (Expr, error) {
	tok := p.next()
	switch {
	case tok == "":
		return nil, errors.New("unexpected end of expression")

	case tok == "(":
		e, err := p.additive()
		if err != nil {
			return nil, err
		}
		if p.next() != ")" {
			return nil, errors.New("expected )")
		}
		return e, nil

	case strings.HasPrefix(tok, ":"):
		name := strings.ToLower(tok[1:])
		if name == "" {
			return nil, errors.New("variable name cannot be empty")
		}
		return Var(name), nil
	}

	if fn, ok := funcs[strings.ToUpper(tok)]; ok {
		arg, err := p.unary()
		if err != nil {
			return nil, fmt.Errorf("%v argument: %w", strings.ToUpper(tok), err)
		}
		return Call{fn, arg}, nil
	}

	n, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return nil, fmt.Errorf("invalid number %q", tok)
	}
	return Num(n), nil
}
