// Package expr implements the arithmetic expression language used for
// command arguments: numbers, :variable references, + - * / ^, unary minus,
// parentheses, and the SQRT LN EXP LOG10 functions.
package expr

import (
	"fmt"
	"strconv"
)

// Expr is an immutable expression tree node; it is one of Num, Var, Neg,
// Binary, or Call.
type Expr interface {
	fmt.Stringer
	expr()
}

// Num is a numeric literal.
type Num float64

// Var references a variable by its lower-cased name.
type Var string

// Neg is unary minus.
type Neg struct{ X Expr }

// Binary applies one of the Op* operators to two operands.
type Binary struct {
	Op   Op
	L, R Expr
}

// Call applies a named unary function.
type Call struct {
	Fn  Func
	Arg Expr
}

// Op is a binary operator.
type Op byte

// Binary operators, named by their source character.
const (
	OpAdd Op = '+'
	OpSub Op = '-'
	OpMul Op = '*'
	OpDiv Op = '/'
	OpPow Op = '^'
)

func (op Op) String() string { return string(rune(op)) }

// Func is one of the built-in unary functions.
type Func string

// Built-in functions.
const (
	FnSqrt  Func = "sqrt"
	FnLn    Func = "ln"
	FnExp   Func = "exp"
	FnLog10 Func = "log10"
)

var funcs = map[string]Func{
	"SQRT":  FnSqrt,
	"LN":    FnLn,
	"EXP":   FnExp,
	"LOG10": FnLog10,
}

func (Num) expr()    {}
func (Var) expr()    {}
func (Neg) expr()    {}
func (Binary) expr() {}
func (Call) expr()   {}

func (n Num) String() string    { return strconv.FormatFloat(float64(n), 'g', -1, 64) }
func (v Var) String() string    { return ":" + string(v) }
func (n Neg) String() string    { return "-" + n.X.String() }
func (b Binary) String() string { return fmt.Sprintf("(%v %v %v)", b.L, b.Op, b.R) }
func (c Call) String() string   { return fmt.Sprintf("%v(%v)", c.Fn, c.Arg) }
