package expr

import (
	"fmt"
	"math"
	"strconv"
)

// Value is a variable binding; it is either a Scalar or a List.
type Value interface{ value() }

// Scalar is a numeric variable value.
type Scalar float64

// List is an instruction list: unparsed command source to be replayed.
type List string

func (Scalar) value() {}
func (List) value()   {}

func (s Scalar) String() string { return strconv.FormatFloat(float64(s), 'g', -1, 64) }
func (l List) String() string   { return "[" + string(l) + "]" }

// Env maps lower-cased variable names to values.
type Env map[string]Value

// UndefinedError is returned when evaluating a reference to an unbound name.
type UndefinedError struct{ Name string }

func (err *UndefinedError) Error() string {
	return fmt.Sprintf("undefined variable :%v", err.Name)
}

// KindError is returned when a variable is bound to the wrong kind of value.
type KindError struct {
	Name string
	Want string
}

func (err *KindError) Error() string {
	switch err.Want {
	case "number":
		return fmt.Sprintf("cannot use instruction list :%v in numeric expression", err.Name)
	case "list":
		return fmt.Sprintf("variable :%v is not an instruction list", err.Name)
	}
	return fmt.Sprintf("variable :%v is not a %v", err.Name, err.Want)
}

// Scalar returns the numeric value bound to name.
func (env Env) Scalar(name string) (float64, error) {
	switch v := env[name].(type) {
	case Scalar:
		return float64(v), nil
	case List:
		return 0, &KindError{name, "number"}
	}
	return 0, &UndefinedError{name}
}

// List returns the instruction list bound to name.
func (env Env) List(name string) (string, error) {
	switch v := env[name].(type) {
	case List:
		return string(v), nil
	case Scalar:
		return "", &KindError{name, "list"}
	}
	return "", &UndefinedError{name}
}

// Eval evaluates e under env. Arithmetic follows IEEE 754, so division by
// zero yields an infinity and domain errors yield NaN rather than failing.
func Eval(e Expr, env Env) (float64, error) {
	switch e := e.(type) {
	case Num:
		return float64(e), nil

	case Var:
		return env.Scalar(string(e))

	case Neg:
		x, err := Eval(e.X, env)
		return -x, err

	case Binary:
		l, err := Eval(e.L, env)
		if err != nil {
			return 0, err
		}
		r, err := Eval(e.R, env)
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case OpAdd:
			return l + r, nil
		case OpSub:
			return l - r, nil
		case OpMul:
			return l * r, nil
		case OpDiv:
			return l / r, nil
		case OpPow:
			return math.Pow(l, r), nil
		}
		return 0, fmt.Errorf("unknown operator %v", e.Op)

	case Call:
		x, err := Eval(e.Arg, env)
		if err != nil {
			return 0, err
		}
		switch e.Fn {
		case FnSqrt:
			return math.Sqrt(x), nil
		case FnLn:
			return math.Log(x), nil
		case FnExp:
			return math.Exp(x), nil
		case FnLog10:
			return math.Log10(x), nil
		}
		return 0, fmt.Errorf("unknown function %v", e.Fn)
	}
	return 0, fmt.Errorf("unknown expression node %T", e)
}

// EvalString parses and evaluates s in one step.
func EvalString(s string, env Env) (float64, error) {
	e, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return Eval(e, env)
}
