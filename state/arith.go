package state

import (
	"math"

	"github.com/chazu/luavm/api"
	"github.com/chazu/luavm/number"
)

type operator struct {
	symbol     string
	integerFn  func(int64, int64) int64
	floatFn    func(float64, float64) float64
	zeroDivErr bool // integer form fails on a zero divisor
}

var operators = []operator{
	api.OpAdd:  {"+", func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b }, false},
	api.OpSub:  {"-", func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b }, false},
	api.OpMul:  {"*", func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b }, false},
	api.OpMod:  {"%", number.IMod, number.FMod, true},
	api.OpPow:  {"^", nil, math.Pow, false},
	api.OpDiv:  {"/", nil, func(a, b float64) float64 { return a / b }, false},
	api.OpIdiv: {"//", number.IFloorDiv, number.FFloorDiv, true},
	api.OpBand: {"&", func(a, b int64) int64 { return a & b }, nil, false},
	api.OpBor:  {"|", func(a, b int64) int64 { return a | b }, nil, false},
	api.OpBxor: {"~", func(a, b int64) int64 { return a ^ b }, nil, false},
	api.OpShl:  {"<<", number.ShiftLeft, nil, false},
	api.OpShr:  {">>", number.ShiftRight, nil, false},
	api.OpUnm:  {"-", func(a, _ int64) int64 { return -a }, func(a, _ float64) float64 { return -a }, false},
	api.OpBnot: {"~", func(a, _ int64) int64 { return ^a }, nil, false},
}

// arith applies op to a and b. Unary operators ignore b.
func arith(a, b Value, op api.ArithOp) (Value, error) {
	if int(op) < 0 || int(op) >= len(operators) {
		return nil, newError(ErrArithmetic, "unknown operator %d", op)
	}
	o := operators[op]

	if o.floatFn == nil { // bitwise
		x, ok := toInteger(a)
		if !ok {
			return nil, bitwiseError(a, o)
		}
		y, ok := toInteger(b)
		if !ok {
			return nil, bitwiseError(b, o)
		}
		return Integer(o.integerFn(x, y)), nil
	}

	if o.integerFn != nil {
		x, xok := a.(Integer)
		y, yok := b.(Integer)
		if xok && yok {
			if o.zeroDivErr && y == 0 {
				return nil, newError(ErrArithmetic, "attempt to perform 'n%s0'", o.symbol)
			}
			return Integer(o.integerFn(int64(x), int64(y))), nil
		}
	}

	x, ok := toFloat(a)
	if !ok {
		return nil, arithError(a, o)
	}
	y, ok := toFloat(b)
	if !ok {
		return nil, arithError(b, o)
	}
	return Float(o.floatFn(x, y)), nil
}

func arithError(v Value, o operator) error {
	return newError(ErrArithmetic, "attempt to perform arithmetic (%s) on a %s value", o.symbol, typeName(v))
}

func bitwiseError(v Value, o operator) error {
	if _, ok := toFloat(v); ok {
		return newError(ErrArithmetic, "number has no integer representation")
	}
	return newError(ErrArithmetic, "attempt to perform bitwise operation (%s) on a %s value", o.symbol, typeName(v))
}

// ---------------------------------------------------------------------------
// Comparison
// ---------------------------------------------------------------------------

func eq(a, b Value) bool {
	switch x := a.(type) {
	case nilValue:
		return b == Nil
	case Integer:
		switch y := b.(type) {
		case Integer:
			return x == y
		case Float:
			return float64(x) == float64(y)
		}
		return false
	case Float:
		switch y := b.(type) {
		case Float:
			return x == y
		case Integer:
			return float64(x) == float64(y)
		}
		return false
	default:
		return a == b
	}
}

func lt(a, b Value) (bool, error) {
	switch x := a.(type) {
	case String:
		if y, ok := b.(String); ok {
			return x < y, nil
		}
	case Integer:
		switch y := b.(type) {
		case Integer:
			return x < y, nil
		case Float:
			return float64(x) < float64(y), nil
		}
	case Float:
		switch y := b.(type) {
		case Float:
			return x < y, nil
		case Integer:
			return float64(x) < float64(y), nil
		}
	}
	return false, compareError(a, b)
}

func le(a, b Value) (bool, error) {
	switch x := a.(type) {
	case String:
		if y, ok := b.(String); ok {
			return x <= y, nil
		}
	case Integer:
		switch y := b.(type) {
		case Integer:
			return x <= y, nil
		case Float:
			return float64(x) <= float64(y), nil
		}
	case Float:
		switch y := b.(type) {
		case Float:
			return x <= y, nil
		case Integer:
			return float64(x) <= float64(y), nil
		}
	}
	return false, compareError(a, b)
}

func compareError(a, b Value) error {
	ta, tb := typeName(a), typeName(b)
	if ta == tb {
		return newError(ErrComparison, "attempt to compare two %s values", ta)
	}
	return newError(ErrComparison, "attempt to compare %s with %s", ta, tb)
}
