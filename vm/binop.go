package vm

import (
	"fmt"

	"exceptional/types"
)

// applyBinOp implements §4.3's BinOp semantics. Arithmetic is
// Number×Number only; `+` additionally overloads onto Map×Map
// (right-biased merge) and CharString×CharString (concatenation).
// Comparisons other than `=` are Number×Number or CharString×CharString.
func applyBinOp(op Op, left, right types.Value) (types.Value, error) {
	switch op {
	case OpEq:
		return types.NewBoolean(left.Equal(right)), nil
	case OpGtEq:
		if left.Equal(right) {
			return types.NewBoolean(true), nil
		}
		return compareOrdered(left, right, func(c int) bool { return c > 0 })
	case OpLtEq:
		if left.Equal(right) {
			return types.NewBoolean(true), nil
		}
		return compareOrdered(left, right, func(c int) bool { return c < 0 })
	case OpGt:
		return compareOrdered(left, right, func(c int) bool { return c > 0 })
	case OpLt:
		return compareOrdered(left, right, func(c int) bool { return c < 0 })
	case OpAdd:
		return applyAdd(left, right)
	case OpSub, OpMul, OpDiv:
		return applyArith(op, left, right)
	default:
		return nil, fmt.Errorf("unknown operator %v", op)
	}
}

func compareOrdered(left, right types.Value, pred func(int) bool) (types.Value, error) {
	ln, lok := left.(types.NumberValue)
	rn, rok := right.(types.NumberValue)
	if lok && rok {
		return types.NewBoolean(pred(ln.Rat().Cmp(rn.Rat()))), nil
	}
	ls, lok := left.(types.StringValue)
	rs, rok := right.(types.StringValue)
	if lok && rok {
		c := 0
		if ls.Value() < rs.Value() {
			c = -1
		} else if ls.Value() > rs.Value() {
			c = 1
		}
		return types.NewBoolean(pred(c)), nil
	}
	return nil, fmt.Errorf("comparison not defined for %s and %s", types.TypeNameOf(left), types.TypeNameOf(right))
}

func applyAdd(left, right types.Value) (types.Value, error) {
	if lm, ok := left.(types.MapValue); ok {
		if rm, ok := right.(types.MapValue); ok {
			return lm.Merge(rm), nil
		}
	}
	if ls, ok := left.(types.StringValue); ok {
		if rs, ok := right.(types.StringValue); ok {
			return types.NewString(ls.Value() + rs.Value()), nil
		}
	}
	return applyArith(OpAdd, left, right)
}

func applyArith(op Op, left, right types.Value) (types.Value, error) {
	ln, lok := left.(types.NumberValue)
	rn, rok := right.(types.NumberValue)
	if !lok || !rok {
		return nil, fmt.Errorf("arithmetic not defined for %s and %s", types.TypeNameOf(left), types.TypeNameOf(right))
	}
	switch op {
	case OpAdd:
		return ln.Add(rn), nil
	case OpSub:
		return ln.Sub(rn), nil
	case OpMul:
		return ln.Mul(rn), nil
	case OpDiv:
		result, ok := ln.Div(rn)
		if !ok {
			return nil, fmt.Errorf("division by zero")
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unknown arithmetic operator %v", op)
	}
}
