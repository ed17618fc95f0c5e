package types

import (
	"math/big"
)

// NumberValue is an arbitrary-precision rational, always stored in
// canonical (reduced) form so that 1/2 and 2/4 compare and hash equal.
type NumberValue struct {
	rat *big.Rat
}

// NewNumber builds a NumberValue from a numerator and denominator.
func NewNumber(num, denom int64) NumberValue {
	return NumberValue{rat: big.NewRat(num, denom)}
}

// NewNumberFromRat wraps an existing big.Rat. The rat is not copied;
// callers must not mutate it afterward.
func NewNumberFromRat(r *big.Rat) NumberValue {
	return NumberValue{rat: r}
}

// NewNumberFromInt64 builds an integral NumberValue.
func NewNumberFromInt64(n int64) NumberValue {
	return NumberValue{rat: big.NewRat(n, 1)}
}

func (n NumberValue) Type() TypeCode { return TYPE_NUMBER }

func (n NumberValue) String() string {
	return n.rat.RatString()
}

func (n NumberValue) Equal(other Value) bool {
	o, ok := other.(NumberValue)
	if !ok {
		return false
	}
	return n.rat.Cmp(o.rat) == 0
}

func (n NumberValue) Less(other Value) bool {
	o := other.(NumberValue)
	return n.rat.Cmp(o.rat) < 0
}

func (n NumberValue) Hash() uint64 {
	return fnvHash64(fnvOffset, []byte(n.rat.RatString()))
}

// Rat exposes the underlying rational for arithmetic. Callers must not
// mutate the returned value.
func (n NumberValue) Rat() *big.Rat {
	return n.rat
}

func (n NumberValue) Add(o NumberValue) NumberValue {
	return NumberValue{rat: new(big.Rat).Add(n.rat, o.rat)}
}

func (n NumberValue) Sub(o NumberValue) NumberValue {
	return NumberValue{rat: new(big.Rat).Sub(n.rat, o.rat)}
}

func (n NumberValue) Mul(o NumberValue) NumberValue {
	return NumberValue{rat: new(big.Rat).Mul(n.rat, o.rat)}
}

// Div returns (result, ok); ok is false on division by zero.
func (n NumberValue) Div(o NumberValue) (NumberValue, bool) {
	if o.rat.Sign() == 0 {
		return NumberValue{}, false
	}
	return NumberValue{rat: new(big.Rat).Quo(n.rat, o.rat)}, true
}

// Int64 returns the value truncated to an int64, used for file
// descriptor numbers handed back from the native library.
func (n NumberValue) Int64() int64 {
	f, _ := new(big.Float).SetRat(n.rat).Int64()
	return f
}
