package types

// BooleanValue is a tagged true/false.
type BooleanValue struct {
	Val bool
}

func NewBoolean(b bool) BooleanValue {
	return BooleanValue{Val: b}
}

func (b BooleanValue) Type() TypeCode { return TYPE_BOOLEAN }

func (b BooleanValue) String() string {
	if b.Val {
		return "true"
	}
	return "false"
}

func (b BooleanValue) Equal(other Value) bool {
	o, ok := other.(BooleanValue)
	return ok && b.Val == o.Val
}

func (b BooleanValue) Less(other Value) bool {
	o := other.(BooleanValue)
	return !b.Val && o.Val
}

func (b BooleanValue) Hash() uint64 {
	if b.Val {
		return fnvHash64(fnvOffset, []byte{1})
	}
	return fnvHash64(fnvOffset, []byte{0})
}
