package types

// InstructionSequence is an opaque handle to a compiled instruction
// list. The types package never inspects the instructions themselves
// (that's the vm package's job) — it only carries the pointer around
// as part of a Closure.
type InstructionSequence interface{}

// Scope is the interface BindingMap's lexical scopes satisfy, named
// here so that a Closure can hold a reference to the scope it was
// created in without types depending on the vm package.
type Scope interface {
	Fetch(name string) (Value, bool)
}

// ClosureValue bundles a parameter list with a compiled body and the
// lexical scope it closed over at creation time. The scope is held by
// reference (not copied), so later rebinds in that scope are visible
// the next time the closure runs.
type ClosureValue struct {
	Params []string
	Body   InstructionSequence
	Parent Scope

	// Native holds a host function (opaque here; the vm package stores
	// its own NativeFunc type) for closures that run a host function
	// instead of compiled code. Exactly one of Body or Native is set.
	Native   interface{}
	isNative bool
}

func NewClosure(params []string, body InstructionSequence, parent Scope) ClosureValue {
	return ClosureValue{Params: params, Body: body, Parent: parent}
}

// NewNativeClosure wraps a host function as a callable closure, per
// §4.5's contract for exposing native library functions to scripts.
func NewNativeClosure(params []string, native interface{}) ClosureValue {
	return ClosureValue{Params: params, Native: native, isNative: true}
}

func (c ClosureValue) Type() TypeCode { return TYPE_CLOSURE }

func (c ClosureValue) String() string {
	if c.isNative {
		return "<native closure>"
	}
	return "<closure>"
}

// Equal uses identity on the captured scope and body: two closures
// are equal only if they share the same compiled body and captured
// scope, since structural equality of compiled code has no useful
// meaning here. Body must hold a comparable dynamic type (the vm
// package stores it as a pointer) or this panics.
func (c ClosureValue) Equal(other Value) bool {
	o, ok := other.(ClosureValue)
	if !ok {
		return false
	}
	return c.Parent == o.Parent && c.Body == o.Body && c.Native == nil && o.Native == nil
}

func (c ClosureValue) Less(other Value) bool {
	// Closures have no meaningful order; stable but arbitrary.
	return false
}

func (c ClosureValue) Hash() uint64 {
	return fnvHash64(fnvOffset, []byte("closure"))
}
