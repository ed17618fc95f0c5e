// Package native implements the host library contract described in
// spec.md §4.5: a library is a Map of closures, each wrapping a host
// function. Every native function here reads its arguments
// via Fetch on the current frame, performs its I/O, pushes exactly one
// result map keyed "<lib>.result" or "<lib>.error", and hands back
// [Raise] so the calling script can rescue on either outcome
// uniformly. Grounded on original_source/src/native.rs and the
// teacher's builtins/network.go for the surrounding net package style.
package native

import (
	"exceptional/types"
	"exceptional/vm"
)

func init() {
	vm.RegisterLibrary("file", fileLibrary)
	vm.RegisterLibrary("socket", socketLibrary)
	vm.RegisterLibrary("crypto", cryptoLibrary)
}

// ioResult builds the canonical single-entry result map a native
// function pushes before returning [Raise].
func ioResult(key string, value types.Value) types.MapValue {
	return types.NewMap([][2]types.Value{{types.NewString(key), value}})
}

func raiseNext() *vm.InstructionSequence {
	seq := vm.InstructionSequence{{Op: vm.OpRaise}}
	return &seq
}

// wrapNative exposes a host function as a callable closure per the
// §4.5 contract: parameter names come from argNames, and calling it
// makes Call invoke fn directly against the current Machine; the
// closure has no instruction body and no Native instruction is run.
func wrapNative(argNames []string, fn vm.NativeFunc) types.ClosureValue {
	return types.NewNativeClosure(argNames, fn)
}

// fetchString reads a named string argument. If it is missing or the
// wrong type, it pushes the "<libKey>.error" result itself so callers
// only need to return raiseNext() on failure.
func fetchString(m *vm.Machine, name, libKey string) (string, bool) {
	v, ok := m.Fetch(name)
	if ok {
		if s, ok := v.(types.StringValue); ok {
			return s.Value(), true
		}
	}
	m.Push(ioResult(libKey+".error", types.NewString(name+" argument is not a string")))
	return "", false
}
