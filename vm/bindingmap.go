package vm

import "exceptional/types"

// BindingMap manages variable bindings with lexical scoping. Grounded
// on the teacher's eval.Environment, extended with the chained-assign
// semantics that distinguish `let` from plain reassignment (§3): a
// local_assign always writes the current scope, while a chained assign
// walks outward for the nearest scope that already defines the name.
type BindingMap struct {
	vars   map[string]types.Value
	parent *BindingMap
}

// NewBindingMap creates a binding scope with no parent.
func NewBindingMap() *BindingMap {
	return &BindingMap{vars: make(map[string]types.Value)}
}

// NewNestedBindingMap creates a scope chained to parent.
func NewNestedBindingMap(parent *BindingMap) *BindingMap {
	return &BindingMap{vars: make(map[string]types.Value), parent: parent}
}

// Fetch looks up name in this scope, then each enclosing scope in
// turn. Implements types.Scope so a ClosureValue can carry a
// BindingMap without types importing vm.
func (b *BindingMap) Fetch(name string) (types.Value, bool) {
	if v, ok := b.vars[name]; ok {
		return v, true
	}
	if b.parent != nil {
		return b.parent.Fetch(name)
	}
	return nil, false
}

// LocalAssign binds name in this scope, shadowing any enclosing
// binding of the same name. Used for `let`.
func (b *BindingMap) LocalAssign(name string, value types.Value) {
	b.vars[name] = value
}

// Assign writes to the nearest scope (searching this one outward)
// that already defines name, or to this scope if none does. Used for
// plain `name = expr` reassignment.
func (b *BindingMap) Assign(name string, value types.Value) {
	for scope := b; scope != nil; scope = scope.parent {
		if _, ok := scope.vars[name]; ok {
			scope.vars[name] = value
			return
		}
	}
	b.vars[name] = value
}
