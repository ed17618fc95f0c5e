package vm

import "exceptional/types"

// ExceptionHandler is one `rescue(pattern) do ... end` installed in a
// Frame. It closes over the bindings visible at the point Rescue ran,
// by reference, the same way a function literal captures its defining
// scope (§3): later mutation of that scope is visible inside the
// handler body when it eventually runs.
type ExceptionHandler struct {
	Pattern  types.Pattern
	Body     *InstructionSequence
	Captured *BindingMap
}

// Matches reports whether value matches this handler's pattern, and
// if so returns the bindings the pattern produced.
func (h ExceptionHandler) Matches(value types.Value) (map[string]types.Value, bool) {
	return MatchPattern(h.Pattern, value)
}
