package vm

import "exceptional/types"

// MatchPattern implements §4.4's structural pattern match. Literal
// patterns require equality; an identifier pattern always matches and
// binds; a map pattern requires every listed key present with a value
// matching its sub-pattern, and the match's bindings accumulate across
// all sub-patterns. Has no teacher equivalent; shaped like the
// teacher's type-switch dispatch style in eval/properties.go.
func MatchPattern(pattern types.Pattern, value types.Value) (map[string]types.Value, bool) {
	bindings := make(map[string]types.Value)
	if matchInto(pattern, value, bindings) {
		return bindings, true
	}
	return nil, false
}

func matchInto(pattern types.Pattern, value types.Value, bindings map[string]types.Value) bool {
	switch p := pattern.(type) {
	case types.NumberPattern:
		return value.Equal(p.Val)
	case types.StringPattern:
		return value.Equal(p.Val)
	case types.BooleanPattern:
		return value.Equal(p.Val)
	case types.IdentifierPattern:
		bindings[p.Name] = value
		return true
	case types.MapPattern:
		m, ok := value.(types.MapValue)
		if !ok {
			return false
		}
		for _, entry := range p.Entries {
			v, ok := m.Get(entry.Key)
			if !ok {
				return false
			}
			if !matchInto(entry.Value, v, bindings) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
