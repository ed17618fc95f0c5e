package vm

import "exceptional/types"

// libraryRegistry backs Import (§4.3): native libraries register
// themselves here from an init() function in package native, which
// cmd/exceptional blank-imports. This mirrors the database/sql driver
// registration idiom rather than the teacher's explicitly-constructed
// builtins.Registry, since native libraries here have no store or
// task-context dependency to thread through at construction time.
var libraryRegistry = map[string]func() types.Value{}

// RegisterLibrary makes a library available to import("name").
func RegisterLibrary(name string, factory func() types.Value) {
	libraryRegistry[name] = factory
}

func findLibrary(name string) (types.Value, bool) {
	factory, ok := libraryRegistry[name]
	if !ok {
		return nil, false
	}
	return factory(), true
}
