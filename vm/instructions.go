package vm

import "exceptional/types"

// Op identifies a binary operator as emitted by BinOp (§4.1).
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpGt
	OpLt
	OpGtEq
	OpLtEq
)

// Opcode identifies an Instruction's shape. Grounded on the teacher's
// vm/operations.go pattern of a single tagged-union Instruction type
// rather than one Go type per opcode.
type Opcode int

const (
	OpClear Opcode = iota
	OpPush
	OpAssign
	OpLocalAssign
	OpFetch
	OpCall
	OpMakeMap
	OpBinOp
	OpIndexAccess
	OpIndexAssign
	OpRescue
	OpRaise
	OpImport
	OpNative
)

var opcodeNames = map[Opcode]string{
	OpClear:       "Clear",
	OpPush:        "Push",
	OpAssign:      "Assign",
	OpLocalAssign: "LocalAssign",
	OpFetch:       "Fetch",
	OpCall:        "Call",
	OpMakeMap:     "MakeMap",
	OpBinOp:       "BinOp",
	OpIndexAccess: "IndexAccess",
	OpIndexAssign: "IndexAssign",
	OpRescue:      "Rescue",
	OpRaise:       "Raise",
	OpImport:      "Import",
	OpNative:      "Native",
}

func (o Opcode) String() string {
	if s, ok := opcodeNames[o]; ok {
		return s
	}
	return "Unknown"
}

// PushLiteral is the compile-time representation of a value an
// Instruction can push: numbers, strings, booleans compile directly;
// function literals carry their own compiled body, instantiated into
// a Closure against the current frame's bindings when Push executes.
type PushLiteral struct {
	Number   types.NumberValue
	String   string
	Boolean  bool
	IsNumber bool
	IsString bool
	IsBool   bool
	IsFn     bool
	FnParams []string
	FnBody   *InstructionSequence
}

// Instruction is one VM opcode plus whatever operands it carries.
// Only the fields relevant to Op are populated; the rest are zero.
type Instruction struct {
	Op Opcode

	Literal PushLiteral // Push
	Name    string      // Assign, LocalAssign, Fetch
	ArgSize int         // Call
	MapSize int         // MakeMap
	BinOp   Op          // BinOp

	Pattern  types.Pattern       // Rescue
	SubBody  *InstructionSequence // Rescue

	Native NativeFunc // Native
}

// NativeFunc is a host function wired in via Import; it runs with
// direct access to the current frame for argument fetching and stack
// manipulation, and returns the instruction sequence the VM should
// adopt next in the current frame (§4.5).
type NativeFunc func(m *Machine) *InstructionSequence

// InstructionSequence is a compiled instruction list. It is always
// handled through a pointer so that two ClosureValue copies referring
// to the same compiled body compare equal by pointer identity (see
// types.ClosureValue.Equal), matching Rc<InstructionSequence> sharing
// in the reference implementation.
type InstructionSequence []Instruction
