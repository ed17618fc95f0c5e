// Package vm implements the stack machine described in spec.md §4:
// a flat instruction set, lexical scoping via BindingMap, and
// exception dispatch via Raise/Rescue in place of conventional call
// return. Grounded on original_source/src/vm.rs's run loop and the
// teacher's two-level Step/Execute dispatch in vm/vm.go.
package vm

import (
	"fmt"
	"log"

	"exceptional/ast"
	"exceptional/trace"
	"exceptional/types"
)

// Machine is a running instance of the interpreter: one instruction
// stream, one value stack, and the frame stack that accumulates as
// calls and raises transfer control (§4.3).
type Machine struct {
	instructions *InstructionSequence
	pc           int
	stack        []types.Value
	frames       []Frame

	FileDescriptors map[int64]interface{}

	// PermissiveRaise reproduces the reference implementation's bug
	// of silently discarding an uncaught raise and resuming at the
	// next instruction (§9's documented open question), instead of
	// treating it as a fatal host error. Off by default.
	PermissiveRaise bool

	Tracer *trace.Tracer
}

// New creates a Machine ready to run the given compiled program.
func New(program *InstructionSequence) *Machine {
	return &Machine{
		instructions:    program,
		frames:          []Frame{NewFrame(NewBindingMap())},
		FileDescriptors: make(map[int64]interface{}),
		Tracer:          trace.New(),
	}
}

// NewFromSource parses and compiles source text into a ready Machine.
func NewFromSource(source string, parseFn func(string) ([]ast.Statement, error)) (*Machine, error) {
	stmts, err := parseFn(source)
	if err != nil {
		return nil, fmt.Errorf("vm: parse error: %w", err)
	}
	program, err := Compile(stmts)
	if err != nil {
		return nil, fmt.Errorf("vm: compile error: %w", err)
	}
	return New(program), nil
}

// Push and Pop let a Native function manipulate the current frame's
// stack directly, per §4.5's contract.
func (m *Machine) Push(v types.Value) { m.stack = append(m.stack, v) }

func (m *Machine) Pop() types.Value {
	n := len(m.stack)
	if n == 0 {
		m.fatal("stack underflow")
		return nil
	}
	v := m.stack[n-1]
	m.stack = m.stack[:n-1]
	return v
}

// Fetch resolves name against the current (innermost) frame's
// bindings, per §4.5's native function contract.
func (m *Machine) Fetch(name string) (types.Value, bool) {
	return m.currentFrame().Bindings.Fetch(name)
}

func (m *Machine) currentFrame() *Frame {
	return &m.frames[len(m.frames)-1]
}

// Run executes instructions until pc runs past the end of the current
// sequence, per §4.3.
func (m *Machine) Run() {
	for {
		instr, ok := m.nextInstruction()
		if !ok {
			return
		}
		m.Tracer.Trace("instruction", instr.Op.String())
		m.step(instr)
	}
}

func (m *Machine) nextInstruction() (Instruction, bool) {
	seq := *m.instructions
	if m.pc >= len(seq) {
		return Instruction{}, false
	}
	instr := seq[m.pc]
	m.pc++
	return instr, true
}

func (m *Machine) step(instr Instruction) {
	switch instr.Op {
	case OpClear:
		m.stack = m.stack[:0]
	case OpPush:
		m.Push(m.literalToValue(instr.Literal))
	case OpAssign:
		m.currentFrame().Bindings.Assign(instr.Name, m.Pop())
	case OpLocalAssign:
		m.currentFrame().Bindings.LocalAssign(instr.Name, m.Pop())
	case OpFetch:
		v, ok := m.Fetch(instr.Name)
		if !ok {
			m.fatal("undefined name %q", instr.Name)
			return
		}
		m.Push(v)
	case OpCall:
		m.execCall(instr.ArgSize)
	case OpMakeMap:
		m.execMakeMap(instr.MapSize)
	case OpBinOp:
		m.execBinOp(instr.BinOp)
	case OpIndexAccess:
		m.execIndexAccess()
	case OpIndexAssign:
		m.execIndexAssign()
	case OpRescue:
		m.execRescue(instr)
	case OpRaise:
		m.execRaise(m.Pop())
	case OpImport:
		m.execImport()
	case OpNative:
		m.execNative(instr.Native)
	default:
		m.fatal("unknown opcode %v", instr.Op)
	}
}

func (m *Machine) literalToValue(lit PushLiteral) types.Value {
	switch {
	case lit.IsNumber:
		return lit.Number
	case lit.IsString:
		return types.NewString(lit.String)
	case lit.IsBool:
		return types.NewBoolean(lit.Boolean)
	case lit.IsFn:
		return types.NewClosure(lit.FnParams, lit.FnBody, m.currentFrame().Bindings)
	default:
		m.fatal("malformed literal instruction")
		return nil
	}
}

// execCall expects the stack laid out as the compiler emits it:
// [..., closure, a1, ..., an], with an on top.
func (m *Machine) execCall(argSize int) {
	n := len(m.stack)
	if n < argSize+1 {
		m.fatal("stack underflow")
		return
	}
	callee := m.stack[n-argSize-1]
	closure, ok := callee.(types.ClosureValue)
	if !ok {
		m.fatal("expected a closure, got %s", types.TypeNameOf(callee))
		return
	}
	if argSize != len(closure.Params) {
		m.fatal("wrong number of arguments: expected %d, got %d", len(closure.Params), argSize)
		return
	}
	args := m.stack[n-argSize:]
	parent, _ := closure.Parent.(*BindingMap)
	local := NewNestedBindingMap(parent)
	for i, name := range closure.Params {
		local.LocalAssign(name, args[i])
	}
	m.stack = m.stack[:n-argSize-1]

	if closure.Body == nil {
		if fn, ok := closure.Native.(NativeFunc); ok {
			m.frames = append(m.frames, NewFrame(local))
			next := fn(m)
			m.instructions = next
			m.pc = 0
			return
		}
	}
	body := closure.Body.(*InstructionSequence)
	m.frames = append(m.frames, NewFrame(local))
	m.instructions = body
	m.pc = 0
}

// execMakeMap pops n pairs; per §4.3 these arrive in reverse
// insertion order (the last compiled pair is on top of the stack), so
// they're collected then replayed in forward order.
func (m *Machine) execMakeMap(n int) {
	pairs := make([][2]types.Value, n)
	for i := n - 1; i >= 0; i-- {
		value := m.Pop()
		key := m.Pop()
		pairs[i] = [2]types.Value{key, value}
	}
	m.Push(types.NewMap(pairs))
}

func (m *Machine) execBinOp(op Op) {
	right := m.Pop()
	left := m.Pop()
	result, err := applyBinOp(op, left, right)
	if err != nil {
		m.fatal("%s", err)
		return
	}
	m.Push(result)
}

func (m *Machine) execIndexAccess() {
	key := m.Pop()
	target := m.Pop()
	mapVal, ok := target.(types.MapValue)
	if !ok {
		m.fatal("index access target is not a map: %s", types.TypeNameOf(target))
		return
	}
	v, ok := mapVal.Get(key)
	if !ok {
		m.fatal("no value for key %s", key)
		return
	}
	m.Push(v)
}

func (m *Machine) execIndexAssign() {
	value := m.Pop()
	key := m.Pop()
	target := m.Pop()
	mapVal, ok := target.(types.MapValue)
	if !ok {
		m.fatal("index assignment target is not a map: %s", types.TypeNameOf(target))
		return
	}
	mapVal.Set(key, value)
}

func (m *Machine) execRescue(instr Instruction) {
	handler := ExceptionHandler{
		Pattern:  instr.Pattern,
		Body:     instr.SubBody,
		Captured: m.currentFrame().Bindings,
	}
	frame := m.currentFrame()
	frame.Handlers = append(frame.Handlers, handler)
}

// execRaise walks frames newest to oldest, and within a frame its
// handlers oldest to newest, taking the first pattern match found
// (§4.4). If none match, the uncaught raise is either fatal or
// silently dropped, per m.PermissiveRaise.
func (m *Machine) execRaise(value types.Value) {
	for i := len(m.frames) - 1; i >= 0; i-- {
		for _, handler := range m.frames[i].Handlers {
			bindings, ok := handler.Matches(value)
			if !ok {
				continue
			}
			local := NewNestedBindingMap(handler.Captured)
			for name, v := range bindings {
				local.LocalAssign(name, v)
			}
			m.frames = append(m.frames, NewFrame(local))
			m.instructions = handler.Body
			m.pc = 0
			return
		}
	}
	if m.PermissiveRaise {
		m.Tracer.Trace("raise", fmt.Sprintf("uncaught, ignored: %s", value))
		return
	}
	m.fatal("uncaught raise: %s", value)
}

func (m *Machine) execImport() {
	name := m.Pop()
	str, ok := name.(types.StringValue)
	if !ok {
		m.fatal("import value must be a string")
		return
	}
	lib, ok := findLibrary(str.Value())
	if !ok {
		return
	}
	m.Push(lib)
}

func (m *Machine) execNative(fn NativeFunc) {
	next := fn(m)
	m.instructions = next
	m.pc = 0
}

// fatal implements the "VM terminates with a diagnostic" branch of
// the fatal host error policy (§7): it logs the diagnostic and exits
// the process.
func (m *Machine) fatal(format string, args ...interface{}) {
	log.Fatalf("exceptional: fatal: "+format, args...)
}
