package vm

import (
	"testing"

	"exceptional/parser"
	"exceptional/types"
)

func compileSource(t *testing.T, source string) *InstructionSequence {
	t.Helper()
	stmts, err := parser.ParseProgram(source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	seq, err := Compile(stmts)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return seq
}

func TestCompileLetEmitsLocalAssignAndClear(t *testing.T) {
	seq := compileSource(t, `let a = 1`)
	ops := opsOf(*seq)
	want := []Opcode{OpPush, OpLocalAssign, OpClear}
	assertOps(t, ops, want)
}

func TestCompileReassignEmitsAssign(t *testing.T) {
	seq := compileSource(t, `a = 1`)
	ops := opsOf(*seq)
	want := []Opcode{OpPush, OpAssign, OpClear}
	assertOps(t, ops, want)
}

func TestCompileCallEmitsFetchArgsCall(t *testing.T) {
	seq := compileSource(t, `f(1, 2)`)
	ops := opsOf(*seq)
	want := []Opcode{OpFetch, OpPush, OpPush, OpCall, OpClear}
	assertOps(t, ops, want)
	last := (*seq)[3]
	if last.ArgSize != 2 {
		t.Fatalf("expected ArgSize 2, got %d", last.ArgSize)
	}
}

func TestCompileMapLiteralEmitsMakeMap(t *testing.T) {
	seq := compileSource(t, `let m = {"a" => 1, "b" => 2}`)
	ops := opsOf(*seq)
	want := []Opcode{OpPush, OpPush, OpPush, OpPush, OpMakeMap, OpLocalAssign, OpClear}
	assertOps(t, ops, want)
}

func TestCompilePatternRejectsNonLiteralMapKey(t *testing.T) {
	bad := types.MapPattern{Entries: []types.MapPatternEntry{
		{Key: types.NewMap(nil), Value: types.IdentifierPattern{Name: "x"}},
	}}
	if err := compilePattern(bad); err == nil {
		t.Fatalf("expected an error for a non-literal map pattern key")
	}
}

func TestCompileRaiseAndRescue(t *testing.T) {
	seq := compileSource(t, `rescue(id) do
  a = id
end`)
	if (*seq)[0].Op != OpRescue {
		t.Fatalf("expected first instruction to be Rescue, got %v", (*seq)[0].Op)
	}
	sub := (*seq)[0].SubBody
	subOps := opsOf(*sub)
	assertOps(t, subOps, []Opcode{OpFetch, OpAssign, OpClear})
	if _, ok := (*seq)[0].Pattern.(types.IdentifierPattern); !ok {
		t.Fatalf("expected IdentifierPattern, got %T", (*seq)[0].Pattern)
	}
}

func opsOf(seq InstructionSequence) []Opcode {
	out := make([]Opcode, len(seq))
	for i, instr := range seq {
		out[i] = instr.Op
	}
	return out
}

func assertOps(t *testing.T, got, want []Opcode) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
