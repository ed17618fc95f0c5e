package native

import (
	"os"
	"testing"

	"exceptional/parser"
	"exceptional/types"
	"exceptional/vm"
)

func TestFileLibraryHasReadAndWrite(t *testing.T) {
	lib := fileLibrary().(types.MapValue)
	if _, ok := lib.Get(types.NewString("read")); !ok {
		t.Fatalf("expected file library to expose read")
	}
	if _, ok := lib.Get(types.NewString("write")); !ok {
		t.Fatalf("expected file library to expose write")
	}
}

func TestSocketLibraryHasTCPFunctions(t *testing.T) {
	lib := socketLibrary().(types.MapValue)
	for _, name := range []string{"tcp_connect", "tcp_listen", "tcp_accept"} {
		if _, ok := lib.Get(types.NewString(name)); !ok {
			t.Fatalf("expected socket library to expose %s", name)
		}
	}
}

func TestCryptoLibraryHasHashAndDerive(t *testing.T) {
	lib := cryptoLibrary().(types.MapValue)
	if _, ok := lib.Get(types.NewString("hash")); !ok {
		t.Fatalf("expected crypto library to expose hash")
	}
	if _, ok := lib.Get(types.NewString("derive")); !ok {
		t.Fatalf("expected crypto library to expose derive")
	}
}

func TestNativeFileReadMissingPath(t *testing.T) {
	m := vm.New(&vm.InstructionSequence{})
	seq := nativeFileRead(m)
	if (*seq)[0].Op != vm.OpRaise {
		t.Fatalf("expected native function to return [Raise]")
	}
	result := m.Pop().(types.MapValue)
	if _, ok := result.Get(types.NewString("file.error")); !ok {
		t.Fatalf("expected a file.error result when path is unbound")
	}
}

func TestNativeFileReadAndWriteRoundTrip(t *testing.T) {
	path := "native_test_roundtrip.txt"
	defer os.Remove(path)

	program := `let a = import("file")
let res = ""
rescue({"file.result" => r}) do
  res = r
end
a.write("` + path + `", "hello")`

	runProgram(t, program)

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected file to be written: %v", err)
	}
	if string(content) != "hello" {
		t.Fatalf("expected file content 'hello', got %q", content)
	}
}

// runProgram exercises the registry end to end: parsing, compiling,
// and running a program that imports a native library. This package
// links vm and native together (native imports vm and registers into
// it via init()), so the Import wiring can be verified here.
func runProgram(t *testing.T, source string) {
	t.Helper()
	stmts, err := parser.ParseProgram(source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	program, err := vm.Compile(stmts)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	m := vm.New(program)
	m.Run()
}
