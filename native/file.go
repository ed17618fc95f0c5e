package native

import (
	"os"

	"exceptional/types"
	"exceptional/vm"
)

func fileLibrary() types.Value {
	return types.NewMap([][2]types.Value{
		{types.NewString("read"), wrapNative([]string{"path"}, nativeFileRead)},
		{types.NewString("write"), wrapNative([]string{"path", "content"}, nativeFileWrite)},
	})
}

func nativeFileRead(m *vm.Machine) *vm.InstructionSequence {
	path, ok := fetchString(m, "path", "file")
	if !ok {
		return raiseNext()
	}

	content, err := os.ReadFile(path)
	if err != nil {
		m.Push(ioResult("file.error", types.NewString(err.Error())))
		return raiseNext()
	}
	m.Push(ioResult("file.result", types.NewString(string(content))))
	return raiseNext()
}

func nativeFileWrite(m *vm.Machine) *vm.InstructionSequence {
	path, ok := fetchString(m, "path", "file")
	if !ok {
		return raiseNext()
	}
	content, ok := fetchString(m, "content", "file")
	if !ok {
		return raiseNext()
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		m.Push(ioResult("file.error", types.NewString(err.Error())))
		return raiseNext()
	}
	m.Push(ioResult("file.result", types.NewBoolean(true)))
	return raiseNext()
}
