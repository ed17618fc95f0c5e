package native

import (
	"net"

	"exceptional/types"
	"exceptional/vm"
)

func socketLibrary() types.Value {
	return types.NewMap([][2]types.Value{
		{types.NewString("tcp_connect"), wrapNative([]string{"address"}, nativeTCPConnect)},
		{types.NewString("tcp_listen"), wrapNative([]string{"address"}, nativeTCPListen)},
		{types.NewString("tcp_accept"), wrapNative([]string{"socket", "fn"}, nativeTCPAccept)},
	})
}

// storeDescriptor never reuses or removes an id: every socket handle
// accumulates in the Machine's descriptor map for the life of
// the program, preserving original_source/src/native.rs's own
// "holding onto sockets forever" behavior (its TODO, not ours to fix).
func storeDescriptor(m *vm.Machine, handle interface{}) int64 {
	id := int64(len(m.FileDescriptors))
	m.FileDescriptors[id] = handle
	return id
}

func nativeTCPConnect(m *vm.Machine) *vm.InstructionSequence {
	address, ok := fetchString(m, "address", "socket")
	if !ok {
		return raiseNext()
	}

	conn, err := net.Dial("tcp", address)
	if err != nil {
		m.Push(ioResult("socket.error", types.NewString(err.Error())))
		return raiseNext()
	}

	id := storeDescriptor(m, conn)
	m.Push(ioResult("socket.result", types.NewNumberFromInt64(id)))
	return raiseNext()
}

func nativeTCPListen(m *vm.Machine) *vm.InstructionSequence {
	address, ok := fetchString(m, "address", "socket")
	if !ok {
		return raiseNext()
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		m.Push(ioResult("socket.error", types.NewString(err.Error())))
		return raiseNext()
	}

	id := storeDescriptor(m, listener)
	m.Push(ioResult("socket.result", types.NewNumberFromInt64(id)))
	return raiseNext()
}

func nativeTCPAccept(m *vm.Machine) *vm.InstructionSequence {
	v, ok := m.Fetch("socket")
	if !ok {
		m.Push(ioResult("socket.error", types.NewString("socket argument is not a socket")))
		return raiseNext()
	}
	num, ok := v.(types.NumberValue)
	if !ok {
		m.Push(ioResult("socket.error", types.NewString("socket argument is not a socket")))
		return raiseNext()
	}

	handle, ok := m.FileDescriptors[num.Int64()]
	if !ok {
		m.Push(ioResult("socket.error", types.NewString("socket not found")))
		return raiseNext()
	}
	listener, ok := handle.(net.Listener)
	if !ok {
		m.Push(ioResult("socket.error", types.NewString("socket is not a socket")))
		return raiseNext()
	}

	conn, err := listener.Accept()
	if err != nil {
		m.Push(ioResult("socket.error", types.NewString("could not connect to the client: "+err.Error())))
		return raiseNext()
	}

	id := storeDescriptor(m, conn)
	m.Push(ioResult("socket.result", types.NewNumberFromInt64(id)))
	return raiseNext()
}
