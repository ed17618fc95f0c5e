package native

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/ripemd160"

	"exceptional/types"
	"exceptional/vm"
)

// cryptoLibrary has no equivalent in original_source/src/native.rs; it
// is this module's domain-stack addition exercising golang.org/x/crypto,
// following the teacher's builtins/crypto.go and
// builtins/compat_extensions.go argon2 usage, wrapped in the same
// read-args/push-result/[Raise] native contract as file and socket.
func cryptoLibrary() types.Value {
	return types.NewMap([][2]types.Value{
		{types.NewString("hash"), wrapNative([]string{"algorithm", "content"}, nativeCryptoHash)},
		{types.NewString("derive"), wrapNative([]string{"password"}, nativeCryptoDerive)},
	})
}

// getHasher mirrors the teacher's builtins/crypto.go getHasher: sha256
// comes from the standard library, ripemd160 from golang.org/x/crypto.
func getHasher(algorithm string) (hash.Hash, bool) {
	switch strings.ToLower(algorithm) {
	case "sha256", "":
		return sha256.New(), true
	case "ripemd160":
		return ripemd160.New(), true
	default:
		return nil, false
	}
}

func nativeCryptoHash(m *vm.Machine) *vm.InstructionSequence {
	algorithm, ok := fetchString(m, "algorithm", "crypto")
	if !ok {
		return raiseNext()
	}
	content, ok := fetchString(m, "content", "crypto")
	if !ok {
		return raiseNext()
	}

	h, ok := getHasher(algorithm)
	if !ok {
		m.Push(ioResult("crypto.error", types.NewString("unsupported algorithm: "+algorithm)))
		return raiseNext()
	}
	h.Write([]byte(content))
	digest := h.Sum(nil)

	m.Push(ioResult("crypto.result", types.NewString(base64.RawStdEncoding.EncodeToString(digest))))
	return raiseNext()
}

const (
	argon2Time    = uint32(1)
	argon2Memory  = uint32(64 * 1024)
	argon2Threads = uint8(2)
	argon2KeyLen  = uint32(32)
)

func nativeCryptoDerive(m *vm.Machine) *vm.InstructionSequence {
	password, ok := fetchString(m, "password", "crypto")
	if !ok {
		return raiseNext()
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		m.Push(ioResult("crypto.error", types.NewString(err.Error())))
		return raiseNext()
	}

	key := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
	encoded := fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		argon2Memory, argon2Time, argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	m.Push(ioResult("crypto.result", types.NewString(encoded)))
	return raiseNext()
}
