package vm

import "golang.org/x/crypto/sha3"

// keccak256 is the opaque hash primitive SHA3 (opcode 0x20) consumes,
// per spec.md 1. Grounded directly on the teacher's util.Sha3
// (util/util.go in aj3423-edb), which hashes with the legacy Keccak256
// variant rather than standard SHA3 -- the same choice real EVM
// implementations make.
func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}
