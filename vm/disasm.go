package vm

import (
	"fmt"
	"strings"

	gethvm "github.com/ethereum/go-ethereum/core/vm"
)

// Line is one disassembled instruction: its byte offset, opcode byte,
// mnemonic, and any PUSH immediate bytes. Grounded on the teacher's
// Line (asm.go in aj3423-edb), trimmed of the teacher's
// CBOR-trailing-metadata heuristic: this core's Disassemble walks a
// raw program byte string handed to the Machine constructor, not
// fetched contract bytecode with Solidity metadata appended, so there
// is nothing to trim.
type Line struct {
	Pc   uint64
	Op   byte
	Data []byte
}

func (l Line) String() string {
	if len(l.Data) == 0 {
		return fmt.Sprintf("%5d %-16s", l.Pc, Mnemonic(l.Op))
	}
	return fmt.Sprintf("%5d %-16s 0x%x", l.Pc, Mnemonic(l.Op), l.Data)
}

// Mnemonic returns the stable display name for an opcode byte, per
// spec.md 6: recognized opcodes (including the recognized-but-not-
// implemented set: CALLER, EXTCODESIZE, MSIZE, GAS, CREATE, CALL,
// CALLCODE, RETURN, DELEGATECALL, CREATE2, STATICCALL, INVALID,
// SELFDESTRUCT) get their real name; anything go-ethereum's own opcode
// table doesn't define renders as UNKNOWN(0xNN). Grounded on the
// teacher's use of vm.OpCode.String() throughout asm.go/opcode.go.
func Mnemonic(op byte) string {
	name := gethvm.OpCode(op).String()
	if strings.Contains(name, "not defined") {
		return fmt.Sprintf("UNKNOWN(0x%02X)", op)
	}
	return name
}

func isPush(op byte) bool { return op >= 0x60 && op <= 0x7f }

func pushSize(op byte) int { return int(op) - 0x60 + 1 }

// Disassemble walks program into a PC-indexed sequence of Lines. It
// never fails: a PUSH whose immediate runs past the end of program
// simply takes however many bytes remain, matching the zero-padding
// the dispatcher itself applies at execution time (spec.md 4.6's PUSH
// semantics).
func Disassemble(program []byte) []Line {
	var lines []Line
	pc := uint64(0)
	for pc < uint64(len(program)) {
		op := program[pc]
		line := Line{Pc: pc, Op: op}
		if isPush(op) {
			size := pushSize(op)
			end := pc + 1 + uint64(size)
			if end > uint64(len(program)) {
				end = uint64(len(program))
			}
			line.Data = program[pc+1 : end]
			pc += 1 + uint64(size)
		} else {
			pc++
		}
		lines = append(lines, line)
	}
	return lines
}
