package vm

import (
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func hexProgram(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	assert.NoError(t, err)
	return b
}

func newTestMachine(program []byte, gas uint64) *Machine {
	return New(common.Address{}, program, gas, nil, nil)
}

// Simple add: 60 42 60 FF 01 -> stack = [0x141], gas used 9, pc = 5.
func TestSimpleAdd(t *testing.T) {
	m := newTestMachine(hexProgram(t, "604260FF01"), 1000)
	err := m.Run()
	assert.NoError(t, err)
	assert.Equal(t, uint64(5), m.PC())
	assert.Equal(t, uint64(1000-9), m.Gas())
	stack := m.Stack()
	assert.Len(t, stack, 1)
	assert.Equal(t, uint64(0x141), stack[0].Uint64())
}

// Memory round-trip: 60 FF 60 00 52 60 00 51 -> top = 0xFF; pc = 8.
func TestMemoryRoundTrip(t *testing.T) {
	m := newTestMachine(hexProgram(t, "60FF600052600051"), 100000)
	err := m.Run()
	assert.NoError(t, err)
	assert.Equal(t, uint64(8), m.PC())
	stack := m.Stack()
	assert.Len(t, stack, 1)
	assert.Equal(t, uint64(0xFF), stack[0].Uint64())

	mem := m.Memory()
	assert.Len(t, mem, 32)
	assert.Equal(t, byte(0xFF), mem[31])
	for i := 0; i < 31; i++ {
		assert.Equal(t, byte(0), mem[i])
	}
}

// Storage persistence: 60 69 60 01 55 at gas=30000 succeeds; at
// gas=1000 it fails OutOfGas.
func TestStoragePersistence(t *testing.T) {
	program := hexProgram(t, "6069600155")

	m := newTestMachine(program, 30000)
	err := m.Run()
	assert.NoError(t, err)

	key := wordFromUint64(1)
	_, value := m.storage.Peek(key)
	assert.Equal(t, uint64(0x69), value.Uint64())

	m2 := newTestMachine(program, 1000)
	err2 := m2.Run()
	assert.Error(t, err2)
	assert.ErrorIs(t, err2, ErrOutOfGas)
}

// Stack underflow: bare POP.
func TestStackUnderflow(t *testing.T) {
	m := newTestMachine(hexProgram(t, "50"), 1000)
	err := m.Run()
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrStackUnderflow)
}

// Stack overflow: 1025 repetitions of PUSH1 0x00.
func TestStackOverflow(t *testing.T) {
	program := make([]byte, 0, 1025*2)
	for i := 0; i < 1025; i++ {
		program = append(program, 0x60, 0x00)
	}
	m := newTestMachine(program, uint64(1025*3))
	err := m.Run()
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrStackOverflow)
}

// Countdown loop: push 5; JUMPDEST; dup+nonzero test; if zero jump to
// end; decrement; swap; jump to top; final JUMPDEST; STOP. Runs to
// STOP, decrementing 5 down to the 0 that trips the exit JUMPI, which
// is left on the stack (nothing in the fragment pops it).
func TestCountdownLoop(t *testing.T) {
	program := hexProgram(t, "60055B8015600F57600190036002565B00")
	m := newTestMachine(program, 100000)
	err := m.Run()
	assert.NoError(t, err)
	assert.True(t, m.Stopped())
	assert.False(t, m.Reverted())
	stack := m.Stack()
	assert.Len(t, stack, 1)
	assert.True(t, stack[0].IsZero())
}

// Bad jump: JUMP to offset 3, which is STOP (0x00), not JUMPDEST.
func TestBadJump(t *testing.T) {
	m := newTestMachine(hexProgram(t, "6003560000"), 1000)
	err := m.Run()
	assert.Error(t, err)
	var badJump *BadJumpDestinationError
	assert.ErrorAs(t, err, &badJump)
}

func TestRevertSetsFlagsAndReturnData(t *testing.T) {
	// PUSH1 0xFF, PUSH1 0x00, MSTORE8, PUSH1 0x01, PUSH1 0x00, REVERT
	m := newTestMachine(hexProgram(t, "60FF60005360016000FD"), 100000)
	err := m.Run()
	assert.NoError(t, err)
	assert.True(t, m.Stopped())
	assert.True(t, m.Reverted())
	assert.Equal(t, []byte{0xFF}, m.ReturnData())
}

func TestUnknownOpcode(t *testing.T) {
	m := newTestMachine([]byte{0xF1}, 1000) // CALL: recognized, unimplemented
	err := m.Run()
	assert.Error(t, err)
	var unk *UnknownOpcodeError
	assert.ErrorAs(t, err, &unk)
}

func TestReturnDataCopyOutOfBoundsWhenNothingReturned(t *testing.T) {
	// PUSH1 1 (size), PUSH1 0 (offset), PUSH1 0 (destOffset), RETURNDATACOPY
	m := newTestMachine(hexProgram(t, "6001600060003E"), 100000)
	err := m.Run()
	assert.Error(t, err)
	var oob *ReturnDataOutOfBoundsError
	assert.ErrorAs(t, err, &oob)
}
