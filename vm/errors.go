package vm

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrOutOfGas is returned when a handler's static or dynamic gas
// requirement exceeds the gas remaining on the Machine.
var ErrOutOfGas = errors.New("out of gas")

// ErrStackUnderflow is returned when an operation needs more stack
// items than are present.
var ErrStackUnderflow = errors.New("stack underflow")

// ErrStackOverflow is returned when a push would exceed stack capacity.
var ErrStackOverflow = errors.New("stack overflow")

// MemoryOutOfBoundsError is returned by Memory.Access when the
// requested range exceeds the current memory length.
type MemoryOutOfBoundsError struct {
	Offset, Size, Max uint64
}

func (e *MemoryOutOfBoundsError) Error() string {
	return fmt.Sprintf("memory out of bounds: offset=%d size=%d max=%d", e.Offset, e.Size, e.Max)
}

// ReturnDataOutOfBoundsError is returned when RETURNDATACOPY asks for
// a range outside the last return_data buffer.
type ReturnDataOutOfBoundsError struct {
	Offset, Size, Max uint64
}

func (e *ReturnDataOutOfBoundsError) Error() string {
	return fmt.Sprintf("return data out of bounds: offset=%d size=%d max=%d", e.Offset, e.Size, e.Max)
}

// BadJumpDestinationError is returned by JUMP/JUMPI when the popped
// destination is not a validated JUMPDEST.
type BadJumpDestinationError struct {
	Dest   uint64
	Reason string
}

func (e *BadJumpDestinationError) Error() string {
	return fmt.Sprintf("bad jump destination %d: %s", e.Dest, e.Reason)
}

// UnknownOpcodeError is returned by the dispatcher when program[pc]
// has no registered handler.
type UnknownOpcodeError struct {
	Opcode byte
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode 0x%02x", e.Opcode)
}
