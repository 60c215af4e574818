package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Machine is the aggregate execution state of one top-level run, per
// spec.md 3. Grounded on the teacher's Context/Call (context.go in
// aj3423-edb), collapsed from the teacher's multi-call CallStack shape
// into a single top-level execution: cross-contract CALL/CREATE is an
// explicit non-goal of this core (spec.md 1), so there is no inner
// call frame to push/pop.
type Machine struct {
	pc      uint64
	program []byte
	gas     uint64
	refund  uint64

	sender   common.Address
	value    Word
	calldata []byte

	stack     *Stack
	memory    *Memory
	storage   *Storage
	transient *TransientStorage

	stopFlag   bool
	revertFlag bool
	returnData []byte
	logs       []Log
}

// New constructs a Machine per spec.md 6's constructor input: sender,
// program, a starting gas budget, a call value, and calldata. pc,
// flags and all collections start empty, mirroring the teacher's
// NewContext.
func New(sender common.Address, program []byte, gas uint64, value *Word, calldata []byte) *Machine {
	m := &Machine{
		sender:   sender,
		program:  program,
		gas:      gas,
		calldata: calldata,

		stack:     newStack(),
		memory:    newMemory(),
		storage:   newStorage(),
		transient: newTransientStorage(),
	}
	if value != nil {
		m.value = *value
	}
	return m
}

// Reset zeros pc and empties stack/memory/storage/transient, leaving
// program, gas and environment (sender/value/calldata) as-is, per
// spec.md 6.
func (m *Machine) Reset() {
	m.pc = 0
	m.stopFlag = false
	m.revertFlag = false
	m.returnData = nil
	m.logs = nil
	m.refund = 0
	m.stack.reset()
	m.memory.reset()
	m.storage.reset()
	m.transient.reset()
}

// --- inspection surface, per spec.md 6 ---

func (m *Machine) PC() uint64             { return m.pc }
func (m *Machine) Gas() uint64            { return m.gas }
func (m *Machine) Stack() []Word          { return m.stack.Items() }
func (m *Machine) Memory() []byte         { return m.memory.Data() }
func (m *Machine) Storage() map[Word]Word { return m.storage.Items() }
func (m *Machine) Program() []byte        { return m.program }
func (m *Machine) Stopped() bool          { return m.stopFlag }
func (m *Machine) Reverted() bool         { return m.revertFlag }
func (m *Machine) ReturnData() []byte     { return m.returnData }
func (m *Machine) Logs() []Log            { return m.logs }
func (m *Machine) Refund() uint64         { return m.refund }
func (m *Machine) Sender() common.Address { return m.sender }
func (m *Machine) Value() Word            { return m.value }
func (m *Machine) Calldata() []byte       { return m.calldata }

// consumeGas deducts cost from the remaining gas budget, failing
// OutOfGas if insufficient, per spec.md 4.6/8 ("for all successful
// steps, gas_after <= gas_before").
func (m *Machine) consumeGas(cost uint64) error {
	if cost > m.gas {
		return ErrOutOfGas
	}
	m.gas -= cost
	return nil
}

// Step executes exactly one opcode and reports whether execution
// should continue, per spec.md 4.6/6. This is the single-step
// primitive external UIs (e.g. a debugger) poll between steps; Run is
// built directly on top of it.
func (m *Machine) Step() (bool, error) {
	if m.stopFlag || m.revertFlag {
		return false, nil
	}
	if m.pc >= uint64(len(m.program)) {
		m.stopFlag = true
		return false, nil
	}

	op := m.program[m.pc]
	handler, ok := opTable[op]
	if !ok {
		return false, &UnknownOpcodeError{Opcode: op}
	}

	if err := handler(m); err != nil {
		return false, errors.Wrapf(err, "opcode %s at pc %d", Mnemonic(op), m.pc)
	}

	if m.stopFlag || m.revertFlag {
		return false, nil
	}
	if m.pc >= uint64(len(m.program)) {
		m.stopFlag = true
		return false, nil
	}
	return true, nil
}

// Run executes Step in a loop until it reports no more work or an
// error surfaces, per spec.md 5's run-to-completion mode.
func (m *Machine) Run() error {
	for {
		cont, err := m.Step()
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}
