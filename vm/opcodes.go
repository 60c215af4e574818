package vm

// opFunc is one pure function per opcode, mutating the Machine. Each
// handler is fully responsible for deducting its own gas, performing
// its stack/memory/storage effects, and advancing pc, per spec.md
// 4.6's dispatcher contract. Grounded throughout on the teacher's
// opcode.go (aj3423-edb): the Pop()/Peek() calling convention for
// binary ops (first pop is the left operand, the still-on-stack
// element becomes both the right operand and the result slot) is
// copied directly from opAdd/opSub/opDiv/... there.
type opFunc func(m *Machine) error

var opTable map[byte]opFunc

func init() {
	opTable = map[byte]opFunc{
		0x00: opStop,

		0x01: opBinary(gasFastestStep, func(dst, x, y *Word) { dst.Add(x, y) }),
		0x02: opBinary(gasFastStep, func(dst, x, y *Word) { dst.Mul(x, y) }),
		0x03: opBinary(gasFastestStep, func(dst, x, y *Word) { dst.Sub(x, y) }),
		0x04: opBinary(gasFastStep, func(dst, x, y *Word) { dst.Div(x, y) }),
		0x05: opBinary(gasFastStep, func(dst, x, y *Word) { sdiv(dst, x, y) }),
		0x06: opBinary(gasFastStep, func(dst, x, y *Word) { dst.Mod(x, y) }),
		0x07: opBinary(gasFastStep, func(dst, x, y *Word) { smod(dst, x, y) }),
		0x0A: opExp,
		0x0B: opBinary(gasFastStep, func(dst, back, num *Word) { signExtend(dst, back, num) }),

		0x08: opTernary(gasMidStep, func(dst, x, y, n *Word) { dst.AddMod(x, y, n) }),
		0x09: opTernary(gasMidStep, func(dst, x, y, n *Word) { dst.MulMod(x, y, n) }),

		0x10: opBinary(gasFastestStep, func(dst, x, y *Word) { boolWord(dst, x.Lt(y)) }),
		0x11: opBinary(gasFastestStep, func(dst, x, y *Word) { boolWord(dst, x.Gt(y)) }),
		0x12: opBinary(gasFastestStep, func(dst, x, y *Word) { boolWord(dst, x.Slt(y)) }),
		0x13: opBinary(gasFastestStep, func(dst, x, y *Word) { boolWord(dst, x.Sgt(y)) }),
		0x14: opBinary(gasFastestStep, func(dst, x, y *Word) { boolWord(dst, x.Eq(y)) }),
		0x15: opUnary(gasFastestStep, func(dst, x *Word) { boolWord(dst, x.IsZero()) }),

		0x16: opBinary(gasFastestStep, func(dst, x, y *Word) { dst.And(x, y) }),
		0x17: opBinary(gasFastestStep, func(dst, x, y *Word) { dst.Or(x, y) }),
		0x18: opBinary(gasFastestStep, func(dst, x, y *Word) { dst.Xor(x, y) }),
		0x19: opUnary(gasFastestStep, func(dst, x *Word) { dst.Not(x) }),
		0x1A: opBinary(gasFastestStep, func(dst, i, x *Word) { byteAt(dst, i, x) }),
		0x1B: opBinary(gasFastestStep, func(dst, shift, value *Word) { shl(dst, shift, value) }),
		0x1C: opBinary(gasFastestStep, func(dst, shift, value *Word) { shr(dst, shift, value) }),
		0x1D: opBinary(gasFastestStep, func(dst, shift, value *Word) { sar(dst, shift, value) }),

		0x20: opSha3,

		0x30: opAddress,
		0x31: opBalance,
		0x32: opOrigin,
		0x34: opCallValue,
		0x35: opCallDataLoad,
		0x36: opCallDataSize,
		0x37: opCallDataCopy,
		0x38: opCodeSize,
		0x39: opCodeCopy,
		0x3A: opGasprice,
		0x3D: opReturnDataSize,
		0x3E: opReturnDataCopy,
		0x3F: opExtCodeHash,

		0x50: opPop,
		0x51: opMload,
		0x52: opMstore,
		0x53: opMstore8,
		0x54: opSload,
		0x55: opSstore,
		0x56: opJump,
		0x57: opJumpi,
		0x58: opPc,
		0x5B: opJumpdest,
		0x5C: opTload,
		0x5D: opTstore,

		0xFD: opRevert,
	}

	for n := 1; n <= 32; n++ {
		opTable[byte(0x60+n-1)] = makePush(n)
	}
	for n := 1; n <= 16; n++ {
		opTable[byte(0x80+n-1)] = makeDup(n)
	}
	for n := 1; n <= 16; n++ {
		opTable[byte(0x90+n-1)] = makeSwap(n)
	}
	for n := 0; n <= 4; n++ {
		opTable[byte(0xA0+n)] = makeLog(n)
	}
}

func opStop(m *Machine) error {
	m.stopFlag = true
	return nil
}

// opUnary builds a 1-pop/1-push handler: op(peek0) computed in place.
func opUnary(gas uint64, op func(dst, x *Word)) opFunc {
	return func(m *Machine) error {
		x, err := m.stack.Peek(0)
		if err != nil {
			return err
		}
		if err := m.consumeGas(gas); err != nil {
			return err
		}
		op(x, x)
		m.pc++
		return nil
	}
}

// opBinary builds a 2-pop/1-push handler: the first pop is the left
// operand, the new top (former second item) is both the right operand
// and the destination, matching the teacher's Pop()/Peek() convention.
func opBinary(gas uint64, op func(dst, x, y *Word)) opFunc {
	return func(m *Machine) error {
		if _, err := m.stack.Peek(1); err != nil {
			return err
		}
		if err := m.consumeGas(gas); err != nil {
			return err
		}
		x, _ := m.stack.Pop()
		y, _ := m.stack.Peek(0)
		op(y, &x, y)
		m.pc++
		return nil
	}
}

// opTernary builds a 3-pop/1-push handler (ADDMOD/MULMOD).
func opTernary(gas uint64, op func(dst, x, y, n *Word)) opFunc {
	return func(m *Machine) error {
		if _, err := m.stack.Peek(2); err != nil {
			return err
		}
		if err := m.consumeGas(gas); err != nil {
			return err
		}
		x, _ := m.stack.Pop()
		y, _ := m.stack.Pop()
		n, _ := m.stack.Peek(0)
		op(n, &x, &y, n)
		m.pc++
		return nil
	}
}

func opExp(m *Machine) error {
	if _, err := m.stack.Peek(1); err != nil {
		return err
	}
	exponent, _ := m.stack.Peek(1)
	if err := m.consumeGas(gasExpDynamic(exponent)); err != nil {
		return err
	}
	base, _ := m.stack.Pop()
	result, _ := m.stack.Peek(0)
	result.Exp(&base, result)
	m.pc++
	return nil
}

func opSha3(m *Machine) error {
	if _, err := m.stack.Peek(1); err != nil {
		return err
	}
	offsetW, _ := m.stack.Peek(0)
	sizeW, _ := m.stack.Peek(1)
	offset, size := offsetW.Uint64(), sizeW.Uint64()

	cost := gasSha3Dynamic(size) + m.memory.ExpansionCost(offset, size)
	if err := m.consumeGas(cost); err != nil {
		return err
	}
	m.memory.grow(offset, size)

	_, _ = m.stack.Pop()
	dst, _ := m.stack.Peek(0)

	data, err := m.memory.Access(offset, size)
	if err != nil {
		return err
	}
	dst.SetBytes(keccak256(data))
	m.pc++
	return nil
}

func opAddress(m *Machine) error {
	if err := m.consumeGas(gasQuickStep); err != nil {
		return err
	}
	w := wordFromBytes(m.sender.Bytes())
	if err := m.stack.Push(w); err != nil {
		return err
	}
	m.pc++
	return nil
}

// opBalance is a stub: it pops the queried address and always reports
// a zero balance, since account state lives in the broader blockchain
// environment this core treats as an external, unintegrated
// collaborator (spec.md 1).
func opBalance(m *Machine) error {
	if _, err := m.stack.Peek(0); err != nil {
		return err
	}
	if err := m.consumeGas(gasBalance); err != nil {
		return err
	}
	top, _ := m.stack.Peek(0)
	top.Clear()
	m.pc++
	return nil
}

func opOrigin(m *Machine) error {
	if err := m.consumeGas(gasQuickStep); err != nil {
		return err
	}
	w := wordFromBytes(m.sender.Bytes())
	if err := m.stack.Push(w); err != nil {
		return err
	}
	m.pc++
	return nil
}

func opCallValue(m *Machine) error {
	if err := m.consumeGas(gasQuickStep); err != nil {
		return err
	}
	v := m.value
	if err := m.stack.Push(&v); err != nil {
		return err
	}
	m.pc++
	return nil
}

// opCallDataLoad reads 32 bytes of calldata at the popped offset,
// zero-padding past the end, per published EVM semantics (spec.md 9's
// open question #1: implemented rather than trapped).
func opCallDataLoad(m *Machine) error {
	if _, err := m.stack.Peek(0); err != nil {
		return err
	}
	if err := m.consumeGas(gasFastestStep); err != nil {
		return err
	}
	top, _ := m.stack.Peek(0)
	offset := top.Uint64()

	var buf [32]byte
	if offset < uint64(len(m.calldata)) {
		copy(buf[:], m.calldata[offset:])
	}
	top.SetBytes(buf[:])
	m.pc++
	return nil
}

func opCallDataSize(m *Machine) error {
	if err := m.consumeGas(gasQuickStep); err != nil {
		return err
	}
	w := wordFromUint64(uint64(len(m.calldata)))
	if err := m.stack.Push(w); err != nil {
		return err
	}
	m.pc++
	return nil
}

func opCallDataCopy(m *Machine) error {
	return opCopy(m, 3, m.calldata)
}

func opCodeSize(m *Machine) error {
	if err := m.consumeGas(gasQuickStep); err != nil {
		return err
	}
	w := wordFromUint64(uint64(len(m.program)))
	if err := m.stack.Push(w); err != nil {
		return err
	}
	m.pc++
	return nil
}

func opCodeCopy(m *Machine) error {
	return opCopy(m, 3, m.program)
}

// opCopy implements the shared {destOffset, offset, size} memory-copy
// shape of CALLDATACOPY/CODECOPY/RETURNDATACOPY: copy size bytes from
// src[offset:] into memory at destOffset, zero-padding past the end of
// src, per published EVM semantics.
func opCopy(m *Machine, baseGas uint64, src []byte) error {
	if _, err := m.stack.Peek(2); err != nil {
		return err
	}
	destW, _ := m.stack.Peek(0)
	offW, _ := m.stack.Peek(1)
	sizeW, _ := m.stack.Peek(2)
	dest, off, size := destW.Uint64(), offW.Uint64(), sizeW.Uint64()

	cost := memoryCopierGas(baseGas, size) + m.memory.ExpansionCost(dest, size)
	if err := m.consumeGas(cost); err != nil {
		return err
	}
	m.memory.grow(dest, size)

	buf := make([]byte, size)
	if off < uint64(len(src)) {
		copy(buf, src[off:])
	}
	m.memory.Store(dest, buf)

	_, _ = m.stack.Pop()
	_, _ = m.stack.Pop()
	_, _ = m.stack.Pop()
	m.pc++
	return nil
}

func opGasprice(m *Machine) error {
	if err := m.consumeGas(gasQuickStep); err != nil {
		return err
	}
	if err := m.stack.Push(newWord()); err != nil {
		return err
	}
	m.pc++
	return nil
}

func opReturnDataSize(m *Machine) error {
	if err := m.consumeGas(gasQuickStep); err != nil {
		return err
	}
	w := wordFromUint64(uint64(len(m.returnData)))
	if err := m.stack.Push(w); err != nil {
		return err
	}
	m.pc++
	return nil
}

// opReturnDataCopy copies from the machine's return_data buffer, which
// is only ever populated by REVERT -- and REVERT halts immediately, so
// within one execution this buffer is always empty. Any nonzero size
// therefore fails ReturnDataOutOfBoundsError, exercising that error
// the way a real host integration eventually would.
func opReturnDataCopy(m *Machine) error {
	if _, err := m.stack.Peek(2); err != nil {
		return err
	}
	destW, _ := m.stack.Peek(0)
	offW, _ := m.stack.Peek(1)
	sizeW, _ := m.stack.Peek(2)
	dest, off, size := destW.Uint64(), offW.Uint64(), sizeW.Uint64()

	end := saturatingAdd(off, size)
	if end > uint64(len(m.returnData)) {
		return &ReturnDataOutOfBoundsError{Offset: off, Size: size, Max: uint64(len(m.returnData))}
	}

	cost := memoryCopierGas(3, size) + m.memory.ExpansionCost(dest, size)
	if err := m.consumeGas(cost); err != nil {
		return err
	}
	m.memory.grow(dest, size)
	m.memory.Store(dest, m.returnData[off:end])

	_, _ = m.stack.Pop()
	_, _ = m.stack.Pop()
	_, _ = m.stack.Pop()
	m.pc++
	return nil
}

func opExtCodeHash(m *Machine) error {
	if _, err := m.stack.Peek(0); err != nil {
		return err
	}
	if err := m.consumeGas(gasExtCdHash); err != nil {
		return err
	}
	top, _ := m.stack.Peek(0)
	top.Clear()
	m.pc++
	return nil
}

func opPop(m *Machine) error {
	if _, err := m.stack.Peek(0); err != nil {
		return err
	}
	if err := m.consumeGas(gasPop); err != nil {
		return err
	}
	_, _ = m.stack.Pop()
	m.pc++
	return nil
}

func opMload(m *Machine) error {
	if _, err := m.stack.Peek(0); err != nil {
		return err
	}
	top, _ := m.stack.Peek(0)
	offset := top.Uint64()

	cost := gasMemOp + m.memory.ExpansionCost(offset, 32)
	if err := m.consumeGas(cost); err != nil {
		return err
	}
	w, _ := m.memory.Load(offset)
	top.Set(w)
	m.pc++
	return nil
}

func opMstore(m *Machine) error {
	if _, err := m.stack.Peek(1); err != nil {
		return err
	}
	offsetW, _ := m.stack.Peek(0)
	offset := offsetW.Uint64()

	cost := gasMemOp + m.memory.ExpansionCost(offset, 32)
	if err := m.consumeGas(cost); err != nil {
		return err
	}
	_, _ = m.stack.Pop()
	val, _ := m.stack.Pop()
	m.memory.Store32(offset, &val)
	m.pc++
	return nil
}

func opMstore8(m *Machine) error {
	if _, err := m.stack.Peek(1); err != nil {
		return err
	}
	offsetW, _ := m.stack.Peek(0)
	offset := offsetW.Uint64()

	cost := gasMemOp + m.memory.ExpansionCost(offset, 1)
	if err := m.consumeGas(cost); err != nil {
		return err
	}
	_, _ = m.stack.Pop()
	val, _ := m.stack.Pop()
	m.memory.Store8(offset, &val)
	m.pc++
	return nil
}

func opSload(m *Machine) error {
	if _, err := m.stack.Peek(0); err != nil {
		return err
	}
	top, _ := m.stack.Peek(0)
	isWarm, _ := m.storage.Peek(top)
	if err := m.consumeGas(gasSloadDynamic(isWarm)); err != nil {
		return err
	}
	_, value := m.storage.Load(top)
	top.Set(&value)
	m.pc++
	return nil
}

func opSstore(m *Machine) error {
	if _, err := m.stack.Peek(1); err != nil {
		return err
	}
	keyW, _ := m.stack.Peek(0)
	valW, _ := m.stack.Peek(1)

	wasWarm, oldValue := m.storage.Peek(keyW)
	coldSurcharge, base := sstoreGas(wasWarm, &oldValue, valW)

	if err := m.consumeGas(coldSurcharge); err != nil {
		return err
	}
	if err := m.consumeGas(base); err != nil {
		return err
	}

	key, _ := m.stack.Pop()
	val, _ := m.stack.Pop()
	m.storage.Store(&key, &val)
	m.pc++
	return nil
}

func opJump(m *Machine) error {
	if _, err := m.stack.Peek(0); err != nil {
		return err
	}
	if err := m.consumeGas(gasJump); err != nil {
		return err
	}
	dest, _ := m.stack.Pop()
	d := dest.Uint64()
	if err := m.validateJumpDest(d); err != nil {
		return err
	}
	m.pc = d
	return nil
}

func opJumpi(m *Machine) error {
	if _, err := m.stack.Peek(1); err != nil {
		return err
	}
	if err := m.consumeGas(gasJumpi); err != nil {
		return err
	}
	dest, _ := m.stack.Pop()
	cond, _ := m.stack.Pop()
	if cond.IsZero() {
		m.pc++
		return nil
	}
	d := dest.Uint64()
	if err := m.validateJumpDest(d); err != nil {
		return err
	}
	m.pc = d
	return nil
}

// validateJumpDest enforces spec.md 4.6's JUMP/JUMPI rule: d must be
// in-bounds and program[d] must equal JUMPDEST (0x5B). This core does
// not distinguish a JUMPDEST byte value from one embedded inside a
// PUSH immediate (spec.md 9's open question #2) -- matching the
// teacher's and the spec's own documented simplification.
func (m *Machine) validateJumpDest(d uint64) error {
	if d >= uint64(len(m.program)) {
		return &BadJumpDestinationError{Dest: d, Reason: "out of program bounds"}
	}
	if m.program[d] != 0x5B {
		return &BadJumpDestinationError{Dest: d, Reason: "target is not JUMPDEST"}
	}
	return nil
}

func opPc(m *Machine) error {
	if err := m.consumeGas(gasQuickStep); err != nil {
		return err
	}
	w := wordFromUint64(m.pc)
	if err := m.stack.Push(w); err != nil {
		return err
	}
	m.pc++
	return nil
}

func opJumpdest(m *Machine) error {
	if err := m.consumeGas(gasJumpdest); err != nil {
		return err
	}
	m.pc++
	return nil
}

func opTload(m *Machine) error {
	if _, err := m.stack.Peek(0); err != nil {
		return err
	}
	if err := m.consumeGas(gasTload); err != nil {
		return err
	}
	top, _ := m.stack.Peek(0)
	v := m.transient.Load(top)
	top.Set(&v)
	m.pc++
	return nil
}

func opTstore(m *Machine) error {
	if _, err := m.stack.Peek(1); err != nil {
		return err
	}
	if err := m.consumeGas(gasTstore); err != nil {
		return err
	}
	key, _ := m.stack.Pop()
	val, _ := m.stack.Pop()
	m.transient.Store(&key, &val)
	m.pc++
	return nil
}

// makePush reads n immediate bytes starting at pc+1, zero-padding on
// the right if program ends early, and advances pc by n+1, per
// spec.md 4.6's PUSH semantics.
func makePush(n int) opFunc {
	return func(m *Machine) error {
		if err := m.consumeGas(gasPush); err != nil {
			return err
		}
		var buf [32]byte
		start := m.pc + 1
		for i := 0; i < n; i++ {
			p := start + uint64(i)
			if p < uint64(len(m.program)) {
				buf[32-n+i] = m.program[p]
			}
		}
		w := wordFromBytes(buf[32-n:])
		if err := m.stack.Push(w); err != nil {
			return err
		}
		m.pc += 1 + uint64(n)
		return nil
	}
}

// makeDup duplicates element n-1 from the top, per spec.md 4.6.
func makeDup(n int) opFunc {
	return func(m *Machine) error {
		if _, err := m.stack.Peek(n - 1); err != nil {
			return err
		}
		if err := m.consumeGas(gasDup); err != nil {
			return err
		}
		src, _ := m.stack.Peek(n - 1)
		cpy := *src
		if err := m.stack.Push(&cpy); err != nil {
			return err
		}
		m.pc++
		return nil
	}
}

// makeSwap swaps the top with element n from the top, per spec.md 4.6.
func makeSwap(n int) opFunc {
	return func(m *Machine) error {
		if _, err := m.stack.Peek(n); err != nil {
			return err
		}
		if err := m.consumeGas(gasSwap); err != nil {
			return err
		}
		if err := m.stack.Swap(n); err != nil {
			return err
		}
		m.pc++
		return nil
	}
}

// makeLog pops offset, size, then n topics, and records {topics,
// memory[offset:offset+size]} to the log, per spec.md 4.6. New
// relative to the teacher, whose makeLog (opcode.go) never captured
// data -- only gas.go's makeGasLog existed.
func makeLog(n int) opFunc {
	return func(m *Machine) error {
		if _, err := m.stack.Peek(1 + n); err != nil {
			return err
		}
		offW, _ := m.stack.Peek(0)
		sizeW, _ := m.stack.Peek(1)
		offset, size := offW.Uint64(), sizeW.Uint64()

		cost := gasLogDynamic(n, size) + m.memory.ExpansionCost(offset, size)
		if err := m.consumeGas(cost); err != nil {
			return err
		}
		m.memory.grow(offset, size)

		_, _ = m.stack.Pop()
		_, _ = m.stack.Pop()

		data, err := m.memory.Access(offset, size)
		if err != nil {
			return err
		}
		dataCopy := append([]byte(nil), data...)

		topics := make([]Word, n)
		for i := 0; i < n; i++ {
			w, _ := m.stack.Pop()
			topics[i] = w
		}
		m.logs = append(m.logs, Log{Topics: topics, Data: dataCopy})
		m.pc++
		return nil
	}
}

// opRevert sets stop_flag and revert_flag and populates return_data
// from memory[offset:offset+size]. Only memory-expansion gas applies,
// per spec.md 4.6's table.
func opRevert(m *Machine) error {
	if _, err := m.stack.Peek(1); err != nil {
		return err
	}
	offW, _ := m.stack.Peek(0)
	sizeW, _ := m.stack.Peek(1)
	offset, size := offW.Uint64(), sizeW.Uint64()

	cost := m.memory.ExpansionCost(offset, size)
	if err := m.consumeGas(cost); err != nil {
		return err
	}
	m.memory.grow(offset, size)

	_, _ = m.stack.Pop()
	_, _ = m.stack.Pop()

	data, err := m.memory.Access(offset, size)
	if err != nil {
		return err
	}
	m.returnData = append([]byte(nil), data...)
	m.stopFlag = true
	m.revertFlag = true
	return nil
}
