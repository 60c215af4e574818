package vm

import "github.com/ethereum/go-ethereum/params"

// Memory is a byte-addressable, zero-extending store that grows in
// 32-byte word increments, per spec.md 4.3. Adapted from the teacher's
// Memory (memory.go in aj3423-edb: Set/Set32/Resize/GetPtr), but the
// teacher resizes unconditionally on demand with no gas accounting;
// here expansion always reports the quadratic gas delta the caller
// must deduct before the resize is allowed to happen.
type Memory struct {
	store []byte
}

func newMemory() *Memory {
	return &Memory{}
}

// Len returns the current length of memory, always a multiple of 32.
func (m *Memory) Len() uint64 { return uint64(len(m.store)) }

// Data returns the backing slice for inspection. Callers must treat it
// as read-only.
func (m *Memory) Data() []byte { return m.store }

func toWordSize(n uint64) uint64 { return (n + 31) / 32 }

// memoryGasCost returns the total quadratic cost of having `words`
// words of memory, per spec.md 4.3: cost(w) = 3w + floor(w^2/512).
// Grounded on the teacher's gas.go (memoryGasCost / toWordSize), which
// computes the same curve using params.MemoryGas/QuadCoeffDiv.
func memoryGasCost(words uint64) uint64 {
	return words*params.MemoryGas + (words*words)/params.QuadCoeffDiv
}

// saturatingAdd adds a and b, saturating at math.MaxUint64 instead of
// wrapping, per spec.md 4.3's "offset + size must be computed with
// saturation to avoid overflow".
func saturatingAdd(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return ^uint64(0)
	}
	return sum
}

// ExpansionCost reports the gas an expansion to cover [offset,
// offset+size) would cost, WITHOUT performing the expansion. Handlers
// use this to compute a combined static+dynamic cost and deduct gas
// before mutating memory, per spec.md 4.6: "every handler first
// deducts its static cost... Dynamic costs (memory expansion...) are
// added to the static cost before deduction where possible."
func (m *Memory) ExpansionCost(offset, size uint64) uint64 {
	end := saturatingAdd(offset, size)
	if size == 0 || end <= m.Len() {
		return 0
	}
	requiredWords := toWordSize(end)
	currentWords := toWordSize(m.Len())
	return memoryGasCost(requiredWords) - memoryGasCost(currentWords)
}

// grow performs the same expansion ExpansionCost costed out, without
// recomputing or returning the cost. Handlers call it after
// successfully deducting the combined gas ExpansionCost reported.
func (m *Memory) grow(offset, size uint64) {
	m.ensureCapacity(offset, size)
}

// ensureCapacity grows memory so that [offset, offset+size) is valid,
// zero-filling new bytes, and returns the incremental gas cost of the
// expansion (0 if no expansion was needed).
func (m *Memory) ensureCapacity(offset, size uint64) uint64 {
	end := saturatingAdd(offset, size)
	if size == 0 || end <= m.Len() {
		return 0
	}
	requiredWords := toWordSize(end)
	currentWords := toWordSize(m.Len())

	cost := memoryGasCost(requiredWords) - memoryGasCost(currentWords)

	newLen := requiredWords * 32
	if newLen > uint64(len(m.store)) {
		grown := make([]byte, newLen)
		copy(grown, m.store)
		m.store = grown
	}
	return cost
}

// Access performs a read-only range check without expanding memory,
// returning the bytes in [offset, offset+size) or a
// MemoryOutOfBoundsError if the range exceeds the current length.
func (m *Memory) Access(offset, size uint64) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	end := saturatingAdd(offset, size)
	if end > m.Len() {
		return nil, &MemoryOutOfBoundsError{Offset: offset, Size: size, Max: m.Len()}
	}
	return m.store[offset:end], nil
}

// Load ensures 32 bytes of capacity at offset, then reads the 32-byte
// big-endian word there. Returns the expansion gas cost.
func (m *Memory) Load(offset uint64) (*Word, uint64) {
	cost := m.ensureCapacity(offset, 32)
	w := wordFromBytes(m.store[offset : offset+32])
	return w, cost
}

// Store ensures capacity for len(data) at offset, then copies data in.
// Returns the expansion gas cost.
func (m *Memory) Store(offset uint64, data []byte) uint64 {
	cost := m.ensureCapacity(offset, uint64(len(data)))
	if len(data) > 0 {
		copy(m.store[offset:offset+uint64(len(data))], data)
	}
	return cost
}

// Store32 is Store specialized for a 32-byte big-endian Word, matching
// the teacher's Set32 helper.
func (m *Memory) Store32(offset uint64, val *Word) uint64 {
	cost := m.ensureCapacity(offset, 32)
	var buf [32]byte
	val.WriteToSlice(buf[:])
	copy(m.store[offset:offset+32], buf[:])
	return cost
}

// Store8 stores the least-significant byte of val at offset. Returns
// the expansion gas cost.
func (m *Memory) Store8(offset uint64, val *Word) uint64 {
	cost := m.ensureCapacity(offset, 1)
	m.store[offset] = byte(val.Uint64())
	return cost
}

func (m *Memory) reset() {
	m.store = nil
}
