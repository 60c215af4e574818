package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryExpansionCostQuadratic(t *testing.T) {
	m := newMemory()
	// First word (32 bytes): cost(1) = 3*1 + 1/512 = 3.
	assert.Equal(t, uint64(3), m.ExpansionCost(0, 32))
	m.grow(0, 32)
	// Re-requesting the same range costs nothing further.
	assert.Equal(t, uint64(0), m.ExpansionCost(0, 32))
	// Expanding to 2 words: cost(2)-cost(1) = (6+0) - 3 = 3.
	assert.Equal(t, uint64(3), m.ExpansionCost(32, 32))
}

func TestMemoryAccessOutOfBounds(t *testing.T) {
	m := newMemory()
	_, err := m.Access(0, 32)
	assert.Error(t, err)
	var oob *MemoryOutOfBoundsError
	assert.ErrorAs(t, err, &oob)
}

func TestMemoryStore8AndLoad(t *testing.T) {
	m := newMemory()
	m.ensureCapacity(0, 32)
	m.Store8(0, wordFromUint64(0xAB))
	data, err := m.Access(0, 32)
	assert.NoError(t, err)
	assert.Equal(t, byte(0xAB), data[0])
	for i := 1; i < 32; i++ {
		assert.Equal(t, byte(0), data[i])
	}
}

func TestSaturatingAdd(t *testing.T) {
	assert.Equal(t, ^uint64(0), saturatingAdd(^uint64(0), 1))
	assert.Equal(t, uint64(5), saturatingAdd(2, 3))
}
