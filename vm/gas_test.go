package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSstoreGasSetFromCold(t *testing.T) {
	cold, base := sstoreGas(false, newWord(), wordFromUint64(1))
	assert.Equal(t, uint64(gasSstoreColdExtra), cold)
	assert.Equal(t, uint64(gasSstoreSetGas), base)
}

func TestSstoreGasNoopWhenWarmAndUnchanged(t *testing.T) {
	v := wordFromUint64(7)
	cold, base := sstoreGas(true, v, v)
	assert.Equal(t, uint64(0), cold)
	assert.Equal(t, uint64(gasSstoreNoopGas), base)
}

func TestSstoreGasResetDifferentNonzero(t *testing.T) {
	cold, base := sstoreGas(true, wordFromUint64(1), wordFromUint64(2))
	assert.Equal(t, uint64(0), cold)
	assert.Equal(t, uint64(gasSstoreResetGas), base)
}

func TestGasSloadDynamic(t *testing.T) {
	assert.Equal(t, uint64(gasColdSload), gasSloadDynamic(false))
	assert.Equal(t, uint64(gasWarmSload), gasSloadDynamic(true))
}

func TestGasExpDynamicByteLength(t *testing.T) {
	assert.Equal(t, uint64(gasExpBase), gasExpDynamic(newWord()))
	assert.Equal(t, uint64(gasExpBase+gasExpByte), gasExpDynamic(wordFromUint64(0xFF)))
}

func TestGasLogDynamic(t *testing.T) {
	assert.Equal(t, uint64(gasLogBase+2*gasLogTopic+80), gasLogDynamic(2, 10))
}
