package vm

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestSdivByZero(t *testing.T) {
	dst := new(Word)
	sdiv(dst, wordFromUint64(10), wordFromUint64(0))
	assert.True(t, dst.IsZero())
}

func TestSdivMinByNegOne(t *testing.T) {
	smin := new(uint256.Int).SetAllOne()
	smin.Lsh(smin, 255) // 1 << 255 == SMIN in two's complement

	negOne := new(uint256.Int).SetAllOne()

	dst := new(Word)
	sdiv(dst, smin, negOne)
	assert.True(t, dst.Eq(smin), "SDIV(SMIN, -1) must clamp to SMIN")
}

func TestShlShiftAtOrAbove256(t *testing.T) {
	dst := new(Word)
	shl(dst, wordFromUint64(256), wordFromUint64(1))
	assert.True(t, dst.IsZero())
}

func TestSarNegativeLargeShift(t *testing.T) {
	negOne := new(uint256.Int).SetAllOne()
	dst := new(Word)
	sar(dst, wordFromUint64(300), negOne)
	assert.True(t, dst.Eq(negOne), "SAR(-1, n>=256) must be all-ones")
}

func TestSignExtendNoOpPastByte30(t *testing.T) {
	dst := new(Word)
	x := wordFromUint64(0xFF)
	signExtend(dst, wordFromUint64(31), x)
	assert.True(t, dst.Eq(x))
}

func TestByteAtOutOfRange(t *testing.T) {
	dst := new(Word)
	x := wordFromUint64(0x1122)
	byteAt(dst, wordFromUint64(32), x)
	assert.True(t, dst.IsZero())
}
