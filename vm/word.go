package vm

import "github.com/holiman/uint256"

// Word is the 256-bit unit of stack, memory-word and storage value
// used throughout the machine. It is an alias, not a wrapper, so every
// uint256.Int method (Add, Sub, SDiv, SMod, ExtendSign, Exp, AddMod,
// MulMod, Lsh, Rsh, SRsh, Byte, SetAllOne, ...) is usable directly.
type Word = uint256.Int

func newWord() *Word { return new(uint256.Int) }

func wordFromUint64(v uint64) *Word { return new(uint256.Int).SetUint64(v) }

func wordFromBytes(b []byte) *Word { return new(uint256.Int).SetBytes(b) }

// sdiv implements SDIV: signed division truncated toward zero.
// x / 0 == 0. SMIN / -1 == SMIN (the one case that would overflow is
// clamped to SMIN instead of panicking, matching spec.md 4.1).
func sdiv(dst, x, y *Word) *Word {
	return dst.SDiv(x, y)
}

// smod implements SMOD: signed remainder, sign follows the dividend.
// x % 0 == 0.
func smod(dst, x, y *Word) *Word {
	return dst.SMod(x, y)
}

// signExtend implements SIGNEXTEND(b, x): if b >= 31 x is unchanged,
// else sign-extends the byte at position b (0 = least significant).
func signExtend(dst, back, num *Word) *Word {
	return dst.ExtendSign(num, back)
}

// byteAt implements BYTE(i, x): the i-th byte from the most
// significant end of x, or 0 if i >= 32. uint256's Byte reads its
// receiver as the value being indexed, so dst is set to x first; this
// is a no-op copy when dst and x already alias (the opBinary calling
// convention).
func byteAt(dst, i, x *Word) *Word {
	return dst.Set(x).Byte(i)
}

// shl implements SHL: logical left shift, shifts >= 256 yield 0.
func shl(dst, shift, value *Word) *Word {
	if shift.LtUint64(256) {
		return dst.Lsh(value, uint(shift.Uint64()))
	}
	return dst.Clear()
}

// shr implements SHR: logical right shift, shifts >= 256 yield 0.
func shr(dst, shift, value *Word) *Word {
	if shift.LtUint64(256) {
		return dst.Rsh(value, uint(shift.Uint64()))
	}
	return dst.Clear()
}

// sar implements SAR: arithmetic right shift. Shifts >= 256 yield 0
// for a non-negative value and all-ones for a negative one.
func sar(dst, shift, value *Word) *Word {
	if shift.GtUint64(255) {
		if value.Sign() >= 0 {
			return dst.Clear()
		}
		return dst.SetAllOne()
	}
	return dst.SRsh(value, uint(shift.Uint64()))
}

func boolWord(dst *Word, b bool) *Word {
	if b {
		return dst.SetOne()
	}
	return dst.Clear()
}
