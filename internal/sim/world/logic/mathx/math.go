package mathx

import (
	"math"
	"math/bits"
)

const (
	golden = 0x9e3779b97f4a7c15
	mixA   = 0xbf58476d1ce4e5b9
	mixB   = 0x94d049bb133111eb
)

func AbsInt64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

func Clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// U128 is an unsigned 128-bit value with wrapping arithmetic.
type U128 struct {
	Hi, Lo uint64
}

// U128FromInt64 sign-extends v into 128 bits.
func U128FromInt64(v int64) U128 {
	u := U128{Lo: uint64(v)}
	if v < 0 {
		u.Hi = math.MaxUint64
	}
	return u
}

func (a U128) Add(b U128) U128 {
	lo, carry := bits.Add64(a.Lo, b.Lo, 0)
	hi, _ := bits.Add64(a.Hi, b.Hi, carry)
	return U128{Hi: hi, Lo: lo}
}

// Mul64 multiplies by a 64-bit constant, dropping bits past 128.
func (a U128) Mul64(c uint64) U128 {
	hi, lo := bits.Mul64(a.Lo, c)
	hi += a.Hi * c
	return U128{Hi: hi, Lo: lo}
}

func (a U128) Xor(b U128) U128 {
	return U128{Hi: a.Hi ^ b.Hi, Lo: a.Lo ^ b.Lo}
}

// Shr is a logical right shift for 0 < n < 64.
func (a U128) Shr(n uint) U128 {
	return U128{Hi: a.Hi >> n, Lo: a.Lo>>n | a.Hi<<(64-n)}
}

func (a U128) Mod(m uint64) uint64 {
	return bits.Rem64(a.Hi%m, a.Lo, m)
}

// CellHash128 scrambles a grid coordinate with 128-bit multiply-xor-shift rounds.
func CellHash128(x, y int64) U128 {
	h := U128FromInt64(x).Mul64(golden)
	h = h.Add(U128FromInt64(y).Mul64(mixA))
	h = h.Xor(h.Shr(30)).Mul64(mixA)
	h = h.Xor(h.Shr(27)).Mul64(mixB)
	return h.Xor(h.Shr(31))
}

// CellHash64 is independent of CellHash128: y enters by xor, not by add.
func CellHash64(x, y int64) uint64 {
	h := uint64(x) * golden
	h = (h ^ uint64(y)) * mixA
	h = (h ^ (h >> 27)) * mixB
	return h ^ (h >> 31)
}
