// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package mpz implements C3: a sign-magnitude arbitrary-precision integer
// built on mpbase, with string/byte I/O and the comparison/modular
// operations every scheme core needs. Zero is always represented as +0.
package mpz

import (
	"strings"

	"github.com/phantomcrypto/phantom/limb"
	"github.com/phantomcrypto/phantom/mpbase"
	"github.com/phantomcrypto/phantom/perr"
)

// Int is a signed multi-precision integer.
type Int struct {
	neg bool
	mag mpbase.Limbs
}

// Zero returns the integer 0.
func Zero() *Int { return &Int{} }

// FromInt64 builds an Int from a native int64.
func FromInt64(v int64) *Int {
	neg := v < 0
	u := uint64(v)
	if neg {
		u = uint64(-v)
	}
	z := &Int{neg: neg}
	if u != 0 {
		z.mag = mpbase.Normalize(mpbase.Limbs{u})
	}
	return z
}

// FromBytes decodes a non-negative integer from big-endian (default) or
// little-endian bytes (§6: Ed25519/Ed448 require little-endian).
func FromBytes(b []byte, littleEndian bool) *Int {
	buf := make([]byte, len(b))
	copy(buf, b)
	if !littleEndian {
		reverse(buf)
	}
	n := (len(buf) + 7) / 8
	mag := make(mpbase.Limbs, n)
	for i, by := range buf {
		mag[i/8] |= limb.Word(by) << (8 * (i % 8))
	}
	return &Int{mag: mpbase.Normalize(mag)}
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// Bytes encodes the magnitude into exactly size bytes (zero-padded), in the
// requested endianness. Returns an error if the value does not fit.
func (z *Int) Bytes(size int, littleEndian bool) ([]byte, error) {
	out := make([]byte, size)
	for i := 0; i < size && i/8 < len(z.mag); i++ {
		out[i] = byte(z.mag[i/8] >> (8 * (i % 8)))
	}
	// Check nothing was truncated.
	for i := size; i/8 < len(z.mag); i++ {
		if byte(z.mag[i/8]>>(8*(i%8))) != 0 {
			return nil, perr.ErrInsufficientBuffer
		}
	}
	if !littleEndian {
		reverse(out)
	}
	return out, nil
}

// Sign returns -1, 0, +1.
func (z *Int) Sign() int {
	if mpbase.IsZero(z.mag) {
		return 0
	}
	if z.neg {
		return -1
	}
	return 1
}

// Neg returns -z.
func (z *Int) Neg() *Int {
	if mpbase.IsZero(z.mag) {
		return Zero()
	}
	return &Int{neg: !z.neg, mag: z.mag}
}

// Abs returns |z|.
func (z *Int) Abs() *Int { return &Int{mag: z.mag} }

// Cmp compares z to w: -1, 0, +1.
func (z *Int) Cmp(w *Int) int {
	zs, ws := z.Sign(), w.Sign()
	if zs != ws {
		if zs < ws {
			return -1
		}
		return 1
	}
	if zs == 0 {
		return 0
	}
	c := mpbase.Cmp(z.mag, w.mag)
	if zs < 0 {
		return -c
	}
	return c
}

// Add returns z+w.
func (z *Int) Add(w *Int) *Int {
	if z.neg == w.neg {
		out := make(mpbase.Limbs, maxLen(z.mag, w.mag)+1)
		_, _ = mpbase.Add(out, z.mag, w.mag)
		return &Int{neg: z.neg, mag: mpbase.Normalize(out)}
	}
	// Different signs: subtract smaller magnitude from larger.
	if mpbase.Cmp(z.mag, w.mag) >= 0 {
		out := make(mpbase.Limbs, len(z.mag)+1)
		mpbase.Sub(out, z.mag, w.mag)
		out = mpbase.Normalize(out)
		return &Int{neg: z.neg && !mpbase.IsZero(out), mag: out}
	}
	out := make(mpbase.Limbs, len(w.mag)+1)
	mpbase.Sub(out, w.mag, z.mag)
	out = mpbase.Normalize(out)
	return &Int{neg: w.neg && !mpbase.IsZero(out), mag: out}
}

// Sub returns z-w.
func (z *Int) Sub(w *Int) *Int { return z.Add(w.Neg()) }

// Mul returns z*w.
func (z *Int) Mul(w *Int) *Int {
	out := make(mpbase.Limbs, len(z.mag)+len(w.mag)+2)
	mpbase.Mul(out[:len(z.mag)+len(w.mag)], z.mag, w.mag)
	out = mpbase.Normalize(out)
	return &Int{neg: (z.neg != w.neg) && !mpbase.IsZero(out), mag: out}
}

// QuoRem returns q, r such that z = q*w + r, 0 <= |r| < |w|, r's sign
// matching z's sign (truncated division), and an error if w is zero.
func (z *Int) QuoRem(w *Int) (*Int, *Int, error) {
	if mpbase.IsZero(w.mag) {
		return nil, nil, perr.ErrDivideByZero
	}
	q, r := mpbase.DivRem(z.mag, w.mag)
	qi := &Int{neg: (z.neg != w.neg) && !mpbase.IsZero(q), mag: q}
	ri := &Int{neg: z.neg && !mpbase.IsZero(r), mag: r}
	return qi, ri, nil
}

// Mod returns the non-negative remainder of z divided by m (m > 0).
func (z *Int) Mod(m *Int) (*Int, error) {
	_, r, err := z.QuoRem(m)
	if err != nil {
		return nil, err
	}
	if r.Sign() < 0 {
		r = r.Add(m)
	}
	return r, nil
}

// Shl returns z << n.
func (z *Int) Shl(n int) *Int {
	out := make(mpbase.Limbs, len(z.mag)+n/64+2)
	out = mpbase.ShiftLeft(out, z.mag, n)
	return &Int{neg: z.neg && !mpbase.IsZero(out), mag: out}
}

// Shr returns z >> n (arithmetic-on-magnitude: floor for non-negative,
// truncation of magnitude for negative — callers needing Euclidean
// semantics should use QuoRem against 2^n instead).
func (z *Int) Shr(n int) *Int {
	out := make(mpbase.Limbs, len(z.mag)+1)
	out = mpbase.ShiftRight(out, z.mag, n)
	return &Int{neg: z.neg && !mpbase.IsZero(out), mag: out}
}

// BitLen returns the bit length of |z|.
func (z *Int) BitLen() int { return mpbase.BitLen(z.mag) }

func maxLen(a, b mpbase.Limbs) int {
	if len(a) > len(b) {
		return len(a)
	}
	return len(b)
}

// SizeInBase returns the exact digit count for base in
// {2,4,8,16,32,64} and an upper bound (never smaller than exact) for base
// 10, matching §4.3.
func (z *Int) SizeInBase(base int) int {
	bl := z.BitLen()
	if bl == 0 {
		return 1
	}
	switch base {
	case 2:
		return bl
	case 4:
		return (bl + 1) / 2
	case 8:
		return (bl + 2) / 3
	case 16:
		return (bl + 3) / 4
	case 32:
		return (bl + 4) / 5
	case 64:
		return (bl + 5) / 6
	case 10:
		// log10(2) ~= 0.30103; ceil(bl*log10(2))+1 is a safe upper bound.
		return int(float64(bl)*0.30103) + 2
	default:
		return bl + 1
	}
}

const digitAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ+/"

// String renders z in the given base (2..64), using the standard alphabet
// for 2..36 and a base64-like extension (upper-case letters, then '+','/')
// beyond that.
func (z *Int) String(base int) string {
	if mpbase.IsZero(z.mag) {
		return "0"
	}
	var sb strings.Builder
	if z.neg {
		sb.WriteByte('-')
	}
	digits := make([]byte, 0, z.SizeInBase(base))
	rem := &Int{mag: append(mpbase.Limbs{}, z.mag...)}
	b := FromInt64(int64(base))
	for !mpbase.IsZero(rem.mag) {
		var r *Int
		rem, r, _ = rem.QuoRem(b)
		digits = append(digits, digitAlphabet[word0(r.mag)])
	}
	for i := len(digits) - 1; i >= 0; i-- {
		sb.WriteByte(digits[i])
	}
	return sb.String()
}

// word0 returns the least-significant limb of a magnitude (0 if zero).
func word0(m mpbase.Limbs) limb.Word {
	if len(m) == 0 {
		return 0
	}
	return m[0]
}
