// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package mpbase implements C2: unbounded-magnitude arithmetic over slices
// of limb.Word in little-endian limb order. Every function here operates on
// caller-supplied, caller-sized slices — the caller guarantees output
// capacity, matching the spec's "unsigned core" contract. Inputs/outputs
// follow the mpz_core.cpp structure in the original source this spec was
// distilled from.
package mpbase

import (
	"github.com/phantomcrypto/phantom/limb"
)

// Limbs is an unsigned multi-precision integer: little-endian limb order,
// Σ limb[i]·2^(64i). A normalized Limbs has no trailing zero limb; a nil or
// empty slice denotes zero.
type Limbs []limb.Word

// Normalize trims trailing zero limbs.
func Normalize(x Limbs) Limbs {
	n := len(x)
	for n > 0 && x[n-1] == 0 {
		n--
	}
	return x[:n]
}

// IsZero reports whether x is zero (after normalization).
func IsZero(x Limbs) bool {
	for _, w := range x {
		if w != 0 {
			return false
		}
	}
	return true
}

// Cmp compares normalized magnitudes a and b: -1, 0, +1.
func Cmp(a, b Limbs) int {
	a, b = Normalize(a), Normalize(b)
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Add computes z = a+b into z (len(z) must be >= max(len(a),len(b))+1 to be
// safe) and returns the final carry (0 or 1) and the used length of z.
func Add(z, a, b Limbs) (carry limb.Word, n int) {
	if len(a) < len(b) {
		a, b = b, a
	}
	var c limb.Word
	i := 0
	for ; i < len(b); i++ {
		var s limb.Word
		s, c = limb.AddWithCarry(a[i], b[i], c)
		z[i] = s
	}
	for ; i < len(a); i++ {
		var s limb.Word
		s, c = limb.AddWithCarry(a[i], 0, c)
		z[i] = s
	}
	if i < len(z) {
		z[i] = c
	}
	return c, i
}

// Sub computes z = a-b (requires a >= b) into z and returns the final
// borrow (should be 0 when a >= b) and used length.
func Sub(z, a, b Limbs) (borrow limb.Word, n int) {
	var bw limb.Word
	i := 0
	for ; i < len(b); i++ {
		var d limb.Word
		d, bw = limb.SubWithBorrow(a[i], b[i], bw)
		z[i] = d
	}
	for ; i < len(a); i++ {
		var d limb.Word
		d, bw = limb.SubWithBorrow(a[i], 0, bw)
		z[i] = d
	}
	return bw, i
}

// mulThreshold is the schoolbook/Karatsuba cut-over (limbs). Empirical,
// any monotone threshold is spec-conformant.
const mulThreshold = 24

// Mul computes z = a*b. z must have length len(a)+len(b).
func Mul(z, a, b Limbs) {
	for i := range z {
		z[i] = 0
	}
	a, b = Normalize(a), Normalize(b)
	if len(a) == 0 || len(b) == 0 {
		return
	}
	if len(a) < mulThreshold || len(b) < mulThreshold {
		mulSchoolbook(z, a, b)
		return
	}
	mulKaratsuba(z, a, b)
}

func mulSchoolbook(z, a, b Limbs) {
	for i := range a {
		if a[i] == 0 {
			continue
		}
		var carry limb.Word
		for j := range b {
			hi, lo := limb.MulWide(a[i], b[j])
			s1, c1 := limb.AddWithCarry(z[i+j], lo, 0)
			s2, c2 := limb.AddWithCarry(s1, carry, 0)
			z[i+j] = s2
			carry = hi + c1 + c2
		}
		// propagate remaining carry
		k := i + len(b)
		for carry != 0 {
			s, c := limb.AddWithCarry(z[k], carry, 0)
			z[k] = s
			carry = c
			k++
		}
	}
}

// mulKaratsuba splits a,b at half their max length and recurses. Falls back
// to schoolbook below mulThreshold.
func mulKaratsuba(z, a, b Limbs) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	half := (n + 1) / 2

	aLo, aHi := split(a, half)
	bLo, bHi := split(b, half)

	// low = aLo*bLo, high = aHi*bHi
	low := make(Limbs, len(aLo)+len(bLo))
	Mul(low, aLo, bLo)
	high := make(Limbs, len(aHi)+len(bHi))
	Mul(high, aHi, bHi)

	// mid = (aLo+aHi)*(bLo+bHi) - low - high
	sa := make(Limbs, max(len(aLo), len(aHi))+1)
	_, _ = Add(sa, aLo, aHi)
	sb := make(Limbs, max(len(bLo), len(bHi))+1)
	_, _ = Add(sb, bLo, bHi)

	mid := make(Limbs, len(sa)+len(sb))
	Mul(mid, sa, sb)

	tmp := make(Limbs, len(mid))
	copy(tmp, mid)
	midN := Normalize(tmp)
	scratch := make(Limbs, len(midN)+1)
	copy(scratch, midN)
	b1, _ := Sub(scratch, scratch, Normalize(low))
	b2, _ := Sub(scratch, scratch, Normalize(high))
	_ = b1
	_ = b2
	mid = scratch

	for i := range z {
		z[i] = 0
	}
	copy(z, low)
	addShifted(z, mid, half)
	addShifted(z, high, 2*half)
}

func split(x Limbs, half int) (lo, hi Limbs) {
	if half > len(x) {
		half = len(x)
	}
	lo = Normalize(append(Limbs{}, x[:half]...))
	hi = Normalize(append(Limbs{}, x[half:]...))
	return lo, hi
}

func addShifted(z, x Limbs, shift int) {
	x = Normalize(x)
	var carry limb.Word
	for i := 0; i < len(x); i++ {
		s, c := limb.AddWithCarry(z[i+shift], x[i], carry)
		z[i+shift] = s
		carry = c
	}
	k := shift + len(x)
	for carry != 0 && k < len(z) {
		s, c := limb.AddWithCarry(z[k], carry, 0)
		z[k] = s
		carry = c
		k++
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Sqr computes z = a*a using a diagonal-doubled cross-product squaring.
// z must have length 2*len(a).
func Sqr(z, a Limbs) {
	a = Normalize(a)
	for i := range z {
		z[i] = 0
	}
	n := len(a)
	if n == 0 {
		return
	}
	// Off-diagonal terms, each counted once, doubled at the end.
	cross := make(Limbs, 2*n)
	for i := 0; i < n; i++ {
		if a[i] == 0 {
			continue
		}
		var carry limb.Word
		for j := i + 1; j < n; j++ {
			hi, lo := limb.MulWide(a[i], a[j])
			s1, c1 := limb.AddWithCarry(cross[i+j], lo, 0)
			s2, c2 := limb.AddWithCarry(s1, carry, 0)
			cross[i+j] = s2
			carry = hi + c1 + c2
		}
		k := i + n
		for carry != 0 {
			s, c := limb.AddWithCarry(cross[k], carry, 0)
			cross[k] = s
			carry = c
			k++
		}
	}
	// Double the cross terms.
	var carry limb.Word
	for i := range cross {
		s, c := limb.AddWithCarry(cross[i], cross[i], carry)
		cross[i] = s
		carry = c
	}
	// Add diagonal terms a[i]^2.
	var diagCarry limb.Word
	for i := 0; i < n; i++ {
		hi, lo := limb.MulWide(a[i], a[i])
		s1, c1 := limb.AddWithCarry(cross[2*i], lo, diagCarry)
		cross[2*i] = s1
		s2, c2 := limb.AddWithCarry(cross[2*i+1], hi, c1)
		cross[2*i+1] = s2
		diagCarry = c2
	}
	copy(z, cross)
}

// ShiftLeft computes z = a << bits (bits >= 0). z must be sized to hold the
// result (len(a) + bits/64 + 1 is always sufficient).
func ShiftLeft(z, a Limbs, nbits int) Limbs {
	a = Normalize(a)
	if len(a) == 0 {
		return Normalize(z[:0])
	}
	wordShift := nbits / 64
	bitShift := nbits % 64
	for i := range z {
		z[i] = 0
	}
	if bitShift == 0 {
		copy(z[wordShift:], a)
		return Normalize(z)
	}
	var carry limb.Word
	for i, w := range a {
		z[i+wordShift] = (w << bitShift) | carry
		carry = w >> (64 - bitShift)
	}
	if carry != 0 {
		z[wordShift+len(a)] = carry
	}
	return Normalize(z)
}

// ShiftRight computes z = a >> bits (bits >= 0) into z (len(z)>=len(a)).
func ShiftRight(z, a Limbs, nbits int) Limbs {
	a = Normalize(a)
	wordShift := nbits / 64
	bitShift := nbits % 64
	for i := range z {
		z[i] = 0
	}
	if wordShift >= len(a) {
		return Normalize(z[:0])
	}
	src := a[wordShift:]
	if bitShift == 0 {
		copy(z, src)
		return Normalize(z)
	}
	for i := 0; i < len(src); i++ {
		z[i] = src[i] >> bitShift
		if i+1 < len(src) {
			z[i] |= src[i+1] << (64 - bitShift)
		}
	}
	return Normalize(z)
}

// BitLen returns the bit length of x (0 for zero).
func BitLen(x Limbs) int {
	x = Normalize(x)
	if len(x) == 0 {
		return 0
	}
	top := x[len(x)-1]
	return (len(x)-1)*64 + (64 - limb.CountLeadingZeros(top))
}
