// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ct implements C14: the constant-time condition kit — select,
// compare, and conditional move/swap — used wherever a secret-dependent
// branch would otherwise appear (§5, §9 "pointer-swap of secrets").
package ct

import "crypto/subtle"

// SelectByte returns b if cond==1, a if cond==0 (cond must be 0 or 1).
func SelectByte(cond, a, b byte) byte {
	mask := -cond & 1 // 0 or 1
	return a ^ (^(mask - 1) & (a ^ b))
}

// Eq reports whether a == b in constant time (byte slices of equal length).
// Unequal lengths are reported unequal, which does leak length — callers
// must size both inputs identically when length itself is secret.
func Eq(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Select sets dst[i] = cond? y[i] : x[i] for every byte, without branching
// on cond. len(dst)==len(x)==len(y) is required.
func Select(cond int, dst, x, y []byte) {
	mask := byte(0) - byte(cond&1)
	for i := range dst {
		dst[i] = x[i] ^ (mask & (x[i] ^ y[i]))
	}
}

// CondSwapBytes swaps the contents of a and b (equal length) when cond==1,
// and leaves them untouched when cond==0, without branching on cond.
func CondSwapBytes(cond int, a, b []byte) {
	mask := byte(0) - byte(cond&1)
	for i := range a {
		t := mask & (a[i] ^ b[i])
		a[i] ^= t
		b[i] ^= t
	}
}

// IndexSelect copies table[idx] into dst in constant time with respect to
// idx, scanning every row rather than indexing directly (§5 prohibits
// secret-indexed table lookups).
func IndexSelect(dst []byte, table [][]byte, idx int) {
	for i := range dst {
		dst[i] = 0
	}
	for row, entry := range table {
		cond := byte(1) - nonZeroByte(byte(row^idx))
		mask := byte(0) - cond
		for i := range dst {
			dst[i] |= mask & entry[i]
		}
	}
}

func nonZeroByte(b byte) byte {
	x := uint32(b)
	return byte(((x | (0 - x)) >> 31) & 1)
}
