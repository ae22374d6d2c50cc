// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mpbase

// GCD computes the binary (Stein's) GCD of two non-negative magnitudes.
// Runtime is bounded by max(BitLen(a), BitLen(b)), not by the values
// themselves, so it is safe to use on secret operands (§4.2).
func GCD(a, b Limbs) Limbs {
	a, b = Normalize(append(Limbs{}, a...)), Normalize(append(Limbs{}, b...))
	if IsZero(a) {
		return b
	}
	if IsZero(b) {
		return a
	}

	shiftA := trailingZeroBits(a)
	shiftB := trailingZeroBits(b)
	shift := shiftA
	if shiftB < shift {
		shift = shiftB
	}
	a = Normalize(ShiftRight(make(Limbs, len(a)), a, shiftA))
	b = Normalize(ShiftRight(make(Limbs, len(b)), b, shiftB))

	for {
		if Cmp(a, b) > 0 {
			a, b = b, a
		}
		// now a <= b
		bz := trailingZeroBits(subMagnitude(b, a))
		diff := subMagnitude(b, a)
		if IsZero(diff) {
			break
		}
		b = Normalize(ShiftRight(make(Limbs, len(diff)), diff, bz))
	}
	return Normalize(ShiftLeft(make(Limbs, len(a)+shift/64+1), a, shift))
}

func trailingZeroBits(x Limbs) int {
	for i, w := range x {
		if w != 0 {
			return i*64 + ctz(w)
		}
	}
	return 0
}

func ctz(w uint64) int {
	n := 0
	for w&1 == 0 && n < 64 {
		w >>= 1
		n++
	}
	return n
}

func subMagnitude(a, b Limbs) Limbs {
	z := make(Limbs, len(a)+1)
	Sub(z, a, b)
	return Normalize(z)
}
