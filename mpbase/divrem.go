// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mpbase

import "github.com/phantomcrypto/phantom/limb"

// DivRem computes q, r such that q*d + r = n, 0 <= r < d, using Knuth's
// Algorithm D (TAOCP vol. 2, §4.3.1). d must be non-zero.
func DivRem(n, d Limbs) (q, r Limbs) {
	n = Normalize(n)
	d = Normalize(d)
	if len(d) == 0 {
		panic("mpbase: division by zero")
	}
	if Cmp(n, d) < 0 {
		return Limbs{}, append(Limbs{}, n...)
	}
	if len(d) == 1 {
		return divRemSmall(n, d[0])
	}

	// Normalize so the divisor's top limb has its high bit set.
	shift := limb.CountLeadingZeros(d[len(d)-1])
	dn := make(Limbs, len(d))
	ShiftLeft(dn, d, shift)
	dn = Normalize(dn)

	nn := make(Limbs, len(n)+1)
	ShiftLeft(nn, n, shift)

	m := len(n) - len(d)
	if m < 0 {
		m = 0
	}
	qn := make(Limbs, m+1)

	nLen := len(d) + m // working length of nn we index into (plus the extra top limb)
	_ = nLen

	for j := m; j >= 0; j-- {
		// Estimate q̂ from the top two/three limbs.
		var numHi, numLo limb.Word
		if j+len(d) < len(nn) {
			numHi = nn[j+len(d)]
		}
		numLo = nn[j+len(d)-1]

		var qhat, rhat limb.Word
		if numHi >= dn[len(dn)-1] {
			qhat = ^limb.Word(0)
		} else {
			qhat, rhat = limb.DivWide(numHi, numLo, dn[len(dn)-1])
			if len(dn) >= 2 {
				for {
					hi2, lo2 := limb.MulWide(qhat, dn[len(dn)-2])
					// compare (rhat, nn[j+len(d)-2]) against (hi2, lo2)
					var nextLimb limb.Word
					if j+len(d)-2 >= 0 {
						nextLimb = nn[j+len(d)-2]
					}
					overflow := hi2 > rhat || (hi2 == rhat && lo2 > nextLimb)
					if qhat == 0 || !overflow {
						break
					}
					qhat--
					newRhat := rhat + dn[len(dn)-1]
					if newRhat < rhat { // rhat overflowed past the word
						break
					}
					rhat = newRhat
				}
			}
		}

		// Multiply and subtract: nn[j:j+len(d)+1] -= qhat*dn
		borrow := mulSub(nn[j:j+len(d)+1], dn, qhat)
		if borrow != 0 {
			// qhat was one too large; add the divisor back once.
			qhat--
			addBack(nn[j:j+len(d)+1], dn)
		}
		qn[j] = qhat
	}

	rn := make(Limbs, len(dn))
	copy(rn, nn[:len(dn)])
	r = ShiftRight(make(Limbs, len(rn)+1), rn, shift)
	q = Normalize(qn)
	return q, Normalize(r)
}

// mulSub computes z -= d*q (z has len(d)+1 limbs) and returns the final
// borrow (0 or 1; 1 means z went negative and needs an add-back correction).
func mulSub(z, d Limbs, q limb.Word) limb.Word {
	var borrow limb.Word
	var carry limb.Word
	for i := 0; i < len(d); i++ {
		hi, lo := limb.MulWide(d[i], q)
		lo2, c := limb.AddWithCarry(lo, carry, 0)
		carry = hi + c
		diff, b := limb.SubWithBorrow(z[i], lo2, borrow)
		z[i] = diff
		borrow = b
	}
	diff, b := limb.SubWithBorrow(z[len(d)], carry, borrow)
	z[len(d)] = diff
	return b
}

// addBack adds d back into z (z has len(d)+1 limbs) and discards the final
// carry, which cancels the borrow mulSub produced when qhat overshot by one.
func addBack(z, d Limbs) {
	var carry limb.Word
	for i := 0; i < len(d); i++ {
		s, c := limb.AddWithCarry(z[i], d[i], carry)
		z[i] = s
		carry = c
	}
	z[len(d)], _ = limb.AddWithCarry(z[len(d)], 0, carry)
}

func divRemSmall(n Limbs, d limb.Word) (q, r Limbs) {
	q = make(Limbs, len(n))
	var rem limb.Word
	for i := len(n) - 1; i >= 0; i-- {
		q[i], rem = limb.DivWide(rem, n[i], d)
	}
	return Normalize(q), Limbs{rem}
}
