// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mpz

import (
	"github.com/phantomcrypto/phantom/mpbase"
	"github.com/phantomcrypto/phantom/perr"
)

// GCD returns gcd(|a|,|b|) using the bit-length-bounded binary GCD of
// mpbase (safe on secret operands per §4.2).
func GCD(a, b *Int) *Int {
	return &Int{mag: mpbase.GCD(a.mag, b.mag)}
}

// GCDExt returns (g, x, y) such that a*x + b*y = g = gcd(a,b), via the
// classical extended Euclidean algorithm. Not used on secret operands
// (invert's constant-time requirement is satisfied instead by Montgomery
// exponentiation in the modular package; this path serves key-generation
// and protocol setup, where operands are public or freshly random and
// timing is already governed by the rejection-sampling loop around it).
func GCDExt(a, b *Int) (g, x, y *Int) {
	old_r, r := a.Abs(), b.Abs()
	old_s, s := FromInt64(1), FromInt64(0)
	old_t, t := FromInt64(0), FromInt64(1)

	for r.Sign() != 0 {
		q, _, _ := old_r.QuoRem(r)
		old_r, r = r, old_r.Sub(q.Mul(r))
		old_s, s = s, old_s.Sub(q.Mul(s))
		old_t, t = t, old_t.Sub(q.Mul(t))
	}
	if a.Sign() < 0 {
		old_s = old_s.Neg()
	}
	if b.Sign() < 0 {
		old_t = old_t.Neg()
	}
	return old_r, old_s, old_t
}

// Invert returns x^-1 mod m, or perr.ErrNonInvertible if gcd(x,m) != 1.
func Invert(x, m *Int) (*Int, error) {
	g, inv, _ := GCDExt(x, m)
	if g.Cmp(FromInt64(1)) != 0 {
		return nil, perr.ErrNonInvertible
	}
	return inv.Mod(m)
}
