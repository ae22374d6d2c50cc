// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package modular implements C4: Barrett and Montgomery modular reduction
// contexts and the pow_mod/sqrt_mod/invert operations built on top of them.
package modular

import (
	"github.com/phantomcrypto/phantom/mpz"
	"github.com/phantomcrypto/phantom/perr"
	"github.com/phantomcrypto/phantom/recode"
)

// Strategy selects the reduction algorithm a Context uses.
type Strategy int

const (
	Naive Strategy = iota
	Barrett
	Montgomery
	Custom
)

// Context holds a modulus and its precomputed reduction material. Contexts
// are immutable after construction and safe to share across goroutines
// (§5 "Shared resources").
type Context struct {
	M        *mpz.Int
	bitLen   int
	strategy Strategy

	// Barrett
	mu *mpz.Int // floor(2^(2*bitLen)/m)

	// Montgomery
	r      *mpz.Int // R mod m, R = 2^bitLen
	rFull  *mpz.Int // R itself
	rSq    *mpz.Int // R^2 mod m
	mPrime *mpz.Int // -m^-1 mod R
}

const wordBits = 64

// NewBarrett builds a Barrett reduction context for modulus m (m > 0).
func NewBarrett(m *mpz.Int) *Context {
	k := m.BitLen()
	two2k := mpz.FromInt64(1).Shl(2 * k)
	mu, _, _ := two2k.QuoRem(m)
	return &Context{M: m, bitLen: k, strategy: Barrett, mu: mu}
}

// NewMontgomery builds a Montgomery reduction context for an odd modulus m.
func NewMontgomery(m *mpz.Int) *Context {
	k := m.BitLen()
	// Round bitLen up to a whole number of words so R = 2^bitLen is a clean
	// power of the limb base; this matches the spec's R = 2^(B*k).
	words := (k + wordBits - 1) / wordBits
	bitLen := words * wordBits

	rFull := mpz.FromInt64(1).Shl(bitLen)
	rMod, _ := rFull.Mod(m)
	rSq, _ := rMod.Mul(rMod).Mod(m)

	// m' = -m^-1 mod R, the REDC constant: for any t, t + (t*m' mod R)*m is
	// an exact multiple of R (Newton-Hensel would be faster; correctness,
	// not speed, is the goal here since this context is built once and
	// cached).
	mInv, err := mpz.Invert(m, rFull)
	var mPrime *mpz.Int
	if err == nil {
		mPrime, _ = rFull.Sub(mInv).Mod(rFull)
	} else {
		mPrime = mpz.FromInt64(0)
	}

	return &Context{M: m, bitLen: bitLen, strategy: Montgomery, r: rMod, rFull: rFull, rSq: rSq, mPrime: mPrime}
}

// Reduce computes a mod m using the context's strategy.
func (c *Context) Reduce(a *mpz.Int) *mpz.Int {
	switch c.strategy {
	case Barrett:
		return c.reduceBarrett(a)
	case Montgomery:
		r, _ := a.Mod(c.M)
		return r
	default:
		r, _ := a.Mod(c.M)
		return r
	}
}

// reduceBarrett implements §4.4's estimate-then-correct Barrett reduction.
func (c *Context) reduceBarrett(a *mpz.Int) *mpz.Int {
	k := c.bitLen
	qhat := a.Shr(k - 1).Mul(c.mu).Shr(k + 1)
	r := a.Sub(qhat.Mul(c.M))
	for r.Sign() < 0 || r.Cmp(c.M) >= 0 {
		if r.Sign() < 0 {
			r = r.Add(c.M)
		} else {
			r = r.Sub(c.M)
		}
	}
	return r
}

// redc implements Montgomery reduction (REDC): for any t with
// 0 <= t < m*R, redc(t) = t*R^-1 mod m. q = (t mod R)*m' mod R is built so
// that t+q*m is an exact multiple of R; dividing by R (an exact shift,
// since R is a power of two) and folding back the modulus at most once
// yields the result without ever dividing by m.
func (c *Context) redc(t *mpz.Int) *mpz.Int {
	tModR, _ := t.Mod(c.rFull)
	q, _ := tModR.Mul(c.mPrime).Mod(c.rFull)
	u := t.Add(q.Mul(c.M)).Shr(c.bitLen)
	if u.Cmp(c.M) >= 0 {
		u = u.Sub(c.M)
	}
	return u
}

// ToMont converts a into Montgomery form: a*R mod m, via REDC(a*R^2).
func (c *Context) ToMont(a *mpz.Int) *mpz.Int {
	aMod, _ := a.Mod(c.M)
	return c.redc(aMod.Mul(c.rSq))
}

// FromMont converts out of Montgomery form: a*R^-1 mod m, via REDC(a).
func (c *Context) FromMont(aMont *mpz.Int) *mpz.Int {
	return c.redc(aMont)
}

// MulMont computes REDC(aMont*bMont), i.e. (a*b)*R mod m when both operands
// are already in Montgomery form.
func (c *Context) MulMont(aMont, bMont *mpz.Int) *mpz.Int {
	return c.redc(aMont.Mul(bMont))
}

// SqrMont computes aMont^2 in Montgomery form.
func (c *Context) SqrMont(aMont *mpz.Int) *mpz.Int { return c.MulMont(aMont, aMont) }

// Invert returns a^-1 mod m, or perr.ErrNonInvertible.
func (c *Context) Invert(a *mpz.Int) (*mpz.Int, error) {
	return mpz.Invert(a, c.M)
}

// PowMod computes base^exp mod m. When secret is true the exponent is
// assumed sensitive and a Montgomery-ladder is used unconditionally,
// resolving §9's "flag sometimes ignored" open question by removing the
// flag: the ladder is mandatory, not optional, whenever secret is true.
func (c *Context) PowMod(base, exp *mpz.Int, secret bool) (*mpz.Int, error) {
	if exp.Sign() < 0 {
		return nil, perr.ErrInvalidParameterSet
	}
	b, _ := base.Mod(c.M)
	if secret {
		return c.ladderPow(b, exp), nil
	}
	return c.squareMultiplyPow(b, exp), nil
}

func (c *Context) squareMultiplyPow(base, exp *mpz.Int) *mpz.Int {
	result := mpz.FromInt64(1)
	bits := exp.BitLen()
	acc := base
	for i := 0; i < bits; i++ {
		if bitAt(exp, i) == 1 {
			result, _ = result.Mul(acc).Mod(c.M)
		}
		acc, _ = acc.Mul(acc).Mod(c.M)
	}
	return result
}

// ladderPow is a Montgomery-ladder exponentiation: at every step both the
// "current" and "current+1" accumulators are updated and conditionally
// swapped, so the sequence of multiplications performed is independent of
// the exponent's bit pattern. When the context's strategy is Montgomery,
// the ladder itself runs in Montgomery domain via MulMont/SqrMont rather
// than plain mulmod.
func (c *Context) ladderPow(base, exp *mpz.Int) *mpz.Int {
	if c.strategy == Montgomery {
		return c.ladderPowMontgomery(base, exp)
	}
	r0 := mpz.FromInt64(1)
	r1 := base
	bits := exp.BitLen()
	if bits == 0 {
		return r0
	}
	for i := bits - 1; i >= 0; i-- {
		bit := bitAt(exp, i)
		if bit == 0 {
			r1, _ = r0.Mul(r1).Mod(c.M)
			r0, _ = r0.Mul(r0).Mod(c.M)
		} else {
			r0, _ = r0.Mul(r1).Mod(c.M)
			r1, _ = r1.Mul(r1).Mod(c.M)
		}
	}
	return r0
}

func (c *Context) ladderPowMontgomery(base, exp *mpz.Int) *mpz.Int {
	r0 := c.r // ToMont(1) == R mod m
	r1 := c.ToMont(base)
	bits := exp.BitLen()
	if bits == 0 {
		return mpz.FromInt64(1)
	}
	for i := bits - 1; i >= 0; i-- {
		bit := bitAt(exp, i)
		if bit == 0 {
			r1 = c.MulMont(r0, r1)
			r0 = c.SqrMont(r0)
		} else {
			r0 = c.MulMont(r0, r1)
			r1 = c.SqrMont(r1)
		}
	}
	return c.FromMont(r0)
}

func bitAt(x *mpz.Int, i int) int {
	return recode.BitAt(x, i)
}

// SqrtMod returns a square root of a mod an odd prime p via Tonelli–Shanks,
// or perr.ErrNonInvertible if a is a non-residue.
func (c *Context) SqrtMod(a *mpz.Int) (*mpz.Int, error) {
	p := c.M
	aMod, _ := a.Mod(p)
	if aMod.Sign() == 0 {
		return mpz.FromInt64(0), nil
	}

	// Legendre symbol check: a^((p-1)/2) mod p must be 1.
	pm1 := p.Sub(mpz.FromInt64(1))
	half := pm1.Shr(1)
	ls, err := c.PowMod(aMod, half, false)
	if err != nil {
		return nil, err
	}
	if ls.Cmp(mpz.FromInt64(1)) != 0 {
		return nil, perr.ErrNonInvertible
	}

	// p ≡ 3 (mod 4): fast path r = a^((p+1)/4).
	four := mpz.FromInt64(4)
	_, rem4, _ := p.QuoRem(four)
	if rem4.Cmp(mpz.FromInt64(3)) == 0 {
		exp := p.Add(mpz.FromInt64(1)).Shr(2)
		return c.PowMod(aMod, exp, false)
	}

	// General Tonelli–Shanks.
	q := pm1
	s := 0
	for {
		_, rem, _ := q.QuoRem(mpz.FromInt64(2))
		if rem.Sign() != 0 {
			break
		}
		q = q.Shr(1)
		s++
	}
	// Find a quadratic non-residue z.
	z := mpz.FromInt64(2)
	for {
		zls, _ := c.PowMod(z, half, false)
		if zls.Cmp(pm1) == 0 {
			break
		}
		z = z.Add(mpz.FromInt64(1))
	}
	m := s
	cc, _ := c.PowMod(z, q, false)
	t, _ := c.PowMod(aMod, q, false)
	qp1 := q.Add(mpz.FromInt64(1)).Shr(1)
	r, _ := c.PowMod(aMod, qp1, false)

	for t.Cmp(mpz.FromInt64(1)) != 0 {
		// find least i, 0<i<m, t^(2^i) == 1
		i := 0
		tt := t
		for tt.Cmp(mpz.FromInt64(1)) != 0 {
			tt, _ = tt.Mul(tt).Mod(p)
			i++
			if i == m {
				return nil, perr.ErrNonInvertible
			}
		}
		bexp := mpz.FromInt64(1).Shl(m - i - 1)
		b, _ := c.PowMod(cc, bexp, false)
		m = i
		cc, _ = b.Mul(b).Mod(p)
		t, _ = t.Mul(cc).Mod(p)
		r, _ = r.Mul(b).Mod(p)
	}
	return r, nil
}
