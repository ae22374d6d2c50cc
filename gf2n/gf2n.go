// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package gf2n implements C5: binary-field GF(2^n) arithmetic over a sparse
// trinomial/pentanomial modulus, represented as an ordered descending list
// of non-zero bit positions ("modulus-bits" form, §3).
package gf2n

import "github.com/phantomcrypto/phantom/perr"

// Modulus is the sparse descending bit-position list of an irreducible
// polynomial, e.g. {163,7,6,3,0} for a degree-163 pentanomial.
type Modulus []int

// Degree returns the modulus polynomial's degree (its top bit position).
func (m Modulus) Degree() int { return m[0] }

// Elem is a GF(2^n) element: limb-packed coefficients, limb 0 holding bits
// [0,64), etc. Always reduced to degree < Degree() after every operation
// this package exposes.
type Elem struct {
	limbs []uint64
	mod   Modulus
}

// NewElem builds the zero element for the given modulus.
func NewElem(mod Modulus) *Elem {
	n := (mod.Degree() + 63) / 64
	return &Elem{limbs: make([]uint64, n), mod: mod}
}

// FromBits builds an element from a little-endian bit-packed byte slice.
func FromBits(b []byte, mod Modulus) *Elem {
	e := NewElem(mod)
	for i, by := range b {
		if i/8 >= len(e.limbs) {
			break
		}
		e.limbs[i/8] |= uint64(by) << (8 * uint(i%8))
	}
	return e.Reduce()
}

// Bytes renders the element little-endian into byteLen bytes.
func (e *Elem) Bytes(byteLen int) []byte {
	out := make([]byte, byteLen)
	for i := range out {
		if i/8 < len(e.limbs) {
			out[i] = byte(e.limbs[i/8] >> (8 * uint(i%8)))
		}
	}
	return out
}

// Degree returns the bit position of e's highest set coefficient, or -1 if e
// is zero.
func (e *Elem) Degree() int {
	for i := len(e.limbs) - 1; i >= 0; i-- {
		if e.limbs[i] != 0 {
			return i*64 + bitLen64(e.limbs[i]) - 1
		}
	}
	return -1
}

func bitLen64(w uint64) int {
	n := 0
	for w != 0 {
		w >>= 1
		n++
	}
	return n
}

// Add is GF(2^n) addition/subtraction: bitwise XOR (they coincide in
// characteristic 2). (a⊕b)⊕b = a always holds (§8).
func (e *Elem) Add(o *Elem) *Elem {
	n := len(e.limbs)
	if len(o.limbs) > n {
		n = len(o.limbs)
	}
	out := &Elem{limbs: make([]uint64, n), mod: e.mod}
	for i := 0; i < n; i++ {
		var a, b uint64
		if i < len(e.limbs) {
			a = e.limbs[i]
		}
		if i < len(o.limbs) {
			b = o.limbs[i]
		}
		out.limbs[i] = a ^ b
	}
	return out
}

// mulWord1x1 multiplies two single-bit-polynomial words (no reduction) via
// the classical right-to-left shift-and-XOR accumulator, producing a
// double-width product — this is the "1×1 word multiplier" the spec's
// §4.5 builds its 2×2 Karatsuba step from.
func mulWord1x1(a, b uint64) (hi, lo uint64) {
	for i := 0; i < 64; i++ {
		if (b>>uint(i))&1 == 1 {
			if i == 0 {
				lo ^= a
			} else {
				lo ^= a << uint(i)
				hi ^= a >> uint(64-i)
			}
		}
	}
	return hi, lo
}

// Mul multiplies e by o, reduces modulo e's modulus, and returns the result.
// Implemented as a schoolbook product: every pair of limbs is multiplied
// with mulWord1x1 and XOR-accumulated, then the result is folded through
// Reduce.
func (e *Elem) Mul(o *Elem) *Elem {
	n := len(e.limbs) + len(o.limbs)
	prod := make([]uint64, n)
	for i, ai := range e.limbs {
		if ai == 0 {
			continue
		}
		for j, bj := range o.limbs {
			if bj == 0 {
				continue
			}
			hi, lo := mulWord1x1(ai, bj)
			prod[i+j] ^= lo
			if i+j+1 < len(prod) {
				prod[i+j+1] ^= hi
			}
		}
	}
	out := &Elem{limbs: prod, mod: e.mod}
	return out.Reduce()
}

// sqrLUT is the per-byte Morton bit-interleave table (bit i -> bit 2i),
// computed once at init time as a program-lifetime constant (§5).
var sqrLUT [256]uint16

func init() {
	for b := 0; b < 256; b++ {
		var v uint16
		for i := 0; i < 8; i++ {
			if b&(1<<uint(i)) != 0 {
				v |= 1 << uint(2*i)
			}
		}
		sqrLUT[b] = v
	}
}

// Sqr squares e using the byte-wise Morton-interleave table, then reduces.
func (e *Elem) Sqr() *Elem {
	out := &Elem{limbs: make([]uint64, 2*len(e.limbs)), mod: e.mod}
	for i, w := range e.limbs {
		for b := 0; b < 8; b++ {
			byteVal := byte(w >> (8 * uint(b)))
			spread := uint64(sqrLUT[byteVal])
			bitPos := i*128 + b*16
			out.limbs[bitPos/64] ^= spread << uint(bitPos%64)
			if bitPos%64+16 > 64 {
				out.limbs[bitPos/64+1] ^= spread >> uint(64-bitPos%64)
			}
		}
	}
	return out.Reduce()
}

// Reduce folds e modulo its sparse modulus, leaving degree < Degree().
func (e *Elem) Reduce() *Elem {
	deg := e.mod.Degree()
	limbWords := (deg + 63) / 64
	for e.Degree() >= deg {
		d := e.Degree()
		shift := d - deg
		// Fold: for every non-zero modulus bit position p, XOR a shifted
		// copy of the top term back at (shift + p).
		for _, p := range e.mod {
			e.xorBit(shift + p)
		}
		e.clearBit(d)
	}
	if len(e.limbs) > limbWords {
		e.limbs = e.limbs[:limbWords]
	}
	return e
}

func (e *Elem) xorBit(pos int) {
	idx := pos / 64
	if idx >= len(e.limbs) {
		grown := make([]uint64, idx+1)
		copy(grown, e.limbs)
		e.limbs = grown
	}
	e.limbs[idx] ^= 1 << uint(pos%64)
}

func (e *Elem) clearBit(pos int) {
	idx := pos / 64
	if idx < len(e.limbs) {
		e.limbs[idx] &^= 1 << uint(pos%64)
	}
}

// IsZero reports whether e is the zero element.
func (e *Elem) IsZero() bool {
	for _, w := range e.limbs {
		if w != 0 {
			return false
		}
	}
	return true
}

// Equal reports coefficient-wise equality.
func (e *Elem) Equal(o *Elem) bool {
	return e.Add(o).IsZero()
}

// Invert computes e^-1 via the extended binary Euclidean algorithm: it
// maintains (u,v,b,c) with u·b ≡ m·c + v (mod m) and iterates while u != 1,
// per §4.5. Returns perr.ErrNonInvertible if gcd(e, modulus) != 1 (only e=0
// triggers this for an irreducible modulus).
func (e *Elem) Invert() (*Elem, error) {
	if e.IsZero() {
		return nil, perr.ErrNonInvertible
	}
	modPoly := modulusAsElem(e.mod)
	u := cloneElem(e)
	v := modPoly
	b := oneElem(e.mod)
	c := NewElem(e.mod)

	for !(u.Degree() == 0 && u.limbs[0] == 1) {
		delta := u.Degree() - v.Degree()
		if delta < 0 {
			u, v = v, u
			b, c = c, b
			delta = -delta
		}
		u = u.xorShifted(v, delta)
		b = b.xorShifted(c, delta)
	}
	return b, nil
}

func (e *Elem) xorShifted(o *Elem, shift int) *Elem {
	shifted := &Elem{limbs: make([]uint64, len(o.limbs)+(shift/64)+1), mod: e.mod}
	for i, w := range o.limbs {
		bitPos := i*64 + shift
		shifted.xorBit2(bitPos, w)
	}
	return e.Add(shifted)
}

// xorBit2 XORs the bits of a whole word w into the element starting at
// absolute bit position base.
func (e *Elem) xorBit2(base int, w uint64) {
	for i := 0; i < 64; i++ {
		if (w>>uint(i))&1 == 1 {
			e.xorBit(base + i)
		}
	}
}

func cloneElem(e *Elem) *Elem {
	out := &Elem{limbs: append([]uint64{}, e.limbs...), mod: e.mod}
	return out
}

func oneElem(mod Modulus) *Elem {
	e := NewElem(mod)
	e.limbs[0] = 1
	return e
}

func modulusAsElem(mod Modulus) *Elem {
	n := (mod.Degree() + 63) / 64
	e := &Elem{limbs: make([]uint64, n+1), mod: mod}
	for _, p := range mod {
		e.limbs[p/64] |= 1 << uint(p%64)
	}
	e.limbs[mod.Degree()/64] |= 1 << uint(mod.Degree()%64)
	return e
}
