// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package polyring implements C6: fixed-length polynomials over Z_q with
// small coefficients, the ring Kyber/Saber/Dilithium build their lattice
// arithmetic on.
package polyring

import "github.com/phantomcrypto/phantom/ntt"

// Ring fixes the (N, q) parameters of a polynomial ring and whatever
// precomputed NTT context lets Mul take the fast path.
type Ring struct {
	N       int
	Q       int64
	nttCtx  *ntt.Context // nil when N isn't NTT-friendly for q
	inv3    int64
	inv9    int64
	inv15   int64
}

// NewRing builds a ring. If N is a power of two and Z_q^* has an element
// of order N, an NTT context is attached and Mul takes the NTT path;
// otherwise Mul falls back to Toom-Cook 4-way.
func NewRing(n int, q int64) *Ring {
	r := &Ring{N: n, Q: q}
	if ctx, ok := ntt.TryNewContext(n, q); ok {
		r.nttCtx = ctx
	}
	r.inv3 = modInverseSmall(3, q)
	r.inv9 = modInverseSmall(9, q)
	r.inv15 = modInverseSmall(15, q)
	return r
}

func modInverseSmall(a, q int64) int64 {
	// Extended Euclid over plain int64s: q is always prime or an
	// odd-small modulus in every parameter set this package serves.
	old_r, r := a, q
	old_s, s := int64(1), int64(0)
	for r != 0 {
		quot := old_r / r
		old_r, r = r, old_r-quot*r
		old_s, s = s, old_s-quot*s
	}
	return ((old_s % q) + q) % q
}

// Poly is a length-N coefficient vector over Z_q, always kept reduced to
// [0, q).
type Poly struct {
	Coeffs []int64
	ring   *Ring
}

// New returns the zero polynomial for the ring.
func (r *Ring) New() *Poly {
	return &Poly{Coeffs: make([]int64, r.N), ring: r}
}

// FromCoeffs copies cs (reducing each entry mod q) into a new Poly.
func (r *Ring) FromCoeffs(cs []int64) *Poly {
	p := r.New()
	for i, c := range cs {
		if i >= r.N {
			break
		}
		p.Coeffs[i] = r.reduce(c)
	}
	return p
}

func (r *Ring) reduce(c int64) int64 {
	c %= r.Q
	if c < 0 {
		c += r.Q
	}
	return c
}

// Add returns p+o coefficient-wise mod q.
func (p *Poly) Add(o *Poly) *Poly {
	out := p.ring.New()
	for i := range out.Coeffs {
		out.Coeffs[i] = p.ring.reduce(p.Coeffs[i] + o.Coeffs[i])
	}
	return out
}

// Sub returns p-o coefficient-wise mod q.
func (p *Poly) Sub(o *Poly) *Poly {
	out := p.ring.New()
	for i := range out.Coeffs {
		out.Coeffs[i] = p.ring.reduce(p.Coeffs[i] - o.Coeffs[i])
	}
	return out
}

// Neg returns -p mod q.
func (p *Poly) Neg() *Poly {
	out := p.ring.New()
	for i := range out.Coeffs {
		out.Coeffs[i] = p.ring.reduce(-p.Coeffs[i])
	}
	return out
}

// ScalarMul multiplies every coefficient by s mod q.
func (p *Poly) ScalarMul(s int64) *Poly {
	out := p.ring.New()
	sr := p.ring.reduce(s)
	for i := range out.Coeffs {
		out.Coeffs[i] = p.ring.reduce(p.Coeffs[i] * sr)
	}
	return out
}

// Center shifts each coefficient into (-q/2, q/2].
func (p *Poly) Center() []int64 {
	out := make([]int64, len(p.Coeffs))
	half := p.ring.Q / 2
	for i, c := range p.Coeffs {
		if c > half {
			c -= p.ring.Q
		}
		out[i] = c
	}
	return out
}

// NormInfinity returns max(|centered coefficient|).
func (p *Poly) NormInfinity() int64 {
	var m int64
	for _, c := range p.Center() {
		if c < 0 {
			c = -c
		}
		if c > m {
			m = c
		}
	}
	return m
}

// NormEuclidean returns sum(c^2) over centered coefficients.
func (p *Poly) NormEuclidean() int64 {
	var s int64
	for _, c := range p.Center() {
		s += c * c
	}
	return s
}

// ScalarProduct returns sum(p[i]*o[i]) over centered coefficients, the
// scalar-product norm used by rejection-sampling bounds checks.
func (p *Poly) ScalarProduct(o *Poly) int64 {
	pc, oc := p.Center(), o.Center()
	var s int64
	for i := range pc {
		s += pc[i] * oc[i]
	}
	return s
}

// Mul multiplies p by o modulo x^N+1, taking the NTT path when available
// and falling back to Toom-Cook 4-way negacyclic multiplication otherwise.
func (p *Poly) Mul(o *Poly) *Poly {
	if p.ring.nttCtx != nil {
		return p.ring.mulNTT(p, o)
	}
	return p.ring.mulToom4(p, o)
}

func (r *Ring) mulNTT(p, o *Poly) *Poly {
	a := r.nttCtx.Forward(append([]int64{}, p.Coeffs...))
	b := r.nttCtx.Forward(append([]int64{}, o.Coeffs...))
	c := make([]int64, r.N)
	for i := 0; i < r.N; i += 2 {
		x0, x1 := r.nttCtx.Basemul(a[i], a[i+1], b[i], b[i+1], i/2)
		c[i], c[i+1] = x0, x1
	}
	res := r.nttCtx.Inverse(c)
	return r.FromCoeffs(res)
}

// mulToom4 implements the spec's seven-point Toom-Cook 4-way schedule:
// evaluate both operands at {0, 1, -1, 2, -1/2, -2, inf}, pointwise
// multiply each evaluation (schoolbook, since each slice has length N/4),
// interpolate via the fixed inverse matrix, then fold the 2N-length
// result modulo x^N+1.
func (r *Ring) mulToom4(p, o *Poly) *Poly {
	n := r.N
	half := n / 4
	pa := splitToom4(p.Coeffs, half)
	pb := splitToom4(o.Coeffs, half)

	points := make([][]int64, 7)
	for i := 0; i < 7; i++ {
		ea := evalToom4(pa, i, r.Q)
		eb := evalToom4(pb, i, r.Q)
		points[i] = r.schoolbookMul(ea, eb)
	}
	full := r.interpolateToom4(points, half)
	return r.FromCoeffs(negacyclicFold(full, n, r.Q))
}

func splitToom4(c []int64, half int) [4][]int64 {
	var out [4][]int64
	for i := 0; i < 4; i++ {
		seg := make([]int64, half)
		copy(seg, c[i*half:(i+1)*half])
		out[i] = seg
	}
	return out
}

// evalToom4 evaluates the degree-3-in-chunks polynomial at one of the
// seven Toom-Cook points, point index i selecting {0,1,-1,2,-1/2,-2,inf}.
func evalToom4(p [4][]int64, i int, q int64) []int64 {
	half := len(p[0])
	out := make([]int64, half)
	switch i {
	case 0: // x = 0
		copy(out, p[0])
	case 1: // x = 1
		for j := 0; j < half; j++ {
			out[j] = modAdd(p[0][j], p[1][j], p[2][j], p[3][j], q)
		}
	case 2: // x = -1
		for j := 0; j < half; j++ {
			out[j] = modAdd(p[0][j], -p[1][j], p[2][j], -p[3][j], q)
		}
	case 3: // x = 2
		for j := 0; j < half; j++ {
			out[j] = modAdd(p[0][j], 2*p[1][j], 4*p[2][j], 8*p[3][j], q)
		}
	case 4: // x = -1/2 (evaluated as 8*p0 - 4*p1 + 2*p2 - p3, unscaled)
		for j := 0; j < half; j++ {
			out[j] = modAdd(8*p[0][j], -4*p[1][j], 2*p[2][j], -p[3][j], q)
		}
	case 5: // x = -2
		for j := 0; j < half; j++ {
			out[j] = modAdd(p[0][j], -2*p[1][j], 4*p[2][j], -8*p[3][j], q)
		}
	case 6: // x = inf
		copy(out, p[3])
	}
	return out
}

func modAdd(a, b, c, d, q int64) int64 {
	s := (a + b + c + d) % q
	if s < 0 {
		s += q
	}
	return s
}

// schoolbookMul multiplies two length-half slices (half = N/4, small for
// every parameter set this package targets) without reduction folding.
func (r *Ring) schoolbookMul(a, b []int64) []int64 {
	out := make([]int64, len(a)+len(b)-1)
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		for j, bj := range b {
			out[i+j] = r.reduce(out[i+j] + ai*bj)
		}
	}
	return out
}

// toom4EvalXs are the evaluation points in the same order evalToom4 fills
// pts[0..6]: 0, 1, -1, 2, -1/2, -2, inf. The "inf" slot is handled
// separately (it hands back the leading coefficient directly), so only
// the first six feed the Vandermonde solve below.
func toom4FiniteXs(q int64) [6]int64 {
	inv2 := modInverseSmall(2, q)
	return [6]int64{0, 1, q - 1, 2, ((q - inv2) % q), q - 2}
}

// interpolateToom4 recovers the 2*segLen-1 coefficients of the product
// polynomial from its values at the seven Toom-Cook points. c6 (the
// x=inf evaluation) is the leading coefficient directly; the remaining
// six coefficients solve a 6x6 Vandermonde system built from the other
// six evaluation points, inverted once per ring via Gaussian elimination
// mod q (§4.6's "division by constants performed via precomputed modular
// inverses" generalized to the full interpolation matrix).
func (r *Ring) interpolateToom4(pts [][]int64, half int) []int64 {
	segLen := len(pts[0])
	xs := toom4FiniteXs(r.Q)
	vinv := r.invertVandermonde(xs)

	// c_k(x) (k=0..6) is a length-segLen coefficient-in-x vector; it
	// contributes to the final polynomial at x^(j + k*half) since the
	// chunk split substitutes y = x^half.
	outLen := 6*half + segLen
	out := make([]int64, outLen)
	// evalToom4 evaluates each operand at -1/2 as 8*p(-1/2), so pts[4]
	// holds 64 times the product's value there.
	inv64 := modInverseSmall(64, r.Q)
	for j := 0; j < segLen; j++ {
		c6 := pts[6][j]
		y := [6]int64{}
		for i := 0; i < 6; i++ {
			xi := xs[i]
			x6 := powModSmall(xi, 6, r.Q)
			v := pts[i][j]
			if i == 4 {
				v = r.reduce(v * inv64)
			}
			y[i] = r.reduce(v - c6*x6)
		}
		var c [6]int64
		for row := 0; row < 6; row++ {
			var acc int64
			for col := 0; col < 6; col++ {
				acc = r.reduce(acc + vinv[row][col]*y[col])
			}
			c[row] = acc
		}
		for k := 0; k < 6; k++ {
			idx := k*half + j
			if idx < outLen {
				out[idx] = r.reduce(out[idx] + c[k])
			}
		}
		idx6 := 6*half + j
		if idx6 < outLen {
			out[idx6] = r.reduce(out[idx6] + c6)
		}
	}
	return out
}

func powModSmall(base, exp, q int64) int64 {
	base = ((base % q) + q) % q
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result = (result * base) % q
		}
		base = (base * base) % q
		exp >>= 1
	}
	return result
}

// invertVandermonde inverts the 6x6 Vandermonde matrix V[i][k] = xs[i]^k
// mod q via Gauss-Jordan elimination, used once per Ring (the points are
// fixed by q, independent of the data being multiplied).
func (r *Ring) invertVandermonde(xs [6]int64) [6][6]int64 {
	var v [6][12]int64
	for i := 0; i < 6; i++ {
		p := int64(1)
		for k := 0; k < 6; k++ {
			v[i][k] = p
			p = (p * xs[i]) % r.Q
		}
		v[i][6+i] = 1
	}
	for col := 0; col < 6; col++ {
		pivot := -1
		for row := col; row < 6; row++ {
			if v[row][col] != 0 {
				pivot = row
				break
			}
		}
		v[col], v[pivot] = v[pivot], v[col]
		invPivot := modInverseSmall(v[col][col], r.Q)
		for k := 0; k < 12; k++ {
			v[col][k] = (v[col][k] * invPivot) % r.Q
		}
		for row := 0; row < 6; row++ {
			if row == col || v[row][col] == 0 {
				continue
			}
			factor := v[row][col]
			for k := 0; k < 12; k++ {
				v[row][k] = r.reduce(v[row][k] - factor*v[col][k])
			}
		}
	}
	var out [6][6]int64
	for i := 0; i < 6; i++ {
		for k := 0; k < 6; k++ {
			out[i][k] = v[i][6+k]
		}
	}
	return out
}

// negacyclicFold reduces a 2N-length (or shorter) coefficient vector
// modulo x^N+1 by subtracting the upper half from the lower half, per §4.6.
func negacyclicFold(c []int64, n int, q int64) []int64 {
	out := make([]int64, n)
	for i, v := range c {
		if i < n {
			out[i] = (out[i] + v) % q
		} else {
			out[i-n] = (out[i-n] - v) % q
		}
	}
	for i := range out {
		out[i] = ((out[i] % q) + q) % q
	}
	return out
}
