// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ntt implements C7: a number-theoretic transform engine
// parametric in (N, q), used by polyring to multiply negacyclic
// polynomials in O(N log N) instead of falling back to Toom-Cook.
package ntt

// Context holds the precomputed twiddle table for one (N, q) pair. The
// transform is the Kyber-style "incomplete" NTT: it stops one layer short
// of scalars, leaving N/2 degree-1 blocks mod (x^2 - zeta_i), because q is
// only guaranteed to carry a primitive N-th root of unity, not a 2N-th
// one.
type Context struct {
	n            int
	q            int64
	zetas        []int64 // layer twiddles, 1-indexed, length n/2
	basemulZetas []int64 // per final-pair twiddle, length n/2
	nInv         int64
}

// TryNewContext builds an NTT context for (n, q) iff n is a power of two
// and q admits an element of exact multiplicative order n (i.e. n | q-1
// and that order isn't achieved by a smaller divisor). Returns ok=false
// when no such context can be built, signalling polyring to fall back to
// Toom-Cook.
func TryNewContext(n int, q int64) (*Context, bool) {
	if n < 4 || n&(n-1) != 0 {
		return nil, false
	}
	if (q-1)%int64(n) != 0 {
		return nil, false
	}
	root, ok := findElementOfOrder(int64(n), q)
	if !ok {
		return nil, false
	}
	return buildContext(n, q, root), true
}

func buildContext(n int, q, zeta int64) *Context {
	half := n / 2
	l := bitLen(half - 1) // bits needed for indices 0..half-1
	if half == 1 {
		l = 0
	}
	c := &Context{n: n, q: q}

	c.zetas = make([]int64, half)
	for k := 1; k < half; k++ {
		c.zetas[k] = powMod(zeta, int64(bitReverse(k, l)), q)
	}

	c.basemulZetas = make([]int64, half)
	for i := 0; i < half; i++ {
		exp := 2*int64(bitReverse(i, l)) + 1
		c.basemulZetas[i] = powMod(zeta, exp, q)
	}

	c.nInv = modInverse(int64(half), q)
	return c
}

func bitLen(x int) int {
	n := 0
	for x > 0 {
		x >>= 1
		n++
	}
	return n
}

func bitReverse(x, bits int) int {
	r := 0
	for i := 0; i < bits; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}

func powMod(base, exp, q int64) int64 {
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

func modInverse(a, q int64) int64 {
	oldR, r := a, q
	oldS, s := int64(1), int64(0)
	for r != 0 {
		quot := oldR / r
		oldR, r = r, oldR-quot*r
		oldS, s = s, oldS-quot*s
	}
	return ((oldS % q) + q) % q
}

// findElementOfOrder returns an element of Z_q^* of exact multiplicative
// order n, by locating a generator of the full group (brute-force over
// small candidates, acceptable since this only runs once at context
// construction) and raising it to (q-1)/n.
func findElementOfOrder(n, q int64) (int64, bool) {
	qm1 := q - 1
	factors := primeFactors(qm1)
	for g := int64(2); g < q; g++ {
		isGenerator := true
		for _, p := range factors {
			if powMod(g, qm1/p, q) == 1 {
				isGenerator = false
				break
			}
		}
		if isGenerator {
			return powMod(g, qm1/n, q), true
		}
	}
	return 0, false
}

func primeFactors(x int64) []int64 {
	var fs []int64
	d := int64(2)
	for d*d <= x {
		if x%d == 0 {
			fs = append(fs, d)
			for x%d == 0 {
				x /= d
			}
		}
		d++
	}
	if x > 1 {
		fs = append(fs, x)
	}
	return fs
}

func (c *Context) reduce(x int64) int64 {
	x %= c.q
	if x < 0 {
		x += c.q
	}
	return x
}

// Forward runs the Cooley-Tukey forward NTT in place on a (length n),
// stopping at length-2 blocks, and returns it.
func (c *Context) Forward(a []int64) []int64 {
	k := 1
	for length := c.n / 2; length >= 2; length /= 2 {
		for start := 0; start < c.n; start += 2 * length {
			zeta := c.zetas[k]
			k++
			for j := start; j < start+length; j++ {
				t := c.reduce(zeta * a[j+length])
				a[j+length] = c.reduce(a[j] - t)
				a[j] = c.reduce(a[j] + t)
			}
		}
	}
	return a
}

// Inverse runs the Gentleman-Sande inverse NTT in place on a (length n)
// and scales the result by (N/2)^-1 (the transform stops at length-2
// blocks, so it has log2(N)-1 layers), returning it.
func (c *Context) Inverse(a []int64) []int64 {
	k := c.n/2 - 1
	for length := 2; length <= c.n/2; length *= 2 {
		for start := 0; start < c.n; start += 2 * length {
			zeta := c.zetas[k]
			k--
			for j := start; j < start+length; j++ {
				t := a[j]
				a[j] = c.reduce(t + a[j+length])
				a[j+length] = c.reduce(zeta * c.reduce(a[j+length]-t))
			}
		}
	}
	for i := range a {
		a[i] = c.reduce(a[i] * c.nInv)
	}
	return a
}

// Basemul multiplies the degree-1 polynomials (a0+a1*x) and (b0+b1*x)
// modulo (x^2 - zeta), zeta drawn from the per-pair twiddle table by
// pairIndex, and returns the resulting degree-1 polynomial's coefficients.
func (c *Context) Basemul(a0, a1, b0, b1 int64, pairIndex int) (int64, int64) {
	zeta := c.basemulZetas[pairIndex]
	c0 := c.reduce(c.reduce(a0*b0) + c.reduce(zeta*c.reduce(a1*b1)))
	c1 := c.reduce(c.reduce(a0*b1) + c.reduce(a1*b0))
	return c0, c1
}

// MulAccMont computes A*B for a k x l matrix A of ring elements (each a
// length-n coefficient slice already in NTT domain) and an l-vector B,
// returning a length-k vector of NTT-domain sums. Named per the spec's
// mul_acc_mont; this package's NTT domain is not Montgomery-scaled, so the
// accumulation is the plain modular analogue.
func (c *Context) MulAccMont(a [][][]int64, b [][]int64) [][]int64 {
	k := len(a)
	out := make([][]int64, k)
	for i := 0; i < k; i++ {
		acc := make([]int64, c.n)
		for l := range a[i] {
			for idx := 0; idx < c.n; idx += 2 {
				x0, x1 := c.Basemul(a[i][l][idx], a[i][l][idx+1], b[l][idx], b[l][idx+1], idx/2)
				acc[idx] = c.reduce(acc[idx] + x0)
				acc[idx+1] = c.reduce(acc[idx+1] + x1)
			}
		}
		out[i] = acc
	}
	return out
}
