// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package dilithium implements C19: the Dilithium lattice-based
// signature scheme — key generation, the rejection-restart signing loop,
// and verification — built on polyring and the shared samplers.
package dilithium

import (
	"github.com/phantomcrypto/phantom/csprng"
	"github.com/phantomcrypto/phantom/hash"
	"github.com/phantomcrypto/phantom/perr"
	"github.com/phantomcrypto/phantom/polyring"
	"github.com/phantomcrypto/phantom/sampler"
)

// Params fixes a Dilithium security level.
type Params struct {
	N              int
	Q              int64
	K, L           int
	Eta            int
	Tau            int
	Gamma1, Gamma2 int64
	Beta           int64
	Omega          int
}

// Dilithium2 is the lowest NIST security level (K=4, L=4).
func Dilithium2() Params {
	return Params{
		N: 256, Q: 8380417,
		K: 4, L: 4,
		Eta: 2, Tau: 39,
		Gamma1: 1 << 17, Gamma2: (8380417 - 1) / 88,
		Beta: 78, Omega: 80,
	}
}

func ring(p Params) *polyring.Ring { return polyring.NewRing(p.N, p.Q) }

// expandMatrix derives the public KxL matrix A from rho by rejection
// sampling 23-bit chunks. Dilithium's modulus exceeds the 16-bit range
// sampler.UniformMod's 2-byte reads cover, so this package reads 3-byte
// chunks directly rather than reusing that helper.
func expandMatrix(r *polyring.Ring, p Params, rho []byte) [][]*polyring.Poly {
	a := make([][]*polyring.Poly, p.K)
	for i := 0; i < p.K; i++ {
		a[i] = make([]*polyring.Poly, p.L)
		for j := 0; j < p.L; j++ {
			a[i][j] = r.FromCoeffs(rejectUniform(p, rho, byte(i), byte(j)))
		}
	}
	return a
}

func rejectUniform(p Params, rho []byte, i, j byte) []int64 {
	h := hash.New(hash.SHAKE128)
	_ = h.Init(128)
	h.Update(rho)
	h.Update([]byte{j, i})
	out := make([]int64, 0, p.N)
	buf := make([]byte, 3*2*p.N)
	h.Squeeze(buf, len(buf))
	pos := 0
	for len(out) < p.N {
		if pos+3 > len(buf) {
			more := make([]byte, 3*p.N)
			h.Squeeze(more, len(more))
			buf = append(buf, more...)
		}
		v := int64(buf[pos]) | int64(buf[pos+1])<<8 | int64(buf[pos+2])<<16
		pos += 3
		v &= (1 << 23) - 1
		if v < p.Q {
			out = append(out, v)
		}
	}
	return out
}

func sampleEtaPoly(r *polyring.Ring, p Params, seed []byte, nonce uint16) *polyring.Poly {
	h := hash.New(hash.SHAKE256)
	_ = h.Init(256)
	h.Update(seed)
	h.Update([]byte{byte(nonce), byte(nonce >> 8)})
	stream := make([]byte, p.N)
	h.Squeeze(stream, len(stream))
	return r.FromCoeffs(sampler.UniformSmall(stream, p.Eta, p.N))
}

// PublicKey is (rho, t1): the matrix seed and the high bits of t.
type PublicKey struct {
	Rho []byte
	T1  []*polyring.Poly
}

// PrivateKey carries every field needed for signing: the matrix seed, the
// secret vectors, and both halves of t.
type PrivateKey struct {
	Rho []byte
	K   []byte
	Tr  []byte
	S1  []*polyring.Poly // length L
	S2  []*polyring.Poly // length K
	T0  []*polyring.Poly // length K
}

// power2Round splits a coefficient c into (a1, a0) with c = a1*2^d + a0 and
// a0 in (-2^(d-1), 2^(d-1)].
func power2Round(r *polyring.Ring, p *polyring.Poly, d int) (hi, lo *polyring.Poly) {
	hiC := make([]int64, len(p.Coeffs))
	loC := make([]int64, len(p.Coeffs))
	half := int64(1) << uint(d-1)
	mod := int64(1) << uint(d)
	for i, c := range p.Coeffs {
		a1 := (c + half - 1) >> uint(d)
		a0 := c - a1*mod
		if a0 > half {
			a0 -= mod
			a1++
		}
		hiC[i] = a1
		loC[i] = a0
	}
	return r.FromCoeffs(hiC), r.FromCoeffs(loC)
}

// KeyGen derives (pk, sk) from entropy drawn from rng.
func KeyGen(p Params, rng *csprng.DRBG) (*PublicKey, *PrivateKey, error) {
	rho := make([]byte, 32)
	rhoPrime := make([]byte, 64)
	kSeed := make([]byte, 32)
	if err := rng.GetMem(rho, 32); err != nil {
		return nil, nil, err
	}
	if err := rng.GetMem(rhoPrime, 64); err != nil {
		return nil, nil, err
	}
	if err := rng.GetMem(kSeed, 32); err != nil {
		return nil, nil, err
	}
	return keyGenFromSeeds(p, rho, rhoPrime, kSeed)
}

func keyGenFromSeeds(p Params, rho, rhoPrime, kSeed []byte) (*PublicKey, *PrivateKey, error) {
	r := ring(p)
	a := expandMatrix(r, p, rho)

	s1 := make([]*polyring.Poly, p.L)
	for i := 0; i < p.L; i++ {
		s1[i] = sampleEtaPoly(r, p, rhoPrime, uint16(i))
	}
	s2 := make([]*polyring.Poly, p.K)
	for i := 0; i < p.K; i++ {
		s2[i] = sampleEtaPoly(r, p, rhoPrime, uint16(p.L+i))
	}

	t := make([]*polyring.Poly, p.K)
	for i := 0; i < p.K; i++ {
		acc := r.New()
		for j := 0; j < p.L; j++ {
			acc = acc.Add(a[i][j].Mul(s1[j]))
		}
		t[i] = acc.Add(s2[i])
	}

	t1 := make([]*polyring.Poly, p.K)
	t0 := make([]*polyring.Poly, p.K)
	for i := 0; i < p.K; i++ {
		t1[i], t0[i] = power2Round(r, t[i], 13)
	}

	tr := hashBytes(32, rho, serializePolys(t1))
	pk := &PublicKey{Rho: rho, T1: t1}
	sk := &PrivateKey{Rho: rho, K: kSeed, Tr: tr, S1: s1, S2: s2, T0: t0}
	return pk, sk, nil
}

func hashBytes(outBytes int, parts ...[]byte) []byte {
	h := hash.New(hash.SHAKE256)
	_ = h.Init(256)
	for _, part := range parts {
		h.Update(part)
	}
	out := make([]byte, outBytes)
	h.Squeeze(out, outBytes)
	return out
}

func serializePolys(ps []*polyring.Poly) []byte {
	out := make([]byte, 0, len(ps)*768)
	for _, p := range ps {
		for _, c := range p.Coeffs {
			out = append(out, byte(c), byte(c>>8), byte(c>>16))
		}
	}
	return out
}

// expandMask derives the signing round's masking vector y from seed and
// the rejection counter kappa, uniform over [-gamma1+1, gamma1].
func expandMask(r *polyring.Ring, p Params, seed []byte, kappa int) []*polyring.Poly {
	y := make([]*polyring.Poly, p.L)
	bound := uint64(2*p.Gamma1 - 1)
	bits := 0
	for (uint64(1) << uint(bits)) < bound+1 {
		bits++
	}
	bytesPerCoeff := (bits + 7) / 8
	for i := 0; i < p.L; i++ {
		h := hash.New(hash.SHAKE256)
		_ = h.Init(256)
		h.Update(seed)
		nonce := uint16(kappa + i)
		h.Update([]byte{byte(nonce), byte(nonce >> 8)})
		stream := make([]byte, bytesPerCoeff*p.N*2)
		h.Squeeze(stream, len(stream))
		coeffs := make([]int64, 0, p.N)
		pos := 0
		for len(coeffs) < p.N {
			if pos+bytesPerCoeff > len(stream) {
				more := make([]byte, bytesPerCoeff*p.N)
				h.Squeeze(more, len(more))
				stream = append(stream, more...)
			}
			var v int64
			for b := 0; b < bytesPerCoeff; b++ {
				v |= int64(stream[pos+b]) << uint(8*b)
			}
			pos += bytesPerCoeff
			v &= (int64(1) << uint(bits)) - 1
			if uint64(v) <= bound {
				coeffs = append(coeffs, p.Gamma1-v)
			}
		}
		y[i] = r.FromCoeffs(coeffs)
	}
	return y
}

// decompose splits a coefficient mod q into (a1, a0) per Dilithium's
// Decompose: a0 is the centered remainder mod 2*gamma2 and a1 the quotient,
// with the a-a0 == q-1 edge case mapped to a1 = 0. One generic path serves
// every gamma2.
func decompose(r64, q, gamma2 int64) (int64, int64) {
	a := ((r64 % q) + q) % q
	a0 := centered(a, 2*gamma2)
	a1 := a - a0
	if a1 == q-1 {
		a1 = 0
		a0 = a0 - 1
	} else {
		a1 = a1 / (2 * gamma2)
	}
	return a1, a0
}

// centered reduces a modulo m to the representative in (-m/2, m/2].
func centered(a, m int64) int64 {
	r := a % m
	if r > m/2 {
		r -= m
	}
	return r
}

func decomposePoly(p *polyring.Poly, q, gamma2 int64) (hi, lo []int64) {
	hi = make([]int64, len(p.Coeffs))
	lo = make([]int64, len(p.Coeffs))
	for i, c := range p.Coeffs {
		hi[i], lo[i] = decompose(c, q, gamma2)
	}
	return hi, lo
}

func highBitsPoly(p *polyring.Poly, q, gamma2 int64) []int64 {
	hi, _ := decomposePoly(p, q, gamma2)
	return hi
}

// makeHint reports whether the high bits of (a+e) differ from those of a;
// when they do, the hint bit must be carried to let the verifier recover
// the correct high bits from z and the hint alone.
func makeHint(e, a int64, q, gamma2 int64) bool {
	h1, _ := decompose((a+e)%q, q, gamma2)
	h0, _ := decompose(a, q, gamma2)
	return h1 != h0
}

func makeHintPoly(e, a *polyring.Poly, q, gamma2 int64) ([]bool, int) {
	out := make([]bool, len(a.Coeffs))
	count := 0
	for i := range a.Coeffs {
		out[i] = makeHint(e.Coeffs[i], a.Coeffs[i], q, gamma2)
		if out[i] {
			count++
		}
	}
	return out, count
}

// useHint recovers the high bits of r+z given z's own high/low split and
// the hint bit, per Dilithium's UseHint.
func useHint(hint bool, r, q, gamma2 int64) int64 {
	a1, a0 := decompose(r, q, gamma2)
	if !hint {
		return a1
	}
	m := (q - 1) / (2 * gamma2)
	if a0 > 0 {
		return (a1 + 1) % m
	}
	return (a1 - 1 + m) % m
}

// sampleInBall derives the degree-N challenge polynomial with exactly Tau
// coefficients set to +-1 and the rest zero, via a Fisher-Yates shuffle of
// position/sign bits drawn from a SHAKE256 stream seeded with c-tilde.
func sampleInBall(p Params, seed []byte) *polyring.Poly {
	h := hash.New(hash.SHAKE256)
	_ = h.Init(256)
	h.Update(seed)
	signBytes := make([]byte, 8)
	h.Squeeze(signBytes, 8)
	var signBits uint64
	for i, b := range signBytes {
		signBits |= uint64(b) << uint(8*i)
	}
	coeffs := make([]int64, p.N)
	extra := make([]byte, p.N)
	h.Squeeze(extra, len(extra))
	pos := 0
	for i := p.N - p.Tau; i < p.N; i++ {
		var j int
		for {
			if pos >= len(extra) {
				more := make([]byte, p.N)
				h.Squeeze(more, len(more))
				extra = append(extra, more...)
			}
			j = int(extra[pos])
			pos++
			if j <= i {
				break
			}
		}
		coeffs[i] = coeffs[j]
		sign := int64(1)
		if signBits&1 == 1 {
			sign = -1
		}
		signBits >>= 1
		coeffs[j] = sign
	}
	return polyring.NewRing(p.N, p.Q).FromCoeffs(coeffs)
}

func scalarVecMul(c *polyring.Poly, v []*polyring.Poly) []*polyring.Poly {
	out := make([]*polyring.Poly, len(v))
	for i, p := range v {
		out[i] = c.Mul(p)
	}
	return out
}

func addVec(a, b []*polyring.Poly) []*polyring.Poly {
	out := make([]*polyring.Poly, len(a))
	for i := range a {
		out[i] = a[i].Add(b[i])
	}
	return out
}

func subVec(a, b []*polyring.Poly) []*polyring.Poly {
	out := make([]*polyring.Poly, len(a))
	for i := range a {
		out[i] = a[i].Sub(b[i])
	}
	return out
}

func vecNormInfinity(v []*polyring.Poly) int64 {
	var max int64
	for _, p := range v {
		if n := p.NormInfinity(); n > max {
			max = n
		}
	}
	return max
}

// Signature is (z, h, cTilde): the masked response vector, the carried
// hints, and the challenge seed.
type Signature struct {
	Z      []*polyring.Poly
	Hints  [][]bool
	CTilde []byte
}

const maxSignAttempts = 1000

// Sign runs Dilithium's rejection-restart signing loop over the digest of
// the message, returning once z, r0 and c*t0 all land within their bounds
// and the hint count is at most Omega.
func Sign(p Params, sk *PrivateKey, pk *PublicKey, msg []byte) (*Signature, error) {
	r := ring(p)
	a := expandMatrix(r, p, sk.Rho)
	mu := hashBytes(64, sk.Tr, msg)
	rhoPrimeSeed := hashBytes(64, sk.K, mu)

	for kappa := 0; kappa < maxSignAttempts*p.L; kappa += p.L {
		sig, err := attemptSign(r, a, p, sk, pk, mu, rhoPrimeSeed, kappa)
		if perr.IsRejectionRestart(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return sig, nil
	}
	return nil, perr.ErrInvalidParameterSet
}

func attemptSign(r *polyring.Ring, a [][]*polyring.Poly, p Params, sk *PrivateKey, pk *PublicKey, mu, rhoPrimeSeed []byte, kappa int) (*Signature, error) {
	y := expandMask(r, p, rhoPrimeSeed, kappa)

	w := make([]*polyring.Poly, p.K)
	for i := 0; i < p.K; i++ {
		acc := r.New()
		for j := 0; j < p.L; j++ {
			acc = acc.Add(a[i][j].Mul(y[j]))
		}
		w[i] = acc
	}

	w1 := make([]int64, 0, p.K*p.N)
	for i := 0; i < p.K; i++ {
		w1 = append(w1, highBitsPoly(w[i], p.Q, p.Gamma2)...)
	}
	w1Bytes := make([]byte, len(w1))
	for i, v := range w1 {
		w1Bytes[i] = byte(v)
	}
	cTilde := hashBytes(32, mu, w1Bytes)
	c := sampleInBall(p, cTilde)

	cs1 := scalarVecMul(c, sk.S1)
	z := addVec(y, cs1)
	if vecNormInfinity(z) >= p.Gamma1-p.Beta {
		return nil, perr.RejectionRestart()
	}

	cs2 := scalarVecMul(c, sk.S2)
	rVec := subVec(w, cs2)
	_, r0 := decomposeVecLow(rVec, p.Q, p.Gamma2, r)
	if vecNormInfinity(r0) >= p.Gamma2-p.Beta {
		return nil, perr.RejectionRestart()
	}

	ct0 := scalarVecMul(c, sk.T0)
	if vecNormInfinity(ct0) >= p.Gamma2 {
		return nil, perr.RejectionRestart()
	}

	hints := make([][]bool, p.K)
	totalHints := 0
	for i := 0; i < p.K; i++ {
		h, cnt := makeHintPoly(ct0[i], rVec[i], p.Q, p.Gamma2)
		hints[i] = h
		totalHints += cnt
	}
	if totalHints > p.Omega {
		return nil, perr.RejectionRestart()
	}

	return &Signature{Z: z, Hints: hints, CTilde: cTilde}, nil
}

func decomposeVecLow(v []*polyring.Poly, q, gamma2 int64, r *polyring.Ring) ([]*polyring.Poly, []*polyring.Poly) {
	hi := make([]*polyring.Poly, len(v))
	lo := make([]*polyring.Poly, len(v))
	for i, p := range v {
		h, l := decomposePoly(p, q, gamma2)
		hi[i] = r.FromCoeffs(h)
		lo[i] = r.FromCoeffs(l)
	}
	return hi, lo
}

// Verify checks that sig was produced over msg under pk.
func Verify(p Params, pk *PublicKey, msg []byte, sig *Signature) (bool, error) {
	if vecNormInfinity(sig.Z) >= p.Gamma1-p.Beta {
		return false, nil
	}
	r := ring(p)
	a := expandMatrix(r, p, pk.Rho)
	c := sampleInBall(p, sig.CTilde)

	tr := hashBytes(32, pk.Rho, serializePolys(pk.T1))
	mu := hashBytes(64, tr, msg)

	az := make([]*polyring.Poly, p.K)
	for i := 0; i < p.K; i++ {
		acc := r.New()
		for j := 0; j < p.L; j++ {
			acc = acc.Add(a[i][j].Mul(sig.Z[j]))
		}
		az[i] = acc
	}

	ct1 := make([]*polyring.Poly, p.K)
	for i := 0; i < p.K; i++ {
		shifted := make([]int64, p.N)
		for k, v := range pk.T1[i].Coeffs {
			shifted[k] = v << 13
		}
		ct1[i] = c.Mul(r.FromCoeffs(shifted))
	}

	wApprox := make([]*polyring.Poly, p.K)
	for i := 0; i < p.K; i++ {
		wApprox[i] = az[i].Sub(ct1[i])
	}

	w1 := make([]int64, 0, p.K*p.N)
	for i := 0; i < p.K; i++ {
		for j := 0; j < p.N; j++ {
			w1 = append(w1, useHint(sig.Hints[i][j], wApprox[i].Coeffs[j], p.Q, p.Gamma2))
		}
	}
	w1Bytes := make([]byte, len(w1))
	for i, v := range w1 {
		w1Bytes[i] = byte(v)
	}
	cTildePrime := hashBytes(32, mu, w1Bytes)

	if len(cTildePrime) != len(sig.CTilde) {
		return false, nil
	}
	match := true
	for i := range cTildePrime {
		if cTildePrime[i] != sig.CTilde[i] {
			match = false
		}
	}
	return match, nil
}
