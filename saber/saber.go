// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package saber implements C18: the Saber lattice-based IND-CPA
// encryption scheme and its KEM wrapper. Unlike kyber, Saber's modulus is
// a power of two (no primitive root of unity exists), so polyring's ring
// for these parameters always takes the Toom-Cook 4-way multiplication
// path rather than NTT.
package saber

import (
	"github.com/phantomcrypto/phantom/csprng"
	"github.com/phantomcrypto/phantom/ct"
	"github.com/phantomcrypto/phantom/hash"
	"github.com/phantomcrypto/phantom/perr"
	"github.com/phantomcrypto/phantom/polyring"
	"github.com/phantomcrypto/phantom/sampler"
)

// Params fixes Saber's size class: modulus q and rounding modulus p are
// powers of two (Q=2^EQ, P=2^EP), n=256 always, Mu is the CBD width.
type Params struct {
	N        int
	EQ, EP   int // Q = 1<<EQ, P = 1<<EP
	T        int // T = 1<<ET, the ciphertext rounding modulus
	ET       int
	K        int
	Mu       int
}

// Saber is the recommended-security parameter set (LightSaber-class
// dimensions are obtained by lowering K and Mu).
func Saber() Params {
	return Params{N: 256, EQ: 13, EP: 10, ET: 4, K: 3, Mu: 8}
}

func q(p Params) int64 { return int64(1) << uint(p.EQ) }
func modP(p Params) int64 { return int64(1) << uint(p.EP) }

func ring(p Params) *polyring.Ring { return polyring.NewRing(p.N, q(p)) }

func xofStream(seed, extra []byte, n int) []byte {
	h := hash.New(hash.SHAKE128)
	_ = h.Init(128)
	h.Update(seed)
	h.Update(extra)
	out := make([]byte, n)
	h.Squeeze(out, n)
	return out
}

// expandMatrix derives the public KxK matrix A from seedA, with
// coefficients uniform mod Q (a power of two, so no rejection is needed:
// every 13-bit chunk is already in range).
func expandMatrix(r *polyring.Ring, p Params, seedA []byte) [][]*polyring.Poly {
	a := make([][]*polyring.Poly, p.K)
	mask := q(p) - 1
	for i := 0; i < p.K; i++ {
		a[i] = make([]*polyring.Poly, p.K)
		for j := 0; j < p.K; j++ {
			stream := xofStream(seedA, []byte{byte(i), byte(j)}, 2*p.N)
			coeffs := make([]int64, p.N)
			for k := 0; k < p.N; k++ {
				v := int64(stream[2*k]) | int64(stream[2*k+1])<<8
				coeffs[k] = v & mask
			}
			a[i][j] = r.FromCoeffs(coeffs)
		}
	}
	return a
}

func sampleCBDPoly(r *polyring.Ring, p Params, seed []byte, nonce byte) *polyring.Poly {
	h := hash.New(hash.SHAKE128)
	_ = h.Init(128)
	h.Update(seed)
	h.Update([]byte{nonce})
	stream := make([]byte, p.Mu*p.N/4+8)
	h.Squeeze(stream, len(stream))
	return r.FromCoeffs(sampler.CBD(stream, p.Mu, p.N))
}

// PublicKey is (seedA, b): the matrix seed and the rounded product vector.
type PublicKey struct {
	SeedA []byte
	B     [][]int64 // each row rounded to P
}

// PrivateKey is the secret vector s.
type PrivateKey struct {
	S []*polyring.Poly
}

func roundShift(v int64, fromBits, toBits int) int64 {
	shift := uint(fromBits - toBits)
	return (v + (1 << (shift - 1))) >> shift
}

func roundPolyTo(p *polyring.Poly, fromBits, toBits int) []int64 {
	out := make([]int64, len(p.Coeffs))
	mask := (int64(1) << uint(toBits)) - 1
	for i, c := range p.Coeffs {
		out[i] = roundShift(c, fromBits, toBits) & mask
	}
	return out
}

// KeyGen derives a Saber key pair from random seedA and seedS.
func KeyGen(p Params, rng *csprng.DRBG) (*PublicKey, *PrivateKey, error) {
	seedA := make([]byte, 32)
	seedS := make([]byte, 32)
	if err := rng.GetMem(seedA, 32); err != nil {
		return nil, nil, err
	}
	if err := rng.GetMem(seedS, 32); err != nil {
		return nil, nil, err
	}
	return keyGenFromSeeds(p, seedA, seedS)
}

func keyGenFromSeeds(p Params, seedA, seedS []byte) (*PublicKey, *PrivateKey, error) {
	r := ring(p)
	a := expandMatrix(r, p, seedA)
	s := make([]*polyring.Poly, p.K)
	for i := 0; i < p.K; i++ {
		s[i] = sampleCBDPoly(r, p, seedS, byte(i))
	}
	b := make([][]int64, p.K)
	for i := 0; i < p.K; i++ {
		acc := r.New()
		for j := 0; j < p.K; j++ {
			acc = acc.Add(a[j][i].Mul(s[j]))
		}
		b[i] = roundPolyTo(acc, p.EQ, p.EP)
	}
	return &PublicKey{SeedA: seedA, B: b}, &PrivateKey{S: s}, nil
}

// Ciphertext is the rounded (b', c) pair.
type Ciphertext struct {
	BPrime [][]int64
	C      []int64
}

// Encrypt runs IND-CPA encryption of a 32-byte message under seedS'.
func Encrypt(p Params, pk *PublicKey, msg, coins []byte) (*Ciphertext, error) {
	if len(msg) != 32 {
		return nil, perr.ErrInvalidParameterSet
	}
	r := ring(p)
	a := expandMatrix(r, p, pk.SeedA)

	sPrime := make([]*polyring.Poly, p.K)
	for i := 0; i < p.K; i++ {
		sPrime[i] = sampleCBDPoly(r, p, coins, byte(i))
	}

	bPrime := make([][]int64, p.K)
	for i := 0; i < p.K; i++ {
		acc := r.New()
		for j := 0; j < p.K; j++ {
			acc = acc.Add(a[i][j].Mul(sPrime[j]))
		}
		bPrime[i] = roundPolyTo(acc, p.EQ, p.EP)
	}

	// <b, s'> is computed in the ring's full Q-bit modulus rather than
	// reducing to P bits first; since b's entries are already < P < Q this
	// stays an exact extension of the canonical mod-P inner product.
	v := r.New()
	for i := 0; i < p.K; i++ {
		bPoly := r.FromCoeffs(pk.B[i])
		v = v.Add(bPoly.Mul(sPrime[i]))
	}
	mPoly := encodeMessage(r, p, msg)
	scaled := v.Add(mPoly)

	c := make([]int64, p.N)
	for i, val := range scaled.Coeffs {
		c[i] = roundShift(val, p.EP, p.ET) & ((int64(1) << uint(p.ET)) - 1)
	}

	return &Ciphertext{BPrime: bPrime, C: c}, nil
}

// Decrypt recovers the 32-byte message.
func Decrypt(p Params, sk *PrivateKey, cph *Ciphertext) []byte {
	r := ring(p)
	bPrime := make([]*polyring.Poly, p.K)
	for i := range cph.BPrime {
		unrounded := make([]int64, p.N)
		for j, v := range cph.BPrime[i] {
			unrounded[j] = v << uint(p.EQ-p.EP)
		}
		bPrime[i] = r.FromCoeffs(unrounded)
	}
	acc := r.New()
	for i := 0; i < p.K; i++ {
		acc = acc.Add(bPrime[i].Mul(sk.S[i]))
	}
	cUnrounded := make([]int64, p.N)
	for i, v := range cph.C {
		cUnrounded[i] = v << uint(p.EP-p.ET)
	}
	half := int64(1) << uint(p.EP-1)
	out := make([]byte, p.N/8)
	for i := 0; i < p.N; i++ {
		diff := (cUnrounded[i] - acc.Coeffs[i]) % modP(p)
		if diff < 0 {
			diff += modP(p)
		}
		dist := diff - half
		if dist < 0 {
			dist = -dist
		}
		if dist >= half/2 {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

func encodeMessage(r *polyring.Ring, p Params, msg []byte) *polyring.Poly {
	half := int64(1) << uint(p.EP-1)
	coeffs := make([]int64, p.N)
	for i := 0; i < p.N; i++ {
		bit := (msg[i/8] >> uint(i%8)) & 1
		if bit == 1 {
			coeffs[i] = half
		}
	}
	return r.FromCoeffs(coeffs)
}

// Encapsulate runs the FO-style KEM transform over Saber's CPA scheme.
func Encapsulate(p Params, pk *PublicKey, rng *csprng.DRBG) (*Ciphertext, []byte, error) {
	m := make([]byte, 32)
	if err := rng.GetMem(m, 32); err != nil {
		return nil, nil, err
	}
	return encapsulateWithMessage(p, pk, m)
}

func encapsulateWithMessage(p Params, pk *PublicKey, m []byte) (*Ciphertext, []byte, error) {
	coins := deriveCoins(pk.SeedA, m)
	cph, err := Encrypt(p, pk, m, coins)
	if err != nil {
		return nil, nil, err
	}
	k := deriveSharedSecret(m, serializeCiphertext(cph))
	return cph, k, nil
}

// Decapsulate re-derives coins from the decrypted message, re-encrypts,
// and falls back to a z-derived secret on mismatch, in constant time.
func Decapsulate(p Params, sk *PrivateKey, pk *PublicKey, z []byte, cph *Ciphertext) ([]byte, error) {
	mPrime := Decrypt(p, sk, cph)
	coinsPrime := deriveCoins(pk.SeedA, mPrime)
	cphPrime, err := Encrypt(p, pk, mPrime, coinsPrime)
	if err != nil {
		return nil, err
	}
	serialized := serializeCiphertext(cph)
	serializedPrime := serializeCiphertext(cphPrime)
	match := ct.Eq(serialized, serializedPrime)

	fallback := deriveSharedSecret(z, serialized)
	success := deriveSharedSecret(mPrime, serializedPrime)
	out := make([]byte, len(success))
	cond := 0
	if match {
		cond = 1
	}
	ct.Select(cond, out, fallback, success)
	return out, nil
}

func deriveCoins(seedA, m []byte) []byte {
	h := hash.New(hash.SHAKE128)
	_ = h.Init(128)
	h.Update(seedA)
	h.Update(m)
	out := make([]byte, 32)
	h.Squeeze(out, 32)
	return out
}

func deriveSharedSecret(m, c []byte) []byte {
	h := hash.New(hash.SHA3_256)
	_ = h.Init(256)
	h.Update(m)
	h.Update(c)
	return h.Final()
}

func serializeCiphertext(c *Ciphertext) []byte {
	out := make([]byte, 0, 1024)
	for _, row := range c.BPrime {
		for _, v := range row {
			out = append(out, byte(v), byte(v>>8))
		}
	}
	for _, v := range c.C {
		out = append(out, byte(v))
	}
	return out
}
