// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package kyber implements C17: the Kyber lattice-based IND-CPA public-key
// encryption scheme and its Fujisaki-Okamoto KEM wrapper, built on the
// polyring/NTT/sampler primitives.
package kyber

import (
	"github.com/phantomcrypto/phantom/csprng"
	"github.com/phantomcrypto/phantom/ct"
	"github.com/phantomcrypto/phantom/hash"
	"github.com/phantomcrypto/phantom/perr"
	"github.com/phantomcrypto/phantom/polyring"
	"github.com/phantomcrypto/phantom/sampler"
)

// Params fixes the size class (n=256, q=3329 always; k/eta/du/dv vary by
// security level).
type Params struct {
	N, Q           int
	K              int
	Eta1, Eta2     int
	Du, Dv         int
}

// Kyber768 is the recommended-security parameter set.
func Kyber768() Params {
	return Params{N: 256, Q: 3329, K: 3, Eta1: 2, Eta2: 2, Du: 10, Dv: 4}
}

// PublicKey is (rho, t): the matrix seed and the noisy product vector.
type PublicKey struct {
	Rho []byte
	T   []*polyring.Poly
}

// PrivateKey is the secret vector s.
type PrivateKey struct {
	S []*polyring.Poly
}

func ring(p Params) *polyring.Ring { return polyring.NewRing(p.N, int64(p.Q)) }

// xofStream derives n bytes from SHAKE128 seeded with seed||extra, the
// matrix-expansion XOF per §4.16.
func xofStream(seed, extra []byte, n int) []byte {
	h := hash.New(hash.SHAKE128)
	_ = h.Init(128)
	h.Update(seed)
	h.Update(extra)
	out := make([]byte, n)
	h.Squeeze(out, n)
	return out
}

// prfStream derives n bytes from SHAKE256 seeded with seed||nonce, the
// CBD-sampling PRF per §4.16.
func prfStream(seed []byte, nonce byte, n int) []byte {
	h := hash.New(hash.SHAKE256)
	_ = h.Init(256)
	h.Update(seed)
	h.Update([]byte{nonce})
	out := make([]byte, n)
	h.Squeeze(out, n)
	return out
}

// expandMatrix derives the public k x k matrix A (or its transpose) from
// rho by rejection sampling 12-bit chunks per §4.16.
func expandMatrix(r *polyring.Ring, p Params, rho []byte, transpose bool) [][]*polyring.Poly {
	a := make([][]*polyring.Poly, p.K)
	for i := 0; i < p.K; i++ {
		a[i] = make([]*polyring.Poly, p.K)
		for j := 0; j < p.K; j++ {
			row, col := byte(i), byte(j)
			if transpose {
				row, col = col, row
			}
			stream := xofStream(rho, []byte{row, col}, 4*p.N)
			coeffs := sampler.UniformMod(stream, int64(p.Q), p.N)
			for len(coeffs) < p.N {
				more := xofStream(rho, []byte{row, col, byte(len(coeffs))}, 4*p.N)
				coeffs = append(coeffs, sampler.UniformMod(more, int64(p.Q), p.N-len(coeffs))...)
			}
			a[i][j] = r.FromCoeffs(coeffs)
		}
	}
	return a
}

func sampleCBDPoly(r *polyring.Ring, p Params, seed []byte, nonce byte, eta int) *polyring.Poly {
	stream := prfStream(seed, nonce, eta*p.N/4+8)
	coeffs := sampler.CBD(stream, eta, p.N)
	return r.FromCoeffs(coeffs)
}

// KeyGen samples rho/sigma from rng and derives (pk, sk).
func KeyGen(p Params, rng *csprng.DRBG) (*PublicKey, *PrivateKey, error) {
	r := ring(p)
	rho := make([]byte, 32)
	sigma := make([]byte, 32)
	if err := rng.GetMem(rho, 32); err != nil {
		return nil, nil, err
	}
	if err := rng.GetMem(sigma, 32); err != nil {
		return nil, nil, err
	}
	return keyGenFromSeeds(p, r, rho, sigma)
}

func keyGenFromSeeds(p Params, r *polyring.Ring, rho, sigma []byte) (*PublicKey, *PrivateKey, error) {
	a := expandMatrix(r, p, rho, false)
	s := make([]*polyring.Poly, p.K)
	e := make([]*polyring.Poly, p.K)
	nonce := byte(0)
	for i := 0; i < p.K; i++ {
		s[i] = sampleCBDPoly(r, p, sigma, nonce, p.Eta1)
		nonce++
	}
	for i := 0; i < p.K; i++ {
		e[i] = sampleCBDPoly(r, p, sigma, nonce, p.Eta1)
		nonce++
	}
	t := make([]*polyring.Poly, p.K)
	for i := 0; i < p.K; i++ {
		acc := r.New()
		for j := 0; j < p.K; j++ {
			acc = acc.Add(a[i][j].Mul(s[j]))
		}
		t[i] = acc.Add(e[i])
	}
	return &PublicKey{Rho: rho, T: t}, &PrivateKey{S: s}, nil
}

// compress maps a coefficient in [0,q) to a d-bit value via
// round((2^d * a) / q), computed as ((a<<(d+1))+q) / (2q) per §4.16.
func compress(a int64, q int64, d int) int64 {
	num := (a << uint(d+1)) + q
	return (num / (2 * q)) % (1 << uint(d))
}

func decompress(a int64, q int64, d int) int64 {
	num := a*2*q + (1 << uint(d))
	return num / (2 << uint(d))
}

func compressPoly(p *polyring.Poly, q int64, d int) []int64 {
	out := make([]int64, len(p.Coeffs))
	for i, c := range p.Coeffs {
		out[i] = compress(c, q, d)
	}
	return out
}

func decompressPoly(r *polyring.Ring, c []int64, q int64, d int) *polyring.Poly {
	out := make([]int64, len(c))
	for i, v := range c {
		out[i] = decompress(v, q, d)
	}
	return r.FromCoeffs(out)
}

// encodeMessage maps 32 message bytes to a polynomial with coefficients in
// {0, round(q/2)}, one bit per coefficient.
func encodeMessage(r *polyring.Ring, p Params, msg []byte) *polyring.Poly {
	half := int64(p.Q+1) / 2
	coeffs := make([]int64, p.N)
	for i := 0; i < p.N; i++ {
		byteIdx := i / 8
		bit := (msg[byteIdx] >> uint(i%8)) & 1
		if bit == 1 {
			coeffs[i] = half
		}
	}
	return r.FromCoeffs(coeffs)
}

// decodeMessage maps a polynomial back to 32 message bytes, each
// coefficient mapped to 1 iff closer to q/2 than to 0.
func decodeMessage(poly *polyring.Poly, q int64) []byte {
	out := make([]byte, len(poly.Coeffs)/8)
	quarter := q / 4
	for i, c := range poly.Coeffs {
		dist := c - q/2
		if dist < 0 {
			dist = -dist
		}
		if dist < quarter {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

// Ciphertext is the compressed (u, v) pair.
type Ciphertext struct {
	U [][]int64
	V []int64
}

// Encrypt runs IND-CPA encryption of a 32-byte message under coins.
func Encrypt(p Params, pk *PublicKey, msg, coins []byte) (*Ciphertext, error) {
	if len(msg) != 32 {
		return nil, perr.ErrInvalidParameterSet
	}
	r := ring(p)
	at := expandMatrix(r, p, pk.Rho, true)

	rv := make([]*polyring.Poly, p.K)
	e1 := make([]*polyring.Poly, p.K)
	nonce := byte(0)
	for i := 0; i < p.K; i++ {
		rv[i] = sampleCBDPoly(r, p, coins, nonce, p.Eta1)
		nonce++
	}
	for i := 0; i < p.K; i++ {
		e1[i] = sampleCBDPoly(r, p, coins, nonce, p.Eta2)
		nonce++
	}
	e2 := sampleCBDPoly(r, p, coins, nonce, p.Eta2)

	u := make([][]int64, p.K)
	for i := 0; i < p.K; i++ {
		acc := r.New()
		for j := 0; j < p.K; j++ {
			acc = acc.Add(at[i][j].Mul(rv[j]))
		}
		acc = acc.Add(e1[i])
		u[i] = compressPoly(acc, int64(p.Q), p.Du)
	}

	vAcc := r.New()
	for i := 0; i < p.K; i++ {
		vAcc = vAcc.Add(pk.T[i].Mul(rv[i]))
	}
	vAcc = vAcc.Add(e2).Add(encodeMessage(r, p, msg))
	v := compressPoly(vAcc, int64(p.Q), p.Dv)

	return &Ciphertext{U: u, V: v}, nil
}

// Decrypt runs IND-CPA decryption, recovering the 32-byte message.
func Decrypt(p Params, sk *PrivateKey, cph *Ciphertext) []byte {
	r := ring(p)
	u := make([]*polyring.Poly, p.K)
	for i := range cph.U {
		u[i] = decompressPoly(r, cph.U[i], int64(p.Q), p.Du)
	}
	v := decompressPoly(r, cph.V, int64(p.Q), p.Dv)

	acc := r.New()
	for i := 0; i < p.K; i++ {
		acc = acc.Add(sk.S[i].Mul(u[i]))
	}
	m := v.Sub(acc)
	return decodeMessage(m, int64(p.Q))
}

// seedLen is the size in bytes of the random message m that Encapsulate
// draws before deriving the ciphertext from it.
const seedLen = 32

// Encapsulate runs the Fujisaki-Okamoto KEM transform, returning the
// ciphertext and the derived shared secret.
func Encapsulate(p Params, pk *PublicKey, rng *csprng.DRBG) (*Ciphertext, []byte, error) {
	m := make([]byte, seedLen)
	if err := rng.GetMem(m, seedLen); err != nil {
		return nil, nil, err
	}
	return encapsulateWithMessage(p, pk, m)
}

func encapsulateWithMessage(p Params, pk *PublicKey, m []byte) (*Ciphertext, []byte, error) {
	khat, coins, _ := deriveGTriple(pk.Rho, pk.T, m)
	c, err := Encrypt(p, pk, m, coins)
	if err != nil {
		return nil, nil, err
	}
	k := deriveSharedSecret(khat, serializeCiphertext(c))
	return c, k, nil
}

// Decapsulate implicitly rejects: on re-encryption mismatch it derives the
// shared secret from the KEM-time secret z instead of Khat, in constant
// time with respect to the comparison outcome.
func Decapsulate(p Params, sk *PrivateKey, pk *PublicKey, z []byte, c *Ciphertext) ([]byte, error) {
	mPrime := Decrypt(p, sk, c)
	khatPrime, coinsPrime, _ := deriveGTriple(pk.Rho, pk.T, mPrime)
	cPrime, err := Encrypt(p, pk, mPrime, coinsPrime)
	if err != nil {
		return nil, err
	}

	serialized := serializeCiphertext(c)
	serializedPrime := serializeCiphertext(cPrime)
	match := ct.Eq(serialized, serializedPrime)

	fallback := deriveSharedSecret(z, serialized)
	success := deriveSharedSecret(khatPrime, serializedPrime)
	out := make([]byte, len(success))
	ct.Select(boolToCond(match), out, fallback, success)
	return out, nil
}

func boolToCond(b bool) int {
	if b {
		return 1
	}
	return 0
}

// deriveGTriple derives (Khat, coins, d) from the seed material via
// SHAKE256, the KEM's G function.
func deriveGTriple(rho []byte, t []*polyring.Poly, m []byte) (khat, coins, d []byte) {
	h := hash.New(hash.SHAKE256)
	_ = h.Init(256)
	h.Update(rho)
	for _, poly := range t {
		for _, c := range poly.Coeffs {
			h.Update([]byte{byte(c), byte(c >> 8)})
		}
	}
	h.Update(m)
	out := make([]byte, 96)
	h.Squeeze(out, 96)
	return out[:32], out[32:64], out[64:96]
}

func deriveSharedSecret(khat, c []byte) []byte {
	h := hash.New(hash.SHA3_256)
	_ = h.Init(256)
	h.Update(khat)
	h.Update(c)
	return h.Final()
}

func serializeCiphertext(c *Ciphertext) []byte {
	out := make([]byte, 0, 1024)
	for _, row := range c.U {
		for _, v := range row {
			out = append(out, byte(v), byte(v>>8))
		}
	}
	for _, v := range c.V {
		out = append(out, byte(v), byte(v>>8))
	}
	return out
}
