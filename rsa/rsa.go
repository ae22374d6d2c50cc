// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package rsa implements C15: RSA key generation (SP 800-56B-style prime
// search), the public/private (CRT) exponentiation paths, and the
// OAEP/PSS/MGF1 padding schemes built on top of them.
package rsa

import (
	"encoding/binary"

	"github.com/phantomcrypto/phantom/csprng"
	"github.com/phantomcrypto/phantom/ct"
	"github.com/phantomcrypto/phantom/hash"
	"github.com/phantomcrypto/phantom/modular"
	"github.com/phantomcrypto/phantom/mpz"
	"github.com/phantomcrypto/phantom/perr"
)

// PublicKey is the wire-format public key: n, e in hexadecimal per §6.
type PublicKey struct {
	N, E *mpz.Int
}

// PrivateKey is the wire-format private key with CRT parameters, per §6.
type PrivateKey struct {
	N, E, D          *mpz.Int
	P, Q             *mpz.Int
	Exp1, Exp2, Inv  *mpz.Int // dP, dQ, qInv
	nCtx, pCtx, qCtx *modular.Context
}

const maxKeygenIterations = 1 << 16

// minPublicExponent / maxPublicExponent bound e per §4.14: reject e <=
// 2^16 or e >= 2^256.
var (
	minPublicExponent = mpz.FromInt64(1).Shl(16)
	maxPublicExponent = mpz.FromInt64(1).Shl(256)
)

// KeyGen generates an RSA key pair of the given modulus bit length using
// entropy drawn from rng, with public exponent e (typically 65537).
func KeyGen(bits int, e *mpz.Int, rng *csprng.DRBG) (*PublicKey, *PrivateKey, error) {
	if e.Cmp(minPublicExponent) <= 0 || e.Cmp(maxPublicExponent) >= 0 || isEven(e) {
		return nil, nil, perr.ErrInvalidParameterSet
	}
	half := bits / 2
	p, err := findProbablePrime(half, rng)
	if err != nil {
		return nil, nil, err
	}
	var q *mpz.Int
	minDiff := mpz.FromInt64(1).Shl(bits/2 - 100)
	for i := 0; i < maxKeygenIterations; i++ {
		cand, err := findProbablePrime(half, rng)
		if err != nil {
			return nil, nil, err
		}
		diff := p.Sub(cand).Abs()
		if diff.Cmp(minDiff) > 0 && gcdIsOneWithExponent(cand, e) {
			q = cand
			break
		}
	}
	if q == nil {
		return nil, nil, perr.ErrEntropyFailure
	}

	n := p.Mul(q)
	pm1 := p.Sub(mpz.FromInt64(1))
	qm1 := q.Sub(mpz.FromInt64(1))
	phi := pm1.Mul(qm1)
	d, err := mpz.Invert(e, phi)
	if err != nil {
		return nil, nil, perr.ErrNonInvertible
	}
	dP, _ := d.Mod(pm1)
	dQ, _ := d.Mod(qm1)
	qInv, err := mpz.Invert(q, p)
	if err != nil {
		return nil, nil, perr.ErrNonInvertible
	}

	pub := &PublicKey{N: n, E: e}
	priv := &PrivateKey{
		N: n, E: e, D: d, P: p, Q: q,
		Exp1: dP, Exp2: dQ, Inv: qInv,
		nCtx: modular.NewBarrett(n),
		pCtx: modular.NewBarrett(p),
		qCtx: modular.NewBarrett(q),
	}
	return pub, priv, nil
}

func isEven(x *mpz.Int) bool {
	m, _ := x.Mod(mpz.FromInt64(2))
	return m.Sign() == 0
}

func gcdIsOneWithExponent(p, e *mpz.Int) bool {
	pm1 := p.Sub(mpz.FromInt64(1))
	g := mpz.GCD(pm1, e)
	return g.Cmp(mpz.FromInt64(1)) == 0
}

// findProbablePrime draws odd candidates with top and bottom bits set
// (the "Xp1/Xp2" style construction of §4.14, simplified to one random
// draw per candidate) and accepts the first Miller-Rabin probable prime.
func findProbablePrime(bits int, rng *csprng.DRBG) (*mpz.Int, error) {
	for i := 0; i < maxKeygenIterations; i++ {
		buf := make([]byte, (bits+7)/8)
		if err := rng.GetMem(buf, len(buf)); err != nil {
			return nil, err
		}
		buf[0] |= 0xC0        // top two bits set: ensures product bit length
		buf[len(buf)-1] |= 1 // odd
		cand := mpz.FromBytes(buf, false)
		if isProbablePrime(cand, 5, rng) {
			return cand, nil
		}
	}
	return nil, perr.ErrEntropyFailure
}

// isProbablePrime runs Miller-Rabin with the given round count.
func isProbablePrime(n *mpz.Int, rounds int, rng *csprng.DRBG) bool {
	two := mpz.FromInt64(2)
	if n.Cmp(two) < 0 {
		return false
	}
	if n.Cmp(two) == 0 {
		return true
	}
	if isEven(n) {
		return false
	}
	nm1 := n.Sub(mpz.FromInt64(1))
	d := nm1
	r := 0
	for isEven(d) {
		d = d.Shr(1)
		r++
	}
	ctx := modular.NewBarrett(n)
	for i := 0; i < rounds; i++ {
		buf := make([]byte, n.BitLen()/8+1)
		_ = rng.GetMem(buf, len(buf))
		a, _ := mpz.FromBytes(buf, false).Mod(nm1)
		if a.Cmp(two) < 0 {
			a = two
		}
		x, err := ctx.PowMod(a, d, false)
		if err != nil {
			return false
		}
		if x.Cmp(mpz.FromInt64(1)) == 0 || x.Cmp(nm1) == 0 {
			continue
		}
		composite := true
		for j := 0; j < r-1; j++ {
			x = ctx.Reduce(x.Mul(x))
			if x.Cmp(nm1) == 0 {
				composite = false
				break
			}
		}
		if composite {
			return false
		}
	}
	return true
}

// Encrypt computes m^e mod n.
func Encrypt(pub *PublicKey, m *mpz.Int) (*mpz.Int, error) {
	ctx := modular.NewBarrett(pub.N)
	return ctx.PowMod(m, pub.E, false)
}

// NewPrivateKey rebuilds a PrivateKey's modular contexts from externally
// supplied CRT components (e.g. after wire-format deserialization), and
// validates the structural relations dP ≡ d mod (p-1) and qInv*q ≡ 1 mod p
// per §4's supplemented private-key validation before returning it.
func NewPrivateKey(n, e, d, p, q, exp1, exp2, inv *mpz.Int) (*PrivateKey, error) {
	pm1 := p.Sub(mpz.FromInt64(1))
	dModPm1, err := d.Mod(pm1)
	if err != nil {
		return nil, err
	}
	if exp1.Cmp(dModPm1) != 0 {
		return nil, perr.ErrInvalidKey
	}
	pCtx := modular.NewBarrett(p)
	if chk := pCtx.Reduce(inv.Mul(q)); chk.Cmp(mpz.FromInt64(1)) != 0 {
		return nil, perr.ErrInvalidKey
	}
	return &PrivateKey{
		N: n, E: e, D: d, P: p, Q: q,
		Exp1: exp1, Exp2: exp2, Inv: inv,
		nCtx: modular.NewBarrett(n), pCtx: pCtx, qCtx: modular.NewBarrett(q),
	}, nil
}

// DecryptCRT computes the private operation via the CRT shortcut: m1 =
// c^dP mod p, m2 = c^dQ mod q, h = qInv*(m1-m2) mod p, m = m2 + h*q. The
// exponentiations use the Montgomery ladder (secret=true) since dP/dQ are
// private-key material.
func DecryptCRT(priv *PrivateKey, c *mpz.Int) (*mpz.Int, error) {
	m1, err := priv.pCtx.PowMod(c, priv.Exp1, true)
	if err != nil {
		return nil, err
	}
	m2, err := priv.qCtx.PowMod(c, priv.Exp2, true)
	if err != nil {
		return nil, err
	}
	diff := priv.pCtx.Reduce(m1.Sub(m2))
	h := priv.pCtx.Reduce(priv.Inv.Mul(diff))
	m := m2.Add(h.Mul(priv.Q))
	return m, nil
}

// DecryptPlain is the unreduced private-key path (m = c^d mod n), kept
// for completeness per §4.14.
func DecryptPlain(priv *PrivateKey, c *mpz.Int) (*mpz.Int, error) {
	return priv.nCtx.PowMod(c, priv.D, true)
}

// mgf1 is the MGF1 mask-generation function of PKCS#1 (RFC 8017 B.2.1):
// repeated hashing of seed||counter, concatenated and truncated to length.
func mgf1(alg hash.Algorithm, seed []byte, length int) []byte {
	out := make([]byte, 0, length+64)
	var counter [4]byte
	for i := uint32(0); len(out) < length; i++ {
		binary.BigEndian.PutUint32(counter[:], i)
		h := hash.New(alg)
		_ = h.Init(hashOutBits(alg))
		h.Update(seed)
		h.Update(counter[:])
		out = append(out, h.Final()...)
	}
	return out[:length]
}

func hashOutBits(alg hash.Algorithm) int {
	switch alg {
	case hash.SHA2_224:
		return 224
	case hash.SHA2_256:
		return 256
	case hash.SHA2_384:
		return 384
	case hash.SHA2_512:
		return 512
	default:
		return 256
	}
}

func hashOutBytes(alg hash.Algorithm) int { return hashOutBits(alg) / 8 }

func hashSum(alg hash.Algorithm, data []byte) []byte {
	h := hash.New(alg)
	_ = h.Init(hashOutBits(alg))
	h.Update(data)
	return h.Final()
}

// OAEPEncode implements PKCS#1 v2.2 EME-OAEP encoding (RFC 8017 §7.1.1):
// DB = lHash || PS || 0x01 || M, masked by an MGF1-derived seed mask and
// the seed itself masked by an MGF1-derived DB mask.
func OAEPEncode(alg hash.Algorithm, msg, label []byte, modBytes int, rng *csprng.DRBG) ([]byte, error) {
	hLen := hashOutBytes(alg)
	if len(msg) > modBytes-2*hLen-2 {
		return nil, perr.ErrInvalidParameterSet
	}
	lHash := hashSum(alg, label)
	psLen := modBytes - len(msg) - 2*hLen - 2
	db := make([]byte, 0, modBytes-hLen-1)
	db = append(db, lHash...)
	db = append(db, make([]byte, psLen)...)
	db = append(db, 0x01)
	db = append(db, msg...)

	seed := make([]byte, hLen)
	if err := rng.GetMem(seed, hLen); err != nil {
		return nil, err
	}
	dbMask := mgf1(alg, seed, len(db))
	maskedDB := xorBytes(db, dbMask)
	seedMask := mgf1(alg, maskedDB, hLen)
	maskedSeed := xorBytes(seed, seedMask)

	em := make([]byte, 0, modBytes)
	em = append(em, 0x00)
	em = append(em, maskedSeed...)
	em = append(em, maskedDB...)
	return em, nil
}

// OAEPDecode reverses OAEPEncode, collapsing every failure mode (bad
// leading byte, bad lHash, missing 0x01 separator) into a single
// constant-time-derived boolean so no padding oracle is distinguishable
// by timing or error identity, per §4.14/§5.
func OAEPDecode(alg hash.Algorithm, em, label []byte, modBytes int) ([]byte, error) {
	hLen := hashOutBytes(alg)
	if len(em) != modBytes || modBytes < 2*hLen+2 {
		return nil, perr.ErrDecryptionFailure
	}
	lHash := hashSum(alg, label)

	y := em[0]
	maskedSeed := em[1 : 1+hLen]
	maskedDB := em[1+hLen:]

	seedMask := mgf1(alg, maskedDB, hLen)
	seed := xorBytes(maskedSeed, seedMask)
	dbMask := mgf1(alg, seed, len(maskedDB))
	db := xorBytes(maskedDB, dbMask)

	gotLHash := db[:hLen]
	rest := db[hLen:]

	// Scan every byte of rest unconditionally: the loop never exits early,
	// so its duration cannot reveal where (or whether) the 0x01 separator
	// sits. found/bad/sepIdx are updated via constant-time selects rather
	// than branches, so which byte triggers them leaves no timing trace.
	found := 0
	bad := 0
	sepIdx := make([]byte, 4)
	idxBuf := make([]byte, 4)
	for i, b := range rest {
		isSep := int(boolByte(b == 0x01))
		isZero := int(boolByte(b == 0x00))
		take := isSep & (1 - found)

		binary.BigEndian.PutUint32(idxBuf, uint32(i))
		ct.Select(take, sepIdx, sepIdx, idxBuf)

		violates := (1 - found) & (1 - isZero) & (1 - isSep)
		bad |= violates
		found |= isSep
	}
	sepPos := int(binary.BigEndian.Uint32(sepIdx))

	ok := y == 0x00 && ct.Eq(gotLHash, lHash) && found == 1 && bad == 0
	if !ok {
		return nil, perr.ErrDecryptionFailure
	}
	return rest[sepPos+1:], nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i%len(b)]
	}
	return out
}

// PSSSign implements EMSA-PSS encoding (RFC 8017 §9.1.1) followed by the
// RSA private-key operation: M' = 0x00...00 || mHash || salt, H =
// Hash(M'), EM = maskedDB || H || 0xbc.
func PSSSign(priv *PrivateKey, alg hash.Algorithm, msg []byte, saltLen int, rng *csprng.DRBG) (*mpz.Int, error) {
	em, err := pssEncode(alg, msg, saltLen, priv.N.BitLen(), rng)
	if err != nil {
		return nil, err
	}
	m := mpz.FromBytes(em, false)
	return DecryptCRT(priv, m)
}

func pssEncode(alg hash.Algorithm, msg []byte, saltLen, modBits int, rng *csprng.DRBG) ([]byte, error) {
	hLen := hashOutBytes(alg)
	emLen := (modBits + 7) / 8
	if emLen < hLen+saltLen+2 {
		return nil, perr.ErrInvalidParameterSet
	}
	mHash := hashSum(alg, msg)
	salt := make([]byte, saltLen)
	if saltLen > 0 {
		if err := rng.GetMem(salt, saltLen); err != nil {
			return nil, err
		}
	}
	mPrime := make([]byte, 0, 8+hLen+saltLen)
	mPrime = append(mPrime, make([]byte, 8)...)
	mPrime = append(mPrime, mHash...)
	mPrime = append(mPrime, salt...)
	h := hashSum(alg, mPrime)

	psLen := emLen - saltLen - hLen - 2
	db := make([]byte, 0, emLen-hLen-1)
	db = append(db, make([]byte, psLen)...)
	db = append(db, 0x01)
	db = append(db, salt...)

	dbMask := mgf1(alg, h, len(db))
	maskedDB := xorBytes(db, dbMask)
	topBits := 8*emLen - modBits
	if topBits > 0 {
		maskedDB[0] &= 0xff >> uint(topBits)
	}

	em := make([]byte, 0, emLen)
	em = append(em, maskedDB...)
	em = append(em, h...)
	em = append(em, 0xbc)
	return em, nil
}

// PSSVerify reverses PSSSign: public exponentiation, then EMSA-PSS
// verification comparing the recomputed H' against the embedded H.
func PSSVerify(pub *PublicKey, alg hash.Algorithm, msg, sigBytes []byte, saltLen int) (bool, error) {
	s := mpz.FromBytes(sigBytes, false)
	m, err := Encrypt(pub, s)
	if err != nil {
		return false, err
	}
	emLen := (pub.N.BitLen() + 7) / 8
	em, err := m.Bytes(emLen, false)
	if err != nil {
		return false, nil
	}
	return pssVerifyEncoded(alg, msg, em, saltLen, pub.N.BitLen())
}

func pssVerifyEncoded(alg hash.Algorithm, msg, em []byte, saltLen, modBits int) (bool, error) {
	hLen := hashOutBytes(alg)
	emLen := (modBits + 7) / 8
	if len(em) != emLen || emLen < hLen+saltLen+2 {
		return false, nil
	}
	if em[emLen-1] != 0xbc {
		return false, nil
	}
	maskedDB := append([]byte{}, em[:emLen-hLen-1]...)
	h := em[emLen-hLen-1 : emLen-1]

	topBits := 8*emLen - modBits
	if topBits > 0 && maskedDB[0]&(0xff<<uint(8-topBits)) != 0 {
		return false, nil
	}

	dbMask := mgf1(alg, h, len(maskedDB))
	db := xorBytes(maskedDB, dbMask)
	if topBits > 0 {
		db[0] &= 0xff >> uint(topBits)
	}

	psLen := emLen - hLen - saltLen - 2
	for i := 0; i < psLen; i++ {
		if db[i] != 0x00 {
			return false, nil
		}
	}
	if db[psLen] != 0x01 {
		return false, nil
	}
	salt := db[psLen+1:]

	mHash := hashSum(alg, msg)
	mPrime := make([]byte, 0, 8+hLen+len(salt))
	mPrime = append(mPrime, make([]byte, 8)...)
	mPrime = append(mPrime, mHash...)
	mPrime = append(mPrime, salt...)
	hPrime := hashSum(alg, mPrime)

	return ct.Eq(h, hPrime), nil
}
