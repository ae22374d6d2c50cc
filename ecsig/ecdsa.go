// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ecsig implements C16: ECDSA (with RFC 6979 deterministic
// nonces) and EdDSA signing and verification on top of the ecpoint
// abstraction. EdDSA is provided for Ed25519 only; there is no Ed448
// curve.
package ecsig

import (
	"github.com/phantomcrypto/phantom/ct"
	"github.com/phantomcrypto/phantom/ecpoint"
	"github.com/phantomcrypto/phantom/hash"
	"github.com/phantomcrypto/phantom/modular"
	"github.com/phantomcrypto/phantom/mpz"
	"github.com/phantomcrypto/phantom/perr"
	"github.com/phantomcrypto/phantom/recode"
)

// Curve bundles a Weierstrass CurveConfig with its generator and order
// context, the unit ECDSA operates against.
type Curve struct {
	Cfg       *ecpoint.CurveConfig
	Base      *ecpoint.Point
	OrderCtx  *modular.Context
	BitLen    int
	HashAlg   hash.Algorithm
	HashBits  int
}

// P256 builds the NIST P-256 curve, y^2 = x^3 - 3x + b mod p.
func P256() *Curve {
	p, _ := mpz.Parse("ffffffff00000001000000000000000000000000ffffffffffffffffffffffff", 16)
	b, _ := mpz.Parse("5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b", 16)
	n, _ := mpz.Parse("ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551", 16)
	gx, _ := mpz.Parse("6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296", 16)
	gy, _ := mpz.Parse("4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5", 16)

	field := modular.NewBarrett(p)
	cfg := &ecpoint.CurveConfig{
		Field:   field,
		Order:   n,
		A:       field.Reduce(mpz.FromInt64(-3)),
		B:       b,
		Tag:     ecpoint.WeierstrassPrime,
		Coord:   ecpoint.Jacobian,
		AIsNeg3: true,
	}
	base := ecpoint.ConvertTo(cfg, gx, gy)
	return &Curve{
		Cfg:      cfg,
		Base:     base,
		OrderCtx: modular.NewBarrett(n),
		BitLen:   256,
		HashAlg:  hash.SHA2_256,
		HashBits: 256,
	}
}

// ScalarMul computes k*p as a constant-time Joye ladder: every step runs
// the same Addition+Doubling pair regardless of the scalar's bit value,
// with the two running accumulators conditionally exchanged (never
// branched on, via condSwapPoints) before and after the step, so neither
// control flow nor memory access depends on a secret bit. The bit
// stream is read MSB-first over a fixed width (the curve order's bit
// length, not k's own bit length) via recode.BitAt — the same ordering
// recode's MontgomeryLadder encoding produces — so the scalar's
// magnitude does not leak through the iteration count either.
func ScalarMul(p *ecpoint.Point, k *mpz.Int) *ecpoint.Point {
	width := p.Curve.Order.BitLen()
	kMod, _ := k.Mod(p.Curve.Order)

	r0 := neutralPoint(p.Curve)
	r1 := p
	swap := 0
	for i := width - 1; i >= 0; i-- {
		bit := recode.BitAt(kMod, i)
		swap ^= bit
		r0, r1 = condSwapPoints(swap, r0, r1)
		swap = bit

		r1 = ecpoint.Addition(r0, r1)
		r0 = ecpoint.Doubling(r0, 1)
	}
	r0, _ = condSwapPoints(swap, r0, r1)
	return r0
}

// neutralPoint builds the group identity with non-nil placeholder
// coordinates of every kind the curve's tag may use, so condSwapPoints
// never has to special-case a freshly-started ladder.
func neutralPoint(cfg *ecpoint.CurveConfig) *ecpoint.Point {
	p := &ecpoint.Point{X: mpz.Zero(), Z: mpz.Zero(), Infinity: true, Curve: cfg}
	if cfg.Tag != ecpoint.MontgomeryPrime {
		p.Y = mpz.Zero()
	}
	if cfg.Coord == ecpoint.ExtendedEdwards {
		p.T = mpz.Zero()
	}
	return p
}

// fieldByteLen returns a byte width every element of the curve's field
// fits in, plus one byte of margin against Bytes' exact-fit check.
func fieldByteLen(cfg *ecpoint.CurveConfig) int {
	if cfg.Tag == ecpoint.BinaryWeierstrass {
		return (cfg.BinMod.Degree()+7)/8 + 1
	}
	return (cfg.Field.M.BitLen()+7)/8 + 1
}

// condSwapPoints exchanges p0 and p1 when cond==1 and leaves them as-is
// when cond==0, entirely through ct.CondSwapBytes over fixed-width
// encodings of each coordinate: the same bytes are touched and the same
// XOR-mask arithmetic runs either way, so cond's value never shows up in
// timing or in which branch executed.
func condSwapPoints(cond int, p0, p1 *ecpoint.Point) (*ecpoint.Point, *ecpoint.Point) {
	cfg := p0.Curve
	n := fieldByteLen(cfg)
	useY := cfg.Tag != ecpoint.MontgomeryPrime
	useT := cfg.Coord == ecpoint.ExtendedEdwards

	x0, y0, z0, t0, inf0 := encodePointCoords(p0, n, useY, useT)
	x1, y1, z1, t1, inf1 := encodePointCoords(p1, n, useY, useT)

	ct.CondSwapBytes(cond, x0, x1)
	ct.CondSwapBytes(cond, z0, z1)
	ct.CondSwapBytes(cond, inf0, inf1)
	if useY {
		ct.CondSwapBytes(cond, y0, y1)
	}
	if useT {
		ct.CondSwapBytes(cond, t0, t1)
	}

	return decodePointCoords(cfg, x0, y0, z0, t0, inf0, useY, useT),
		decodePointCoords(cfg, x1, y1, z1, t1, inf1, useY, useT)
}

func encodePointCoords(p *ecpoint.Point, n int, useY, useT bool) (x, y, z, t, inf []byte) {
	x, _ = p.X.Bytes(n, false)
	z, _ = p.Z.Bytes(n, false)
	if useY {
		y, _ = p.Y.Bytes(n, false)
	}
	if useT {
		t, _ = p.T.Bytes(n, false)
	}
	inf = []byte{0}
	if p.Infinity {
		inf[0] = 1
	}
	return
}

func decodePointCoords(cfg *ecpoint.CurveConfig, x, y, z, t, inf []byte, useY, useT bool) *ecpoint.Point {
	out := &ecpoint.Point{
		X:        mpz.FromBytes(x, false),
		Z:        mpz.FromBytes(z, false),
		Infinity: inf[0] == 1,
		Curve:    cfg,
	}
	if useY {
		out.Y = mpz.FromBytes(y, false)
	}
	if useT {
		out.T = mpz.FromBytes(t, false)
	}
	return out
}

// rfc6979Nonce derives the deterministic per-signature nonce k per RFC
// 6979 §3.2, using HMAC built on the curve's configured hash algorithm.
func rfc6979Nonce(c *Curve, priv *mpz.Int, hashed []byte) *mpz.Int {
	qlen := c.BitLen
	rolen := (qlen + 7) / 8
	privBytes, _ := priv.Bytes(rolen, false)
	h1 := bitsToOctets(c, hashed, rolen)

	v := make([]byte, c.HashBits/8)
	for i := range v {
		v[i] = 0x01
	}
	k := make([]byte, c.HashBits/8)

	k = hmacSum(c.HashAlg, c.HashBits, k, append(append(append(append([]byte{}, v...), 0x00), privBytes...), h1...))
	v = hmacSum(c.HashAlg, c.HashBits, k, v)
	k = hmacSum(c.HashAlg, c.HashBits, k, append(append(append(append([]byte{}, v...), 0x01), privBytes...), h1...))
	v = hmacSum(c.HashAlg, c.HashBits, k, v)

	for {
		t := make([]byte, 0, rolen+len(v))
		for len(t) < rolen {
			v = hmacSum(c.HashAlg, c.HashBits, k, v)
			t = append(t, v...)
		}
		cand := mpz.FromBytes(t[:rolen], false)
		candMod, _ := cand.Mod(c.Cfg.Order)
		if candMod.Sign() != 0 && candMod.Cmp(c.Cfg.Order) < 0 {
			return candMod
		}
		k = hmacSum(c.HashAlg, c.HashBits, k, append(append([]byte{}, v...), 0x00))
		v = hmacSum(c.HashAlg, c.HashBits, k, v)
	}
}

// bitsToOctets reduces a hash output mod the curve order and encodes it,
// per RFC 6979 §2.3.5.
func bitsToOctets(c *Curve, hashed []byte, rolen int) []byte {
	z := mpz.FromBytes(hashed, false)
	qlen := c.BitLen
	hlen := len(hashed) * 8
	if hlen > qlen {
		z = z.Shr(hlen - qlen)
	}
	zMod, _ := z.Mod(c.Cfg.Order)
	out, _ := zMod.Bytes(rolen, false)
	return out
}

// Sign produces an RFC 6979 deterministic ECDSA signature (r, s) over a
// pre-hashed message digest.
func Sign(c *Curve, priv *mpz.Int, hashed []byte) (r, s *mpz.Int, err error) {
	for {
		k := rfc6979Nonce(c, priv, hashed)
		p := ScalarMul(c.Base, k)
		x, _, cerr := ecpoint.ConvertFrom(c.Cfg, p)
		if cerr != nil {
			continue
		}
		rCand, _ := x.Mod(c.Cfg.Order)
		if rCand.Sign() == 0 {
			continue
		}
		kInv, ierr := c.OrderCtx.Invert(k)
		if ierr != nil {
			continue
		}
		z := hashToScalar(c, hashed)
		sCand, _ := kInv.Mul(rCand.Mul(priv).Add(z)).Mod(c.Cfg.Order)
		if sCand.Sign() == 0 {
			continue
		}
		return rCand, sCand, nil
	}
}

func hashToScalar(c *Curve, hashed []byte) *mpz.Int {
	z := mpz.FromBytes(hashed, false)
	hlen := len(hashed) * 8
	if hlen > c.BitLen {
		z = z.Shr(hlen - c.BitLen)
	}
	zMod, _ := z.Mod(c.Cfg.Order)
	return zMod
}

// Verify checks an ECDSA signature against a public key point.
func Verify(c *Curve, pub *ecpoint.Point, hashed []byte, r, s *mpz.Int) (bool, error) {
	if r.Sign() <= 0 || r.Cmp(c.Cfg.Order) >= 0 || s.Sign() <= 0 || s.Cmp(c.Cfg.Order) >= 0 {
		return false, nil
	}
	sInv, err := c.OrderCtx.Invert(s)
	if err != nil {
		return false, perr.ErrInvalidSignature
	}
	z := hashToScalar(c, hashed)
	u1, _ := z.Mul(sInv).Mod(c.Cfg.Order)
	u2, _ := r.Mul(sInv).Mod(c.Cfg.Order)

	p1 := ScalarMul(c.Base, u1)
	p2 := ScalarMul(pub, u2)
	sum := ecpoint.Addition(p1, p2)
	x, _, cerr := ecpoint.ConvertFrom(c.Cfg, sum)
	if cerr != nil {
		return false, nil
	}
	v, _ := x.Mod(c.Cfg.Order)
	return v.Cmp(r) == 0, nil
}
