// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ecsig

import (
	"github.com/phantomcrypto/phantom/ecpoint"
	"github.com/phantomcrypto/phantom/hash"
	"github.com/phantomcrypto/phantom/modular"
	"github.com/phantomcrypto/phantom/mpz"
	"github.com/phantomcrypto/phantom/perr"
)

// EdwardsCurve bundles the twisted-Edwards parameters Ed25519/Ed448 need:
// field, order, base point, and the hash algorithm used for both key
// expansion and the Fiat-Shamir challenge.
type EdwardsCurve struct {
	Cfg      *ecpoint.CurveConfig
	Base     *ecpoint.Point
	OrderCtx *modular.Context
	EncLen   int // encoded point/scalar length in bytes
	HashAlg  hash.Algorithm
	HashBits int
}

// Ed25519 builds the edwards25519 curve: -x^2+y^2 = 1 - (121665/121666)x^2y^2
// over p = 2^255-19, with SHA-512 as the required hash per RFC 8032.
func Ed25519() *EdwardsCurve {
	p, _ := mpz.Parse("7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffed", 16)
	l, _ := mpz.Parse("1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed", 16)
	d, _ := mpz.Parse("52036cee2b6ffe738cc740797779e89800700a4d4141d8ab75eb4dca135978a3", 16)
	gx, _ := mpz.Parse("216936d3cd6e53fec0a4e231fdd6dc5c692cc7609525a7b2c9562d608f25d51a", 16)
	gy, _ := mpz.Parse("6666666666666666666666666666666666666666666666666666666666666658", 16)

	field := modular.NewBarrett(p)
	cfg := &ecpoint.CurveConfig{
		Field:   field,
		Order:   l,
		A:       field.Reduce(mpz.FromInt64(-1)),
		D:       field.Reduce(d),
		Tag:     ecpoint.EdwardsPrime,
		Coord:   ecpoint.ExtendedEdwards,
		AIsNeg1: true,
	}
	base := ecpoint.ConvertTo(cfg, gx, gy)
	return &EdwardsCurve{
		Cfg:      cfg,
		Base:     base,
		OrderCtx: modular.NewBarrett(l),
		EncLen:   32,
		HashAlg:  hash.SHA2_512,
		HashBits: 512,
	}
}

// expandSecret hashes the 32-byte seed into a 64-byte digest, clamps the
// low half into the scalar s, and keeps the high half as the nonce prefix,
// per RFC 8032 §5.1.5.
func expandSecret(c *EdwardsCurve, seed []byte) (s *mpz.Int, prefix []byte) {
	h := hash.New(c.HashAlg)
	_ = h.Init(c.HashBits)
	h.Update(seed)
	digest := h.Final()

	lower := append([]byte{}, digest[:32]...)
	lower[0] &= 0xf8
	lower[31] &= 0x7f
	lower[31] |= 0x40
	s = mpz.FromBytes(lower, true)
	prefix = digest[32:]
	return s, prefix
}

// EncodePoint encodes an Edwards point as 32 little-endian bytes with the
// sign of x folded into the top bit of the last byte, per RFC 8032 §5.1.2.
func EncodePoint(c *EdwardsCurve, p *ecpoint.Point) ([]byte, error) {
	x, y, err := ecpoint.ConvertFrom(c.Cfg, p)
	if err != nil {
		return nil, err
	}
	enc, err := y.Bytes(c.EncLen, true)
	if err != nil {
		return nil, err
	}
	xLowBit, _ := x.Mod(mpz.FromInt64(2))
	if xLowBit.Sign() == 1 {
		enc[c.EncLen-1] |= 0x80
	}
	return enc, nil
}

// PublicFromPrivate derives the Ed25519 public key (encoded point A = s*B)
// from a 32-byte seed.
func PublicFromPrivate(c *EdwardsCurve, seed []byte) ([]byte, error) {
	s, _ := expandSecret(c, seed)
	a := ScalarMul(c.Base, s)
	return EncodePoint(c, a)
}

// SignEdDSA implements deterministic EdDSA signing (RFC 8032 §5.1.6):
// r = H(prefix || M) mod L, R = r*B, k = H(R || A || M) mod L,
// S = (r + k*s) mod L, sig = R || S.
func SignEdDSA(c *EdwardsCurve, seed, msg []byte) ([]byte, error) {
	s, prefix := expandSecret(c, seed)
	aEnc, err := PublicFromPrivate(c, seed)
	if err != nil {
		return nil, err
	}

	rDigest := hashConcat(c, prefix, msg)
	r := reduceWideScalar(c, rDigest)
	rPoint := ScalarMul(c.Base, r)
	rEnc, err := EncodePoint(c, rPoint)
	if err != nil {
		return nil, err
	}

	kDigest := hashConcat(c, rEnc, aEnc, msg)
	k := reduceWideScalar(c, kDigest)

	sOut, _ := r.Add(k.Mul(s)).Mod(c.Cfg.Order)
	sBytes, err := sOut.Bytes(c.EncLen, true)
	if err != nil {
		return nil, err
	}

	sig := make([]byte, 0, 2*c.EncLen)
	sig = append(sig, rEnc...)
	sig = append(sig, sBytes...)
	return sig, nil
}

func hashConcat(c *EdwardsCurve, parts ...[]byte) []byte {
	h := hash.New(c.HashAlg)
	_ = h.Init(c.HashBits)
	for _, p := range parts {
		h.Update(p)
	}
	return h.Final()
}

// reduceWideScalar reduces an arbitrary-length little-endian digest mod L,
// the scalar-field order.
func reduceWideScalar(c *EdwardsCurve, digest []byte) *mpz.Int {
	z := mpz.FromBytes(digest, true)
	zMod, _ := z.Mod(c.Cfg.Order)
	return zMod
}

// VerifyEdDSA checks an EdDSA signature: decodes R and A, recomputes k, and
// checks S*B == R + k*A.
func VerifyEdDSA(c *EdwardsCurve, pubEnc, msg, sig []byte) (bool, error) {
	if len(sig) != 2*c.EncLen {
		return false, perr.ErrInvalidSignature
	}
	rEnc := sig[:c.EncLen]
	sBytes := sig[c.EncLen:]
	sVal := mpz.FromBytes(sBytes, true)
	if sVal.Cmp(c.Cfg.Order) >= 0 {
		return false, nil
	}

	rPoint, err := decodePoint(c, rEnc)
	if err != nil {
		return false, nil
	}
	aPoint, err := decodePoint(c, pubEnc)
	if err != nil {
		return false, nil
	}

	kDigest := hashConcat(c, rEnc, pubEnc, msg)
	k := reduceWideScalar(c, kDigest)

	lhs := ScalarMul(c.Base, sVal)
	rhs := ecpoint.Addition(rPoint, ScalarMul(aPoint, k))

	lx, ly, err1 := ecpoint.ConvertFrom(c.Cfg, lhs)
	rx, ry, err2 := ecpoint.ConvertFrom(c.Cfg, rhs)
	if err1 != nil || err2 != nil {
		return false, nil
	}
	return lx.Cmp(rx) == 0 && ly.Cmp(ry) == 0, nil
}

// decodePoint reverses EncodePoint: recovers x from y and the stored sign
// bit via the curve equation x^2 = (y^2-1) / (d*y^2+1).
func decodePoint(c *EdwardsCurve, enc []byte) (*ecpoint.Point, error) {
	buf := append([]byte{}, enc...)
	signBit := buf[c.EncLen-1] >> 7
	buf[c.EncLen-1] &= 0x7f
	y := mpz.FromBytes(buf, true)

	f := c.Cfg.Field
	ySq := f.Reduce(y.Mul(y))
	num := f.Reduce(ySq.Sub(mpz.FromInt64(1)))
	den := f.Reduce(f.Reduce(c.Cfg.D.Mul(ySq)).Add(mpz.FromInt64(1)))
	denInv, err := f.Invert(den)
	if err != nil {
		return nil, perr.ErrPointError
	}
	xSq := f.Reduce(num.Mul(denInv))
	x, err := f.SqrtMod(xSq)
	if err != nil {
		return nil, perr.ErrPointError
	}
	xLowBit, _ := x.Mod(mpz.FromInt64(2))
	if byte(xLowBit.Sign())&1 != signBit {
		x = f.Reduce(x.Neg())
	}
	return ecpoint.ConvertTo(c.Cfg, x, y), nil
}
