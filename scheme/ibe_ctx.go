// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scheme

import (
	"go.uber.org/zap"

	"github.com/phantomcrypto/phantom/csprng"
	"github.com/phantomcrypto/phantom/ecpoint"
	"github.com/phantomcrypto/phantom/ecsig"
	"github.com/phantomcrypto/phantom/hash"
	"github.com/phantomcrypto/phantom/mpz"
	"github.com/phantomcrypto/phantom/perr"
)

func init() {
	Register(PKCIBEDLP, newIBEContext)
}

// ibeContext implements the supplemented PKC_IBE_DLP scheme: a
// discrete-log-based identity-based encryption scheme (Maurer-Yacobi
// style, not pairing-based — no bilinear pairing component exists in this
// module) built entirely from C12 EC point arithmetic, C8 hash-to-scalar,
// and C9 CSPRNG. The KGC's master secret s and master public key s*G play
// the role of the scheme's "private"/"public" key pair; Extract derives a
// per-identity secret d_id = s*H1(id) mod n that only the KGC can compute.
type ibeContext struct {
	curve *ecsig.Curve
	s     *mpz.Int       // master secret (KGC side)
	pPub  *ecpoint.Point // master public key = s*G
	log   *zap.SugaredLogger
}

func newIBEContext(parameterSet string, logger *zap.SugaredLogger) (Context, error) {
	return &ibeContext{curve: ecsig.P256(), log: logger}, nil
}

func (c *ibeContext) Keygen(rng *csprng.DRBG) error {
	buf := make([]byte, 32)
	if err := rng.GetMem(buf, 32); err != nil {
		return err
	}
	s, err := mpz.FromBytes(buf, false).Mod(c.curve.Cfg.Order)
	if err != nil {
		return err
	}
	c.s = s
	c.pPub = ecsig.ScalarMul(c.curve.Base, s)
	logDebug(c.log, "ibe master keygen complete")
	return nil
}

func (c *ibeContext) SetPublicKey(b []byte) error {
	vals, err := decodeInts(b, 2)
	if err != nil {
		return err
	}
	c.pPub = ecpoint.ConvertTo(c.curve.Cfg, vals[0], vals[1])
	return nil
}

func (c *ibeContext) GetPublicKey() ([]byte, error) {
	if c.pPub == nil {
		return nil, perr.ErrInvalidKey
	}
	x, y, err := ecpoint.ConvertFrom(c.curve.Cfg, c.pPub)
	if err != nil {
		return nil, err
	}
	return encodeInts(x, y), nil
}

func (c *ibeContext) SetPrivateKey(b []byte) error {
	vals, err := decodeInts(b, 1)
	if err != nil {
		return err
	}
	c.s = vals[0]
	c.pPub = ecsig.ScalarMul(c.curve.Base, c.s)
	return nil
}

func (c *ibeContext) GetPrivateKey() ([]byte, error) {
	if c.s == nil {
		return nil, perr.ErrInvalidKey
	}
	return encodeInts(c.s), nil
}

func (c *ibeContext) MsgLen() int { return 32 }

// hashToScalarID maps an identity string to a scalar mod the curve order
// (H1 in the Maurer-Yacobi construction).
func (c *ibeContext) hashToScalarID(id []byte) (*mpz.Int, error) {
	h := hash.New(c.curve.HashAlg)
	_ = h.Init(c.curve.HashBits)
	h.Update([]byte("phantom-ibe-h1"))
	h.Update(id)
	digest := h.Final()
	return mpz.FromBytes(digest, false).Mod(c.curve.Cfg.Order)
}

// Extract computes the identity's secret scalar d_id = s*H1(id) mod n.
// Only meaningful when this Context holds the master secret s.
func (c *ibeContext) Extract(id []byte) ([]byte, error) {
	if c.s == nil {
		return nil, perr.ErrInvalidKey
	}
	hID, err := c.hashToScalarID(id)
	if err != nil {
		return nil, err
	}
	dID, err := c.s.Mul(hID).Mod(c.curve.Cfg.Order)
	if err != nil {
		return nil, err
	}
	return encodeInts(dID), nil
}

// EncryptFor runs ElGamal-style encryption: ephemeral k, C1 = k*G, shared =
// k*H1(id)*Ppub, key = H2(shared.x), ciphertext = C1 || msg XOR key-stream.
func (c *ibeContext) EncryptFor(id, msg []byte, rng *csprng.DRBG) ([]byte, error) {
	if c.pPub == nil {
		return nil, perr.ErrInvalidKey
	}
	buf := make([]byte, 32)
	if err := rng.GetMem(buf, 32); err != nil {
		return nil, err
	}
	k, err := mpz.FromBytes(buf, false).Mod(c.curve.Cfg.Order)
	if err != nil {
		return nil, err
	}
	hID, err := c.hashToScalarID(id)
	if err != nil {
		return nil, err
	}
	c1 := ecsig.ScalarMul(c.curve.Base, k)
	kHid, err := k.Mul(hID).Mod(c.curve.Cfg.Order)
	if err != nil {
		return nil, err
	}
	shared := ecsig.ScalarMul(c.pPub, kHid)
	key, err := c.deriveKeystream(shared, len(msg))
	if err != nil {
		return nil, err
	}
	c1x, c1y, err := ecpoint.ConvertFrom(c.curve.Cfg, c1)
	if err != nil {
		return nil, err
	}
	out := encodeInts(c1x, c1y)
	ct := make([]byte, len(msg))
	for i := range msg {
		ct[i] = msg[i] ^ key[i]
	}
	return append(out, ct...), nil
}

// DecryptWith uses an extracted identity key d_id = s*H1(id) to recompute
// the same shared point as d_id*C1 = s*H1(id)*k*G = k*H1(id)*Ppub.
func (c *ibeContext) DecryptWith(extractedKey, ct []byte) ([]byte, error) {
	vals, err := decodeInts(ct, 2)
	if err != nil {
		return nil, err
	}
	c1 := ecpoint.ConvertTo(c.curve.Cfg, vals[0], vals[1])
	dIDVals, err := decodeInts(extractedKey, 1)
	if err != nil {
		return nil, err
	}
	shared := ecsig.ScalarMul(c1, dIDVals[0])

	prefixLen := len(encodeInts(vals[0], vals[1]))
	body := ct[prefixLen:]
	key, err := c.deriveKeystream(shared, len(body))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(body))
	for i := range body {
		out[i] = body[i] ^ key[i]
	}
	return out, nil
}

func (c *ibeContext) deriveKeystream(p *ecpoint.Point, n int) ([]byte, error) {
	x, _, err := ecpoint.ConvertFrom(c.curve.Cfg, p)
	if err != nil {
		return nil, err
	}
	xBytes, err := x.Bytes((c.curve.BitLen+7)/8, false)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, n)
	var counter uint32
	for len(out) < n {
		h := hash.New(hash.SHAKE256)
		_ = h.Init(256)
		h.Update(xBytes)
		h.Update([]byte{byte(counter), byte(counter >> 8), byte(counter >> 16), byte(counter >> 24)})
		block := make([]byte, 32)
		h.Squeeze(block, 32)
		out = append(out, block...)
		counter++
	}
	return out[:n], nil
}
