// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scheme

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/phantomcrypto/phantom/csprng"
	"github.com/phantomcrypto/phantom/ecpoint"
	"github.com/phantomcrypto/phantom/ecsig"
	"github.com/phantomcrypto/phantom/hash"
	"github.com/phantomcrypto/phantom/mpz"
	"github.com/phantomcrypto/phantom/perr"
)

func init() {
	Register(PKCSigECDSA, newECDSAContext)
	Register(PKCSigEdDSA, newEdDSAContext)
	Register(PKCKeyECDH, newECDHContext)
}

// ecdsaContext implements PKCSigECDSA over P-256.
type ecdsaContext struct {
	curve *ecsig.Curve
	priv  *mpz.Int
	pub   *ecpoint.Point
	log   *zap.SugaredLogger
}

// newECDSACurve selects the curve by parameterSet: "sect163k1" (or
// "K163") picks the binary Koblitz curve, anything else (including "")
// defaults to P-256.
func newECDSACurve(parameterSet string) *ecsig.Curve {
	switch parameterSet {
	case "sect163k1", "K163", "k163":
		return ecsig.K163()
	default:
		return ecsig.P256()
	}
}

func newECDSAContext(parameterSet string, logger *zap.SugaredLogger) (Context, error) {
	return &ecdsaContext{curve: newECDSACurve(parameterSet), log: logger}, nil
}

func (c *ecdsaContext) Keygen(rng *csprng.DRBG) error {
	buf := make([]byte, 32)
	if err := rng.GetMem(buf, 32); err != nil {
		return err
	}
	d := mpz.FromBytes(buf, false)
	d, err := d.Mod(c.curve.Cfg.Order)
	if err != nil {
		return err
	}
	c.priv = d
	c.pub = ecsig.ScalarMul(c.curve.Base, d)
	logDebug(c.log, "ecdsa keygen complete")
	return nil
}

func (c *ecdsaContext) SetPublicKey(b []byte) error {
	vals, err := decodeInts(b, 2)
	if err != nil {
		return err
	}
	c.pub = ecpoint.ConvertTo(c.curve.Cfg, vals[0], vals[1])
	return nil
}

func (c *ecdsaContext) GetPublicKey() ([]byte, error) {
	if c.pub == nil {
		return nil, perr.ErrInvalidKey
	}
	x, y, err := ecpoint.ConvertFrom(c.curve.Cfg, c.pub)
	if err != nil {
		return nil, err
	}
	return encodeInts(x, y), nil
}

func (c *ecdsaContext) SetPrivateKey(b []byte) error {
	vals, err := decodeInts(b, 1)
	if err != nil {
		return err
	}
	c.priv = vals[0]
	c.pub = ecsig.ScalarMul(c.curve.Base, c.priv)
	return nil
}

func (c *ecdsaContext) GetPrivateKey() ([]byte, error) {
	if c.priv == nil {
		return nil, perr.ErrInvalidKey
	}
	return encodeInts(c.priv), nil
}

func (c *ecdsaContext) MsgLen() int { return 0 }

func (c *ecdsaContext) Sign(msg []byte, rng *csprng.DRBG) ([]byte, error) {
	if c.priv == nil {
		return nil, perr.ErrInvalidKey
	}
	digest := hash.New(c.curve.HashAlg)
	_ = digest.Init(c.curve.HashBits)
	digest.Update(msg)
	r, s, err := ecsig.Sign(c.curve, c.priv, digest.Final())
	if err != nil {
		return nil, err
	}
	return encodeInts(r, s), nil
}

func (c *ecdsaContext) Verify(msg, sigBytes []byte) (bool, error) {
	if c.pub == nil {
		return false, perr.ErrInvalidKey
	}
	vals, err := decodeInts(sigBytes, 2)
	if err != nil {
		return false, fmt.Errorf("%w", perr.ErrInvalidSignature)
	}
	digest := hash.New(c.curve.HashAlg)
	_ = digest.Init(c.curve.HashBits)
	digest.Update(msg)
	ok, err := ecsig.Verify(c.curve, c.pub, digest.Final(), vals[0], vals[1])
	if err != nil {
		return false, fmt.Errorf("%w", perr.ErrInvalidSignature)
	}
	return ok, nil
}

// eddsaContext implements PKCSigEdDSA over Ed25519.
type eddsaContext struct {
	curve *ecsig.EdwardsCurve
	seed  []byte
	pub   []byte
	log   *zap.SugaredLogger
}

func newEdDSAContext(parameterSet string, logger *zap.SugaredLogger) (Context, error) {
	return &eddsaContext{curve: ecsig.Ed25519(), log: logger}, nil
}

func (c *eddsaContext) Keygen(rng *csprng.DRBG) error {
	seed := make([]byte, 32)
	if err := rng.GetMem(seed, 32); err != nil {
		return err
	}
	pub, err := ecsig.PublicFromPrivate(c.curve, seed)
	if err != nil {
		return err
	}
	c.seed, c.pub = seed, pub
	logDebug(c.log, "eddsa keygen complete")
	return nil
}

func (c *eddsaContext) SetPublicKey(b []byte) error {
	c.pub = append([]byte(nil), b...)
	return nil
}

func (c *eddsaContext) GetPublicKey() ([]byte, error) {
	if c.pub == nil {
		return nil, perr.ErrInvalidKey
	}
	return append([]byte(nil), c.pub...), nil
}

func (c *eddsaContext) SetPrivateKey(b []byte) error {
	pub, err := ecsig.PublicFromPrivate(c.curve, b)
	if err != nil {
		return err
	}
	c.seed = append([]byte(nil), b...)
	c.pub = pub
	return nil
}

func (c *eddsaContext) GetPrivateKey() ([]byte, error) {
	if c.seed == nil {
		return nil, perr.ErrInvalidKey
	}
	return append([]byte(nil), c.seed...), nil
}

func (c *eddsaContext) MsgLen() int { return 0 }

func (c *eddsaContext) Sign(msg []byte, rng *csprng.DRBG) ([]byte, error) {
	if c.seed == nil {
		return nil, perr.ErrInvalidKey
	}
	return ecsig.SignEdDSA(c.curve, c.seed, msg)
}

func (c *eddsaContext) Verify(msg, sig []byte) (bool, error) {
	if c.pub == nil {
		return false, perr.ErrInvalidKey
	}
	ok, err := ecsig.VerifyEdDSA(c.curve, c.pub, msg, sig)
	if err != nil {
		return false, fmt.Errorf("%w", perr.ErrInvalidSignature)
	}
	return ok, nil
}
