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

// ecdhContext implements the supplemented PKC_KEY_ECDH scheme: a two-party
// Diffie-Hellman exchange built entirely from the already-specified EC
// point abstraction and scalar multiplication (C11/C12), per
// original_source's src/schemes/key_exchange/ecdh reference.
type ecdhContext struct {
	curve   *ecsig.Curve
	priv    *mpz.Int
	pub     *ecpoint.Point
	shared  []byte
	log     *zap.SugaredLogger
}

func newECDHContext(parameterSet string, logger *zap.SugaredLogger) (Context, error) {
	return &ecdhContext{curve: ecsig.P256(), log: logger}, nil
}

func (c *ecdhContext) Keygen(rng *csprng.DRBG) error {
	return c.ephemeralKeypair(rng)
}

func (c *ecdhContext) ephemeralKeypair(rng *csprng.DRBG) error {
	buf := make([]byte, 32)
	if err := rng.GetMem(buf, 32); err != nil {
		return err
	}
	d, err := mpz.FromBytes(buf, false).Mod(c.curve.Cfg.Order)
	if err != nil {
		return err
	}
	c.priv = d
	c.pub = ecsig.ScalarMul(c.curve.Base, d)
	return nil
}

func (c *ecdhContext) SetPublicKey(b []byte) error {
	vals, err := decodeInts(b, 2)
	if err != nil {
		return err
	}
	c.pub = ecpoint.ConvertTo(c.curve.Cfg, vals[0], vals[1])
	return nil
}

func (c *ecdhContext) GetPublicKey() ([]byte, error) {
	if c.pub == nil {
		return nil, perr.ErrInvalidKey
	}
	x, y, err := ecpoint.ConvertFrom(c.curve.Cfg, c.pub)
	if err != nil {
		return nil, err
	}
	return encodeInts(x, y), nil
}

func (c *ecdhContext) SetPrivateKey(b []byte) error {
	vals, err := decodeInts(b, 1)
	if err != nil {
		return err
	}
	c.priv = vals[0]
	c.pub = ecsig.ScalarMul(c.curve.Base, c.priv)
	return nil
}

func (c *ecdhContext) GetPrivateKey() ([]byte, error) {
	if c.priv == nil {
		return nil, perr.ErrInvalidKey
	}
	return encodeInts(c.priv), nil
}

func (c *ecdhContext) MsgLen() int { return 32 }

// Init generates this party's ephemeral key pair and returns the encoded
// public point to send to the peer.
func (c *ecdhContext) Init(rng *csprng.DRBG) ([]byte, error) {
	if err := c.ephemeralKeypair(rng); err != nil {
		return nil, err
	}
	return c.GetPublicKey()
}

// Setup consumes the peer's public message and derives the raw shared
// point; Final hashes it down to a fixed-length secret.
func (c *ecdhContext) Setup(peerMessage []byte) error {
	if c.priv == nil {
		return perr.ErrInvalidKey
	}
	vals, err := decodeInts(peerMessage, 2)
	if err != nil {
		return err
	}
	peerPub := ecpoint.ConvertTo(c.curve.Cfg, vals[0], vals[1])
	sharedPoint := ecsig.ScalarMul(peerPub, c.priv)
	sx, _, err := ecpoint.ConvertFrom(c.curve.Cfg, sharedPoint)
	if err != nil {
		return err
	}
	xBytes, err := sx.Bytes((c.curve.BitLen+7)/8, false)
	if err != nil {
		return err
	}
	h := hash.New(hash.SHA2_256)
	_ = h.Init(256)
	h.Update(xBytes)
	c.shared = h.Final()
	return nil
}

func (c *ecdhContext) Final() ([]byte, error) {
	if c.shared == nil {
		return nil, perr.ErrInvalidKey
	}
	return c.shared, nil
}
