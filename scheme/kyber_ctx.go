// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scheme

import (
	"go.uber.org/zap"

	"github.com/phantomcrypto/phantom/csprng"
	"github.com/phantomcrypto/phantom/kyber"
	"github.com/phantomcrypto/phantom/perr"
	"github.com/phantomcrypto/phantom/polyring"
)

func init() {
	Register(PKCPKEKyber, newKyberPKEContext)
	Register(PKCKEMKyber, newKyberKEMContext)
}

type kyberBase struct {
	params kyber.Params
	pub    *kyber.PublicKey
	priv   *kyber.PrivateKey
	z      []byte
	log    *zap.SugaredLogger
}

// newKyberParams pins the Kyber parameter set this context uses; the only
// catalogued set is Kyber-768, so parameterSet is accepted but unused.
func newKyberParams(parameterSet string) kyber.Params {
	return kyber.Kyber768()
}

func (c *kyberBase) Keygen(rng *csprng.DRBG) error {
	pub, priv, err := kyber.KeyGen(c.params, rng)
	if err != nil {
		return err
	}
	c.pub, c.priv = pub, priv
	c.z = make([]byte, 32)
	if err := rng.GetMem(c.z, 32); err != nil {
		return err
	}
	logDebug(c.log, "kyber keygen complete", "k", c.params.K)
	return nil
}

func (c *kyberBase) SetPublicKey(b []byte) error {
	if len(b) < 32 {
		return perr.ErrInvalidKey
	}
	r := polyring.NewRing(c.params.N, int64(c.params.Q))
	t, err := bytesToPolys(b[32:], r, c.params.K)
	if err != nil {
		return err
	}
	c.pub = &kyber.PublicKey{Rho: append([]byte(nil), b[:32]...), T: t}
	return nil
}

func (c *kyberBase) GetPublicKey() ([]byte, error) {
	if c.pub == nil {
		return nil, perr.ErrInvalidKey
	}
	out := append([]byte(nil), c.pub.Rho...)
	return append(out, polysToBytes(c.pub.T)...), nil
}

func (c *kyberBase) SetPrivateKey(b []byte) error {
	r := polyring.NewRing(c.params.N, int64(c.params.Q))
	s, err := bytesToPolys(b, r, c.params.K)
	if err != nil {
		return err
	}
	c.priv = &kyber.PrivateKey{S: s}
	return nil
}

func (c *kyberBase) GetPrivateKey() ([]byte, error) {
	if c.priv == nil {
		return nil, perr.ErrInvalidKey
	}
	return polysToBytes(c.priv.S), nil
}

func (c *kyberBase) MsgLen() int { return 32 }

func serializeCiphertextWire(u [][]int64, v []int64) []byte {
	out := int64MatrixToBytes(u)
	return append(out, int64SliceToBytes(v)...)
}

func decodeCiphertextWire(b []byte, n, k int) ([][]int64, []int64, error) {
	u, err := bytesToInt64Matrix(b, k, n)
	if err != nil {
		return nil, nil, err
	}
	vOffset := k * n * 4
	v, err := bytesToInt64Slice(b[vOffset:], n)
	if err != nil {
		return nil, nil, err
	}
	return u, v, nil
}

// kyberPKEContext implements PKCPKEKyber directly against the IND-CPA PKE
// primitives.
type kyberPKEContext struct{ kyberBase }

func newKyberPKEContext(parameterSet string, logger *zap.SugaredLogger) (Context, error) {
	return &kyberPKEContext{kyberBase{params: newKyberParams(parameterSet), log: logger}}, nil
}

func (c *kyberPKEContext) Encrypt(msg []byte, rng *csprng.DRBG) ([]byte, error) {
	if c.pub == nil {
		return nil, perr.ErrInvalidKey
	}
	coins := make([]byte, 32)
	if err := rng.GetMem(coins, 32); err != nil {
		return nil, err
	}
	cph, err := kyber.Encrypt(c.params, c.pub, msg, coins)
	if err != nil {
		return nil, err
	}
	return serializeCiphertextWire(cph.U, cph.V), nil
}

func (c *kyberPKEContext) Decrypt(ctBytes []byte) ([]byte, error) {
	if c.priv == nil {
		return nil, perr.ErrInvalidKey
	}
	u, v, err := decodeCiphertextWire(ctBytes, c.params.N, c.params.K)
	if err != nil {
		return nil, err
	}
	return kyber.Decrypt(c.params, c.priv, &kyber.Ciphertext{U: u, V: v}), nil
}

// kyberKEMContext implements PKCKEMKyber, the FO-transformed KEM.
type kyberKEMContext struct{ kyberBase }

func newKyberKEMContext(parameterSet string, logger *zap.SugaredLogger) (Context, error) {
	return &kyberKEMContext{kyberBase{params: newKyberParams(parameterSet), log: logger}}, nil
}

func (c *kyberKEMContext) Encapsulate(rng *csprng.DRBG) ([]byte, []byte, error) {
	if c.pub == nil {
		return nil, nil, perr.ErrInvalidKey
	}
	cph, ss, err := kyber.Encapsulate(c.params, c.pub, rng)
	if err != nil {
		return nil, nil, err
	}
	return serializeCiphertextWire(cph.U, cph.V), ss, nil
}

func (c *kyberKEMContext) Decapsulate(ctBytes []byte) ([]byte, error) {
	if c.priv == nil || c.pub == nil {
		return nil, perr.ErrInvalidKey
	}
	u, v, err := decodeCiphertextWire(ctBytes, c.params.N, c.params.K)
	if err != nil {
		return nil, err
	}
	z := c.z
	if z == nil {
		z = make([]byte, 32)
	}
	return kyber.Decapsulate(c.params, c.priv, c.pub, z, &kyber.Ciphertext{U: u, V: v})
}
