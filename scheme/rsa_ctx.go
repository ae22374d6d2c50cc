// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scheme

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/phantomcrypto/phantom/csprng"
	"github.com/phantomcrypto/phantom/hash"
	"github.com/phantomcrypto/phantom/mpz"
	"github.com/phantomcrypto/phantom/perr"
	"github.com/phantomcrypto/phantom/rsa"
)

func init() {
	Register(PKCPKERSAESOAEP, newRSAOAEPContext)
	Register(PKCSigRSASSAPSS, newRSAPSSContext)
}

func parseRSABits(parameterSet string) int {
	bits, err := strconv.Atoi(parameterSet)
	if err != nil || bits < 1024 {
		return 2048
	}
	return bits
}

type rsaBase struct {
	bits int
	pub  *rsa.PublicKey
	priv *rsa.PrivateKey
	log  *zap.SugaredLogger
}

func (c *rsaBase) Keygen(rng *csprng.DRBG) error {
	pub, priv, err := rsa.KeyGen(c.bits, mpz.FromInt64(65537), rng)
	if err != nil {
		return err
	}
	c.pub, c.priv = pub, priv
	logDebug(c.log, "rsa keygen complete", "bits", c.bits)
	return nil
}

func (c *rsaBase) SetPublicKey(b []byte) error {
	vals, err := decodeInts(b, 2)
	if err != nil {
		return err
	}
	c.pub = &rsa.PublicKey{N: vals[0], E: vals[1]}
	return nil
}

func (c *rsaBase) GetPublicKey() ([]byte, error) {
	if c.pub == nil {
		return nil, perr.ErrInvalidKey
	}
	return encodeInts(c.pub.N, c.pub.E), nil
}

func (c *rsaBase) SetPrivateKey(b []byte) error {
	vals, err := decodeInts(b, 8)
	if err != nil {
		return err
	}
	priv, err := rsa.NewPrivateKey(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], vals[6], vals[7])
	if err != nil {
		return err
	}
	c.priv = priv
	c.pub = &rsa.PublicKey{N: vals[0], E: vals[1]}
	return nil
}

func (c *rsaBase) GetPrivateKey() ([]byte, error) {
	if c.priv == nil {
		return nil, perr.ErrInvalidKey
	}
	p := c.priv
	return encodeInts(p.N, p.E, p.D, p.P, p.Q, p.Exp1, p.Exp2, p.Inv), nil
}

func (c *rsaBase) MsgLen() int {
	if c.pub == nil {
		return 0
	}
	return (c.pub.N.BitLen() + 7) / 8
}

// rsaOAEPContext implements PKCPKERSAESOAEP.
type rsaOAEPContext struct{ rsaBase }

func newRSAOAEPContext(parameterSet string, logger *zap.SugaredLogger) (Context, error) {
	return &rsaOAEPContext{rsaBase{bits: parseRSABits(parameterSet), log: logger}}, nil
}

func (c *rsaOAEPContext) Encrypt(msg []byte, rng *csprng.DRBG) ([]byte, error) {
	if c.pub == nil {
		return nil, perr.ErrInvalidKey
	}
	modBytes := (c.pub.N.BitLen() + 7) / 8
	em, err := rsa.OAEPEncode(hash.SHA2_256, msg, nil, modBytes, rng)
	if err != nil {
		return nil, err
	}
	m := mpz.FromBytes(em, false)
	ct, err := rsa.Encrypt(c.pub, m)
	if err != nil {
		return nil, err
	}
	return ct.Bytes(modBytes, false)
}

func (c *rsaOAEPContext) Decrypt(ctBytes []byte) ([]byte, error) {
	if c.priv == nil {
		return nil, perr.ErrInvalidKey
	}
	modBytes := (c.priv.N.BitLen() + 7) / 8
	ct := mpz.FromBytes(ctBytes, false)
	m, err := rsa.DecryptCRT(c.priv, ct)
	if err != nil {
		return nil, err
	}
	em, err := m.Bytes(modBytes, false)
	if err != nil {
		return nil, err
	}
	return rsa.OAEPDecode(hash.SHA2_256, em, nil, modBytes)
}

// rsaPSSContext implements PKCSigRSASSAPSS.
type rsaPSSContext struct {
	rsaBase
	saltLen int
}

func newRSAPSSContext(parameterSet string, logger *zap.SugaredLogger) (Context, error) {
	return &rsaPSSContext{rsaBase: rsaBase{bits: parseRSABits(parameterSet), log: logger}, saltLen: 32}, nil
}

func (c *rsaPSSContext) Sign(msg []byte, rng *csprng.DRBG) ([]byte, error) {
	if c.priv == nil {
		return nil, perr.ErrInvalidKey
	}
	sig, err := rsa.PSSSign(c.priv, hash.SHA2_256, msg, c.saltLen, rng)
	if err != nil {
		return nil, err
	}
	modBytes := (c.priv.N.BitLen() + 7) / 8
	return sig.Bytes(modBytes, false)
}

func (c *rsaPSSContext) Verify(msg, sigBytes []byte) (bool, error) {
	if c.pub == nil {
		return false, perr.ErrInvalidKey
	}
	ok, err := rsa.PSSVerify(c.pub, hash.SHA2_256, msg, sigBytes, c.saltLen)
	if err != nil {
		return false, fmt.Errorf("%w", perr.ErrInvalidSignature)
	}
	return ok, nil
}
