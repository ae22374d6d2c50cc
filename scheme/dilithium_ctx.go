// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scheme

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/phantomcrypto/phantom/csprng"
	"github.com/phantomcrypto/phantom/dilithium"
	"github.com/phantomcrypto/phantom/perr"
	"github.com/phantomcrypto/phantom/polyring"
)

func init() {
	Register(PKCSigDilithium, newDilithiumContext)
}

func newDilithiumParams(parameterSet string) dilithium.Params {
	return dilithium.Dilithium2()
}

// dilithiumContext implements PKCSigDilithium, the lattice signature
// scheme's SigContext binding.
type dilithiumContext struct {
	params dilithium.Params
	pub    *dilithium.PublicKey
	priv   *dilithium.PrivateKey
	log    *zap.SugaredLogger
}

func newDilithiumContext(parameterSet string, logger *zap.SugaredLogger) (Context, error) {
	return &dilithiumContext{params: newDilithiumParams(parameterSet), log: logger}, nil
}

func (c *dilithiumContext) Keygen(rng *csprng.DRBG) error {
	pub, priv, err := dilithium.KeyGen(c.params, rng)
	if err != nil {
		return err
	}
	c.pub, c.priv = pub, priv
	logDebug(c.log, "dilithium keygen complete", "k", c.params.K, "l", c.params.L)
	return nil
}

func (c *dilithiumContext) ring() *polyring.Ring {
	return polyring.NewRing(c.params.N, c.params.Q)
}

func (c *dilithiumContext) SetPublicKey(b []byte) error {
	if len(b) < 32 {
		return perr.ErrInvalidKey
	}
	t1, err := bytesToPolys(b[32:], c.ring(), c.params.K)
	if err != nil {
		return err
	}
	c.pub = &dilithium.PublicKey{Rho: append([]byte(nil), b[:32]...), T1: t1}
	return nil
}

func (c *dilithiumContext) GetPublicKey() ([]byte, error) {
	if c.pub == nil {
		return nil, perr.ErrInvalidKey
	}
	out := append([]byte(nil), c.pub.Rho...)
	return append(out, polysToBytes(c.pub.T1)...), nil
}

// SetPrivateKey parses the fixed 96-byte Rho||K||Tr header followed by the
// S1 (L polys), S2 (K polys), and T0 (K polys) vectors.
func (c *dilithiumContext) SetPrivateKey(b []byte) error {
	if len(b) < 96 {
		return perr.ErrInvalidKey
	}
	rho, kSeed, tr := b[0:32], b[32:64], b[64:96]
	rest := b[96:]
	r := c.ring()
	s1, err := bytesToPolys(rest, r, c.params.L)
	if err != nil {
		return err
	}
	rest = rest[c.params.L*c.params.N*4:]
	s2, err := bytesToPolys(rest, r, c.params.K)
	if err != nil {
		return err
	}
	rest = rest[c.params.K*c.params.N*4:]
	t0, err := bytesToPolys(rest, r, c.params.K)
	if err != nil {
		return err
	}
	c.priv = &dilithium.PrivateKey{
		Rho: append([]byte(nil), rho...),
		K:   append([]byte(nil), kSeed...),
		Tr:  append([]byte(nil), tr...),
		S1:  s1, S2: s2, T0: t0,
	}
	return nil
}

func (c *dilithiumContext) GetPrivateKey() ([]byte, error) {
	if c.priv == nil {
		return nil, perr.ErrInvalidKey
	}
	out := append([]byte(nil), c.priv.Rho...)
	out = append(out, c.priv.K...)
	out = append(out, c.priv.Tr...)
	out = append(out, polysToBytes(c.priv.S1)...)
	out = append(out, polysToBytes(c.priv.S2)...)
	out = append(out, polysToBytes(c.priv.T0)...)
	return out, nil
}

func (c *dilithiumContext) MsgLen() int { return 0 }

// packHints/unpackHints flatten the K-by-N hint matrix into one bit per
// coefficient, big-endian within each byte.
func packHints(hints [][]bool) []byte {
	total := 0
	for _, row := range hints {
		total += len(row)
	}
	out := make([]byte, (total+7)/8)
	bit := 0
	for _, row := range hints {
		for _, h := range row {
			if h {
				out[bit/8] |= 1 << uint(7-bit%8)
			}
			bit++
		}
	}
	return out
}

func unpackHints(data []byte, rows, cols int) ([][]bool, error) {
	need := (rows*cols + 7) / 8
	if len(data) < need {
		return nil, fmt.Errorf("%w: truncated signature wire format", perr.ErrInvalidKey)
	}
	out := make([][]bool, rows)
	bit := 0
	for i := 0; i < rows; i++ {
		out[i] = make([]bool, cols)
		for j := 0; j < cols; j++ {
			out[i][j] = data[bit/8]&(1<<uint(7-bit%8)) != 0
			bit++
		}
	}
	return out, nil
}

func (c *dilithiumContext) serializeSignature(sig *dilithium.Signature) []byte {
	out := polysToBytes(sig.Z)
	out = append(out, packHints(sig.Hints)...)
	out = append(out, sig.CTilde...)
	return out
}

func (c *dilithiumContext) deserializeSignature(data []byte) (*dilithium.Signature, error) {
	r := c.ring()
	z, err := bytesToPolys(data, r, c.params.L)
	if err != nil {
		return nil, err
	}
	rest := data[c.params.L*c.params.N*4:]
	hintBytes := (c.params.K*c.params.N + 7) / 8
	if len(rest) < hintBytes {
		return nil, fmt.Errorf("%w: truncated signature wire format", perr.ErrInvalidKey)
	}
	hints, err := unpackHints(rest[:hintBytes], c.params.K, c.params.N)
	if err != nil {
		return nil, err
	}
	cTilde := append([]byte(nil), rest[hintBytes:]...)
	return &dilithium.Signature{Z: z, Hints: hints, CTilde: cTilde}, nil
}

func (c *dilithiumContext) Sign(msg []byte, rng *csprng.DRBG) ([]byte, error) {
	if c.priv == nil || c.pub == nil {
		return nil, perr.ErrInvalidKey
	}
	sig, err := dilithium.Sign(c.params, c.priv, c.pub, msg)
	if err != nil {
		return nil, err
	}
	return c.serializeSignature(sig), nil
}

func (c *dilithiumContext) Verify(msg, sigBytes []byte) (bool, error) {
	if c.pub == nil {
		return false, perr.ErrInvalidKey
	}
	sig, err := c.deserializeSignature(sigBytes)
	if err != nil {
		return false, err
	}
	return dilithium.Verify(c.params, c.pub, msg, sig)
}
