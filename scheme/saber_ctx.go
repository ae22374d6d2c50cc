// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scheme

import (
	"encoding/binary"
	"fmt"

	"go.uber.org/zap"

	"github.com/phantomcrypto/phantom/csprng"
	"github.com/phantomcrypto/phantom/perr"
	"github.com/phantomcrypto/phantom/polyring"
	"github.com/phantomcrypto/phantom/saber"
)

func init() {
	Register(PKCPKESaber, newSaberPKEContext)
	Register(PKCKEMSaber, newSaberKEMContext)
}

func newSaberParams(parameterSet string) saber.Params {
	return saber.Saber()
}

// int64MatrixToBytes/bytesToInt64Matrix serialize the rounded Saber rows
// (already < 2^13, so 4 bytes per entry is ample headroom) the same way
// polysToBytes/bytesToPolys do for full ring elements.
func int64MatrixToBytes(rows [][]int64) []byte {
	out := make([]byte, 0, len(rows)*1024)
	for _, row := range rows {
		for _, v := range row {
			var b [4]byte
			binary.BigEndian.PutUint32(b[:], uint32(v))
			out = append(out, b[:]...)
		}
	}
	return out
}

func bytesToInt64Matrix(data []byte, rows, cols int) ([][]int64, error) {
	need := rows * cols * 4
	if len(data) < need {
		return nil, fmt.Errorf("%w: truncated key wire format", perr.ErrInvalidKey)
	}
	out := make([][]int64, rows)
	pos := 0
	for i := 0; i < rows; i++ {
		out[i] = make([]int64, cols)
		for j := 0; j < cols; j++ {
			out[i][j] = int64(int32(binary.BigEndian.Uint32(data[pos : pos+4])))
			pos += 4
		}
	}
	return out, nil
}

func int64SliceToBytes(v []int64) []byte {
	return int64MatrixToBytes([][]int64{v})
}

func bytesToInt64Slice(data []byte, n int) ([]int64, error) {
	rows, err := bytesToInt64Matrix(data, 1, n)
	if err != nil {
		return nil, err
	}
	return rows[0], nil
}

type saberBase struct {
	params saber.Params
	pub    *saber.PublicKey
	priv   *saber.PrivateKey
	z      []byte
	log    *zap.SugaredLogger
}

func (c *saberBase) Keygen(rng *csprng.DRBG) error {
	pub, priv, err := saber.KeyGen(c.params, rng)
	if err != nil {
		return err
	}
	c.pub, c.priv = pub, priv
	c.z = make([]byte, 32)
	if err := rng.GetMem(c.z, 32); err != nil {
		return err
	}
	logDebug(c.log, "saber keygen complete", "k", c.params.K)
	return nil
}

func (c *saberBase) SetPublicKey(b []byte) error {
	if len(b) < 32 {
		return perr.ErrInvalidKey
	}
	rows, err := bytesToInt64Matrix(b[32:], c.params.K, c.params.N)
	if err != nil {
		return err
	}
	c.pub = &saber.PublicKey{SeedA: append([]byte(nil), b[:32]...), B: rows}
	return nil
}

func (c *saberBase) GetPublicKey() ([]byte, error) {
	if c.pub == nil {
		return nil, perr.ErrInvalidKey
	}
	out := append([]byte(nil), c.pub.SeedA...)
	return append(out, int64MatrixToBytes(c.pub.B)...), nil
}

func (c *saberBase) SetPrivateKey(b []byte) error {
	r := polyring.NewRing(c.params.N, int64(1)<<uint(c.params.EQ))
	s, err := bytesToPolys(b, r, c.params.K)
	if err != nil {
		return err
	}
	c.priv = &saber.PrivateKey{S: s}
	return nil
}

func (c *saberBase) GetPrivateKey() ([]byte, error) {
	if c.priv == nil {
		return nil, perr.ErrInvalidKey
	}
	return polysToBytes(c.priv.S), nil
}

func (c *saberBase) MsgLen() int { return 32 }

func serializeSaberCiphertextWire(bp [][]int64, cc []int64) []byte {
	out := int64MatrixToBytes(bp)
	return append(out, int64SliceToBytes(cc)...)
}

func decodeSaberCiphertextWire(b []byte, p saber.Params) (*saber.Ciphertext, error) {
	bpBytes := p.K * p.N * 4
	if len(b) < bpBytes {
		return nil, fmt.Errorf("%w: truncated ciphertext", perr.ErrInvalidKey)
	}
	bp, err := bytesToInt64Matrix(b[:bpBytes], p.K, p.N)
	if err != nil {
		return nil, err
	}
	cc, err := bytesToInt64Slice(b[bpBytes:], p.N)
	if err != nil {
		return nil, err
	}
	return &saber.Ciphertext{BPrime: bp, C: cc}, nil
}

type saberPKEContext struct{ saberBase }

func newSaberPKEContext(parameterSet string, logger *zap.SugaredLogger) (Context, error) {
	return &saberPKEContext{saberBase{params: newSaberParams(parameterSet), log: logger}}, nil
}

func (c *saberPKEContext) Encrypt(msg []byte, rng *csprng.DRBG) ([]byte, error) {
	if c.pub == nil {
		return nil, perr.ErrInvalidKey
	}
	coins := make([]byte, 32)
	if err := rng.GetMem(coins, 32); err != nil {
		return nil, err
	}
	cph, err := saber.Encrypt(c.params, c.pub, msg, coins)
	if err != nil {
		return nil, err
	}
	return serializeSaberCiphertextWire(cph.BPrime, cph.C), nil
}

func (c *saberPKEContext) Decrypt(ctBytes []byte) ([]byte, error) {
	if c.priv == nil {
		return nil, perr.ErrInvalidKey
	}
	cph, err := decodeSaberCiphertextWire(ctBytes, c.params)
	if err != nil {
		return nil, err
	}
	return saber.Decrypt(c.params, c.priv, cph), nil
}

type saberKEMContext struct{ saberBase }

func newSaberKEMContext(parameterSet string, logger *zap.SugaredLogger) (Context, error) {
	return &saberKEMContext{saberBase{params: newSaberParams(parameterSet), log: logger}}, nil
}

func (c *saberKEMContext) Encapsulate(rng *csprng.DRBG) ([]byte, []byte, error) {
	if c.pub == nil {
		return nil, nil, perr.ErrInvalidKey
	}
	cph, ss, err := saber.Encapsulate(c.params, c.pub, rng)
	if err != nil {
		return nil, nil, err
	}
	return serializeSaberCiphertextWire(cph.BPrime, cph.C), ss, nil
}

func (c *saberKEMContext) Decapsulate(ctBytes []byte) ([]byte, error) {
	if c.priv == nil || c.pub == nil {
		return nil, perr.ErrInvalidKey
	}
	cph, err := decodeSaberCiphertextWire(ctBytes, c.params)
	if err != nil {
		return nil, err
	}
	z := c.z
	if z == nil {
		z = make([]byte, 32)
	}
	return saber.Decapsulate(c.params, c.priv, c.pub, z, cph)
}
