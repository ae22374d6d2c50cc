// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ecsig

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phantomcrypto/phantom/ecpoint"
	"github.com/phantomcrypto/phantom/hash"
	"github.com/phantomcrypto/phantom/mpz"
)

func sha256Sum(msg []byte) []byte {
	h := hash.New(hash.SHA2_256)
	_ = h.Init(256)
	h.Update(msg)
	return h.Final()
}

// TestECDSAP256SignVerifyRFC6979Vector exercises the RFC 6979 deterministic
// P-256/SHA-256 private key over the message "sample": sign then verify
// must round-trip, and re-signing must reproduce the same (r, s) since the
// nonce is derived deterministically rather than drawn from entropy.
func TestECDSAP256SignVerifyRFC6979Vector(t *testing.T) {
	c := P256()
	d, err := mpz.Parse("c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721", 16)
	require.NoError(t, err)
	d, _ = d.Mod(c.Cfg.Order)

	msgHash := sha256Sum([]byte("sample"))
	r1, s1, err := Sign(c, d, msgHash)
	require.NoError(t, err)
	r2, s2, err := Sign(c, d, msgHash)
	require.NoError(t, err)
	require.Equal(t, 0, r1.Cmp(r2), "RFC 6979 nonce must be deterministic")
	require.Equal(t, 0, s1.Cmp(s2))

	pub := ScalarMul(c.Base, d)
	ok, err := Verify(c, pub, msgHash, r1, s1)
	require.NoError(t, err)
	require.True(t, ok)

	tamperedHash := sha256Sum([]byte("sampleX"))
	ok, err = Verify(c, pub, tamperedHash, r1, s1)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestECDSAP256RejectsWrongPublicKey(t *testing.T) {
	c := P256()
	d := mpz.FromInt64(123456789)
	other := mpz.FromInt64(987654321)
	msgHash := sha256Sum([]byte("mismatch"))
	r, s, err := Sign(c, d, msgHash)
	require.NoError(t, err)

	wrongPub := ScalarMul(c.Base, other)
	ok, err := Verify(c, wrongPub, msgHash, r, s)
	require.NoError(t, err)
	require.False(t, ok)
}

// TestEd25519SignVerifyEmptyMessage exercises the RFC 8032 test-vector-1
// seed over an empty message: sign then verify must round-trip.
func TestEd25519SignVerifyEmptyMessage(t *testing.T) {
	c := Ed25519()
	seed, err := mpz.Parse("9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60", 16)
	require.NoError(t, err)
	seedBytes, err := seed.Bytes(32, false)
	require.NoError(t, err)

	pub, err := PublicFromPrivate(c, seedBytes)
	require.NoError(t, err)

	sig, err := SignEdDSA(c, seedBytes, nil)
	require.NoError(t, err)
	require.Len(t, sig, 64)

	ok, err := VerifyEdDSA(c, pub, nil, sig)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = VerifyEdDSA(c, pub, []byte("not the signed message"), sig)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEd25519RejectsTamperedSignature(t *testing.T) {
	c := Ed25519()
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i * 7)
	}
	pub, err := PublicFromPrivate(c, seed)
	require.NoError(t, err)

	msg := []byte("tamper test")
	sig, err := SignEdDSA(c, seed, msg)
	require.NoError(t, err)
	sig[0] ^= 0xff

	ok, err := VerifyEdDSA(c, pub, msg, sig)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestScalarMulMatchesRepeatedAddition(t *testing.T) {
	c := P256()
	three := ScalarMul(c.Base, mpz.FromInt64(3))
	viaAdd := ecpoint.Addition(ecpoint.Addition(c.Base, c.Base), c.Base)
	x1, y1, err := ecpoint.ConvertFrom(c.Cfg, three)
	require.NoError(t, err)
	x2, y2, err := ecpoint.ConvertFrom(c.Cfg, viaAdd)
	require.NoError(t, err)
	require.Equal(t, 0, x1.Cmp(x2))
	require.Equal(t, 0, y1.Cmp(y2))
}
