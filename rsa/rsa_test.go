// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rsa

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phantomcrypto/phantom/csprng"
	"github.com/phantomcrypto/phantom/hash"
	"github.com/phantomcrypto/phantom/mpz"
)

func counterEntropy() csprng.EntropyFunc {
	var ctr byte
	return func(n int, out []byte) bool {
		for i := range out {
			ctr++
			out[i] = ctr ^ byte(i*31)
		}
		return true
	}
}

func newTestRNG(t *testing.T) *csprng.DRBG {
	t.Helper()
	rng, err := csprng.New(1<<20, counterEntropy())
	require.NoError(t, err)
	return rng
}

func TestKeyGenAndCRTRoundTrip(t *testing.T) {
	rng := newTestRNG(t)
	e := mpz.FromInt64(65537)
	pub, priv, err := KeyGen(256, e, rng)
	require.NoError(t, err)
	require.NotNil(t, pub)
	require.NotNil(t, priv)

	m := mpz.FromInt64(424242)
	c, err := Encrypt(pub, m)
	require.NoError(t, err)

	recovered, err := DecryptCRT(priv, c)
	require.NoError(t, err)
	require.Equal(t, 0, m.Cmp(recovered))

	recoveredPlain, err := DecryptPlain(priv, c)
	require.NoError(t, err)
	require.Equal(t, 0, m.Cmp(recoveredPlain))
}

func TestOAEPRoundTrip(t *testing.T) {
	rng := newTestRNG(t)
	e := mpz.FromInt64(65537)
	pub, priv, err := KeyGen(768, e, rng)
	require.NoError(t, err)

	modBytes := (pub.N.BitLen() + 7) / 8
	msg := []byte("phantom oaep round trip")
	em, err := OAEPEncode(hash.SHA2_256, msg, nil, modBytes, rng)
	require.NoError(t, err)

	c, err := Encrypt(pub, mpz.FromBytes(em, false))
	require.NoError(t, err)
	m, err := DecryptCRT(priv, c)
	require.NoError(t, err)
	emBack, err := m.Bytes(modBytes, false)
	require.NoError(t, err)

	out, err := OAEPDecode(hash.SHA2_256, emBack, nil, modBytes)
	require.NoError(t, err)
	require.Equal(t, msg, out)
}

func TestPSSSignVerifyRoundTrip(t *testing.T) {
	rng := newTestRNG(t)
	e := mpz.FromInt64(65537)
	pub, priv, err := KeyGen(768, e, rng)
	require.NoError(t, err)

	msg := []byte("sign me with pss")
	sig, err := PSSSign(priv, hash.SHA2_256, msg, 32, rng)
	require.NoError(t, err)

	modBytes := (pub.N.BitLen() + 7) / 8
	sigBytes, err := sig.Bytes(modBytes, false)
	require.NoError(t, err)

	ok, err := PSSVerify(pub, hash.SHA2_256, msg, sigBytes, 32)
	require.NoError(t, err)
	require.True(t, ok)

	tampered := append([]byte{}, msg...)
	tampered[0] ^= 0xff
	ok, err = PSSVerify(pub, hash.SHA2_256, tampered, sigBytes, 32)
	require.NoError(t, err)
	require.False(t, ok)
}
