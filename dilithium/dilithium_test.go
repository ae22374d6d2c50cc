// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dilithium

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phantomcrypto/phantom/csprng"
)

func fixedEntropy(seedByte byte) csprng.EntropyFunc {
	return func(n int, out []byte) bool {
		for i := range out {
			out[i] = seedByte + byte(i)
		}
		return true
	}
}

// TestDilithium2SignVerifyRoundTrip exercises scenario #5: a Dilithium-II
// sign/verify round trip, then flips the first byte of the signature's
// challenge seed and confirms Verify rejects it.
func TestDilithium2SignVerifyRoundTrip(t *testing.T) {
	p := Dilithium2()
	rng, err := csprng.New(1<<20, fixedEntropy(7))
	require.NoError(t, err)

	pk, sk, err := KeyGen(p, rng)
	require.NoError(t, err)

	msg := []byte("dilithium test message")
	sig, err := Sign(p, sk, pk, msg)
	require.NoError(t, err)

	ok, err := Verify(p, pk, msg, sig)
	require.NoError(t, err)
	require.True(t, ok)

	tampered := *sig
	tamperedTilde := append([]byte(nil), sig.CTilde...)
	tamperedTilde[0] ^= 1
	tampered.CTilde = tamperedTilde

	ok, err = Verify(p, pk, msg, &tampered)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDilithium2VerifyRejectsWrongMessage(t *testing.T) {
	p := Dilithium2()
	rng, err := csprng.New(1<<20, fixedEntropy(42))
	require.NoError(t, err)

	pk, sk, err := KeyGen(p, rng)
	require.NoError(t, err)

	sig, err := Sign(p, sk, pk, []byte("original"))
	require.NoError(t, err)

	ok, err := Verify(p, pk, []byte("tampered"), sig)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSampleInBallHasExactlyTauNonzeroCoefficients(t *testing.T) {
	p := Dilithium2()
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i)
	}
	c := sampleInBall(p, seed)
	count := 0
	for _, v := range c.Coeffs {
		if v != 0 {
			require.True(t, v == 1 || v == -1 || v == p.Q-1)
			count++
		}
	}
	require.Equal(t, p.Tau, count)
}
