// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package kyber

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phantomcrypto/phantom/csprng"
)

func zeroEntropy() csprng.EntropyFunc {
	return func(n int, out []byte) bool {
		for i := range out {
			out[i] = 0
		}
		return true
	}
}

// TestKyber768KEMRoundTrip exercises scenario #1: Kyber-768 with rho=0x00...,
// z=0x00..., and a fixed coins buffer. Both parties' shared secrets must be
// byte-equal.
func TestKyber768KEMRoundTrip(t *testing.T) {
	params := Kyber768()
	r := ring(params)
	rho := make([]byte, 32)
	sigma := make([]byte, 32)
	pk, sk, err := keyGenFromSeeds(params, r, rho, sigma)
	require.NoError(t, err)

	coins := make([]byte, 32)
	for i := range coins {
		coins[i] = byte(1 + i%32)
	}
	z := make([]byte, 32)

	ct, k1, err := encapsulateWithMessage(params, pk, coins)
	require.NoError(t, err)

	k2, err := Decapsulate(params, sk, pk, z, ct)
	require.NoError(t, err)
	require.Equal(t, k1, k2)
}

func TestKyber768EncapsulateDecapsulateWithRNG(t *testing.T) {
	params := Kyber768()
	rng, err := csprng.New(1<<20, zeroEntropyVaried())
	require.NoError(t, err)

	pk, sk, err := KeyGen(params, rng)
	require.NoError(t, err)

	ct, k1, err := Encapsulate(params, pk, rng)
	require.NoError(t, err)

	z := make([]byte, 32)
	k2, err := Decapsulate(params, sk, pk, z, ct)
	require.NoError(t, err)
	require.Equal(t, k1, k2)
}

func zeroEntropyVaried() csprng.EntropyFunc {
	var ctr byte
	return func(n int, out []byte) bool {
		for i := range out {
			ctr++
			out[i] = ctr
		}
		return true
	}
}

func TestKyber768DecapsulateRejectsTamperedCiphertext(t *testing.T) {
	params := Kyber768()
	r := ring(params)
	rho := make([]byte, 32)
	sigma := make([]byte, 32)
	for i := range sigma {
		sigma[i] = byte(i * 3)
	}
	pk, sk, err := keyGenFromSeeds(params, r, rho, sigma)
	require.NoError(t, err)

	coins := make([]byte, 32)
	z := make([]byte, 32)
	for i := range z {
		z[i] = 0xAA
	}

	ct, k1, err := encapsulateWithMessage(params, pk, coins)
	require.NoError(t, err)
	ct.V[0] ^= 1 // tamper

	k2, err := Decapsulate(params, sk, pk, z, ct)
	require.NoError(t, err)
	require.NotEqual(t, k1, k2)
}

func TestCompressDecompressRoundTripApprox(t *testing.T) {
	q := int64(3329)
	for d := 1; d <= 11; d++ {
		for a := int64(0); a < q; a += 137 {
			c := compress(a, q, d)
			back := decompress(c, q, d)
			// Lossy by construction, and compress wraps modulo 2^d, so
			// measure the distance modulo q and check it stays within a
			// small multiple of the quantization step of q.
			diff := back - a
			if diff < 0 {
				diff = -diff
			}
			if diff > q/2 {
				diff = q - diff
			}
			require.LessOrEqual(t, diff, q/(int64(1)<<uint(d))+2)
		}
	}
}
