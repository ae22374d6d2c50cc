// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package saber

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phantomcrypto/phantom/csprng"
)

func TestSaberKEMRoundTrip(t *testing.T) {
	p := Saber()
	seedA := make([]byte, 32)
	seedS := make([]byte, 32)
	for i := range seedS {
		seedS[i] = byte(i * 11)
	}
	pk, sk, err := keyGenFromSeeds(p, seedA, seedS)
	require.NoError(t, err)

	m := make([]byte, 32)
	for i := range m {
		m[i] = byte(i * 5)
	}
	z := make([]byte, 32)

	cph, k1, err := encapsulateWithMessage(p, pk, m)
	require.NoError(t, err)
	k2, err := Decapsulate(p, sk, pk, z, cph)
	require.NoError(t, err)
	require.Equal(t, k1, k2)
}

func TestSaberKeyGenWithRNG(t *testing.T) {
	p := Saber()
	var ctr byte
	rng, err := csprng.New(1<<20, func(n int, out []byte) bool {
		for i := range out {
			ctr++
			out[i] = ctr
		}
		return true
	})
	require.NoError(t, err)

	pk, sk, err := KeyGen(p, rng)
	require.NoError(t, err)
	cph, k1, err := Encapsulate(p, pk, rng)
	require.NoError(t, err)

	z := make([]byte, 32)
	k2, err := Decapsulate(p, sk, pk, z, cph)
	require.NoError(t, err)
	require.Equal(t, k1, k2)
}

func TestSaberDecapsulateRejectsTamperedCiphertext(t *testing.T) {
	p := Saber()
	seedA := make([]byte, 32)
	seedS := make([]byte, 32)
	pk, sk, err := keyGenFromSeeds(p, seedA, seedS)
	require.NoError(t, err)

	m := make([]byte, 32)
	z := make([]byte, 32)
	for i := range z {
		z[i] = 0x42
	}

	cph, k1, err := encapsulateWithMessage(p, pk, m)
	require.NoError(t, err)
	cph.C[0] ^= 1

	k2, err := Decapsulate(p, sk, pk, z, cph)
	require.NoError(t, err)
	require.NotEqual(t, k1, k2)
}
