// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hash

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func digest(t *testing.T, alg Algorithm, msg []byte) []byte {
	t.Helper()
	h := New(alg)
	h.Update(msg)
	return h.Final()
}

func TestSHA256EmptyKAT(t *testing.T) {
	got := digest(t, SHA2_256, nil)
	want, err := hex.DecodeString("e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestSHA256AcceleratedMatchesGeneric(t *testing.T) {
	msg := []byte("the quick brown fox jumps over the lazy dog, twice over for good measure")
	var h1, h2 [8]uint32
	h1 = sha256Init
	h2 = sha256Init
	padded := padForTest(msg)
	for off := 0; off < len(padded); off += 64 {
		sha256BlockGeneric(&h1, padded[off:off+64])
		sha256BlockAccelerated(&h2, padded[off:off+64])
	}
	require.Equal(t, h1, h2)
}

func padForTest(msg []byte) []byte {
	bitLen := uint64(len(msg)) * 8
	p := append([]byte{}, msg...)
	p = append(p, 0x80)
	for len(p)%64 != 56 {
		p = append(p, 0)
	}
	var lenBytes [8]byte
	for i := 0; i < 8; i++ {
		lenBytes[7-i] = byte(bitLen >> (8 * uint(i)))
	}
	return append(p, lenBytes[:]...)
}

func TestSHA224TruncatesSHA256(t *testing.T) {
	msg := []byte("abc")
	d224 := digest(t, SHA2_224, msg)
	require.Len(t, d224, 28)
}

func TestSHA512VariantLengths(t *testing.T) {
	msg := []byte("abc")
	require.Len(t, digest(t, SHA2_512, msg), 64)
	require.Len(t, digest(t, SHA2_384, msg), 48)
	require.Len(t, digest(t, SHA2_512_224, msg), 28)
	require.Len(t, digest(t, SHA2_512_256, msg), 32)
}

func TestSHA3EmptyKAT(t *testing.T) {
	got := digest(t, SHA3_256, nil)
	want, err := hex.DecodeString("a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestSHAKE128XOFVariableLength(t *testing.T) {
	h := New(SHAKE128)
	h.Update([]byte("phantom"))
	out1 := make([]byte, 16)
	h.Squeeze(out1, 16)
	h2 := New(SHAKE128)
	h2.Update([]byte("phantom"))
	out2 := make([]byte, 32)
	h2.Squeeze(out2, 32)
	require.Equal(t, out1, out2[:16])
}

func TestBLAKE3RoundTripAndCopy(t *testing.T) {
	h := New(BLAKE3_256)
	h.Update([]byte("part1"))
	cp := h.GetCopy()
	h.Update([]byte("part2"))
	cp.Update([]byte("part2"))
	require.Equal(t, h.Final(), cp.Final())
}

func TestSHA256GetCopyIndependence(t *testing.T) {
	h := New(SHA2_256)
	h.Update([]byte("abc"))
	cp := h.GetCopy()
	h.Update([]byte("def"))
	cp.Update([]byte("xyz"))
	require.NotEqual(t, h.Final(), cp.Final())
}
