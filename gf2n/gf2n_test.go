// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gf2n

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// sect163k1-style pentanomial: x^163 + x^7 + x^6 + x^3 + 1.
var testMod = Modulus{163, 7, 6, 3, 0}

func TestAddSelfInverse(t *testing.T) {
	a := FromBits([]byte{0x12, 0x34, 0x56}, testMod)
	b := FromBits([]byte{0x9A, 0xBC, 0xDE}, testMod)
	got := a.Add(b).Add(b)
	require.True(t, got.Equal(a))
}

func TestReduceDegree(t *testing.T) {
	a := FromBits([]byte{0x12, 0x34, 0x56}, testMod)
	b := FromBits([]byte{0x9A, 0xBC, 0xDE}, testMod)
	p := a.Mul(b)
	require.Less(t, p.Degree(), testMod.Degree())
}

func TestSquareIsMulBySelf(t *testing.T) {
	a := FromBits([]byte{0x7F, 0x01}, testMod)
	require.True(t, a.Sqr().Equal(a.Mul(a)))
}
