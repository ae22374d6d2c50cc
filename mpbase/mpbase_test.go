// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mpbase

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phantomcrypto/phantom/limb"
)

func randLimbs(r *rand.Rand, words int) Limbs {
	x := make(Limbs, words)
	for i := range x {
		x[i] = limb.Word(r.Uint64())
	}
	return Normalize(x)
}

func TestAddSubRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		a := randLimbs(r, 1+i%4)
		b := randLimbs(r, 1+i%3)
		if Cmp(a, b) < 0 {
			a, b = b, a
		}
		sum := make(Limbs, len(a)+1)
		Add(sum, a, b)
		diff := make(Limbs, len(sum))
		Sub(diff, Normalize(sum), b)
		require.Equal(t, 0, Cmp(Normalize(diff), a), "case %d", i)
	}
}

func TestMulMatchesSchoolbookAcrossKaratsubaThreshold(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for _, words := range []int{1, 4, mulThreshold - 1, mulThreshold, mulThreshold + 5, 2 * mulThreshold} {
		a := randLimbs(r, words)
		b := randLimbs(r, words)
		z := make(Limbs, len(a)+len(b))
		Mul(z, a, b)

		want := make(Limbs, len(a)+len(b))
		mulSchoolbook(want, Normalize(a), Normalize(b))

		require.Equal(t, 0, Cmp(Normalize(z), Normalize(want)), "words=%d", words)
	}
}

func TestSqrMatchesMul(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		a := randLimbs(r, 1+i%5)
		sq := make(Limbs, 2*len(a))
		Sqr(sq, a)

		viaMul := make(Limbs, 2*len(a))
		Mul(viaMul, a, a)

		require.Equal(t, 0, Cmp(Normalize(sq), Normalize(viaMul)), "case %d", i)
	}
}

func TestDivRemInvariant(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for i := 0; i < 200; i++ {
		n := randLimbs(r, 2+i%4)
		d := randLimbs(r, 1+i%2)
		if IsZero(d) {
			d = Limbs{1}
		}
		if Cmp(n, d) < 0 {
			n, d = d, n
		}
		q, rem := DivRem(n, d)
		require.Equal(t, -1, Cmp(rem, d), "remainder must be < divisor, case %d", i)

		prod := make(Limbs, len(q)+len(d)+1)
		Mul(prod, q, d)
		back := make(Limbs, len(prod)+1)
		Add(back, prod, rem)
		require.Equal(t, 0, Cmp(Normalize(back), n), "case %d", i)
	}
}

func TestShiftLeftRightRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	for i := 0; i < 100; i++ {
		a := randLimbs(r, 1+i%4)
		bits := i % 130

		shifted := make(Limbs, len(a)+bits/64+1)
		ShiftLeft(shifted, a, bits)

		back := make(Limbs, len(shifted))
		ShiftRight(back, shifted, bits)

		require.Equal(t, 0, Cmp(Normalize(back), a), "bits=%d case %d", bits, i)
	}
}

func TestBitLenMatchesShifts(t *testing.T) {
	require.Equal(t, 0, BitLen(Limbs{}))
	require.Equal(t, 1, BitLen(Limbs{1}))
	require.Equal(t, 65, BitLen(Limbs{0, 1}))
	require.Equal(t, 66, BitLen(Limbs{0, 2}))
}

func TestGCDDividesBoth(t *testing.T) {
	r := rand.New(rand.NewSource(6))
	for i := 0; i < 100; i++ {
		a := randLimbs(r, 1+i%3)
		b := randLimbs(r, 1+i%3)
		if IsZero(a) || IsZero(b) {
			continue
		}
		g := GCD(a, b)
		require.False(t, IsZero(g), "case %d", i)

		_, ra := DivRem(a, g)
		_, rb := DivRem(b, g)
		require.True(t, IsZero(ra), "gcd must divide a, case %d", i)
		require.True(t, IsZero(rb), "gcd must divide b, case %d", i)
	}
}

func TestNormalizeTrimsTrailingZeroLimbs(t *testing.T) {
	x := Limbs{1, 2, 0, 0}
	require.Equal(t, Limbs{1, 2}, Normalize(x))
	require.True(t, IsZero(Normalize(Limbs{0, 0, 0})))
}
