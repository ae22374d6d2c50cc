// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package modular

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phantomcrypto/phantom/mpz"
)

// TestMontgomeryRoundTrip exercises §8's testable property
// from_mont(to_mont(a)) == a mod m for a range of odd moduli and operands.
func TestMontgomeryRoundTrip(t *testing.T) {
	moduli := []int64{7, 97, 65537, 1000000007}
	r := rand.New(rand.NewSource(1))
	for _, mv := range moduli {
		m := mpz.FromInt64(mv)
		ctx := NewMontgomery(m)
		for i := 0; i < 50; i++ {
			a := mpz.FromInt64(r.Int63n(mv))
			mont := ctx.ToMont(a)
			back := ctx.FromMont(mont)
			require.Equal(t, 0, a.Cmp(back), "modulus %d operand %d", mv, i)
		}
	}
}

// TestMontgomeryToMontKnownValue nails down the m=7 worked example: R mod
// 7 = 2, so ToMont(1) must be 2, not R^2 mod 7 = 4.
func TestMontgomeryToMontKnownValue(t *testing.T) {
	ctx := NewMontgomery(mpz.FromInt64(7))
	got := ctx.ToMont(mpz.FromInt64(1))
	require.Equal(t, 0, got.Cmp(ctx.r), "ToMont(1) must equal R mod m")
	require.Equal(t, 0, got.Cmp(mpz.FromInt64(2)))
}

// TestMulMontMatchesPlainProduct exercises §8's
// mul_mont(to_mont(a),to_mont(b)) == to_mont(a*b mod m).
func TestMulMontMatchesPlainProduct(t *testing.T) {
	moduli := []int64{7, 97, 65537}
	r := rand.New(rand.NewSource(2))
	for _, mv := range moduli {
		m := mpz.FromInt64(mv)
		ctx := NewMontgomery(m)
		for i := 0; i < 50; i++ {
			a := mpz.FromInt64(r.Int63n(mv))
			b := mpz.FromInt64(r.Int63n(mv))

			got := ctx.MulMont(ctx.ToMont(a), ctx.ToMont(b))
			want := ctx.ToMont(a.Mul(b))
			require.Equal(t, 0, got.Cmp(want), "modulus %d operand %d", mv, i)
		}
	}
}

func TestSqrMontMatchesMulMontSelf(t *testing.T) {
	ctx := NewMontgomery(mpz.FromInt64(1000000007))
	a := mpz.FromInt64(123456)
	aMont := ctx.ToMont(a)
	require.Equal(t, 0, ctx.SqrMont(aMont).Cmp(ctx.MulMont(aMont, aMont)))
}

// TestPowModMontgomeryLadderMatchesSquareMultiply checks that the
// Montgomery-domain ladder wired into PowMod agrees with the plain
// square-and-multiply path for the same base/exponent/modulus.
func TestPowModMontgomeryLadderMatchesSquareMultiply(t *testing.T) {
	m := mpz.FromInt64(1000000007)
	montCtx := NewMontgomery(m)
	barrettCtx := NewBarrett(m)

	r := rand.New(rand.NewSource(3))
	for i := 0; i < 30; i++ {
		base := mpz.FromInt64(r.Int63n(1000000007))
		exp := mpz.FromInt64(r.Int63n(1 << 30))

		secret, err := montCtx.PowMod(base, exp, true)
		require.NoError(t, err)
		public, err := barrettCtx.PowMod(base, exp, false)
		require.NoError(t, err)
		require.Equal(t, 0, secret.Cmp(public), "case %d", i)
	}
}

func TestBarrettReduceMatchesMod(t *testing.T) {
	m := mpz.FromInt64(97)
	ctx := NewBarrett(m)
	r := rand.New(rand.NewSource(4))
	for i := 0; i < 100; i++ {
		a := mpz.FromInt64(r.Int63n(1 << 40))
		got := ctx.Reduce(a)
		want, err := a.Mod(m)
		require.NoError(t, err)
		require.Equal(t, 0, got.Cmp(want), "case %d", i)
	}
}

func TestInvertRoundTrip(t *testing.T) {
	ctx := NewBarrett(mpz.FromInt64(97))
	for x := int64(1); x < 97; x++ {
		inv, err := ctx.Invert(mpz.FromInt64(x))
		require.NoError(t, err)
		prod := ctx.Reduce(mpz.FromInt64(x).Mul(inv))
		require.Equal(t, 0, prod.Cmp(mpz.FromInt64(1)), "x=%d", x)
	}
}

func TestSqrtModRoundTrip(t *testing.T) {
	// p = 11 (3 mod 4) and p = 17 (1 mod 4) exercise both Tonelli-Shanks
	// branches.
	for _, pv := range []int64{11, 17} {
		ctx := NewBarrett(mpz.FromInt64(pv))
		for x := int64(1); x < pv; x++ {
			sq := ctx.Reduce(mpz.FromInt64(x).Mul(mpz.FromInt64(x)))
			root, err := ctx.SqrtMod(sq)
			if err != nil {
				continue
			}
			back := ctx.Reduce(root.Mul(root))
			require.Equal(t, 0, back.Cmp(sq), "p=%d x=%d", pv, x)
		}
	}
}
