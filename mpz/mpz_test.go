// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mpz

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddSubRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		a := FromInt64(r.Int63())
		b := FromInt64(r.Int63())
		sum := a.Add(b)
		back := sum.Sub(b)
		require.Equal(t, 0, a.Cmp(back))
	}
}

func TestQuoRemInvariant(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 500; i++ {
		a := FromInt64(r.Int63())
		b := FromInt64(r.Int63()%1000 + 1)
		q, rem, err := a.QuoRem(b)
		require.NoError(t, err)
		reconstructed := q.Mul(b).Add(rem)
		require.Equal(t, 0, a.Cmp(reconstructed))
	}
}

func TestInvert(t *testing.T) {
	m := FromInt64(97) // prime
	for x := int64(1); x < 97; x++ {
		inv, err := Invert(FromInt64(x), m)
		require.NoError(t, err)
		prod, err := FromInt64(x).Mul(inv).Mod(m)
		require.NoError(t, err)
		require.Equal(t, 0, prod.Cmp(FromInt64(1)))
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, base := range []int{2, 8, 10, 16, 32, 64} {
		for _, v := range []int64{0, 1, 255, 123456789, -42} {
			s := FromInt64(v).String(base)
			got, err := Parse(s, base)
			require.NoError(t, err)
			require.Equal(t, 0, FromInt64(v).Cmp(got), "base %d value %d round-trip %q", base, v, s)
		}
	}
}

func TestBytesRoundTrip(t *testing.T) {
	for _, le := range []bool{false, true} {
		v := FromInt64(0x0102030405)
		b, err := v.Bytes(8, le)
		require.NoError(t, err)
		got := FromBytes(b, le)
		require.Equal(t, 0, v.Cmp(got))
	}
}
