// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ntt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTryNewContextRejectsNonNTTFriendly(t *testing.T) {
	_, ok := TryNewContext(12, 97) // not a power of two
	require.False(t, ok)
}

func TestForwardInverseRoundTrip(t *testing.T) {
	ctx, ok := TryNewContext(256, 3329) // Kyber parameters
	require.True(t, ok)

	a := make([]int64, 256)
	for i := range a {
		a[i] = int64(i % 17)
	}
	orig := append([]int64{}, a...)

	freq := ctx.Forward(append([]int64{}, a...))
	back := ctx.Inverse(freq)
	require.Equal(t, orig, back)
}

func TestMulMatchesSchoolbookConvolution(t *testing.T) {
	q := int64(97)
	n := 8
	ctx, ok := TryNewContext(n, q)
	require.True(t, ok)

	a := []int64{1, 2, 3, 4, 5, 6, 7, 8}
	b := []int64{8, 7, 6, 5, 4, 3, 2, 1}

	fa := ctx.Forward(append([]int64{}, a...))
	fb := ctx.Forward(append([]int64{}, b...))
	prod := make([]int64, n)
	for i := 0; i < n; i += 2 {
		c0, c1 := ctx.Basemul(fa[i], fa[i+1], fb[i], fb[i+1], i/2)
		prod[i], prod[i+1] = c0, c1
	}
	got := ctx.Inverse(prod)
	want := negacyclicSchoolbook(a, b, q)
	require.Equal(t, want, got)
}

func negacyclicSchoolbook(a, b []int64, q int64) []int64 {
	n := len(a)
	full := make([]int64, 2*n-1)
	for i, ai := range a {
		for j, bj := range b {
			full[i+j] = ((full[i+j] + ai*bj) % q + q) % q
		}
	}
	out := make([]int64, n)
	for i, v := range full {
		if i < n {
			out[i] = (out[i] + v) % q
		} else {
			out[i-n] = (out[i-n] - v) % q
		}
	}
	for i := range out {
		out[i] = ((out[i] % q) + q) % q
	}
	return out
}
