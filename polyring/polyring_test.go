// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package polyring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddSubRoundTrip(t *testing.T) {
	r := NewRing(256, 3329) // Kyber parameters: NTT-friendly
	a := r.FromCoeffs([]int64{1, 2, 3, 4})
	b := r.FromCoeffs([]int64{5, 6, 7, 8})
	require.True(t, polyEqual(a.Add(b).Sub(b), a))
}

func TestCenterRoundsSymmetrically(t *testing.T) {
	r := NewRing(8, 17)
	p := r.FromCoeffs([]int64{0, 1, 8, 9, 16})
	c := p.Center()
	require.Equal(t, []int64{0, 1, 8, -8, -1, 0, 0, 0}, c)
}

func TestToomFallbackMatchesSchoolbookReference(t *testing.T) {
	// N=12 is a multiple of four but not a power of two, so NewRing never
	// attaches an NTT context and Mul always takes the Toom-Cook 4-way
	// path; cross-check against a direct negacyclic schoolbook convolution.
	q := int64(97)
	r := NewRing(12, q)
	a := r.FromCoeffs([]int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})
	b := r.FromCoeffs([]int64{12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1})

	got := a.Mul(b)
	want := referenceNegacyclicMul(a.Coeffs, b.Coeffs, q)
	require.Equal(t, want, got.Coeffs)
}

func referenceNegacyclicMul(a, b []int64, q int64) []int64 {
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

func polyEqual(a, b *Poly) bool {
	if len(a.Coeffs) != len(b.Coeffs) {
		return false
	}
	for i := range a.Coeffs {
		if a.Coeffs[i] != b.Coeffs[i] {
			return false
		}
	}
	return true
}
