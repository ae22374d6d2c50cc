// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ecpoint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phantomcrypto/phantom/modular"
	"github.com/phantomcrypto/phantom/mpz"
	"github.com/phantomcrypto/phantom/perr"
)

// toyCurve is y^2 = x^3 - 3x + 1 over a small prime field, large enough to
// host a handful of points, used to exercise the addition/doubling
// formulas without needing a production-size field.
func toyCurve(t *testing.T) (*CurveConfig, *Point) {
	t.Helper()
	p, err := mpz.Parse("97", 10)
	require.NoError(t, err)
	field := modular.NewBarrett(p)
	a, err := mpz.Parse("-3", 10)
	require.NoError(t, err)
	b := mpz.FromInt64(1)
	cfg := &CurveConfig{
		Field:   field,
		A:       field.Reduce(a),
		B:       b,
		Tag:     WeierstrassPrime,
		Coord:   Jacobian,
		AIsNeg3: true,
	}
	// (3, 6): 6^2=36, 3^3-3*3+1=27-9+1=19... pick a real point by search.
	base := findPointOnCurve(t, cfg)
	return cfg, base
}

func findPointOnCurve(t *testing.T, cfg *CurveConfig) *Point {
	t.Helper()
	q := int64(97)
	for x := int64(0); x < q; x++ {
		rhs := (x*x%q*x%q - 3*x%q + 1) % q
		if rhs < 0 {
			rhs += q
		}
		for y := int64(0); y < q; y++ {
			if (y*y)%q == rhs {
				xi := mpz.FromInt64(x)
				yi := mpz.FromInt64(y)
				return ConvertTo(cfg, xi, yi)
			}
		}
	}
	t.Fatal("no point found")
	return nil
}

func TestDoublingConvertsBackToAffine(t *testing.T) {
	cfg, base := toyCurve(t)
	_ = cfg
	dbl := Doubling(base, 1)
	x, y, err := ConvertFrom(cfg, dbl)
	require.NoError(t, err)
	require.NotNil(t, x)
	require.NotNil(t, y)
}

func TestAdditionOfNegativesIsInfinity(t *testing.T) {
	cfg, base := toyCurve(t)
	neg := Negate(base)
	sum := Addition(base, neg)
	require.True(t, sum.Infinity)
	_, _, err := ConvertFrom(cfg, sum)
	require.ErrorIs(t, err, perr.ErrPointAtInfinity)
}
