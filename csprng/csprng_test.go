// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package csprng

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fixedEntropy(seed byte) EntropyFunc {
	return func(n int, out []byte) bool {
		for i := range out[:n] {
			out[i] = seed + byte(i)
		}
		return true
	}
}

func TestGetMemDeterministic(t *testing.T) {
	d1, err := New(1<<20, fixedEntropy(7))
	require.NoError(t, err)
	d2, err := New(1<<20, fixedEntropy(7))
	require.NoError(t, err)

	buf1 := make([]byte, 100)
	buf2 := make([]byte, 100)
	require.NoError(t, d1.GetMem(buf1, 100))
	require.NoError(t, d2.GetMem(buf2, 100))
	require.Equal(t, buf1, buf2)
}

func TestReseedOnPeriodExceeded(t *testing.T) {
	calls := 0
	entropy := func(n int, out []byte) bool {
		calls++
		for i := range out[:n] {
			out[i] = byte(calls)
		}
		return true
	}
	d, err := New(16, entropy)
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	buf := make([]byte, 32)
	require.NoError(t, d.GetMem(buf, 32))
	require.Equal(t, 2, calls)
}

func TestEntropyFailurePropagates(t *testing.T) {
	failing := func(n int, out []byte) bool { return false }
	_, err := New(1024, failing)
	require.Error(t, err)
}

func TestGetU32Varies(t *testing.T) {
	d, err := New(1<<20, fixedEntropy(1))
	require.NoError(t, err)
	v1, err := d.GetU32()
	require.NoError(t, err)
	v2, err := d.GetU32()
	require.NoError(t, err)
	require.NotEqual(t, v1, v2)
}
