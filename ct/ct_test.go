// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ct

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectByte(t *testing.T) {
	require.Equal(t, byte(0xAA), SelectByte(0, 0xAA, 0xBB))
	require.Equal(t, byte(0xBB), SelectByte(1, 0xAA, 0xBB))

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		a := byte(r.Intn(256))
		b := byte(r.Intn(256))
		require.Equal(t, a, SelectByte(0, a, b), "case %d", i)
		require.Equal(t, b, SelectByte(1, a, b), "case %d", i)
	}
}

func TestEq(t *testing.T) {
	require.True(t, Eq([]byte("hello"), []byte("hello")))
	require.False(t, Eq([]byte("hello"), []byte("world")))
	require.False(t, Eq([]byte("hello"), []byte("hell")))
	require.True(t, Eq(nil, nil))
}

func TestSelect(t *testing.T) {
	x := []byte{1, 2, 3, 4}
	y := []byte{5, 6, 7, 8}

	dst := make([]byte, len(x))
	Select(0, dst, x, y)
	require.Equal(t, x, dst)

	Select(1, dst, x, y)
	require.Equal(t, y, dst)

	// x and y must be untouched by either call.
	require.Equal(t, []byte{1, 2, 3, 4}, x)
	require.Equal(t, []byte{5, 6, 7, 8}, y)
}

func TestSelectRandom(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		n := 1 + r.Intn(64)
		x := make([]byte, n)
		y := make([]byte, n)
		r.Read(x)
		r.Read(y)

		dst := make([]byte, n)
		Select(0, dst, x, y)
		require.Equal(t, x, dst, "cond=0 case %d", i)
		Select(1, dst, x, y)
		require.Equal(t, y, dst, "cond=1 case %d", i)
	}
}

func TestCondSwapBytes(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{4, 5, 6}

	CondSwapBytes(0, a, b)
	require.Equal(t, []byte{1, 2, 3}, a)
	require.Equal(t, []byte{4, 5, 6}, b)

	CondSwapBytes(1, a, b)
	require.Equal(t, []byte{4, 5, 6}, a)
	require.Equal(t, []byte{1, 2, 3}, b)
}

func TestCondSwapBytesRandomInvolution(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		n := 1 + r.Intn(64)
		a := make([]byte, n)
		b := make([]byte, n)
		r.Read(a)
		r.Read(b)
		origA := append([]byte{}, a...)
		origB := append([]byte{}, b...)

		cond := r.Intn(2)
		CondSwapBytes(cond, a, b)
		CondSwapBytes(cond, a, b)
		require.Equal(t, origA, a, "case %d", i)
		require.Equal(t, origB, b, "case %d", i)
	}
}

func TestIndexSelect(t *testing.T) {
	table := [][]byte{
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 4},
	}
	dst := make([]byte, 2)
	for idx, want := range table {
		IndexSelect(dst, table, idx)
		require.Equal(t, want, dst, "idx %d", idx)
	}
}

func TestIndexSelectOutOfRangeYieldsZero(t *testing.T) {
	table := [][]byte{{1, 1}, {2, 2}}
	dst := []byte{0xFF, 0xFF}
	IndexSelect(dst, table, 5)
	require.Equal(t, []byte{0, 0}, dst)
}
