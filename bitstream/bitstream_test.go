// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bitstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	s := New(16)
	require.NoError(t, s.Write(0xA, 4))
	require.NoError(t, s.WriteSigned(-3, 5))
	require.NoError(t, s.Write(0x1FFF, 13))
	require.NoError(t, s.Flush(8))

	r := FromBytes(s.Bytes())
	v1, err := r.Read(4)
	require.NoError(t, err)
	require.Equal(t, uint64(0xA), v1)

	v2, err := r.ReadSigned(5)
	require.NoError(t, err)
	require.Equal(t, int64(-3), v2)

	v3, err := r.Read(13)
	require.NoError(t, err)
	require.Equal(t, uint64(0x1FFF), v3)
}

func TestFlushByteAligned(t *testing.T) {
	s := New(8)
	require.NoError(t, s.Write(0x3, 3))
	require.NoError(t, s.Flush(8))
	require.Equal(t, 0, s.writeBit%8)
}

func TestInsufficientBuffer(t *testing.T) {
	s := New(1)
	err := s.Write(0xFFFF, 100)
	require.Error(t, err)
}
