// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scheme

import (
	"encoding/binary"
	"fmt"

	"github.com/phantomcrypto/phantom/mpz"
	"github.com/phantomcrypto/phantom/perr"
	"github.com/phantomcrypto/phantom/polyring"
)

// encodeInts serializes a sequence of big integers as length-prefixed
// big-endian byte strings, the wire format §6 assigns to Get*Key.
func encodeInts(vals ...*mpz.Int) []byte {
	out := make([]byte, 0, 256)
	for _, v := range vals {
		size := (v.BitLen() + 7) / 8
		if size == 0 {
			size = 1
		}
		b, err := v.Bytes(size, false)
		if err != nil {
			size++
			b, _ = v.Bytes(size, false)
		}
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
		out = append(out, lenBuf[:]...)
		out = append(out, b...)
	}
	return out
}

// decodeInts parses count length-prefixed big integers out of data.
func decodeInts(data []byte, count int) ([]*mpz.Int, error) {
	out := make([]*mpz.Int, 0, count)
	pos := 0
	for i := 0; i < count; i++ {
		if pos+4 > len(data) {
			return nil, fmt.Errorf("%w: truncated key wire format", perr.ErrInvalidKey)
		}
		n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4
		if pos+n > len(data) {
			return nil, fmt.Errorf("%w: truncated key wire format", perr.ErrInvalidKey)
		}
		out = append(out, mpz.FromBytes(data[pos:pos+n], false))
		pos += n
	}
	return out, nil
}

// polysToBytes serializes a vector of ring elements as 4 bytes per
// coefficient, big-endian — simple and uniform across every lattice
// scheme's modulus size rather than a modulus-specific bit-packing.
func polysToBytes(ps []*polyring.Poly) []byte {
	out := make([]byte, 0, len(ps)*1024)
	for _, p := range ps {
		for _, c := range p.Coeffs {
			var b [4]byte
			binary.BigEndian.PutUint32(b[:], uint32(c))
			out = append(out, b[:]...)
		}
	}
	return out
}

// bytesToPolys parses count ring elements of r.N coefficients each out of
// data, the inverse of polysToBytes.
func bytesToPolys(data []byte, r *polyring.Ring, count int) ([]*polyring.Poly, error) {
	need := count * r.N * 4
	if len(data) < need {
		return nil, fmt.Errorf("%w: truncated key wire format", perr.ErrInvalidKey)
	}
	out := make([]*polyring.Poly, count)
	pos := 0
	for i := 0; i < count; i++ {
		coeffs := make([]int64, r.N)
		for j := 0; j < r.N; j++ {
			coeffs[j] = int64(int32(binary.BigEndian.Uint32(data[pos : pos+4])))
			pos += 4
		}
		out[i] = r.FromCoeffs(coeffs)
	}
	return out, nil
}
