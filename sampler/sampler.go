// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sampler implements C13: the rejection and centered-binomial
// samplers Kyber, Saber, and Dilithium draw their ring-element
// coefficients from.
package sampler

// UniformMod produces n elements of Z_q from a byte stream, reading
// 2-byte little-endian chunks masked to the next power of two >= q and
// rejecting samples >= q, per §4.13.
func UniformMod(stream []byte, q int64, n int) []int64 {
	mask := nextPow2Mask(q)
	out := make([]int64, 0, n)
	pos := 0
	for len(out) < n && pos+2 <= len(stream) {
		v := int64(stream[pos]) | int64(stream[pos+1])<<8
		pos += 2
		v &= mask
		if v < q {
			out = append(out, v)
		}
	}
	return out
}

func nextPow2Mask(q int64) int64 {
	bits := 0
	for (int64(1) << uint(bits)) < q {
		bits++
	}
	return (int64(1) << uint(bits)) - 1
}

// CBD draws n coefficients from the centered binomial distribution with
// parameter eta: each coefficient is (sum of eta bits) - (sum of eta
// bits), consuming eta*n/4 bytes total (eta*n bits per sum pair, 2*eta
// bits per coefficient).
func CBD(stream []byte, eta, n int) []int64 {
	out := make([]int64, n)
	bitPos := 0
	readBit := func() int {
		byteIdx := bitPos / 8
		bit := bitPos % 8
		bitPos++
		if byteIdx >= len(stream) {
			return 0
		}
		return int(stream[byteIdx]>>uint(bit)) & 1
	}
	for i := 0; i < n; i++ {
		var a, b int
		for j := 0; j < eta; j++ {
			a += readBit()
		}
		for j := 0; j < eta; j++ {
			b += readBit()
		}
		out[i] = int64(a - b)
	}
	return out
}

// UniformSmall rejection-samples coefficients uniformly from
// {-eta, ..., eta} (Dilithium's secret-vector sampler): each candidate
// nibble in [0,15] is accepted if <= 2*eta, mapped to eta - nibble.
func UniformSmall(stream []byte, eta, n int) []int64 {
	out := make([]int64, 0, n)
	for _, b := range stream {
		if len(out) >= n {
			break
		}
		lo := int(b & 0x0f)
		if lo <= 2*eta {
			out = append(out, int64(eta-lo))
		}
		if len(out) >= n {
			break
		}
		hi := int(b >> 4)
		if hi <= 2*eta {
			out = append(out, int64(eta-hi))
		}
	}
	return out
}
