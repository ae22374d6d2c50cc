// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hash

import "encoding/binary"

type sha512Variant int

const (
	sha512Variant512 sha512Variant = iota
	sha512Variant384
	sha512Variant512t224
	sha512Variant512t256
)

var sha512K = [80]uint64{
	0x428a2f98d728ae22, 0x7137449123ef65cd, 0xb5c0fbcfec4d3b2f, 0xe9b5dba58189dbbc,
	0x3956c25bf348b538, 0x59f111f1b605d019, 0x923f82a4af194f9b, 0xab1c5ed5da6d8118,
	0xd807aa98a3030242, 0x12835b0145706fbe, 0x243185be4ee4b28c, 0x550c7dc3d5ffb4e2,
	0x72be5d74f27b896f, 0x80deb1fe3b1696b1, 0x9bdc06a725c71235, 0xc19bf174cf692694,
	0xe49b69c19ef14ad2, 0xefbe4786384f25e3, 0x0fc19dc68b8cd5b5, 0x240ca1cc77ac9c65,
	0x2de92c6f592b0275, 0x4a7484aa6ea6e483, 0x5cb0a9dcbd41fbd4, 0x76f988da831153b5,
	0x983e5152ee66dfab, 0xa831c66d2db43210, 0xb00327c898fb213f, 0xbf597fc7beef0ee4,
	0xc6e00bf33da88fc2, 0xd5a79147930aa725, 0x06ca6351e003826f, 0x142929670a0e6e70,
	0x27b70a8546d22ffc, 0x2e1b21385c26c926, 0x4d2c6dfc5ac42aed, 0x53380d139d95b3df,
	0x650a73548baf63de, 0x766a0abb3c77b2a8, 0x81c2c92e47edaee6, 0x92722c851482353b,
	0xa2bfe8a14cf10364, 0xa81a664bbc423001, 0xc24b8b70d0f89791, 0xc76c51a30654be30,
	0xd192e819d6ef5218, 0xd69906245565a910, 0xf40e35855771202a, 0x106aa07032bbd1b8,
	0x19a4c116b8d2d0c8, 0x1e376c085141ab53, 0x2748774cdf8eeb99, 0x34b0bcb5e19b48a8,
	0x391c0cb3c5c95a63, 0x4ed8aa4ae3418acb, 0x5b9cca4f7763e373, 0x682e6ff3d6b2b8a3,
	0x748f82ee5defb2fc, 0x78a5636f43172f60, 0x84c87814a1f0ab72, 0x8cc702081a6439ec,
	0x90befffa23631e28, 0xa4506cebde82bde9, 0xbef9a3f7b2c67915, 0xc67178f2e372532b,
	0xca273eceea26619c, 0xd186b8c721c0c207, 0xeada7dd6cde0eb1e, 0xf57d4f7fee6ed178,
	0x06f067aa72176fba, 0x0a637dc5a2c898a6, 0x113f9804bef90dae, 0x1b710b35131c471b,
	0x28db77f523047d84, 0x32caab7b40c72493, 0x3c9ebe0a15c9bebc, 0x431d67c49c100d4c,
	0x4cc5d4becb3e42b6, 0x597f299cfc657e2a, 0x5fcb6fab3ad6faec, 0x6c44198c4a475817,
}

func sha512InitFor(v sha512Variant) [8]uint64 {
	switch v {
	case sha512Variant384:
		return [8]uint64{
			0xcbbb9d5dc1059ed8, 0x629a292a367cd507, 0x9159015a3070dd17, 0x152fecd8f70e5939,
			0x67332667ffc00b31, 0x8eb44a8768581511, 0xdb0c2e0d64f98fa7, 0x47b5481dbefa4fa4,
		}
	case sha512Variant512t224:
		return [8]uint64{
			0x8c3d37c819544da2, 0x73e1996689dcd4d6, 0x1dfab7ae32ff9c82, 0x679dd514582f9fcf,
			0x0f6d2b697bd44da8, 0x77e36f7304c48942, 0x3f9d85a86a1d36c8, 0x1112e6ad91d692a1,
		}
	case sha512Variant512t256:
		return [8]uint64{
			0x22312194fc2bf72c, 0x9f555fa3c84c64c2, 0x2393b86b6f53b151, 0x963877195940eabd,
			0x96283ee2a88effe3, 0xbe5e1e2553863992, 0x2b0199fc2c85b8aa, 0x0eb72ddc81c52ca2,
		}
	default:
		return [8]uint64{
			0x6a09e667f3bcc908, 0xbb67ae8584caa73b, 0x3c6ef372fe94f82b, 0xa54ff53a5f1d36f1,
			0x510e527fade682d1, 0x9b05688c2b3e6c1f, 0x1f83d9abfb41bd6b, 0x5be0cd19137e2179,
		}
	}
}

func outLenFor(v sha512Variant) int {
	switch v {
	case sha512Variant384:
		return 48
	case sha512Variant512t224:
		return 28
	case sha512Variant512t256:
		return 32
	default:
		return 64
	}
}

type sha512Hasher struct {
	h      [8]uint64
	buf    []byte
	length uint64
	v      sha512Variant
	st     State
}

func newSHA512(v sha512Variant) *sha512Hasher {
	s := &sha512Hasher{v: v}
	s.Init(0)
	return s
}

func (s *sha512Hasher) Init(_ int) error {
	s.h = sha512InitFor(s.v)
	s.buf = nil
	s.length = 0
	s.st = Absorbing
	return nil
}

func (s *sha512Hasher) State() State { return s.st }

func (s *sha512Hasher) Update(p []byte) {
	s.length += uint64(len(p))
	s.buf = append(s.buf, p...)
	for len(s.buf) >= 128 {
		sha512Block(&s.h, s.buf[:128])
		s.buf = s.buf[128:]
	}
}

func rotr64(x uint64, n uint) uint64 { return (x >> n) | (x << (64 - n)) }

func sha512Block(h *[8]uint64, b []byte) {
	var w [80]uint64
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint64(b[i*8:])
	}
	for i := 16; i < 80; i++ {
		s0 := rotr64(w[i-15], 1) ^ rotr64(w[i-15], 8) ^ (w[i-15] >> 7)
		s1 := rotr64(w[i-2], 19) ^ rotr64(w[i-2], 61) ^ (w[i-2] >> 6)
		w[i] = w[i-16] + s0 + w[i-7] + s1
	}
	a, bb, c, d, e, f, g, hh := h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7]
	for i := 0; i < 80; i++ {
		s1 := rotr64(e, 14) ^ rotr64(e, 18) ^ rotr64(e, 41)
		ch := (e & f) ^ (^e & g)
		t1 := hh + s1 + ch + sha512K[i] + w[i]
		s0 := rotr64(a, 28) ^ rotr64(a, 34) ^ rotr64(a, 39)
		maj := (a & bb) ^ (a & c) ^ (bb & c)
		t2 := s0 + maj
		hh, g, f, e, d, c, bb, a = g, f, e, d+t1, c, bb, a, t1+t2
	}
	h[0] += a
	h[1] += bb
	h[2] += c
	h[3] += d
	h[4] += e
	h[5] += f
	h[6] += g
	h[7] += hh
}

func (s *sha512Hasher) pad() {
	bitLen := s.length * 8
	s.buf = append(s.buf, 0x80)
	for len(s.buf)%128 != 112 {
		s.buf = append(s.buf, 0)
	}
	var lenBytes [16]byte
	binary.BigEndian.PutUint64(lenBytes[8:], bitLen)
	s.buf = append(s.buf, lenBytes[:]...)
	for len(s.buf) >= 128 {
		sha512Block(&s.h, s.buf[:128])
		s.buf = s.buf[128:]
	}
}

func (s *sha512Hasher) Final() []byte {
	s.pad()
	out := make([]byte, 8*8)
	for i, v := range s.h {
		binary.BigEndian.PutUint64(out[i*8:], v)
	}
	s.st = Done
	return out[:outLenFor(s.v)]
}

func (s *sha512Hasher) Squeeze(out []byte, n int) {
	digest := s.Final()
	copy(out, digest[:n])
}

func (s *sha512Hasher) GetCopy() Hasher {
	cp := *s
	cp.buf = append([]byte{}, s.buf...)
	return &cp
}
