// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hash

import "encoding/binary"

var keccakRC = [24]uint64{
	0x0000000000000001, 0x0000000000008082, 0x800000000000808a, 0x8000000080008000,
	0x000000000000808b, 0x0000000080000001, 0x8000000080008081, 0x8000000000008009,
	0x000000000000008a, 0x0000000000000088, 0x0000000080008009, 0x000000008000000a,
	0x000000008000808b, 0x800000000000008b, 0x8000000000008089, 0x8000000000008003,
	0x8000000000008002, 0x8000000000000080, 0x000000000000800a, 0x800000008000000a,
	0x8000000080008081, 0x8000000000008080, 0x0000000080000001, 0x8000000080008008,
}

var keccakRotc = [25]uint{
	0, 1, 62, 28, 27,
	36, 44, 6, 55, 20,
	3, 10, 43, 25, 39,
	41, 45, 15, 21, 8,
	18, 2, 61, 56, 14,
}

var keccakPi = [25]int{
	0, 6, 12, 18, 24,
	3, 9, 10, 16, 22,
	1, 7, 13, 19, 20,
	4, 5, 11, 17, 23,
	2, 8, 14, 15, 21,
}

// keccakF1600 runs the 24-round Keccak-f[1600] permutation over a
// 25-word (1600-bit) state, little-endian lane convention (§4.8).
func keccakF1600(a *[25]uint64) {
	var b [25]uint64
	var c [5]uint64
	var d [5]uint64

	for round := 0; round < 24; round++ {
		for x := 0; x < 5; x++ {
			c[x] = a[x] ^ a[x+5] ^ a[x+10] ^ a[x+15] ^ a[x+20]
		}
		for x := 0; x < 5; x++ {
			d[x] = c[(x+4)%5] ^ rotl64(c[(x+1)%5], 1)
		}
		for x := 0; x < 5; x++ {
			for y := 0; y < 5; y++ {
				a[x+5*y] ^= d[x]
			}
		}

		for i := 0; i < 25; i++ {
			b[i] = rotl64(a[keccakPi[i]], keccakRotc[keccakPi[i]])
		}

		for y := 0; y < 5; y++ {
			for x := 0; x < 5; x++ {
				a[x+5*y] = b[x+5*y] ^ ((^b[(x+1)%5+5*y]) & b[(x+2)%5+5*y])
			}
		}

		a[0] ^= keccakRC[round]
	}
}

func rotl64(x uint64, n uint) uint64 { return (x << n) | (x >> (64 - n)) }

type keccakHasher struct {
	a         [25]uint64
	rate      int
	outBytes  int
	domainSep byte
	isXOF     bool
	buf       []byte
	absorbed  bool
	squeezed  []byte
	squeezePos int
	st        State
}

// newKeccak builds a sponge for the given security level in bits and domain
// separator byte (0x06 for SHA-3, 0x1f for SHAKE), with rate = 200-2*hlen
// bytes per §4.8 ("capacity = 2x the output/security length").
func newKeccak(outBits int, domainSep byte) *keccakHasher {
	h := &keccakHasher{
		outBytes:  outBits / 8,
		domainSep: domainSep,
		isXOF:     domainSep == 0x1f,
	}
	capacity := 2 * outBits
	h.rate = (1600 - capacity) / 8
	h.Init(0)
	return h
}

func (k *keccakHasher) Init(_ int) error {
	k.a = [25]uint64{}
	k.buf = nil
	k.absorbed = false
	k.squeezed = nil
	k.squeezePos = 0
	k.st = Absorbing
	return nil
}

func (k *keccakHasher) State() State { return k.st }

func (k *keccakHasher) Update(p []byte) {
	k.buf = append(k.buf, p...)
	for len(k.buf) >= k.rate {
		k.absorbBlock(k.buf[:k.rate])
		k.buf = k.buf[k.rate:]
	}
}

func (k *keccakHasher) absorbBlock(block []byte) {
	for i := 0; i*8 < k.rate; i++ {
		k.a[i] ^= binary.LittleEndian.Uint64(block[i*8:])
	}
	keccakF1600(&k.a)
}

func (k *keccakHasher) pad() {
	padded := append([]byte{}, k.buf...)
	padded = append(padded, k.domainSep)
	for len(padded) < k.rate {
		padded = append(padded, 0)
	}
	padded[len(padded)-1] |= 0x80
	for off := 0; off < len(padded); off += k.rate {
		k.absorbBlock(padded[off : off+k.rate])
	}
	k.buf = nil
}

func (k *keccakHasher) squeezeBlock() []byte {
	out := make([]byte, k.rate)
	for i := 0; i*8 < k.rate; i++ {
		binary.LittleEndian.PutUint64(out[i*8:], k.a[i])
	}
	keccakF1600(&k.a)
	return out
}

func (k *keccakHasher) Final() []byte {
	if !k.absorbed {
		k.pad()
		k.absorbed = true
	}
	out := make([]byte, 0, k.outBytes)
	for len(out) < k.outBytes {
		out = append(out, k.squeezeBlock()...)
	}
	k.st = Done
	return out[:k.outBytes]
}

func (k *keccakHasher) Squeeze(out []byte, n int) {
	if !k.absorbed {
		k.pad()
		k.absorbed = true
		k.st = Squeezing
	}
	for len(k.squeezed)-k.squeezePos < n {
		k.squeezed = append(k.squeezed, k.squeezeBlock()...)
	}
	copy(out, k.squeezed[k.squeezePos:k.squeezePos+n])
	k.squeezePos += n
}

func (k *keccakHasher) GetCopy() Hasher {
	cp := *k
	cp.buf = append([]byte{}, k.buf...)
	cp.squeezed = append([]byte{}, k.squeezed...)
	return &cp
}
