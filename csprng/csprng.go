// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package csprng implements C9: a deterministic DRBG seeded by a
// caller-supplied entropy callback, reseeding on demand once the
// request-byte counter crosses the configured reseed period.
package csprng

import (
	"encoding/binary"

	"github.com/zeebo/blake3"

	"github.com/phantomcrypto/phantom/perr"
)

// EntropyFunc matches the spec's callback signature: fn(bytes_len, out_buffer) -> bool.
type EntropyFunc func(n int, out []byte) bool

// DRBG is a BLAKE3-XOF-core generator in the spirit of an SP 800-90A
// CTR/Hash-DRBG: a keyed extendable-output function reseeded from fresh
// entropy whenever the output counter exceeds reseedPeriod.
type DRBG struct {
	entropy       EntropyFunc
	reseedPeriod  uint64
	producedBytes uint64
	counter       uint64
	key           [32]byte
}

const seedSize = 32

// New builds a DRBG. reseedPeriodBytes bounds how many output bytes may be
// drawn from one seed before a fresh reseed is forced; entropyFn is the
// caller-owned entropy source (an OS CSPRNG in production, a fixed stream
// in tests).
func New(reseedPeriodBytes uint64, entropyFn EntropyFunc) (*DRBG, error) {
	d := &DRBG{entropy: entropyFn, reseedPeriod: reseedPeriodBytes}
	if err := d.reseed(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DRBG) reseed() error {
	var seed [seedSize]byte
	if !d.entropy(seedSize, seed[:]) {
		return perr.ErrEntropyFailure
	}
	d.key = seed
	d.counter = 0
	d.producedBytes = 0
	return nil
}

// GetMem fills buf with n pseudorandom bytes, reseeding first if the
// reseed period has been exceeded.
func (d *DRBG) GetMem(buf []byte, n int) error {
	if d.producedBytes+uint64(n) > d.reseedPeriod {
		if err := d.reseed(); err != nil {
			return err
		}
	}
	h := blake3.New()
	h.Write(d.key[:])
	var ctrBytes [8]byte
	binary.LittleEndian.PutUint64(ctrBytes[:], d.counter)
	h.Write(ctrBytes[:])
	d.counter++

	digest := h.Digest()
	got := 0
	for got < n {
		chunk := make([]byte, 64)
		digest.Read(chunk)
		c := copy(buf[got:n], chunk)
		got += c
		if c < len(chunk) {
			break
		}
	}
	d.producedBytes += uint64(n)
	return nil
}

// GetU32 draws 4 pseudorandom bytes and assembles them little-endian.
func (d *DRBG) GetU32() (uint32, error) {
	var b [4]byte
	if err := d.GetMem(b[:], 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}
