// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hash

import "github.com/zeebo/blake3"

// blake3Hasher wraps zeebo/blake3 behind the package's Hasher interface. It
// is not part of the spec's §6 catalogue; it is wired in as an additional
// digest/XOF (also reused as the csprng DRBG core).
type blake3Hasher struct {
	h    *blake3.Hasher
	fed  []byte
	st   State
}

func newBlake3() *blake3Hasher {
	b := &blake3Hasher{h: blake3.New()}
	b.st = Absorbing
	return b
}

func (b *blake3Hasher) Init(_ int) error {
	b.h = blake3.New()
	b.fed = nil
	b.st = Absorbing
	return nil
}

func (b *blake3Hasher) State() State { return b.st }

func (b *blake3Hasher) Update(p []byte) {
	b.h.Write(p)
	b.fed = append(b.fed, p...)
}

func (b *blake3Hasher) Final() []byte {
	b.st = Done
	out := make([]byte, 32)
	b.h.Digest().Read(out)
	return out
}

func (b *blake3Hasher) Squeeze(out []byte, n int) {
	b.st = Squeezing
	d := b.h.Digest()
	buf := make([]byte, n)
	d.Read(buf)
	copy(out, buf[:n])
}

// GetCopy rebuilds an independent hasher from the bytes fed so far, since
// the underlying zeebo/blake3 Hasher exposes no clone operation.
func (b *blake3Hasher) GetCopy() Hasher {
	cp := newBlake3()
	cp.Update(b.fed)
	cp.st = b.st
	return cp
}
