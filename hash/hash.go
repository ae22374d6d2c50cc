// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package hash implements C8: a unified hash/XOF interface over SHA-2,
// Keccak/SHA-3/SHAKE, and (as an extra, non-spec-mandated digest wired from
// the teacher's own dependency graph) BLAKE3.
package hash

// State is the lifecycle a Hasher moves through.
type State int

const (
	Uninit State = iota
	Absorbing
	Squeezing
	Done
)

// Hasher is the common interface every digest/XOF in this package implements.
type Hasher interface {
	Init(outBits int) error
	Update(p []byte)
	Final() []byte
	Squeeze(out []byte, n int)
	GetCopy() Hasher
	State() State
}

// Algorithm identifiers, matching §6's stable catalogue.
type Algorithm int

const (
	SHA2_224 Algorithm = iota
	SHA2_256
	SHA2_384
	SHA2_512
	SHA2_512_224
	SHA2_512_256
	SHA3_224
	SHA3_256
	SHA3_384
	SHA3_512
	SHAKE128
	SHAKE256
	BLAKE3_256
)

// New constructs a Hasher for the named algorithm.
func New(alg Algorithm) Hasher {
	switch alg {
	case SHA2_224:
		return newSHA256(true)
	case SHA2_256:
		return newSHA256(false)
	case SHA2_384:
		return newSHA512(sha512Variant384)
	case SHA2_512:
		return newSHA512(sha512Variant512)
	case SHA2_512_224:
		return newSHA512(sha512Variant512t224)
	case SHA2_512_256:
		return newSHA512(sha512Variant512t256)
	case SHA3_224:
		return newKeccak(224, 0x06)
	case SHA3_256:
		return newKeccak(256, 0x06)
	case SHA3_384:
		return newKeccak(384, 0x06)
	case SHA3_512:
		return newKeccak(512, 0x06)
	case SHAKE128:
		return newKeccak(128, 0x1f)
	case SHAKE256:
		return newKeccak(256, 0x1f)
	case BLAKE3_256:
		return newBlake3()
	default:
		return newSHA256(false)
	}
}
