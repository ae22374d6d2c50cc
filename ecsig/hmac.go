// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ecsig

import "github.com/phantomcrypto/phantom/hash"

// hmacBlockSize is the SHA-256 block size used for HMAC key padding
// (FIPS 198-1); every curve this package defines drives RFC 6979 with
// SHA-256, so one constant suffices. Hashes with a 128-byte block
// (SHA-384/512) are padded to 64 bytes here as well.
const hmacBlockSize = 64

// hmacSum computes HMAC(key, msg) with the given hash algorithm, built
// directly on the hash.Hasher interface rather than crypto/hmac since
// Hasher does not implement the standard library's hash.Hash.
func hmacSum(alg hash.Algorithm, outBits int, key, msg []byte) []byte {
	k := make([]byte, hmacBlockSize)
	if len(key) > hmacBlockSize {
		k = sumWith(alg, outBits, key)
		padded := make([]byte, hmacBlockSize)
		copy(padded, k)
		k = padded
	} else {
		copy(k, key)
	}

	ipad := make([]byte, hmacBlockSize)
	opad := make([]byte, hmacBlockSize)
	for i := 0; i < hmacBlockSize; i++ {
		ipad[i] = k[i] ^ 0x36
		opad[i] = k[i] ^ 0x5c
	}

	inner := sumWith(alg, outBits, append(ipad, msg...))
	return sumWith(alg, outBits, append(opad, inner...))
}

func sumWith(alg hash.Algorithm, outBits int, data []byte) []byte {
	h := hash.New(alg)
	_ = h.Init(outBits)
	h.Update(data)
	return h.Final()
}
