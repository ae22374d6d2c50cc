// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ecsig

import (
	"github.com/phantomcrypto/phantom/ecpoint"
	"github.com/phantomcrypto/phantom/gf2n"
	"github.com/phantomcrypto/phantom/hash"
	"github.com/phantomcrypto/phantom/modular"
	"github.com/phantomcrypto/phantom/mpz"
)

// K163 builds the NIST/SEC2 sect163k1 Koblitz curve over GF(2^163),
// y^2+xy = x^3+x^2+1, using López–Dahab coordinates. ScalarMul, Sign, and
// Verify operate on it exactly as they do on P256 — the curve family is
// selected entirely through CurveConfig.Tag/Coord, never through a
// type switch in the signing path.
func K163() *Curve {
	mod := gf2n.Modulus{163, 7, 6, 3, 0}
	gx, _ := mpz.Parse("2fe13c0537bbc11acaa07d793de4e6d5e5c94eee8", 16)
	gy, _ := mpz.Parse("289070fb05d38ff58321f2e800536d538ccdaa3d9", 16)
	n, _ := mpz.Parse("4000000000000000000020108a2e0cc0d99f8a5ef", 16)

	cfg := &ecpoint.CurveConfig{
		BinMod: mod,
		Order:  n,
		A:      mpz.FromInt64(1),
		B:      mpz.FromInt64(1),
		Tag:    ecpoint.BinaryWeierstrass,
		Coord:  ecpoint.LopezDahab,
	}
	base := ecpoint.ConvertTo(cfg, gx, gy)
	return &Curve{
		Cfg:      cfg,
		Base:     base,
		OrderCtx: modular.NewBarrett(n),
		BitLen:   163,
		HashAlg:  hash.SHA2_256,
		HashBits: 256,
	}
}
