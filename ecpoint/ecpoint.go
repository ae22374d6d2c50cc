// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ecpoint implements C12: an elliptic-curve point abstraction that
// spans coordinate systems (affine, projective, Jacobian, López–Dahab,
// extended Edwards) and the field families (prime Weierstrass,
// binary Weierstrass, Montgomery-prime, Edwards-prime) the scheme layer's
// key-exchange and signature schemes are built on.
package ecpoint

import (
	"github.com/phantomcrypto/phantom/gf2n"
	"github.com/phantomcrypto/phantom/modular"
	"github.com/phantomcrypto/phantom/mpz"
	"github.com/phantomcrypto/phantom/perr"
)

// FieldTag names the curve family, which selects the point-arithmetic
// formulas used by Double/Add/Negate.
type FieldTag int

const (
	WeierstrassPrime FieldTag = iota
	MontgomeryPrime
	EdwardsPrime
	BinaryWeierstrass
)

// CoordSystem names the coordinate representation a Point is stored in.
type CoordSystem int

const (
	Affine CoordSystem = iota
	Projective
	Jacobian
	ExtendedEdwards
	// LopezDahab is the binary-curve projective system (X,Y,Z) with
	// x=X/Z, y=Y/Z, ported from the teacher's
	// weierstrass_binary_projective scaling convention.
	LopezDahab
)

// CurveConfig is the shared, by-reference curve parameter record every
// Point on that curve points back to. Field and BinMod are mutually
// exclusive: prime-family curves (Tag != BinaryWeierstrass) set Field and
// leave BinMod nil; BinaryWeierstrass curves set BinMod and leave Field
// nil, with A and B holding their GF(2^n) coefficients encoded the same
// way Point coordinates are (mpzToElem/elemToMpz, little-endian).
type CurveConfig struct {
	Field    *modular.Context
	BinMod   gf2n.Modulus
	Order    *mpz.Int
	Cofactor *mpz.Int
	A, B     *mpz.Int // B unused for Edwards; D used instead
	D        *mpz.Int
	Tag      FieldTag
	Coord    CoordSystem
	AIsNeg3  bool
	AIsNeg1  bool
	AIsZero  bool
	BIsOne   bool
}

// binFieldByteLen returns a byte width every GF(2^n) element of mod fits
// in, plus one byte of margin against mpz.Int.Bytes' exact-fit check.
func binFieldByteLen(mod gf2n.Modulus) int {
	return (mod.Degree()+7)/8 + 1
}

// mpzToElem decodes a Point coordinate (little-endian mpz encoding) into
// the GF(2^n) element it represents.
func mpzToElem(x *mpz.Int, mod gf2n.Modulus) *gf2n.Elem {
	b, _ := x.Bytes(binFieldByteLen(mod), true)
	return gf2n.FromBits(b, mod)
}

// elemToMpz is the inverse of mpzToElem.
func elemToMpz(e *gf2n.Elem, mod gf2n.Modulus) *mpz.Int {
	return mpz.FromBytes(e.Bytes(binFieldByteLen(mod)), true)
}

// Point is a value type: operations return new values and never mutate
// their inputs, and always carry a shared reference to their CurveConfig.
type Point struct {
	X, Y, Z, T *mpz.Int
	Infinity   bool
	Curve      *CurveConfig
}

// ConvertTo loads affine coordinates (x, y) into the curve's native
// coordinate system.
func ConvertTo(cfg *CurveConfig, x, y *mpz.Int) *Point {
	one := mpz.FromInt64(1)
	p := &Point{X: x, Y: y, Curve: cfg}
	switch cfg.Coord {
	case Affine:
		p.Z = one
	case Projective, Jacobian, LopezDahab:
		p.Z = one
	case ExtendedEdwards:
		p.Z = one
		p.T = cfg.Field.Reduce(mulZq(cfg, x, y))
	}
	return p
}

func mulZq(cfg *CurveConfig, a, b *mpz.Int) *mpz.Int {
	return mulMod(cfg.Field, a, b)
}

// mulMod multiplies in the field directly through the context's own
// Reduce rather than round-tripping Montgomery form, so it works
// regardless of whether cfg.Field was built with NewBarrett or
// NewMontgomery.
func mulMod(ctx *modular.Context, a, b *mpz.Int) *mpz.Int {
	return ctx.Reduce(a.Mul(b))
}

func addMod(ctx *modular.Context, a, b *mpz.Int) *mpz.Int {
	return ctx.Reduce(a.Add(b))
}

func subMod(ctx *modular.Context, a, b *mpz.Int) *mpz.Int {
	return ctx.Reduce(a.Sub(b))
}

// ConvertFrom reads affine coordinates back out, inverting Z where
// required. Fails with ErrPointAtInfinity if Z has no inverse (it is the
// point at infinity in this representation).
func ConvertFrom(cfg *CurveConfig, p *Point) (x, y *mpz.Int, err error) {
	if p.Infinity {
		return nil, nil, perr.ErrPointAtInfinity
	}
	if cfg.Tag == BinaryWeierstrass {
		return convertFromBinary(cfg, p)
	}
	if p.Curve.Coord == Affine {
		return p.X, p.Y, nil
	}
	zInv, err := cfg.Field.Invert(p.Z)
	if err != nil {
		return nil, nil, perr.ErrPointError
	}
	switch cfg.Coord {
	case Projective, ExtendedEdwards:
		x = mulMod(cfg.Field, p.X, zInv)
		y = mulMod(cfg.Field, p.Y, zInv)
	case Jacobian:
		zInv2 := mulMod(cfg.Field, zInv, zInv)
		zInv3 := mulMod(cfg.Field, zInv2, zInv)
		x = mulMod(cfg.Field, p.X, zInv2)
		y = mulMod(cfg.Field, p.Y, zInv3)
	}
	return x, y, nil
}

// convertFromBinary reads affine (x,y) back out of a López–Dahab point:
// x=X/Z, y=Y/Z, per the teacher's weierstrass_binary_projective convention.
func convertFromBinary(cfg *CurveConfig, p *Point) (x, y *mpz.Int, err error) {
	if cfg.Coord == Affine {
		return p.X, p.Y, nil
	}
	mod := cfg.BinMod
	z := mpzToElem(p.Z, mod)
	if z.IsZero() {
		return nil, nil, perr.ErrPointAtInfinity
	}
	zInv, ierr := z.Invert()
	if ierr != nil {
		return nil, nil, perr.ErrPointError
	}
	xe := mpzToElem(p.X, mod).Mul(zInv)
	ye := mpzToElem(p.Y, mod).Mul(zInv)
	return elemToMpz(xe, mod), elemToMpz(ye, mod), nil
}

// Doubling returns p doubled w times as a new point; p itself is not
// modified. The point at infinity returns
// unchanged; doubling a 2-torsion point (y=0) produces infinity.
func Doubling(p *Point, w int) *Point {
	cur := p
	for i := 0; i < w; i++ {
		cur = doubleOnce(cur)
	}
	return cur
}

func doubleOnce(p *Point) *Point {
	if p.Infinity {
		return p
	}
	if p.Curve.Tag == BinaryWeierstrass {
		return doubleBinary(p)
	}
	f := p.Curve.Field
	switch p.Curve.Tag {
	case WeierstrassPrime:
		return doubleWeierstrass(p, f)
	case EdwardsPrime:
		return doubleEdwards(p, f)
	case MontgomeryPrime:
		return doubleMontgomery(p, f)
	}
	return p
}

// doubleBinary doubles a López–Dahab point on y^2+xy=x^3+ax^2+b over
// GF(2^n), ported from weierstrass_binary_projective::doubling.
func doubleBinary(p *Point) *Point {
	mod := p.Curve.BinMod
	X := mpzToElem(p.X, mod)
	if X.IsZero() {
		return &Point{Infinity: true, Curve: p.Curve}
	}
	Y := mpzToElem(p.Y, mod)
	Z := mpzToElem(p.Z, mod)
	a := mpzToElem(p.Curve.A, mod)

	xsq := X.Sqr()               // xsq = X^2
	b := xsq.Add(Y.Mul(Z))        // b = X^2 + Y*Z
	c := X.Mul(Z)                 // c = X*Z
	d := c.Sqr()                  // d = (X*Z)^2
	e := b.Sqr().Add(b.Mul(c)).Add(a.Mul(d))

	x3 := c.Mul(e)
	y3 := b.Add(c).Mul(e).Add(xsq.Sqr().Mul(c))
	z3 := c.Mul(d)

	return &Point{X: elemToMpz(x3, mod), Y: elemToMpz(y3, mod), Z: elemToMpz(z3, mod), Curve: p.Curve}
}

// doubleWeierstrass implements Jacobian doubling for y^2 = x^3 + a*x + b,
// special-casing a = -3 per §3's flag.
func doubleWeierstrass(p *Point, f *modular.Context) *Point {
	if isZeroMod(f, p.Y) {
		return &Point{Infinity: true, Curve: p.Curve}
	}
	X, Y, Z := p.X, p.Y, p.Z
	ySq := mulMod(f, Y, Y)
	s := mulMod(f, mpz.FromInt64(4), mulMod(f, X, ySq))
	ySqSq := mulMod(f, ySq, ySq)
	m8 := mulMod(f, mpz.FromInt64(8), ySqSq)

	var m *mpz.Int
	if p.Curve.AIsNeg3 {
		zSq := mulMod(f, Z, Z)
		xPlusZ := addMod(f, X, zSq)
		xMinusZ := subMod(f, X, zSq)
		m = mulMod(f, mpz.FromInt64(3), mulMod(f, xPlusZ, xMinusZ))
	} else {
		xSq := mulMod(f, X, X)
		three := mulMod(f, mpz.FromInt64(3), xSq)
		zSq := mulMod(f, Z, Z)
		zSqSq := mulMod(f, zSq, zSq)
		m = addMod(f, three, mulMod(f, p.Curve.A, zSqSq))
	}

	mSq := mulMod(f, m, m)
	twoS := addMod(f, s, s)
	x3 := subMod(f, mSq, twoS)
	sMinusX3 := subMod(f, s, x3)
	y3 := subMod(f, mulMod(f, m, sMinusX3), m8)
	z3 := mulMod(f, mpz.FromInt64(2), mulMod(f, Y, Z))
	return &Point{X: x3, Y: y3, Z: z3, Curve: p.Curve}
}

func doubleEdwards(p *Point, f *modular.Context) *Point {
	a, d := p.Curve.A, p.Curve.D
	_ = d
	A := mulMod(f, p.X, p.X)
	B := mulMod(f, p.Y, p.Y)
	C := mulMod(f, mpz.FromInt64(2), mulMod(f, p.Z, p.Z))
	Dv := mulMod(f, a, A)
	xPlusY := addMod(f, p.X, p.Y)
	E := subMod(f, subMod(f, mulMod(f, xPlusY, xPlusY), A), B)
	G := addMod(f, Dv, B)
	H := subMod(f, Dv, B)
	J := subMod(f, G, C)
	x3 := mulMod(f, E, J)
	y3 := mulMod(f, G, H)
	t3 := mulMod(f, E, H)
	z3 := mulMod(f, G, J)
	return &Point{X: x3, Y: y3, Z: z3, T: t3, Curve: p.Curve}
}

func doubleMontgomery(p *Point, f *modular.Context) *Point {
	xPlusZ := addMod(f, p.X, p.Z)
	xMinusZ := subMod(f, p.X, p.Z)
	aSq := mulMod(f, xPlusZ, xPlusZ)
	bSq := mulMod(f, xMinusZ, xMinusZ)
	c := subMod(f, aSq, bSq)
	x3 := mulMod(f, aSq, bSq)
	a24 := p.Curve.A // caller stores (a+2)/4 in A for Montgomery ladder use
	z3 := mulMod(f, c, addMod(f, bSq, mulMod(f, a24, c)))
	return &Point{X: x3, Z: z3, Curve: p.Curve}
}

func isZeroMod(f *modular.Context, v *mpz.Int) bool {
	return f.Reduce(v).Sign() == 0
}

// Addition adds rhs to p. Equal summands dispatch to Doubling(1); summands
// that are negatives of each other produce the point at infinity. For
// MontgomeryPrime curves the general sum is not computed (see
// addMontgomeryDiffAdd).
func Addition(p, rhs *Point) *Point {
	if p.Infinity {
		return rhs
	}
	if rhs.Infinity {
		return p
	}
	if p.Curve.Tag == BinaryWeierstrass {
		return additionBinary(p, rhs)
	}
	if pointsEqual(p, rhs) {
		return Doubling(p, 1)
	}
	if pointsNegatives(p, rhs) {
		return &Point{Infinity: true, Curve: p.Curve}
	}
	switch p.Curve.Tag {
	case WeierstrassPrime:
		return addWeierstrass(p, rhs)
	case EdwardsPrime:
		return addEdwards(p, rhs)
	case MontgomeryPrime:
		return addMontgomeryDiffAdd(p, rhs)
	}
	return p
}

// additionBinary dispatches the doubling/negation/general cases for a
// binary curve, using GF(2^n) equality (the generic pointsEqual/
// pointsNegatives helpers assume a prime modular.Context).
func additionBinary(p, rhs *Point) *Point {
	cfg := p.Curve
	mod := cfg.BinMod
	x1, y1, err1 := ConvertFrom(cfg, p)
	x2, y2, err2 := ConvertFrom(cfg, rhs)
	if err1 != nil {
		return rhs
	}
	if err2 != nil {
		return p
	}
	e1, f1 := mpzToElem(x1, mod), mpzToElem(y1, mod)
	e2, f2 := mpzToElem(x2, mod), mpzToElem(y2, mod)
	if e1.Equal(e2) {
		if f1.Equal(f2) {
			return Doubling(p, 1)
		}
		if f1.Equal(e2.Add(f2)) { // y1 == x2+y2: p == -rhs
			return &Point{Infinity: true, Curve: cfg}
		}
	}
	return addBinaryProjective(p, rhs)
}

// addBinaryProjective is the general (non-mixed) López–Dahab addition,
// ported from weierstrass_binary_projective::addition.
func addBinaryProjective(p, q *Point) *Point {
	cfg := p.Curve
	mod := cfg.BinMod
	X1, Y1, Z1 := mpzToElem(p.X, mod), mpzToElem(p.Y, mod), mpzToElem(p.Z, mod)
	X2, Y2, Z2 := mpzToElem(q.X, mod), mpzToElem(q.Y, mod), mpzToElem(q.Z, mod)
	a := mpzToElem(cfg.A, mod)

	av := Y1.Mul(Z2).Add(Z1.Mul(Y2))
	bv := X1.Mul(Z2).Add(Z1.Mul(X2))
	d := Z1.Mul(Z2)
	c := bv.Sqr()
	e := av.Sqr().Add(av.Mul(bv)).Add(a.Mul(c)).Mul(d).Add(bv.Mul(c))

	x3 := bv.Mul(e)
	y3 := Y1.Mul(bv).Add(av.Mul(X1)).Mul(c).Mul(Z2).Add(av.Add(bv).Mul(e))
	z3 := bv.Mul(c).Mul(d)

	return &Point{X: elemToMpz(x3, mod), Y: elemToMpz(y3, mod), Z: elemToMpz(z3, mod), Curve: cfg}
}

func pointsEqual(p, rhs *Point) bool {
	f := p.Curve.Field
	x1, y1, err1 := ConvertFrom(p.Curve, p)
	x2, y2, err2 := ConvertFrom(p.Curve, rhs)
	if err1 != nil || err2 != nil {
		return false
	}
	return isZeroMod(f, x1.Sub(x2)) && isZeroMod(f, y1.Sub(y2))
}

func pointsNegatives(p, rhs *Point) bool {
	f := p.Curve.Field
	x1, y1, err1 := ConvertFrom(p.Curve, p)
	x2, y2, err2 := ConvertFrom(p.Curve, rhs)
	if err1 != nil || err2 != nil {
		return false
	}
	if !isZeroMod(f, x1.Sub(x2)) {
		return false
	}
	negY2 := Negate(&Point{X: x2, Y: y2, Z: mpz.FromInt64(1), Curve: p.Curve})
	_, ny2, _ := ConvertFrom(p.Curve, negY2)
	return isZeroMod(f, y1.Sub(ny2))
}

func addWeierstrass(p, q *Point) *Point {
	f := p.Curve.Field
	z1z1 := mulMod(f, p.Z, p.Z)
	z2z2 := mulMod(f, q.Z, q.Z)
	u1 := mulMod(f, p.X, z2z2)
	u2 := mulMod(f, q.X, z1z1)
	s1 := mulMod(f, p.Y, mulMod(f, q.Z, z2z2))
	s2 := mulMod(f, q.Y, mulMod(f, p.Z, z1z1))
	h := subMod(f, u2, u1)
	r := subMod(f, s2, s1)
	hh := mulMod(f, h, h)
	hhh := mulMod(f, hh, h)
	v := mulMod(f, u1, hh)
	x3 := subMod(f, subMod(f, mulMod(f, r, r), hhh), addMod(f, v, v))
	y3 := subMod(f, mulMod(f, r, subMod(f, v, x3)), mulMod(f, s1, hhh))
	z3 := mulMod(f, mulMod(f, p.Z, q.Z), h)
	return &Point{X: x3, Y: y3, Z: z3, Curve: p.Curve}
}

func addEdwards(p, q *Point) *Point {
	f := p.Curve.Field
	d := p.Curve.D
	a := mulMod(f, p.X, q.X)
	b := mulMod(f, p.Y, q.Y)
	c := mulMod(f, d, mulMod(f, p.T, q.T))
	dd := mulMod(f, p.Z, q.Z)
	xSum := addMod(f, p.X, p.Y)
	ySum := addMod(f, q.X, q.Y)
	e := subMod(f, subMod(f, mulMod(f, xSum, ySum), a), b)
	fF := subMod(f, dd, c)
	g := addMod(f, dd, c)
	h := subMod(f, b, mulMod(f, p.Curve.A, a))
	x3 := mulMod(f, e, fF)
	y3 := mulMod(f, g, h)
	t3 := mulMod(f, e, h)
	z3 := mulMod(f, fF, g)
	return &Point{X: x3, Y: y3, Z: z3, T: t3, Curve: p.Curve}
}

// addMontgomeryDiffAdd is Addition's MontgomeryPrime case. It returns p
// unchanged and does not compute p+q; the x-only differential sum, which
// needs the difference p-q, is computed by montgomeryAdd inside LadderStep.
func addMontgomeryDiffAdd(p, q *Point) *Point {
	return p
}

// Negate returns -p: y -> -y for prime Weierstrass, y -> y+x for binary
// Weierstrass, x -> -x for Edwards.
func Negate(p *Point) *Point {
	if p.Curve.Tag == BinaryWeierstrass {
		mod := p.Curve.BinMod
		x := mpzToElem(p.X, mod)
		y := mpzToElem(p.Y, mod)
		return &Point{X: p.X, Y: elemToMpz(y.Add(x), mod), Z: p.Z, Curve: p.Curve}
	}
	f := p.Curve.Field
	switch p.Curve.Tag {
	case WeierstrassPrime:
		return &Point{X: p.X, Y: f.Reduce(p.Y.Neg()), Z: p.Z, Curve: p.Curve}
	case EdwardsPrime:
		negX := f.Reduce(p.X.Neg())
		negT := f.Reduce(p.T.Neg())
		return &Point{X: negX, Y: p.Y, Z: p.Z, T: negT, Curve: p.Curve}
	case MontgomeryPrime:
		return &Point{X: p.X, Z: p.Z, Curve: p.Curve}
	}
	return p
}

// LadderStep performs the joint double-and-add step of a Montgomery
// ladder: given the running pair (base-this, other) and the original base
// point, it returns the updated pair after one ladder step.
func LadderStep(p, other, base *Point) (*Point, *Point) {
	f := p.Curve.Field
	xDbl := Doubling(p, 1)
	sum := montgomeryAdd(p, other, base, f)
	return xDbl, sum
}

func montgomeryAdd(p, q, base *Point, f *modular.Context) *Point {
	v0 := addMod(f, p.X, p.Z)
	v1 := subMod(f, q.X, q.Z)
	v1 = mulMod(f, v1, v0)
	v0 = subMod(f, p.X, p.Z)
	v2 := addMod(f, q.X, q.Z)
	v2 = mulMod(f, v2, v0)
	v3 := addMod(f, v1, v2)
	v3 = mulMod(f, v3, v3)
	v4 := subMod(f, v1, v2)
	v4 = mulMod(f, v4, v4)
	x3 := v3
	z3 := mulMod(f, base.X, v4)
	return &Point{X: x3, Z: z3, Curve: p.Curve}
}
