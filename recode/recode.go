// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package recode implements C11: scalar recoders that turn a non-negative
// integer into a stream of digits for scalar multiplication — binary,
// signed-digit NAF-w, unsigned windowed-w, and the raw bit stream consumed
// by a Montgomery ladder.
package recode

import "github.com/phantomcrypto/phantom/mpz"

// BitAt returns bit i of x (0 if i is out of range), LSB = bit 0.
func BitAt(x *mpz.Int, i int) int {
	if i < 0 || i >= x.BitLen() {
		return 0
	}
	shifted := x.Shr(i)
	_, rem, _ := shifted.QuoRem(mpz.FromInt64(2))
	if rem.Sign() < 0 {
		rem = rem.Add(mpz.FromInt64(2))
	}
	return int(rem.String(10)[0] - '0')
}

// Digit is one recoded symbol: a value, whether it is zero, and whether it
// represents a subtraction (signed encodings only).
type Digit struct {
	Value      int
	IsZero     bool
	IsSubtract bool
}

// Encoding selects the recoding algorithm.
type Encoding int

const (
	Binary Encoding = iota
	NAFw
	Windowedw
	MontgomeryLadder
)

// Recoder drives one of the four encodings over a scalar's bits, emitting
// one Digit per Next call. NumSteps is known before the first Next call so
// a consumer can size its accumulator up front (§4.11).
type Recoder struct {
	enc      Encoding
	w        int
	digits   []Digit
	pos      int
	scalar   *mpz.Int
	bitsOnly []int // for MontgomeryLadder
}

// NewRecoder builds a Recoder for scalar x (non-negative) under encoding
// enc with window width w (ignored for Binary/MontgomeryLadder).
func NewRecoder(x *mpz.Int, enc Encoding, w int) (*Recoder, error) {
	r := &Recoder{enc: enc, w: w, scalar: x}
	switch enc {
	case Binary:
		r.digits = binaryDigits(x)
	case NAFw:
		r.digits = nafwDigits(x, w)
	case Windowedw:
		r.digits = windowedwDigits(x, w)
	case MontgomeryLadder:
		r.digits = ladderDigits(x)
	}
	return r, nil
}

// NumSteps returns the number of digits this recoder will emit.
func (r *Recoder) NumSteps() int { return len(r.digits) }

// Next returns the next digit and whether one was available.
func (r *Recoder) Next() (Digit, bool) {
	if r.pos >= len(r.digits) {
		return Digit{}, false
	}
	d := r.digits[r.pos]
	r.pos++
	return d, true
}

func binaryDigits(x *mpz.Int) []Digit {
	n := x.BitLen()
	out := make([]Digit, 0, n)
	for i := n - 1; i >= 0; i-- {
		b := BitAt(x, i)
		out = append(out, Digit{Value: b, IsZero: b == 0})
	}
	return out
}

// nafwDigits computes the width-w non-adjacent form: odd signed digits in
// [-(2^(w-1)-1), 2^(w-1)-1], average non-zero density 1/(w+1).
func nafwDigits(x *mpz.Int, w int) []Digit {
	if w < 2 {
		w = 2
	}
	limit := int64(1) << uint(w-1)
	var digits []int
	k := x
	two := mpz.FromInt64(2)
	for k.Sign() > 0 {
		if BitAt(k, 0) == 1 {
			// take k mod 2^w as signed window value
			mod := mpz.FromInt64(1).Shl(w)
			_, km, _ := k.QuoRem(mod)
			if km.Sign() < 0 {
				km = km.Add(mod)
			}
			val := km
			if val.Cmp(mpz.FromInt64(limit)) >= 0 {
				val = val.Sub(mpz.FromInt64(1).Shl(w))
			}
			digits = append(digits, int(signedToInt64(val)))
			k = k.Sub(val)
		} else {
			digits = append(digits, 0)
		}
		k = k.Shr(1)
		_ = two
	}
	out := make([]Digit, len(digits))
	for i, v := range digits {
		out[i] = Digit{Value: abs(v), IsZero: v == 0, IsSubtract: v < 0}
	}
	reverseDigits(out)
	return out
}

// windowedwDigits computes unsigned base-2^w digits, MSB first.
func windowedwDigits(x *mpz.Int, w int) []Digit {
	if w < 2 {
		w = 2
	}
	n := x.BitLen()
	numWindows := (n + w - 1) / w
	if numWindows == 0 {
		numWindows = 1
	}
	out := make([]Digit, numWindows)
	mod := mpz.FromInt64(1).Shl(w)
	k := x
	for i := 0; i < numWindows; i++ {
		_, rem, _ := k.QuoRem(mod)
		v := int(signedToInt64(rem))
		out[numWindows-1-i] = Digit{Value: v, IsZero: v == 0}
		k = k.Shr(w)
	}
	return out
}

// ladderDigits is simply the MSB-first bit stream; the Montgomery ladder
// driver (ecpoint) interprets each bit itself rather than reading IsZero.
func ladderDigits(x *mpz.Int) []Digit {
	return binaryDigits(x)
}

func signedToInt64(x *mpz.Int) int64 {
	s := x.String(10)
	var v int64
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	for i := 0; i < len(s); i++ {
		v = v*10 + int64(s[i]-'0')
	}
	if neg {
		v = -v
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func reverseDigits(d []Digit) {
	for i, j := 0, len(d)-1; i < j; i, j = i+1, j-1 {
		d[i], d[j] = d[j], d[i]
	}
}
