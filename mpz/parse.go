// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mpz

import "fmt"

// Parse reads a signed integer in the given base (2..64) using the same
// alphabet String uses. Accepts an optional leading '-'.
func Parse(s string, base int) (*Int, error) {
	if s == "" {
		return nil, fmt.Errorf("mpz: empty string")
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	z := Zero()
	b := FromInt64(int64(base))
	for i := 0; i < len(s); i++ {
		d := digitValue(s[i])
		if d < 0 || d >= base {
			return nil, fmt.Errorf("mpz: invalid digit %q for base %d", s[i], base)
		}
		z = z.Mul(b).Add(FromInt64(int64(d)))
	}
	if neg {
		z = z.Neg()
	}
	return z, nil
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 36
	case c == '+':
		return 62
	case c == '/':
		return 63
	default:
		return -1
	}
}
