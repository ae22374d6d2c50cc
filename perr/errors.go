// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package perr declares the error taxonomy shared by every scheme package.
package perr

import "errors"

var (
	ErrInvalidParameterSet = errors.New("invalid parameter set")
	ErrInvalidKey          = errors.New("invalid key")
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrDecryptionFailure   = errors.New("decryption failure")
	ErrDivideByZero        = errors.New("divide by zero")
	ErrNonInvertible       = errors.New("value is not invertible")
	ErrPointAtInfinity     = errors.New("point at infinity")
	ErrPointError          = errors.New("point arithmetic error")
	ErrRecodingError       = errors.New("scalar recoding error")
	ErrInsufficientBuffer  = errors.New("insufficient buffer")
	ErrEntropyFailure      = errors.New("entropy callback failure")

	// errRejectionRestart is internal to the Dilithium sign loop and must
	// never cross a public function boundary.
	errRejectionRestart = errors.New("internal: rejection restart")
)

// RejectionRestart returns the internal restart signal. Exposed only to
// packages within this module that implement a rejection-sampling loop.
func RejectionRestart() error { return errRejectionRestart }

// IsRejectionRestart reports whether err is the internal restart signal.
func IsRejectionRestart(err error) bool { return errors.Is(err, errRejectionRestart) }
