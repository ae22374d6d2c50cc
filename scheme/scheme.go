// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package scheme is the orchestration layer that assembles the lower-level
// components (rsa, ecsig, kyber, saber, dilithium, plus the supplemented
// IBE and ECDH schemes) behind a single Context API, dispatched by the
// stable scheme identifiers of the external interface: create_ctx, keygen,
// set_public_key, get_public_key, set_private_key, get_private_key, and
// get_msg_len, plus the scheme-specific operations each Context exposes
// through the narrower PKE/KEM/Sig/IBE/KE interfaces below.
package scheme

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/phantomcrypto/phantom/csprng"
	"github.com/phantomcrypto/phantom/perr"
)

// ID is a stable scheme identifier from the catalogue.
type ID string

const (
	PKCPKEKyber       ID = "PKC_PKE_KYBER"
	PKCPKESaber       ID = "PKC_PKE_SABER"
	PKCPKERSAESOAEP   ID = "PKC_PKE_RSAES_OAEP"
	PKCKEMKyber       ID = "PKC_KEM_KYBER"
	PKCKEMSaber       ID = "PKC_KEM_SABER"
	PKCSigDilithium   ID = "PKC_SIG_DILITHIUM"
	PKCSigECDSA       ID = "PKC_SIG_ECDSA"
	PKCSigEdDSA       ID = "PKC_SIG_EDDSA"
	PKCSigRSASSAPSS   ID = "PKC_SIG_RSASSA_PSS"
	PKCKeyECDH        ID = "PKC_KEY_ECDH"
	PKCIBEDLP         ID = "PKC_IBE_DLP"
)

// Context is the per-algorithm record of §3 "Scheme user context": created
// by create_ctx, mutated by keygen/set_*_key, consumed by the operations,
// destroyed by the caller. Implementations own their own key-buffer layout;
// the registry only ever sees this common lifecycle surface.
type Context interface {
	Keygen(rng *csprng.DRBG) error
	SetPublicKey(b []byte) error
	GetPublicKey() ([]byte, error)
	SetPrivateKey(b []byte) error
	GetPrivateKey() ([]byte, error)
	MsgLen() int
}

// PKEContext is implemented by public-key encryption schemes.
type PKEContext interface {
	Context
	Encrypt(msg []byte, rng *csprng.DRBG) ([]byte, error)
	Decrypt(ct []byte) ([]byte, error)
}

// KEMContext is implemented by key encapsulation schemes.
type KEMContext interface {
	Context
	Encapsulate(rng *csprng.DRBG) (ct, sharedSecret []byte, err error)
	Decapsulate(ct []byte) (sharedSecret []byte, err error)
}

// SigContext is implemented by signature schemes.
type SigContext interface {
	Context
	Sign(msg []byte, rng *csprng.DRBG) ([]byte, error)
	Verify(msg, sig []byte) (bool, error)
}

// IBEContext is implemented by identity-based encryption schemes.
type IBEContext interface {
	Context
	Extract(id []byte) ([]byte, error)
	EncryptFor(id, msg []byte, rng *csprng.DRBG) ([]byte, error)
	DecryptWith(extractedKey, ct []byte) ([]byte, error)
}

// KEContext is implemented by interactive key-exchange schemes.
type KEContext interface {
	Context
	Init(rng *csprng.DRBG) ([]byte, error)
	Setup(peerMessage []byte) error
	Final() ([]byte, error)
}

// Constructor builds a fresh, unkeyed Context for a given parameter set.
// logger may be nil, in which case the Context logs nothing.
type Constructor func(parameterSet string, logger *zap.SugaredLogger) (Context, error)

var registry = make(map[ID]Constructor)

// Register attaches a constructor to a scheme identifier. Called from each
// scheme wrapper's init(), the same "registration, not a dispatcher edit"
// shape as modules.RegisterModule.
func Register(id ID, ctor Constructor) {
	registry[id] = ctor
}

// CreateCtx looks up the constructor registered under scheme and invokes
// it. wordSizeHint and maskingFlag are accepted for interface parity with
// §6's create_ctx signature; concrete schemes that care about either read
// them out of parameterSet-derived Params rather than a raw hint, so they
// are otherwise unused here.
func CreateCtx(id ID, parameterSet string, wordSizeHint int, maskingFlag bool, logger *zap.SugaredLogger) (Context, error) {
	_ = wordSizeHint
	_ = maskingFlag
	ctor, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown scheme %q", perr.ErrInvalidParameterSet, id)
	}
	return ctor(parameterSet, logger)
}

func logDebug(l *zap.SugaredLogger, msg string, kv ...interface{}) {
	if l == nil {
		return
	}
	l.Debugw(msg, kv...)
}
