// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scheme

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phantomcrypto/phantom/csprng"
)

func fixedEntropy(seedByte byte) csprng.EntropyFunc {
	return func(n int, out []byte) bool {
		for i := range out {
			out[i] = seedByte + byte(i)
		}
		return true
	}
}

func newTestDRBG(t *testing.T, seedByte byte) *csprng.DRBG {
	rng, err := csprng.New(1<<20, fixedEntropy(seedByte))
	require.NoError(t, err)
	return rng
}

func TestCreateCtxRejectsUnknownScheme(t *testing.T) {
	_, err := CreateCtx(ID("PKC_NOT_A_SCHEME"), "", 0, false, nil)
	require.Error(t, err)
}

func TestCreateCtxDispatchesEveryRegisteredScheme(t *testing.T) {
	ids := []ID{
		PKCPKEKyber, PKCPKESaber, PKCPKERSAESOAEP,
		PKCKEMKyber, PKCKEMSaber,
		PKCSigDilithium, PKCSigECDSA, PKCSigEdDSA, PKCSigRSASSAPSS,
		PKCKeyECDH, PKCIBEDLP,
	}
	for _, id := range ids {
		ctx, err := CreateCtx(id, "2048", 0, false, nil)
		require.NoError(t, err, "scheme %s", id)
		require.NotNil(t, ctx, "scheme %s", id)
	}
}

func TestKyberPKEEncryptDecryptRoundTrip(t *testing.T) {
	ctx, err := CreateCtx(PKCPKEKyber, "768", 0, false, nil)
	require.NoError(t, err)
	pke := ctx.(PKEContext)

	rng := newTestDRBG(t, 1)
	require.NoError(t, pke.Keygen(rng))

	msg := make([]byte, pke.MsgLen())
	for i := range msg {
		msg[i] = byte(i)
	}
	ct, err := pke.Encrypt(msg, rng)
	require.NoError(t, err)
	pt, err := pke.Decrypt(ct)
	require.NoError(t, err)
	require.Equal(t, msg, pt)
}

func TestKyberPublicKeyWireRoundTrip(t *testing.T) {
	ctx, err := CreateCtx(PKCPKEKyber, "768", 0, false, nil)
	require.NoError(t, err)
	pke := ctx.(PKEContext)
	rng := newTestDRBG(t, 2)
	require.NoError(t, pke.Keygen(rng))

	pubBytes, err := pke.GetPublicKey()
	require.NoError(t, err)

	ctx2, err := CreateCtx(PKCPKEKyber, "768", 0, false, nil)
	require.NoError(t, err)
	pke2 := ctx2.(PKEContext)
	require.NoError(t, pke2.SetPublicKey(pubBytes))

	msg := make([]byte, pke.MsgLen())
	ct, err := pke2.Encrypt(msg, rng)
	require.NoError(t, err)

	pt, err := pke.Decrypt(ct)
	require.NoError(t, err)
	require.Equal(t, msg, pt)
}

func TestKyberKEMEncapsulateDecapsulateSharedSecretMatches(t *testing.T) {
	ctx, err := CreateCtx(PKCKEMKyber, "768", 0, false, nil)
	require.NoError(t, err)
	kem := ctx.(KEMContext)
	rng := newTestDRBG(t, 3)
	require.NoError(t, kem.Keygen(rng))

	ct, ss1, err := kem.Encapsulate(rng)
	require.NoError(t, err)
	ss2, err := kem.Decapsulate(ct)
	require.NoError(t, err)
	require.Equal(t, ss1, ss2)
}

func TestSaberPKEEncryptDecryptRoundTrip(t *testing.T) {
	ctx, err := CreateCtx(PKCPKESaber, "", 0, false, nil)
	require.NoError(t, err)
	pke := ctx.(PKEContext)
	rng := newTestDRBG(t, 4)
	require.NoError(t, pke.Keygen(rng))

	msg := make([]byte, pke.MsgLen())
	for i := range msg {
		msg[i] = byte(255 - i)
	}
	ct, err := pke.Encrypt(msg, rng)
	require.NoError(t, err)
	pt, err := pke.Decrypt(ct)
	require.NoError(t, err)
	require.Equal(t, msg, pt)
}

func TestSaberKEMEncapsulateDecapsulateSharedSecretMatches(t *testing.T) {
	ctx, err := CreateCtx(PKCKEMSaber, "", 0, false, nil)
	require.NoError(t, err)
	kem := ctx.(KEMContext)
	rng := newTestDRBG(t, 5)
	require.NoError(t, kem.Keygen(rng))

	ct, ss1, err := kem.Encapsulate(rng)
	require.NoError(t, err)
	ss2, err := kem.Decapsulate(ct)
	require.NoError(t, err)
	require.Equal(t, ss1, ss2)
}

func TestDilithiumSignVerifyRoundTrip(t *testing.T) {
	ctx, err := CreateCtx(PKCSigDilithium, "", 0, false, nil)
	require.NoError(t, err)
	sig := ctx.(SigContext)
	rng := newTestDRBG(t, 6)
	require.NoError(t, sig.Keygen(rng))

	msg := []byte("dilithium scheme context message")
	sigBytes, err := sig.Sign(msg, rng)
	require.NoError(t, err)

	ok, err := sig.Verify(msg, sigBytes)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = sig.Verify([]byte("different message"), sigBytes)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDilithiumKeyWireRoundTrip(t *testing.T) {
	ctx, err := CreateCtx(PKCSigDilithium, "", 0, false, nil)
	require.NoError(t, err)
	sig := ctx.(SigContext)
	rng := newTestDRBG(t, 7)
	require.NoError(t, sig.Keygen(rng))

	pubBytes, err := sig.GetPublicKey()
	require.NoError(t, err)
	privBytes, err := sig.GetPrivateKey()
	require.NoError(t, err)

	ctx2, err := CreateCtx(PKCSigDilithium, "", 0, false, nil)
	require.NoError(t, err)
	sig2 := ctx2.(SigContext)
	require.NoError(t, sig2.SetPublicKey(pubBytes))
	require.NoError(t, sig2.SetPrivateKey(privBytes))

	msg := []byte("key wire round trip")
	sigBytes, err := sig2.Sign(msg, rng)
	require.NoError(t, err)
	ok, err := sig2.Verify(msg, sigBytes)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestECDSASignVerifyRoundTrip(t *testing.T) {
	ctx, err := CreateCtx(PKCSigECDSA, "", 0, false, nil)
	require.NoError(t, err)
	sig := ctx.(SigContext)
	rng := newTestDRBG(t, 8)
	require.NoError(t, sig.Keygen(rng))

	msg := []byte("ecdsa message")
	sigBytes, err := sig.Sign(msg, rng)
	require.NoError(t, err)
	ok, err := sig.Verify(msg, sigBytes)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEdDSASignVerifyRoundTrip(t *testing.T) {
	ctx, err := CreateCtx(PKCSigEdDSA, "", 0, false, nil)
	require.NoError(t, err)
	sig := ctx.(SigContext)
	rng := newTestDRBG(t, 9)
	require.NoError(t, sig.Keygen(rng))

	msg := []byte("eddsa message")
	sigBytes, err := sig.Sign(msg, rng)
	require.NoError(t, err)
	ok, err := sig.Verify(msg, sigBytes)
	require.NoError(t, err)
	require.True(t, ok)

	sigBytes[0] ^= 0xff
	ok, err = sig.Verify(msg, sigBytes)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRSAOAEPEncryptDecryptRoundTrip(t *testing.T) {
	ctx, err := CreateCtx(PKCPKERSAESOAEP, "1024", 0, false, nil)
	require.NoError(t, err)
	pke := ctx.(PKEContext)
	rng := newTestDRBG(t, 10)
	require.NoError(t, pke.Keygen(rng))

	msg := []byte("rsa oaep message")
	ct, err := pke.Encrypt(msg, rng)
	require.NoError(t, err)
	pt, err := pke.Decrypt(ct)
	require.NoError(t, err)
	require.Equal(t, msg, pt)
}

func TestRSAPSSSignVerifyRoundTrip(t *testing.T) {
	ctx, err := CreateCtx(PKCSigRSASSAPSS, "1024", 0, false, nil)
	require.NoError(t, err)
	sig := ctx.(SigContext)
	rng := newTestDRBG(t, 11)
	require.NoError(t, sig.Keygen(rng))

	msg := []byte("rsa pss message")
	sigBytes, err := sig.Sign(msg, rng)
	require.NoError(t, err)
	ok, err := sig.Verify(msg, sigBytes)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestECDHBothSidesDeriveSameSecret(t *testing.T) {
	ctxA, err := CreateCtx(PKCKeyECDH, "", 0, false, nil)
	require.NoError(t, err)
	a := ctxA.(KEContext)
	ctxB, err := CreateCtx(PKCKeyECDH, "", 0, false, nil)
	require.NoError(t, err)
	b := ctxB.(KEContext)

	rngA := newTestDRBG(t, 12)
	rngB := newTestDRBG(t, 13)

	msgA, err := a.Init(rngA)
	require.NoError(t, err)
	msgB, err := b.Init(rngB)
	require.NoError(t, err)

	require.NoError(t, a.Setup(msgB))
	require.NoError(t, b.Setup(msgA))

	secretA, err := a.Final()
	require.NoError(t, err)
	secretB, err := b.Final()
	require.NoError(t, err)
	require.Equal(t, secretA, secretB)
}

func TestIBEExtractEncryptDecryptRoundTrip(t *testing.T) {
	ctx, err := CreateCtx(PKCIBEDLP, "", 0, false, nil)
	require.NoError(t, err)
	ibe := ctx.(IBEContext)
	rng := newTestDRBG(t, 14)
	require.NoError(t, ibe.Keygen(rng))

	id := []byte("alice@example.com")
	extracted, err := ibe.Extract(id)
	require.NoError(t, err)

	msg := []byte("identity based message")
	ct, err := ibe.EncryptFor(id, msg, rng)
	require.NoError(t, err)

	pt, err := ibe.DecryptWith(extracted, ct)
	require.NoError(t, err)
	require.Equal(t, msg, pt)
}

func TestIBEWrongIdentityFailsToDecrypt(t *testing.T) {
	ctx, err := CreateCtx(PKCIBEDLP, "", 0, false, nil)
	require.NoError(t, err)
	ibe := ctx.(IBEContext)
	rng := newTestDRBG(t, 15)
	require.NoError(t, ibe.Keygen(rng))

	msg := []byte("identity based message")
	ct, err := ibe.EncryptFor([]byte("alice@example.com"), msg, rng)
	require.NoError(t, err)

	wrongExtracted, err := ibe.Extract([]byte("mallory@example.com"))
	require.NoError(t, err)

	pt, err := ibe.DecryptWith(wrongExtracted, ct)
	require.NoError(t, err)
	require.NotEqual(t, msg, pt)
}
