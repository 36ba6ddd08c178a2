package roamingauth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// SignMessage signs SHA-256(msg) with the private key in the PEM file at path
// and returns the signature as r||s.
func SignMessage(path string, msg []byte) ([]byte, error) {
	key, err := loadPrivateKey(path)
	if err != nil {
		return nil, err
	}

	digest := sha256.Sum256(msg)
	der, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}

	return rawSignature(der)
}

// Sign signs the message encoded in messageHex and returns the hex encoded
// r||s signature, or "" on any failure.
func Sign(path, messageHex string) string {
	msg, err := hex.DecodeString(messageHex)
	if err != nil {
		return ""
	}
	sig, err := SignMessage(path, msg)
	if err != nil {
		return ""
	}
	return hex.EncodeToString(sig)
}

// VerifySignature checks an r||s signature over SHA-256(msg) against an X||Y
// public key. It returns nil only for a valid signature.
func VerifySignature(msg, sig, pub []byte) error {
	if len(pub) != RawPublicKeySize {
		return fmt.Errorf("%w: length %d", ErrInvalidPublicKey, len(pub))
	}
	key, err := ecdsa.ParseUncompressedPublicKey(elliptic.P256(), append([]byte{0x04}, pub...))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}

	if len(sig) != RawSignatureSize {
		return fmt.Errorf("%w: length %d", ErrInvalidSignature, len(sig))
	}

	der, err := derSignature(sig)
	if err != nil {
		return err
	}

	digest := sha256.Sum256(msg)
	if !ecdsa.VerifyASN1(key, digest[:], der) {
		return ErrInvalidSignature
	}
	return nil
}

// Verify reports whether signatureHex is a valid signature of the message in
// messageHex under publicKeyHex. Malformed input yields false.
func Verify(messageHex, signatureHex, publicKeyHex string) bool {
	msg, err := hex.DecodeString(messageHex)
	if err != nil {
		return false
	}
	sig, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false
	}
	pub, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return false
	}
	return VerifySignature(msg, sig, pub) == nil
}

// rawSignature converts an ASN.1 ECDSA-Sig-Value into fixed width r||s.
func rawSignature(der []byte) ([]byte, error) {
	r, s := new(big.Int), new(big.Int)
	input := cryptobyte.String(der)
	var inner cryptobyte.String
	if !input.ReadASN1(&inner, cbasn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(r) ||
		!inner.ReadASN1Integer(s) ||
		!inner.Empty() {
		return nil, errors.New("malformed ASN.1 signature")
	}
	if r.BitLen() > 8*coordinateSize || s.BitLen() > 8*coordinateSize {
		return nil, errors.New("signature component exceeds curve size")
	}

	out := make([]byte, RawSignatureSize)
	r.FillBytes(out[:coordinateSize])
	s.FillBytes(out[coordinateSize:])
	return out, nil
}

// derSignature encodes r||s as an ASN.1 ECDSA-Sig-Value.
func derSignature(sig []byte) ([]byte, error) {
	r := new(big.Int).SetBytes(sig[:coordinateSize])
	s := new(big.Int).SetBytes(sig[coordinateSize:])

	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(r)
		b.AddASN1BigInt(s)
	})
	der, err := b.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	return der, nil
}
