package roamingauth

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// PublicKey reads the certificate in the PEM file at path and returns its
// subject public key as X||Y.
//
// The certificate is walked structurally rather than fully parsed, so files
// whose key carries explicit curve parameters are accepted too.
func PublicKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate: %w", err)
	}

	block := findBlock(data, "CERTIFICATE")
	if block == nil {
		return nil, ErrNoCertificate
	}

	return rawSubjectPublicKey(block.Bytes)
}

// ExtractRawPublicKey returns the hex encoded X||Y public key of the
// certificate at path, or "" if it cannot be read.
func ExtractRawPublicKey(path string) string {
	pub, err := PublicKey(path)
	if err != nil {
		return ""
	}
	return hex.EncodeToString(pub)
}

// rawSubjectPublicKey walks Certificate -> TBSCertificate -> SubjectPublicKeyInfo
// and strips the uncompressed point marker from the key bit string.
func rawSubjectPublicKey(der []byte) ([]byte, error) {
	input := cryptobyte.String(der)
	var cert, tbs, spki cryptobyte.String
	if !input.ReadASN1(&cert, cbasn1.SEQUENCE) ||
		!cert.ReadASN1(&tbs, cbasn1.SEQUENCE) {
		return nil, errors.New("x509: malformed certificate")
	}

	if !tbs.SkipOptionalASN1(cbasn1.Tag(0).Constructed().ContextSpecific()) || // version
		!tbs.SkipASN1(cbasn1.INTEGER) || // serialNumber
		!tbs.SkipASN1(cbasn1.SEQUENCE) || // signature
		!tbs.SkipASN1(cbasn1.SEQUENCE) || // issuer
		!tbs.SkipASN1(cbasn1.SEQUENCE) || // validity
		!tbs.SkipASN1(cbasn1.SEQUENCE) || // subject
		!tbs.ReadASN1(&spki, cbasn1.SEQUENCE) {
		return nil, errors.New("x509: malformed tbs certificate")
	}

	var point cryptobyte.String
	var bits []byte
	if !spki.SkipASN1(cbasn1.SEQUENCE) ||
		!spki.ReadASN1(&point, cbasn1.BIT_STRING) {
		return nil, errors.New("x509: malformed subject public key info")
	}
	// leading byte of a BIT STRING is the unused bit count
	if !point.ReadUint8(new(uint8)) || !point.ReadBytes(&bits, len(point)) {
		return nil, errors.New("x509: malformed subject public key")
	}

	if len(bits) != 1+RawPublicKeySize || bits[0] != 0x04 {
		return nil, fmt.Errorf("%w: not an uncompressed P-256 point", ErrInvalidPublicKey)
	}
	return bytes.Clone(bits[1:]), nil
}

// loadPrivateKey reads the EC private key from the PEM file at path.
func loadPrivateKey(path string) (*ecdsa.PrivateKey, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}

	if block := findBlock(data, "EC PRIVATE KEY"); block != nil {
		key, err := x509.ParseECPrivateKey(block.Bytes)
		if err == nil {
			return key, nil
		}
		return parseExplicitECPrivateKey(block.Bytes)
	}

	if block := findBlock(data, "PRIVATE KEY"); block != nil {
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		ecKey, ok := key.(*ecdsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: PKCS #8 key is %T", ErrNoPrivateKey, key)
		}
		return ecKey, nil
	}

	return nil, ErrNoPrivateKey
}

// parseExplicitECPrivateKey reads an RFC 5915 key whose curve is given by
// explicit parameters, which crypto/x509 rejects. The scalar is taken as a
// P-256 key and checked against the embedded public key when present.
func parseExplicitECPrivateKey(der []byte) (*ecdsa.PrivateKey, error) {
	input := cryptobyte.String(der)
	var seq, scalar cryptobyte.String
	var version int
	if !input.ReadASN1(&seq, cbasn1.SEQUENCE) ||
		!seq.ReadASN1Integer(&version) || version != 1 ||
		!seq.ReadASN1(&scalar, cbasn1.OCTET_STRING) ||
		!seq.SkipOptionalASN1(cbasn1.Tag(0).Constructed().ContextSpecific()) {
		return nil, errors.New("x509: malformed EC private key")
	}

	key, err := ecdsa.ParseRawPrivateKey(elliptic.P256(), scalar)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	var pubField cryptobyte.String
	var hasPub bool
	if !seq.ReadOptionalASN1(&pubField, &hasPub, cbasn1.Tag(1).Constructed().ContextSpecific()) {
		return nil, errors.New("x509: malformed EC private key")
	}
	if hasPub {
		var point cryptobyte.String
		var unused uint8
		if !pubField.ReadASN1(&point, cbasn1.BIT_STRING) || !point.ReadUint8(&unused) {
			return nil, errors.New("x509: malformed EC public key")
		}
		want, err := key.PublicKey.Bytes()
		if err != nil || !bytes.Equal(want, point) {
			return nil, fmt.Errorf("%w: key is not on P-256", ErrNoPrivateKey)
		}
	}

	return key, nil
}

// findBlock returns the first PEM block of the given type.
func findBlock(data []byte, blockType string) *pem.Block {
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			return nil
		}
		if block.Type == blockType {
			return block
		}
	}
}
