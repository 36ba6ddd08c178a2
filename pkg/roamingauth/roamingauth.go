// Package roamingauth issues and checks the P-256 credentials a roaming
// authentication service uses to prove itself to a band.
//
// Keys and signatures cross the package boundary in raw form: a public key is
// the uncompressed point without its 0x04 marker (X||Y, 64 bytes) and a
// signature is r||s with each half left-padded to 32 bytes. The hex adapters
// (ExtractRawPublicKey, Sign, Verify) collapse every failure into "" or false;
// the []byte functions they wrap return the underlying error.
package roamingauth

import (
	"encoding/asn1"
	"errors"
	"time"
)

// Validation errors returned by GenerateCertificate before the target file is touched.
var (
	ErrInvalidSubject  = errors.New("one of CN, C, ST, L, O, OU or emailAddress must be given")
	ErrInvalidDuration = errors.New("validity days must be greater than zero and end before the horizon")
	ErrInvalidPath     = errors.New("invalid certificate path")
)

// Errors reported while reading credentials or checking signatures.
var (
	ErrNoCertificate    = errors.New("no certificate found")
	ErrNoPrivateKey     = errors.New("no EC private key found")
	ErrInvalidPublicKey = errors.New("invalid raw public key")
	ErrInvalidSignature = errors.New("invalid signature")
)

const (
	// coordinateSize is the byte width of a P-256 field element.
	coordinateSize = 32
	// RawPublicKeySize is the length of an X||Y public key.
	RawPublicKeySize = 2 * coordinateSize
	// RawSignatureSize is the length of an r||s signature.
	RawSignatureSize = 2 * coordinateSize
)

// Horizon is the last instant a certificate may be valid until. Consumers
// store validity as signed 32-bit epoch seconds.
var Horizon = time.Date(2038, time.January, 18, 0, 0, 0, 0, time.UTC)

// oidEmailAddress is the PKCS #9 emailAddress attribute.
var oidEmailAddress = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 1}

// Subject holds the distinguished name fields of the certificate. At least
// one must be set.
type Subject struct {
	CommonName         string `json:"CN,omitempty" yaml:"CN,omitempty"`
	Country            string `json:"C,omitempty" yaml:"C,omitempty"`
	Province           string `json:"ST,omitempty" yaml:"ST,omitempty"`
	Locality           string `json:"L,omitempty" yaml:"L,omitempty"`
	Organization       string `json:"O,omitempty" yaml:"O,omitempty"`
	OrganizationalUnit string `json:"OU,omitempty" yaml:"OU,omitempty"`
	EmailAddress       string `json:"emailAddress,omitempty" yaml:"emailAddress,omitempty"`
}

// IsEmpty reports whether no field is set.
func (s Subject) IsEmpty() bool {
	return s == Subject{}
}
