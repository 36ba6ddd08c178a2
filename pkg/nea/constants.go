package nea

import "encoding/hex"

// FoundState is the discovery state of a band as reported by the device service.
type FoundState string

// Found states.
const (
	FoundUndefined     FoundState = "undefined"
	FoundAnonymous     FoundState = "anonymous"
	FoundIdentified    FoundState = "identified"
	FoundProvisioned   FoundState = "provisioned"
	FoundAuthenticated FoundState = "authenticated"
)

// PresenceState is the presence state of a band.
type PresenceState string

// Presence states.
const (
	PresenceUndefined PresenceState = "undefined"
	PresenceYes       PresenceState = "present"
	PresenceNo        PresenceState = "not_present"
	PresenceUnsure    PresenceState = "unsure"
)

// ProximityState is the proximity state of a provisioned band.
type ProximityState string

// Proximity states.
const (
	ProximityUndefined ProximityState = "undefined"
	ProximityNotReady  ProximityState = "not_ready"
	ProximityReady     ProximityState = "ready"
	ProximityInRange   ProximityState = "in_range"
)

// SignatureAlgorithm names the curve a band signs with.
type SignatureAlgorithm string

// Signature algorithms.
const (
	NIST256P SignatureAlgorithm = "NIST256P"
	ED25519  SignatureAlgorithm = "ED25519"
)

// Valid reports whether a is a known signature algorithm.
func (a SignatureAlgorithm) Valid() bool {
	return a == NIST256P || a == ED25519
}

// KeyType names a key slot on a band.
type KeyType string

// Key types.
const (
	KeyTypeSymmetric        KeyType = "symmetric"
	KeyTypeTOTP             KeyType = "totp"
	KeyTypeSigning          KeyType = "signing"
	KeyTypeRoamingAuthSetup KeyType = "roamingAuthSetup"
	KeyTypeCDF              KeyType = "cdf"
)

// PatternAction controls the LED pattern shown during provisioning.
type PatternAction string

// Pattern actions.
const (
	PatternAccept PatternAction = "accept"
	PatternReject PatternAction = "reject"
)

// HexString is a lowercase hex encoding of binary data as carried on the wire.
type HexString string

// Bytes decodes the hex string.
func (h HexString) Bytes() ([]byte, error) {
	return hex.DecodeString(string(h))
}

// String returns the hex text.
func (h HexString) String() string {
	return string(h)
}
