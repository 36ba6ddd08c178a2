package nea

import "github.com/nymi/nea-helpers/pkg/protocol"

// Request parameter payloads.

type pidParams struct {
	PID string `json:"pid"`
}

type keyDeleteParams struct {
	PID     string  `json:"pid"`
	KeyType KeyType `json:"keyType"`
}

type signSetupParams struct {
	PID       string             `json:"pid"`
	Algorithm SignatureAlgorithm `json:"curve"`
}

type signRunParams struct {
	PID   string    `json:"pid"`
	Hash  HexString `json:"hash"`
	KeyID string    `json:"keyId,omitempty"`
}

type totpRunParams struct {
	PID     string `json:"pid"`
	Key     string `json:"key"`
	Guarded bool   `json:"guarded"`
}

type keyIDParams struct {
	PID   string `json:"pid"`
	KeyID string `json:"keyId,omitempty"`
}

type symmetricKeyRunParams struct {
	PID     string `json:"pid"`
	Guarded bool   `json:"guarded"`
}

type cdfGetParams struct {
	PID        string    `json:"pid"`
	RelyingKey HexString `json:"relyingPartyKey"`
	Challenge  HexString `json:"challenge"`
}

type patternParams struct {
	Pattern string        `json:"pattern"`
	Action  PatternAction `json:"action"`
}

type roamingAuthSigParams struct {
	PID   string    `json:"pid"`
	Sig   HexString `json:"partnerSig"`
	KeyID HexString `json:"raKeyId"`
}

// InfoGet requests the daemon state and the list of bands.
func InfoGet() (*protocol.Request, error) {
	return protocol.NewRequest("info/get", nil)
}

// InitGet requests the NEA initialization info.
func InitGet() (*protocol.Request, error) {
	return protocol.NewRequest("init/get", nil)
}

// NotificationsGet requests the current notification subscriptions.
func NotificationsGet() (*protocol.Request, error) {
	return protocol.NewRequest("notifications/get", nil)
}

// NotificationsSet replaces the notification subscriptions.
func NotificationsSet(flags NotificationFlags) (*protocol.Request, error) {
	return protocol.NewRequest("notifications/set", flags)
}

// Buzz makes a band vibrate.
func Buzz(pid string) (*protocol.Request, error) {
	return protocol.NewRequest("buzz/run", pidParams{PID: pid})
}

// Revoke removes the provision of a band.
func Revoke(pid string) (*protocol.Request, error) {
	return protocol.NewRequest("revoke/run", pidParams{PID: pid})
}

// KeyDelete removes all keys of keyType from a band.
func KeyDelete(pid string, keyType KeyType) (*protocol.Request, error) {
	return protocol.NewRequest("key/delete", keyDeleteParams{PID: pid, KeyType: keyType})
}

// SignSetup creates a signing key on a band.
func SignSetup(pid string, alg SignatureAlgorithm) (*protocol.Request, error) {
	if !alg.Valid() {
		return nil, protocol.NewInvalidRequestError("unknown signature algorithm "+string(alg), nil)
	}
	return protocol.NewRequest("sign/setup", signSetupParams{PID: pid, Algorithm: alg})
}

// SignRun asks a band to sign a message hash.
func SignRun(pid string, hash HexString, keyID string) (*protocol.Request, error) {
	return protocol.NewRequest("sign/run", signRunParams{PID: pid, Hash: hash, KeyID: keyID})
}

// Random asks a band for a pseudo random number.
func Random(pid string) (*protocol.Request, error) {
	return protocol.NewRequest("random/run", pidParams{PID: pid})
}

// TotpRun stores a TOTP key on a band. Guarded keys need the band to be tapped.
func TotpRun(pid, key string, guarded bool) (*protocol.Request, error) {
	return protocol.NewRequest("totp/run", totpRunParams{PID: pid, Key: key, Guarded: guarded})
}

// TotpGet asks a band for a TOTP token.
func TotpGet(pid, keyID string) (*protocol.Request, error) {
	return protocol.NewRequest("totp/get", keyIDParams{PID: pid, KeyID: keyID})
}

// SymmetricKeyRun creates a symmetric key on a band.
func SymmetricKeyRun(pid string, guarded bool) (*protocol.Request, error) {
	return protocol.NewRequest("symmetricKey/run", symmetricKeyRunParams{PID: pid, Guarded: guarded})
}

// SymmetricKeyGet reads a symmetric key from a band.
func SymmetricKeyGet(pid, keyID string) (*protocol.Request, error) {
	return protocol.NewRequest("symmetricKey/get", keyIDParams{PID: pid, KeyID: keyID})
}

// CdfRun registers a band for challenge derived function authentication.
func CdfRun(pid string) (*protocol.Request, error) {
	return protocol.NewRequest("cdf/run", pidParams{PID: pid})
}

// CdfGet runs a challenge derived function authentication.
func CdfGet(pid string, relyingKey, challenge HexString) (*protocol.Request, error) {
	return protocol.NewRequest("cdf/get", cdfGetParams{PID: pid, RelyingKey: relyingKey, Challenge: challenge})
}

// ProvisionStart puts the daemon into provisioning mode.
func ProvisionStart() (*protocol.Request, error) {
	return protocol.NewRequest("provision/run/start", nil)
}

// ProvisionStop leaves provisioning mode.
func ProvisionStop() (*protocol.Request, error) {
	return protocol.NewRequest("provision/run/stop", nil)
}

// ProvisionPattern accepts or rejects an LED pattern offered by a PatternEvent.
func ProvisionPattern(pattern string, action PatternAction) (*protocol.Request, error) {
	return protocol.NewRequest("provision/pattern", patternParams{Pattern: pattern, Action: action})
}

// RoamingAuthSetup creates a roaming authentication key on a band.
func RoamingAuthSetup(pid string) (*protocol.Request, error) {
	return protocol.NewRequest("roaming-auth-setup/run", pidParams{PID: pid})
}

// RoamingAuthRun starts roaming authentication. The band answers with a
// RoamingAuthNonceEvent.
func RoamingAuthRun(pid string) (*protocol.Request, error) {
	return protocol.NewRequest("roaming-auth/run", pidParams{PID: pid})
}

// RoamingAuthSig hands the partner signature over the band nonce back to the band.
func RoamingAuthSig(pid string, sig, keyID HexString) (*protocol.Request, error) {
	return protocol.NewRequest("roaming-auth-sig/run", roamingAuthSigParams{PID: pid, Sig: sig, KeyID: keyID})
}
