package nea

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/nymi/nea-helpers/pkg/protocol"
)

// Result is a typed message produced by Route: an acknowledgement, one of the
// response variants or one of the event variants.
type Result interface {
	Ack() *Acknowledgement
}

// Acknowledgement is the common part of every response and event. It is also
// returned on its own for operations that carry no payload.
type Acknowledgement struct {
	Completed  bool              `json:"completed"`
	Successful bool              `json:"successful"`
	Errors     []json.RawMessage `json:"errors,omitempty"`
	Outcome    json.RawMessage   `json:"outcome,omitempty"`
	Request    json.RawMessage   `json:"request,omitempty"`
	Exchange   string            `json:"exchange,omitempty"`
	Path       []string          `json:"path"`
}

// NewAcknowledgement copies the status members of an envelope.
func NewAcknowledgement(env *protocol.Envelope) Acknowledgement {
	return Acknowledgement{
		Completed:  env.Completed,
		Successful: env.Successful,
		Errors:     slices.Clone(env.Errors),
		Outcome:    env.Outcome,
		Request:    env.Request,
		Exchange:   env.Exchange,
		Path:       slices.Clone(env.Path),
	}
}

// Ack returns the acknowledgement itself.
func (a *Acknowledgement) Ack() *Acknowledgement {
	return a
}

// PathString returns the operation path joined with '/'.
func (a *Acknowledgement) PathString() string {
	return strings.Join(a.Path, "/")
}

// InfoResponse answers info/get.
type InfoResponse struct {
	Acknowledgement
	Config            DaemonConfigInfo `json:"config"`
	Bands             []BandInfo       `json:"bands"`
	ProvisionMap      json.RawMessage  `json:"provisionMap,omitempty"`
	Provisions        []string         `json:"provisions"`
	ProvisionsPresent []string         `json:"provisionsPresent"`
	TIDIndex          []int            `json:"tidIndex"`
}

// InitResponse answers init/get.
type InitResponse struct {
	Acknowledgement
	Info InitInfo `json:"info"`
}

// NotificationResponse answers notifications/get and notifications/set.
type NotificationResponse struct {
	Acknowledgement
	Flags NotificationFlags `json:"flags"`
}

// KeyDeleteResponse answers key/delete with the remaining key capabilities.
type KeyDeleteResponse struct {
	Acknowledgement
	Capabilities KeyCapabilityInfo `json:"capabilities"`
}

// SignatureResponse answers sign/run.
type SignatureResponse struct {
	Acknowledgement
	Signature       HexString `json:"signature"`
	VerificationKey HexString `json:"verificationKey"`
}

// RandomResponse answers random/run.
type RandomResponse struct {
	Acknowledgement
	PseudoRandomNumber HexString `json:"pseudoRandomNumber"`
}

// TotpResponse answers totp/get.
type TotpResponse struct {
	Acknowledgement
	Totp string `json:"totp"`
}

// SymmetricKeyResponse answers symmetricKey/get.
type SymmetricKeyResponse struct {
	Acknowledgement
	Key HexString `json:"key"`
}

// CdfRegistrationResponse answers cdf/run.
type CdfRegistrationResponse struct {
	Acknowledgement
	AuthenticationKey HexString `json:"authenticationKey"`
	DeviceKey         HexString `json:"deviceKey"`
}

// CdfAuthResponse answers cdf/get.
type CdfAuthResponse struct {
	Acknowledgement
	DeviceKeyHMAC  HexString `json:"deviceKeyHMAC"`
	SessionKeyHMAC HexString `json:"sessionKeyHMAC"`
}

// RoamingAuthSetupResponse answers roaming-auth-setup/run.
type RoamingAuthSetupResponse struct {
	Acknowledgement
	RAKey   HexString `json:"RAKey"`
	RAKeyID HexString `json:"RAKeyId"`
}

// RoamingAuthSigResponse answers roaming-auth-sig/run.
type RoamingAuthSigResponse struct {
	Acknowledgement
	NymibandSig HexString `json:"nymibandSig"`
	RAKeyID     HexString `json:"raKeyId"`
}
