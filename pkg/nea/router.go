// Package nea turns decoded device-service envelopes into typed responses and
// events, and builds the requests that produce them.
package nea

import (
	"strings"

	"github.com/nymi/nea-helpers/pkg/protocol"
)

// Family is the first path token: the operation family.
type Family string

// Operation families.
const (
	FamilyInfo             Family = "info"
	FamilyInit             Family = "init"
	FamilyNotifications    Family = "notifications"
	FamilyKey              Family = "key"
	FamilyBuzz             Family = "buzz"
	FamilyRevoke           Family = "revoke"
	FamilySign             Family = "sign"
	FamilyRandom           Family = "random"
	FamilyTotp             Family = "totp"
	FamilySymmetricKey     Family = "symmetricKey"
	FamilyCdf              Family = "cdf"
	FamilyProvision        Family = "provision"
	FamilyProvisions       Family = "provisions"
	FamilyRoamingAuthSetup Family = "roaming-auth-setup"
	FamilyRoamingAuth      Family = "roaming-auth"
	FamilyRoamingAuthSig   Family = "roaming-auth-sig"
)

// Verb is the second path token.
type Verb string

// Operation verbs.
const (
	VerbGet     Verb = "get"
	VerbSet     Verb = "set"
	VerbRun     Verb = "run"
	VerbDelete  Verb = "delete"
	VerbSetup   Verb = "setup"
	VerbChanged Verb = "changed"
	VerbPattern Verb = "pattern"
	VerbReport  Verb = "report"
)

// anyRest matches any remainder of the path after the verb.
const anyRest = "*"

// routeKey addresses one row of the dispatch table. rest is the path after
// the verb joined with '/', or anyRest.
type routeKey struct {
	family Family
	verb   Verb
	rest   string
}

type buildFunc func(ack Acknowledgement, env *protocol.Envelope) (Result, error)

var routes = map[routeKey]buildFunc{
	{FamilyInfo, VerbGet, anyRest}: buildInfo,
	{FamilyInit, VerbGet, anyRest}: buildInit,

	{FamilyNotifications, VerbGet, anyRest}:              buildNotification,
	{FamilyNotifications, VerbSet, anyRest}:              buildNotification,
	{FamilyNotifications, VerbReport, "found-change"}:    buildFoundChange,
	{FamilyNotifications, VerbReport, "presence-change"}: buildPresenceChange,
	{FamilyNotifications, VerbReport, "general-error"}:   buildGeneralError,

	{FamilyKey, VerbDelete, anyRest}: buildKeyDelete,
	{FamilyBuzz, VerbRun, anyRest}:   buildAck,
	{FamilyRevoke, VerbRun, anyRest}: buildAck,

	{FamilySign, VerbRun, anyRest}:   buildSignature,
	{FamilySign, VerbSetup, anyRest}: buildAck,
	{FamilyRandom, VerbRun, anyRest}: buildRandom,

	{FamilyTotp, VerbGet, anyRest}:         buildTotp,
	{FamilyTotp, VerbRun, anyRest}:         buildAck,
	{FamilySymmetricKey, VerbGet, anyRest}: buildSymmetricKey,
	{FamilySymmetricKey, VerbRun, anyRest}: buildAck,

	{FamilyCdf, VerbRun, anyRest}: buildCdfRegistration,
	{FamilyCdf, VerbGet, anyRest}: buildCdfAuth,

	{FamilyProvision, VerbRun, "start"}:          buildAck,
	{FamilyProvision, VerbRun, "stop"}:           buildAck,
	{FamilyProvision, VerbPattern, ""}:           buildAck,
	{FamilyProvision, VerbReport, "patterns"}:    buildPattern,
	{FamilyProvision, VerbReport, "provisioned"}: buildProvisioned,

	{FamilyProvisions, VerbChanged, anyRest}: buildProvisionsChanged,

	{FamilyRoamingAuthSetup, VerbRun, anyRest}: buildRoamingAuthSetup,
	{FamilyRoamingAuth, VerbRun, anyRest}:      buildAck,
	{FamilyRoamingAuth, VerbReport, anyRest}:   buildRoamingAuthNonce,
	{FamilyRoamingAuthSig, VerbRun, anyRest}:   buildRoamingAuthSig,
}

// Route selects and builds the typed result for env.
//
// It returns nil and no error when the path has no defined shape, so daemon
// chatter this client does not know about is ignored rather than fatal.
// A recognized path with a missing required field yields *IncompletePayloadError.
func Route(env *protocol.Envelope) (Result, error) {
	if env == nil {
		return nil, errNilEnvelope
	}
	if len(env.Path) == 0 || env.Path[0] == "" {
		return nil, protocol.NewMalformedPathError("empty path")
	}

	build := lookup(env.Path)
	if build == nil {
		return nil, nil
	}

	return build(NewAcknowledgement(env), env)
}

// Parse decodes a raw message and routes it.
func Parse(raw []byte) (Result, error) {
	env, err := protocol.Decode(raw)
	if err != nil {
		return nil, err
	}
	return Route(env)
}

func lookup(path []string) buildFunc {
	if len(path) < 2 {
		return nil
	}
	family, verb := Family(path[0]), Verb(path[1])
	rest := strings.Join(path[2:], "/")

	if build, ok := routes[routeKey{family, verb, rest}]; ok {
		return build
	}
	return routes[routeKey{family, verb, anyRest}]
}

func buildAck(ack Acknowledgement, _ *protocol.Envelope) (Result, error) {
	return &ack, nil
}

func newBaseEvent(ack Acknowledgement, env *protocol.Envelope) BaseEvent {
	r := newReader(env.Event, "event")
	if env.Event == nil {
		r = newReader(env.Payload, "event")
	}
	return BaseEvent{Acknowledgement: ack, Kind: r.str(keys("kind"))}
}

func buildInfo(ack Acknowledgement, env *protocol.Envelope) (Result, error) {
	r := newReader(env.Payload, "response")

	config := newDaemonConfigInfo(r.requireNested("config"))

	var bands []BandInfo
	for _, b := range r.requireList("nymiband") {
		var provision *ProvisionInfo
		if b.flag(keysProvisioned) {
			provision = newProvisionInfo(b)
		}
		bands = append(bands, newBandInfo(b, provision))
	}
	if bands == nil {
		bands = []BandInfo{}
	}

	res := &InfoResponse{
		Acknowledgement:   ack,
		Config:            config,
		Bands:             bands,
		ProvisionMap:      provisionMap(r),
		Provisions:        r.strs(keys("provisions")),
		ProvisionsPresent: r.strs(keys("provisionsPresent")),
		TIDIndex:          r.ints(keys("tidIndex")),
	}
	if err := incomplete(ack, r); err != nil {
		return nil, err
	}
	return res, nil
}

func buildInit(ack Acknowledgement, env *protocol.Envelope) (Result, error) {
	r := newReader(env.Payload, "response")
	res := &InitResponse{Acknowledgement: ack, Info: newInitInfo(r)}
	if err := incomplete(ack, r); err != nil {
		return nil, err
	}
	return res, nil
}

func buildNotification(ack Acknowledgement, env *protocol.Envelope) (Result, error) {
	r := newReader(env.Payload, "response")
	return &NotificationResponse{Acknowledgement: ack, Flags: newNotificationFlags(r)}, nil
}

func newFoundChange(ack Acknowledgement, env *protocol.Envelope, r *reader) FoundChangeEvent {
	return FoundChangeEvent{
		BaseEvent: newBaseEvent(ack, env),
		After:     r.requireString(keys("after")),
		Before:    r.requireString(keys("before")),
		PID:       r.str(keys("pid")),
		TID:       r.requireInt(keys("tid")),
	}
}

func buildFoundChange(ack Acknowledgement, env *protocol.Envelope) (Result, error) {
	r := newReader(env.Payload, "event")
	res := newFoundChange(ack, env, r)
	if err := incomplete(ack, r); err != nil {
		return nil, err
	}
	return &res, nil
}

func buildPresenceChange(ack Acknowledgement, env *protocol.Envelope) (Result, error) {
	r := newReader(env.Payload, "event")
	res := &PresenceChangeEvent{
		FoundChangeEvent: newFoundChange(ack, env, r),
		Authenticated:    r.flag(keys("authenticated")),
		Age:              r.number(keys("age")),
		Remaining:        r.number(keys("remaining")),
	}
	if err := incomplete(ack, r); err != nil {
		return nil, err
	}
	return res, nil
}

func buildGeneralError(ack Acknowledgement, env *protocol.Envelope) (Result, error) {
	r := newReader(env.Payload, "event")
	res := &GeneralErrorEvent{
		BaseEvent: newBaseEvent(ack, env),
		Err:       r.requireString(keys("err")),
	}
	if err := incomplete(ack, r); err != nil {
		return nil, err
	}
	return res, nil
}

func buildKeyDelete(ack Acknowledgement, env *protocol.Envelope) (Result, error) {
	r := newReader(env.Payload, "response")
	return &KeyDeleteResponse{Acknowledgement: ack, Capabilities: newKeyCapabilityInfo(r)}, nil
}

func buildSignature(ack Acknowledgement, env *protocol.Envelope) (Result, error) {
	r := newReader(env.Payload, "response")
	res := &SignatureResponse{
		Acknowledgement: ack,
		Signature:       r.requireHex(keys("signature")),
		VerificationKey: r.requireHex(keys("verificationKey")),
	}
	if err := incomplete(ack, r); err != nil {
		return nil, err
	}
	return res, nil
}

func buildRandom(ack Acknowledgement, env *protocol.Envelope) (Result, error) {
	r := newReader(env.Payload, "response")
	res := &RandomResponse{
		Acknowledgement:    ack,
		PseudoRandomNumber: r.requireHex(keys("pseudoRandomNumber")),
	}
	if err := incomplete(ack, r); err != nil {
		return nil, err
	}
	return res, nil
}

func buildTotp(ack Acknowledgement, env *protocol.Envelope) (Result, error) {
	r := newReader(env.Payload, "response")
	res := &TotpResponse{Acknowledgement: ack, Totp: r.requireString(keys("totp"))}
	if err := incomplete(ack, r); err != nil {
		return nil, err
	}
	return res, nil
}

func buildSymmetricKey(ack Acknowledgement, env *protocol.Envelope) (Result, error) {
	r := newReader(env.Payload, "response")
	res := &SymmetricKeyResponse{Acknowledgement: ack, Key: r.requireHex(keys("key"))}
	if err := incomplete(ack, r); err != nil {
		return nil, err
	}
	return res, nil
}

func buildCdfRegistration(ack Acknowledgement, env *protocol.Envelope) (Result, error) {
	r := newReader(env.Payload, "response")
	res := &CdfRegistrationResponse{
		Acknowledgement:   ack,
		AuthenticationKey: r.requireHex(keys("authenticationKey")),
		DeviceKey:         r.requireHex(keys("deviceKey")),
	}
	if err := incomplete(ack, r); err != nil {
		return nil, err
	}
	return res, nil
}

func buildCdfAuth(ack Acknowledgement, env *protocol.Envelope) (Result, error) {
	r := newReader(env.Payload, "response")
	res := &CdfAuthResponse{
		Acknowledgement: ack,
		DeviceKeyHMAC:   r.requireHex(keys("deviceKeyHMAC")),
		SessionKeyHMAC:  r.requireHex(keys("sessionKeyHMAC")),
	}
	if err := incomplete(ack, r); err != nil {
		return nil, err
	}
	return res, nil
}

func buildPattern(ack Acknowledgement, env *protocol.Envelope) (Result, error) {
	r := newReader(env.Payload, "event")
	res := &PatternEvent{
		BaseEvent: newBaseEvent(ack, env),
		Patterns:  r.requireStrs(keys("patterns")),
	}
	if err := incomplete(ack, r); err != nil {
		return nil, err
	}
	return res, nil
}

func buildProvisioned(ack Acknowledgement, env *protocol.Envelope) (Result, error) {
	r := newReader(env.Payload, "event")
	info := r.requireNested("info")
	provision := newProvisionInfo(info)
	res := &ProvisionedEvent{
		BaseEvent: newBaseEvent(ack, env),
		Band:      newBandInfo(info, provision),
	}
	if err := incomplete(ack, r); err != nil {
		return nil, err
	}
	return res, nil
}

// buildProvisionsChanged reads provisions from the response member and the
// kind from the event member, accepting either when only one is sent.
func buildProvisionsChanged(ack Acknowledgement, env *protocol.Envelope) (Result, error) {
	r := newReader(env.Payload, "response")
	res := &ProvisionsChangedEvent{
		BaseEvent:  newBaseEvent(ack, env),
		Provisions: r.requireStrs(keys("provisions")),
	}
	if err := incomplete(ack, r); err != nil {
		return nil, err
	}
	return res, nil
}

func buildRoamingAuthSetup(ack Acknowledgement, env *protocol.Envelope) (Result, error) {
	r := newReader(env.Payload, "response")
	res := &RoamingAuthSetupResponse{
		Acknowledgement: ack,
		RAKey:           r.requireHex(keys("RAKey")),
		RAKeyID:         r.requireHex(keys("RAKeyId")),
	}
	if err := incomplete(ack, r); err != nil {
		return nil, err
	}
	return res, nil
}

func buildRoamingAuthNonce(ack Acknowledgement, env *protocol.Envelope) (Result, error) {
	r := newReader(env.Payload, "event")
	res := &RoamingAuthNonceEvent{
		BaseEvent:     newBaseEvent(ack, env),
		NymibandNonce: r.requireHex(keys("nymibandNonce")),
	}
	if err := incomplete(ack, r); err != nil {
		return nil, err
	}
	return res, nil
}

func buildRoamingAuthSig(ack Acknowledgement, env *protocol.Envelope) (Result, error) {
	r := newReader(env.Payload, "response")
	res := &RoamingAuthSigResponse{
		Acknowledgement: ack,
		NymibandSig:     r.requireHex(keys("nymibandSig")),
		RAKeyID:         r.requireHex(keys("raKeyId")),
	}
	if err := incomplete(ack, r); err != nil {
		return nil, err
	}
	return res, nil
}
