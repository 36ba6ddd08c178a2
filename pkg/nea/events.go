package nea

// Event is a Result reporting an unsolicited notification. Events are not
// matched to a request and go to every subscriber.
type Event interface {
	Result
	EventKind() string
}

// BaseEvent is the common part of every event.
type BaseEvent struct {
	Acknowledgement
	Kind string `json:"kind"`
}

// EventKind returns the kind discriminator from the event payload.
func (e *BaseEvent) EventKind() string {
	return e.Kind
}

// FoundChangeEvent reports a change of a band's found state.
type FoundChangeEvent struct {
	BaseEvent
	After  string `json:"after"`
	Before string `json:"before"`
	PID    string `json:"pid"`
	TID    int    `json:"tid"`
}

// PresenceChangeEvent reports a change of a band's presence state.
type PresenceChangeEvent struct {
	FoundChangeEvent
	Authenticated bool    `json:"authenticated"`
	Age           float64 `json:"age"`
	Remaining     float64 `json:"remaining"`
}

// GeneralErrorEvent reports an error not tied to a request.
type GeneralErrorEvent struct {
	BaseEvent
	Err string `json:"err"`
}

// PatternEvent offers the LED patterns of bands in provisioning mode.
type PatternEvent struct {
	BaseEvent
	Patterns []string `json:"patterns"`
}

// ProvisionedEvent reports a newly provisioned band.
type ProvisionedEvent struct {
	BaseEvent
	Band BandInfo `json:"band"`
}

// ProvisionsChangedEvent reports the new list of provisions.
type ProvisionsChangedEvent struct {
	BaseEvent
	Provisions []string `json:"provisions"`
}

// RoamingAuthNonceEvent carries the band nonce for roaming authentication.
type RoamingAuthNonceEvent struct {
	BaseEvent
	NymibandNonce HexString `json:"nymibandNonce"`
}
