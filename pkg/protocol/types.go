package protocol

import (
	"encoding/json"
	"strings"
)

// Class tells whether an envelope answers a request or reports an unsolicited event.
type Class int

// Envelope classes.
const (
	// ClassResponse marks a reply to an outstanding request.
	ClassResponse Class = iota
	// ClassEvent marks an unsolicited notification.
	ClassEvent
)

// String returns the class name.
func (c Class) String() string {
	if c == ClassEvent {
		return "event"
	}
	return "response"
}

// Envelope is the decoded structure of one message received from the device service.
// Path is never empty. Exactly one of Response and Event was present on the wire;
// Payload holds whichever the path classifies as relevant.
type Envelope struct {
	Path       []string          `json:"path"`
	Exchange   string            `json:"exchange,omitempty"`
	Completed  bool              `json:"completed"`
	Successful bool              `json:"successful"`
	Errors     []json.RawMessage `json:"errors,omitempty"`
	Outcome    json.RawMessage   `json:"outcome,omitempty"`
	Request    json.RawMessage   `json:"request,omitempty"`
	Class      Class             `json:"-"`
	Payload    json.RawMessage   `json:"payload,omitempty"`
	Response   json.RawMessage   `json:"-"`
	Event      json.RawMessage   `json:"-"`
}

// PathString returns the operation path joined with '/'.
func (e *Envelope) PathString() string {
	return strings.Join(e.Path, "/")
}

// wireMessage is the raw JSON shape emitted by the device service.
type wireMessage struct {
	Operation  json.RawMessage `json:"operation"`
	Path       json.RawMessage `json:"path"`
	Exchange   json.RawMessage `json:"exchange"`
	Completed  bool            `json:"completed"`
	Successful *bool           `json:"successful"`
	Errors     json.RawMessage `json:"errors"`
	Outcome    json.RawMessage `json:"outcome"`
	Request    json.RawMessage `json:"request"`
	Response   json.RawMessage `json:"response"`
	Event      json.RawMessage `json:"event"`
}

// Request is an outgoing request envelope. The device service answers each
// request with exactly one response whose exchange equals Exchange.
type Request struct {
	Path     string          `json:"path"`
	Exchange string          `json:"exchange"`
	Params   json.RawMessage `json:"request"`
}
