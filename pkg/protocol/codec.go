package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// requestVerbs are second path tokens that mark a reply to a request.
var requestVerbs = map[string]bool{
	"get":     true,
	"set":     true,
	"run":     true,
	"changed": true,
	"delete":  true,
	"setup":   true,
	"pattern": true,
}

// eventTokens are trailing path tokens that mark a notification.
var eventTokens = map[string]bool{
	"found-change":    true,
	"presence-change": true,
	"general-error":   true,
	"patterns":        true,
	"provisioned":     true,
}

// Decode parses one complete message from the device service into an Envelope.
// Framing is the transport's concern: raw must hold exactly one message.
func Decode(raw []byte) (*Envelope, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, NewMalformedMessageError("message is not a JSON object", nil)
	}

	var msg wireMessage
	if err := json.Unmarshal(trimmed, &msg); err != nil {
		return nil, NewMalformedMessageError(err.Error(), err)
	}

	path, err := parsePath(msg.Operation, msg.Path)
	if err != nil {
		return nil, err
	}

	if !isNull(msg.Response) && !isNull(msg.Event) && !carriesBothPayloads(path) {
		return nil, NewMalformedMessageError("both response and event present", nil)
	}

	exchange, err := parseExchange(msg.Exchange)
	if err != nil {
		return nil, err
	}

	errs, err := parseErrors(msg.Errors)
	if err != nil {
		return nil, err
	}

	env := &Envelope{
		Path:      path,
		Exchange:  exchange,
		Completed: msg.Completed,
		Errors:    errs,
		Outcome:   nullToNil(msg.Outcome),
		Request:   nullToNil(msg.Request),
		Class:     classify(path),
		Response:  nullToNil(msg.Response),
		Event:     nullToNil(msg.Event),
	}

	if msg.Successful != nil {
		env.Successful = *msg.Successful
	} else {
		env.Successful = msg.Completed && len(errs) == 0
	}

	// Prefer the payload member matching the class.
	if env.Class == ClassEvent {
		env.Payload = firstNonNull(env.Event, env.Response)
	} else {
		env.Payload = firstNonNull(env.Response, env.Event)
	}

	return env, nil
}

// carriesBothPayloads reports whether the device service sends a response
// and an event member together on path. provisions/changed puts the kind in
// the event and the provisions list in the response.
func carriesBothPayloads(path []string) bool {
	return len(path) == 2 && path[0] == "provisions" && path[1] == "changed"
}

// SplitPath splits an operation path on '/' and validates every token.
func SplitPath(path string) ([]string, error) {
	if path == "" {
		return nil, NewMalformedPathError("empty path")
	}
	tokens := strings.Split(path, "/")
	if err := validateTokens(tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// parsePath reads the operation as either "a/b/c" or ["a","b","c"], falling back to path.
func parsePath(operation, path json.RawMessage) ([]string, error) {
	raw := operation
	if isNull(raw) {
		raw = path
	}
	if isNull(raw) {
		return nil, NewMalformedPathError("operation missing")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return SplitPath(s)
	}

	var tokens []string
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return nil, NewMalformedMessageError("operation must be a string or an array of strings", err)
	}
	if len(tokens) == 0 {
		return nil, NewMalformedPathError("empty path")
	}
	if err := validateTokens(tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

func validateTokens(tokens []string) error {
	for i, t := range tokens {
		if t == "" {
			return NewMalformedPathError(fmt.Sprintf("empty token at position %d", i))
		}
	}
	return nil
}

// parseExchange accepts a string or numeric exchange id.
func parseExchange(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", NewMalformedMessageError("exchange must be a string or a number", nil)
}

// parseErrors returns the error descriptors. A single non-array descriptor is wrapped.
func parseErrors(raw json.RawMessage) ([]json.RawMessage, error) {
	if isNull(raw) {
		return nil, nil
	}
	if bytes.TrimSpace(raw)[0] != '[' {
		return []json.RawMessage{raw}, nil
	}
	var errs []json.RawMessage
	if err := json.Unmarshal(raw, &errs); err != nil {
		return nil, NewMalformedMessageError("errors must be an array", err)
	}
	return errs, nil
}

// classify decides response vs. event from the path shape.
func classify(path []string) Class {
	if len(path) >= 2 {
		if path[1] == "report" {
			return ClassEvent
		}
		if requestVerbs[path[1]] {
			return ClassResponse
		}
	}
	if len(path) >= 3 && eventTokens[path[len(path)-1]] {
		return ClassEvent
	}
	return ClassResponse
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func nullToNil(raw json.RawMessage) json.RawMessage {
	if isNull(raw) {
		return nil
	}
	return raw
}

func firstNonNull(a, b json.RawMessage) json.RawMessage {
	if a != nil {
		return a
	}
	return b
}
