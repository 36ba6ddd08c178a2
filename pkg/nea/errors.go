package nea

import (
	"fmt"

	"github.com/nymi/nea-helpers/pkg/protocol"
)

// IncompletePayloadError reports a recognized operation whose payload lacks a
// required field. Ack still carries the envelope status so callers can inspect
// the daemon's errors. It matches protocol.ErrIncompletePayload.
type IncompletePayloadError struct {
	Path  string
	Field string
	Ack   Acknowledgement
}

// Error implements the error interface.
func (e *IncompletePayloadError) Error() string {
	return protocol.NewIncompletePayloadError(e.Path, e.Field).Error()
}

// Is reports whether target is the incomplete payload protocol error.
func (e *IncompletePayloadError) Is(target error) bool {
	t, ok := target.(*protocol.Error)
	return ok && t.Code == protocol.ErrCodeIncompletePayload
}

func incomplete(ack Acknowledgement, r *reader) error {
	field := r.missingField()
	if field == "" {
		return nil
	}
	return &IncompletePayloadError{
		Path:  ack.PathString(),
		Field: field,
		Ack:   ack,
	}
}

// errNilEnvelope is returned by Route for a nil envelope.
var errNilEnvelope = fmt.Errorf("%w: nil envelope", protocol.ErrMalformedMessage)
