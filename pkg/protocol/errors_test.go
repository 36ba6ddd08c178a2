package protocol_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/nymi/nea-helpers/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *protocol.Error
		expected string
	}{
		{
			name:     "without details",
			err:      protocol.NewError(protocol.ErrCodeMalformedMessage, "Malformed message"),
			expected: "MALFORMED_MESSAGE: Malformed message",
		},
		{
			name:     "with details",
			err:      protocol.NewMalformedPathError("empty path"),
			expected: "MALFORMED_PATH: Malformed operation path (empty path)",
		},
		{
			name:     "incomplete payload",
			err:      protocol.NewIncompletePayloadError("sign/run", "response.signature"),
			expected: `INCOMPLETE_PAYLOAD: Incomplete payload (sign/run: missing "response.signature")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestError_Is(t *testing.T) {
	err := protocol.NewMalformedPathError("empty token at position 1")

	assert.ErrorIs(t, err, protocol.ErrMalformedPath)
	assert.NotErrorIs(t, err, protocol.ErrMalformedMessage)

	wrapped := fmt.Errorf("route: %w", err)
	assert.ErrorIs(t, wrapped, protocol.ErrMalformedPath)

	var perr *protocol.Error
	require.ErrorAs(t, wrapped, &perr)
	assert.Equal(t, protocol.ErrCodeMalformedPath, perr.Code)
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")

	err := protocol.NewMalformedMessageError("bad json", cause)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, protocol.ErrMalformedMessage)

	err = protocol.NewInvalidRequestError("bad params", cause)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, protocol.ErrInvalidRequest)
}

func TestError_JSON(t *testing.T) {
	err := protocol.NewErrorWithDetails(protocol.ErrCodeIncompletePayload, "Incomplete payload", "info/get")

	data, mErr := json.Marshal(err)
	require.NoError(t, mErr)
	assert.JSONEq(t, `{"code":"INCOMPLETE_PAYLOAD","message":"Incomplete payload","details":"info/get"}`, string(data))
}
