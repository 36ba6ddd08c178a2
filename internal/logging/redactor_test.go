package logging_test

import (
	"testing"

	"github.com/nymi/nea-helpers/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestRedactor_RedactFields(t *testing.T) {
	r := logging.NewRedactor()

	assert.Nil(t, r.RedactFields(nil))

	out := r.RedactFields(map[string]any{
		"nymibandSig": "dd",
		"RAKey":       "aa",
		"keyType":     "totp",
		"exchange":    "x1",
	})

	assert.Equal(t, "[REDACTED]", out["nymibandSig"])
	assert.Equal(t, "[REDACTED]", out["RAKey"])
	assert.Equal(t, "totp", out["keyType"])
	assert.Equal(t, "x1", out["exchange"])
}
