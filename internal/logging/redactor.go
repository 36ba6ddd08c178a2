package logging

import (
	"strings"
)

const redactedValue = "[REDACTED]"

// Redactor handles secret redaction in log fields.
type Redactor struct {
	sensitiveKeys map[string]bool
}

// NewRedactor creates a new Redactor with default sensitive keys.
func NewRedactor() *Redactor {
	return &Redactor{
		sensitiveKeys: map[string]bool{
			// Key material
			"key":         true,
			"private_key": true,
			"rakey":       true,
			"symmetric":   true,
			"devicekey":   true,
			"cert":        true,
			"certificate": true,
			"pem":         true,

			// Band credentials and one-time values
			"totp":               true,
			"nonce":              true,
			"nymibandnonce":      true,
			"hmac":               true,
			"devicekeyhmac":      true,
			"sessionkeyhmac":     true,
			"authenticationkey":  true,
			"pseudorandomnumber": true,

			// Signatures
			"signature":   true,
			"sig":         true,
			"nymibandsig": true,
			"partnersig":  true,

			// Raw protocol payloads
			"payload":  true,
			"response": true,
			"event":    true,
			"request":  true,
			"raw":      true,
		},
	}
}

// RedactFields redacts sensitive values from a map of fields.
func (r *Redactor) RedactFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}

	redacted := make(map[string]any, len(fields))

	for k, v := range fields {
		if r.isSensitiveKey(k) {
			redacted[k] = redactedValue
		} else if nested, ok := v.(map[string]any); ok {
			// Recursively redact nested maps
			redacted[k] = r.RedactFields(nested)
		} else {
			redacted[k] = v
		}
	}

	return redacted
}

// isSensitiveKey checks if a field key is marked as sensitive.
func (r *Redactor) isSensitiveKey(key string) bool {
	// exact match only, substrings catch legitimate fields like "keyType"
	return r.sensitiveKeys[strings.ToLower(key)]
}
