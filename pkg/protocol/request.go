package protocol

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// ExchangeGenerator creates correlation ids for outgoing requests.
type ExchangeGenerator interface {
	New() string
}

// RandomExchange creates UUIDv4-like exchange ids.
type RandomExchange struct{}

// New returns a fresh exchange id.
func (RandomExchange) New() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	// Set version (4) and variant (10)
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	hexstr := hex.EncodeToString(b[:])
	// 8-4-4-4-12
	return hexstr[0:8] + "-" + hexstr[8:12] + "-" + hexstr[12:16] + "-" + hexstr[16:20] + "-" + hexstr[20:32]
}

// DefaultExchange is used by NewRequest.
var DefaultExchange ExchangeGenerator = RandomExchange{}

// NewRequest builds a request for path with a fresh exchange id.
// params must marshal to a JSON object; nil yields an empty object.
func NewRequest(path string, params any) (*Request, error) {
	return NewRequestWithExchange(path, DefaultExchange.New(), params)
}

// NewRequestWithExchange builds a request with a caller-chosen exchange id.
func NewRequestWithExchange(path, exchange string, params any) (*Request, error) {
	if _, err := SplitPath(path); err != nil {
		return nil, err
	}
	if exchange == "" {
		return nil, NewInvalidRequestError("exchange id is required", nil)
	}

	body := json.RawMessage(`{}`)
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, NewInvalidRequestError("failed to marshal parameters", err)
		}
		trimmed := strings.TrimSpace(string(data))
		if trimmed != "null" {
			if !strings.HasPrefix(trimmed, "{") {
				return nil, NewInvalidRequestError(fmt.Sprintf("parameters for %s must be an object", path), nil)
			}
			body = data
		}
	}

	return &Request{
		Path:     path,
		Exchange: exchange,
		Params:   body,
	}, nil
}

// Marshal encodes the request as a single JSON document without framing.
func (r *Request) Marshal() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return data, nil
}
