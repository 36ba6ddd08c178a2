package output_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nymi/nea-helpers/internal/cli/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type sample struct {
	Path      []string        `json:"path"`
	Signature string          `json:"signature"`
	Flag      string          `json:"flag"`
	Count     int             `json:"count"`
	Skipped   string          `json:"skipped,omitempty"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}

func TestFormatData_YAML(t *testing.T) {
	data := sample{
		Path:      []string{"sign", "run"},
		Signature: "0a0b",
		Flag:      "true",
		Count:     2,
		Raw:       json.RawMessage(`{"b":1,"a":2}`),
	}

	out, err := output.FormatData(data, output.FormatYAML)
	require.NoError(t, err)

	assert.Contains(t, out, "signature: 0a0b\n")
	assert.Contains(t, out, "count: 2\n")
	assert.NotContains(t, out, "{")
	assert.Less(t, strings.Index(out, "path:"), strings.Index(out, "signature:"))
	assert.Less(t, strings.Index(out, "b: 1"), strings.Index(out, "a: 2"))

	var back map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &back))
	assert.Equal(t, "true", back["flag"])
	assert.Equal(t, []any{"sign", "run"}, back["path"])
	assert.NotContains(t, back, "skipped")
}

func TestFormatData_JSON(t *testing.T) {
	out, err := output.FormatData(sample{Path: []string{"info", "get"}}, output.FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{"path":["info","get"],"signature":"","flag":"","count":0}`, out)
	assert.Contains(t, out, "\n  \"path\"")
}

func TestFormatData_Unsupported(t *testing.T) {
	_, err := output.FormatData(sample{}, output.Format("xml"))
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    output.Format
		wantErr bool
	}{
		{in: "yaml", want: output.FormatYAML},
		{in: "yml", want: output.FormatYAML},
		{in: "json", want: output.FormatJSON},
		{in: "table", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := output.ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
