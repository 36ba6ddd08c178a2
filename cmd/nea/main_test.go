package main

import (
	"testing"

	"github.com/nymi/nea-helpers/internal/cli/clicontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGlobalFlags(t *testing.T) {
	tests := []struct {
		name            string
		input           []string
		expectedCommand string
		expectedArgs    []string
		expectedDebug   bool
		expectedConfig  string
	}{
		{
			name:            "global flag before command",
			input:           []string{"-d", "info", "--host", "localhost"},
			expectedCommand: "info",
			expectedArgs:    []string{"--host", "localhost"},
			expectedDebug:   true,
		},
		{
			name:            "global flag after command",
			input:           []string{"info", "--debug", "--host", "localhost"},
			expectedCommand: "info",
			expectedArgs:    []string{"--host", "localhost"},
			expectedDebug:   true,
		},
		{
			name:            "config with separate value",
			input:           []string{"info", "--config", "/etc/nea.yaml", "--output", "json"},
			expectedCommand: "info",
			expectedArgs:    []string{"--output", "json"},
			expectedConfig:  "/etc/nea.yaml",
		},
		{
			name:            "config with equals",
			input:           []string{"--config=/etc/nea.yaml", "watch"},
			expectedCommand: "watch",
			expectedArgs:    []string{},
			expectedConfig:  "/etc/nea.yaml",
		},
		{
			name:            "command flags pass through",
			input:           []string{"gencert", "--cn", "front-desk", "./ra.pem"},
			expectedCommand: "gencert",
			expectedArgs:    []string{"--cn", "front-desk", "./ra.pem"},
		},
		{
			name:            "version",
			input:           []string{"--version"},
			expectedCommand: "--version",
			expectedArgs:    []string{},
		},
		{
			name:            "help after global flag",
			input:           []string{"-d", "-h"},
			expectedCommand: "-h",
			expectedArgs:    []string{},
			expectedDebug:   true,
		},
		{
			name:            "command only",
			input:           []string{"decode"},
			expectedCommand: "decode",
			expectedArgs:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset global context before each test
			clicontext.Set(&clicontext.Global{})

			args, command, err := parseGlobalFlags(tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedCommand, command)
			assert.Equal(t, tt.expectedArgs, args)
			assert.Equal(t, tt.expectedDebug, clicontext.Debug())
			assert.Equal(t, tt.expectedConfig, clicontext.ConfigPath())
		})
	}
}

func TestParseGlobalFlags_ConfigWithoutValue(t *testing.T) {
	clicontext.Set(&clicontext.Global{})

	_, _, err := parseGlobalFlags([]string{"info", "--config"})
	assert.Error(t, err)
}

func TestIsFlag(t *testing.T) {
	tests := []struct {
		name     string
		arg      string
		expected bool
	}{
		{"short flag", "-d", true},
		{"long flag", "--debug", true},
		{"command", "info", false},
		{"value", "localhost", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isFlag(tt.arg))
		})
	}
}
