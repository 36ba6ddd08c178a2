//nolint:gosec // G306: Test files use standard permissions
package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/nymi/nea-helpers/internal/config"
	"github.com/nymi/nea-helpers/pkg/nea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	var out bytes.Buffer
	cmd := &ConfigCommand{out: &out}
	err := cmd.initConfig(path, initOptions{
		name:         "front-desk",
		host:         "10.0.0.5",
		sigAlgorithm: string(nea.ED25519),
		nymulator:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "wrote "+path+"\n", out.String())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "front-desk", cfg.NEAName)
	assert.Equal(t, nea.ED25519, cfg.SigAlgorithm)
	assert.True(t, cfg.Nymulator)
	assert.Equal(t, "10.0.0.5:9089", cfg.Address())
	assert.Equal(t, dir, cfg.LogDirectory)
}

func TestConfigInit_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nea_name: \"reception\"\n"), 0o600))

	cmd := &ConfigCommand{out: &bytes.Buffer{}}
	opts := initOptions{name: "front-desk", sigAlgorithm: string(nea.NIST256P)}

	err := cmd.initConfig(path, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "nea_name: \"reception\"\n", string(data))

	opts.force = true
	require.NoError(t, cmd.initConfig(path, opts))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "front-desk", cfg.NEAName)
}

func TestConfigInit_Invalid(t *testing.T) {
	tests := []struct {
		name string
		opts initOptions
	}{
		{name: "missing name", opts: initOptions{sigAlgorithm: string(nea.NIST256P)}},
		{name: "short name", opts: initOptions{name: "desk", sigAlgorithm: string(nea.NIST256P)}},
		{name: "unknown algorithm", opts: initOptions{name: "front-desk", sigAlgorithm: "RSA"}},
		{name: "privileged port", opts: initOptions{name: "front-desk", sigAlgorithm: string(nea.NIST256P), port: 80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			err := (&ConfigCommand{out: &bytes.Buffer{}}).initConfig(path, tt.opts)
			require.Error(t, err)
			assert.NoFileExists(t, path)
		})
	}
}

func TestConfigShow(t *testing.T) {
	cfg := config.Default()
	cfg.NEAName = "front-desk"

	var out bytes.Buffer
	require.NoError(t, (&ConfigCommand{out: &out}).show(cfg))
	assert.Contains(t, out.String(), "nea_name: front-desk\n")
	assert.Contains(t, out.String(), "port: 9089\n")
	assert.Contains(t, out.String(), "interval: 100ms\n")
	assert.Contains(t, out.String(), "sig_algorithm: NIST256P\n")
}
