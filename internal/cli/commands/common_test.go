//nolint:gosec // G306: Test files use standard permissions
package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nymi/nea-helpers/internal/cli/clicontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nea_name: \"reception\"\nhost: \"10.0.0.1\"\nport: 9100\n"), 0o600))

	clicontext.SetConfigPath(path)
	t.Cleanup(func() { clicontext.SetConfigPath("") })

	cfg, err := loadConfig("", 0)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1:9100", cfg.Address())

	cfg, err = loadConfig("daemon.local", 9200)
	require.NoError(t, err)
	assert.Equal(t, "daemon.local:9200", cfg.Address())
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nea_name: \"x\"\n"), 0o600))

	clicontext.SetConfigPath(path)
	t.Cleanup(func() { clicontext.SetConfigPath("") })

	_, err := loadConfig("", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestLoadConfig_UserConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	clicontext.SetConfigPath("")

	cfg, err := loadConfig("", 0)
	if err != nil {
		t.Skipf("user config directory unavailable: %v", err)
	}
	assert.Equal(t, "127.0.0.1:9089", cfg.Address())
}
