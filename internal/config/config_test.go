//nolint:gosec // G306: Test files use standard permissions
package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nymi/nea-helpers/internal/config"
	"github.com/nymi/nea-helpers/pkg/nea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	configYAML := `
nea_name: "front-desk 01"
host: "10.0.0.5"
port: 9090
nymulator: true
retry_count: 5
interval: "250ms"
sig_algorithm: "ED25519"
log_directory: "/var/log/nea"
logging:
  level: "debug"
  format: "human"
`
	cfg, err := config.Load(writeConfig(t, configYAML))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "front-desk 01", cfg.NEAName)
	assert.Equal(t, "10.0.0.5", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Nymulator)
	assert.Equal(t, 5, cfg.RetryCount)
	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
	assert.Equal(t, nea.ED25519, cfg.SigAlgorithm)
	assert.Equal(t, "/var/log/nea", cfg.LogDirectory)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "human", cfg.Logging.Format)
	assert.Equal(t, "10.0.0.5:9090", cfg.Address())
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `nea_name: "reception"`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 9089, cfg.Port)
	assert.False(t, cfg.Nymulator)
	assert.Equal(t, 3, cfg.RetryCount)
	assert.Equal(t, 100*time.Millisecond, cfg.Interval)
	assert.Equal(t, nea.NIST256P, cfg.SigAlgorithm)
	assert.Equal(t, filepath.Dir(path), cfg.LogDirectory)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.NEAName)
	assert.Equal(t, 9089, cfg.Port)
	assert.Equal(t, dir, cfg.LogDirectory)
}

func TestLoad_MissingDirectory(t *testing.T) {
	cfg, err := config.Load("/nonexistent/nea/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config directory does not exist")
}

func TestLoad_InvalidYAML(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "nea_name: [yaml"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NEA_HOST", "daemon.local")
	t.Setenv("NEA_PORT", "10001")

	cfg, err := config.Load(writeConfig(t, "nea_name: \"reception\"\nport: 9089\n"))
	require.NoError(t, err)
	assert.Equal(t, "daemon.local", cfg.Host)
	assert.Equal(t, 10001, cfg.Port)
}

func TestLoad_EnvPortInvalid(t *testing.T) {
	t.Setenv("NEA_PORT", "ninety")

	_, err := config.Load(writeConfig(t, `nea_name: "reception"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NEA_PORT")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		expectedErr string
	}{
		{
			name:        "missing nea_name",
			yamlContent: `port: 9089`,
			expectedErr: "nea_name is required",
		},
		{
			name:        "nea_name too short",
			yamlContent: `nea_name: "abc"`,
			expectedErr: "must be 6 to 18 characters",
		},
		{
			name:        "nea_name too long",
			yamlContent: `nea_name: "abcdefghijklmnopqrs"`,
			expectedErr: "must be 6 to 18 characters",
		},
		{
			name:        "nea_name bad characters",
			yamlContent: `nea_name: "front.desk"`,
			expectedErr: "must be 6 to 18 characters",
		},
		{
			name:        "unknown signature algorithm",
			yamlContent: "nea_name: \"reception\"\nsig_algorithm: \"RSA\"",
			expectedErr: "sig_algorithm",
		},
		{
			name:        "empty host",
			yamlContent: "nea_name: \"reception\"\nhost: \" \"",
			expectedErr: "host is required",
		},
		{
			name:        "privileged port",
			yamlContent: "nea_name: \"reception\"\nport: 80",
			expectedErr: "must be between 1024 and 65535",
		},
		{
			name:        "port out of range",
			yamlContent: "nea_name: \"reception\"\nport: 70000",
			expectedErr: "must be between 1024 and 65535",
		},
		{
			name:        "negative retries",
			yamlContent: "nea_name: \"reception\"\nretry_count: -1",
			expectedErr: "retry_count cannot be negative",
		},
		{
			name:        "bad log level",
			yamlContent: "nea_name: \"reception\"\nlogging:\n  level: \"trace\"",
			expectedErr: "logging.level must be one of",
		},
		{
			name:        "bad log format",
			yamlContent: "nea_name: \"reception\"\nlogging:\n  format: \"xml\"",
			expectedErr: "logging.format must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load(writeConfig(t, tt.yamlContent))
			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestConfig_NEANameBoundaries(t *testing.T) {
	for _, name := range []string{"abcdef", "abcdefghijklmnopqr", "a_b-c d", "NEA 0001"} {
		cfg := config.Default()
		cfg.NEAName = name
		assert.NoError(t, config.Validate(cfg), name)
	}
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := config.Default()
	cfg.NEAName = "reception"
	cfg.Interval = 2 * time.Second
	cfg.LogDirectory = filepath.Dir(path)
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfig_SaveRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	err := config.Default().Save(path)
	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestAddress_IPv6(t *testing.T) {
	cfg := config.Default()
	cfg.Host = "::1"
	assert.Equal(t, "[::1]:9089", cfg.Address())
}

func TestDefaultPath(t *testing.T) {
	path, err := config.DefaultPath()
	if err != nil {
		t.Skip("no user config directory")
	}
	assert.Equal(t, "config.yaml", filepath.Base(path))
	assert.Equal(t, "nea", filepath.Base(filepath.Dir(path)))
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, config.EnsureDir(dir))
	assert.DirExists(t, dir)
}

func TestConfig_ApplyFlags(t *testing.T) {
	cfg := config.Default()

	cfg.ApplyFlags("", 0)
	assert.Equal(t, "127.0.0.1:9089", cfg.Address())

	cfg.ApplyFlags("daemon.local", 0)
	assert.Equal(t, "daemon.local:9089", cfg.Address())

	cfg.ApplyFlags("", 9300)
	assert.Equal(t, "daemon.local:9300", cfg.Address())
}
