// Package config provides configuration loading and validation for the NEA helpers.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nymi/nea-helpers/pkg/nea"
	"gopkg.in/yaml.v3"
)

const (
	defaultHost       = "127.0.0.1"
	defaultPort       = 9089
	defaultRetryCount = 3
	defaultInterval   = 100 * time.Millisecond
	defaultLogLevel   = "info"
	defaultLogFormat  = "json"

	envHost = "NEA_HOST"
	envPort = "NEA_PORT"
)

// Config represents the configuration of an NEA talking to the device service.
type Config struct {
	NEAName      string                 `yaml:"nea_name"`
	Host         string                 `yaml:"host"`
	Port         int                    `yaml:"port"`
	Nymulator    bool                   `yaml:"nymulator"`
	RetryCount   int                    `yaml:"retry_count"`
	Interval     time.Duration          `yaml:"interval"`
	SigAlgorithm nea.SignatureAlgorithm `yaml:"sig_algorithm"`
	LogDirectory string                 `yaml:"log_directory"`
	Logging      LoggingSettings        `yaml:"logging"`
}

// LoggingSettings contains logging configuration.
type LoggingSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration with every default applied and no NEA name.
func Default() *Config {
	return &Config{
		Host:         defaultHost,
		Port:         defaultPort,
		RetryCount:   defaultRetryCount,
		Interval:     defaultInterval,
		SigAlgorithm: nea.NIST256P,
		Logging: LoggingSettings{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// Load reads and validates the configuration file at path. Members absent
// from the file keep their defaults, and log_directory defaults to the
// directory holding the file. A missing file yields the defaults, which are
// not validated since they carry no NEA name yet; its directory must exist.
//
//nolint:gosec // G304: Config path is from command-line argument
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.LogDirectory = filepath.Dir(path)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if info, statErr := os.Stat(filepath.Dir(path)); statErr != nil || !info.IsDir() {
			return nil, fmt.Errorf("config directory does not exist: %s", filepath.Dir(path))
		}
		if err := cfg.loadFromEnv(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromEnv overrides host and port from the environment.
func (c *Config) loadFromEnv() error {
	if host := os.Getenv(envHost); host != "" {
		c.Host = host
	}

	if portStr := os.Getenv(envPort); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", envPort, portStr, err)
		}
		c.Port = port
	}

	return nil
}

// Save validates the configuration and writes it to path.
func (c *Config) Save(path string) error {
	if err := Validate(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Marshal encodes the configuration in the file format read by Load.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

// ApplyFlags applies command-line flag values to the configuration.
// This should be called after Load() to apply the highest priority values.
func (c *Config) ApplyFlags(host string, port int) {
	if host != "" {
		c.Host = host
	}
	if port != 0 {
		c.Port = port
	}
}

// Address returns the host:port address of the device service.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
