package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

const (
	minPort = 1024
	maxPort = 65535
)

var neaNamePattern = regexp.MustCompile(`^[a-zA-Z0-9-_ ]{6,18}$`)

// Validate performs comprehensive validation on the configuration.
func Validate(cfg *Config) error {
	if err := validateIdentity(cfg); err != nil {
		return fmt.Errorf("identity validation failed: %w", err)
	}

	if err := validateConnection(cfg); err != nil {
		return fmt.Errorf("connection validation failed: %w", err)
	}

	if err := validateLogging(cfg); err != nil {
		return fmt.Errorf("logging validation failed: %w", err)
	}

	return nil
}

func validateIdentity(cfg *Config) error {
	if cfg.NEAName == "" {
		return fmt.Errorf("nea_name is required")
	}

	if !neaNamePattern.MatchString(cfg.NEAName) {
		return fmt.Errorf("nea_name %q must be 6 to 18 characters of letters, digits, '-', '_' or space", cfg.NEAName)
	}

	if !cfg.SigAlgorithm.Valid() {
		return fmt.Errorf("sig_algorithm %q is not supported", cfg.SigAlgorithm)
	}

	return nil
}

func validateConnection(cfg *Config) error {
	if strings.TrimSpace(cfg.Host) == "" {
		return fmt.Errorf("host is required")
	}

	if cfg.Port < minPort || cfg.Port > maxPort {
		return fmt.Errorf("port %d must be between %d and %d", cfg.Port, minPort, maxPort)
	}

	if cfg.RetryCount < 0 {
		return fmt.Errorf("retry_count cannot be negative")
	}

	if cfg.Interval < 0 {
		return fmt.Errorf("interval cannot be negative")
	}

	return nil
}

func validateLogging(cfg *Config) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, cfg.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %s", strings.Join(validLevels, ", "))
	}

	validFormats := []string{"json", "human"}
	if !slices.Contains(validFormats, cfg.Logging.Format) {
		return fmt.Errorf("logging.format must be one of: %s", strings.Join(validFormats, ", "))
	}

	return nil
}
