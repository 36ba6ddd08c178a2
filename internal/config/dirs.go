package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appName        = "nea"
	configFileName = "config.yaml"
)

// UserConfigDir returns the OS-specific user configuration directory for the NEA.
// On Linux: ~/.config/nea
// On macOS: ~/Library/Application Support/nea
// On Windows: %APPDATA%\nea
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}

	return filepath.Join(configDir, appName), nil
}

// DefaultPath returns the config file location inside UserConfigDir.
func DefaultPath() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// EnsureDir creates a directory and all parent directories if they don't exist.
// It sets the directory permissions to 0700 (owner read/write/execute only).
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
