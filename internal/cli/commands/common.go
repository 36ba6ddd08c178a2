// Package commands provides CLI command implementations for the nea tool.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nymi/nea-helpers/internal/cli/clicontext"
	"github.com/nymi/nea-helpers/internal/config"
	"github.com/nymi/nea-helpers/internal/logging"
	"github.com/nymi/nea-helpers/pkg/client"
)

// configPath returns the file named by --config, or the one in the user
// config directory, which is created if needed.
func configPath() (string, error) {
	if path := clicontext.ConfigPath(); path != "" {
		return path, nil
	}

	path, err := config.DefaultPath()
	if err != nil {
		return "", err
	}
	if err := config.EnsureDir(filepath.Dir(path)); err != nil {
		return "", err
	}
	return path, nil
}

// loadConfig loads the config file and applies host and port flags on top.
func loadConfig(host string, port int) (*config.Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.ApplyFlags(host, port)
	return cfg, nil
}

// newLogger builds the logger for a command from config and global flags.
// Every entry goes to errOut so stdout only carries command output.
func newLogger(cfg *config.Config, errOut io.Writer) *logging.Logger {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	if clicontext.Debug() {
		level = logging.LevelDebug
	}

	format := logging.LogFormat(cfg.Logging.Format)
	if clicontext.HumanLogs() {
		format = logging.FormatHuman
	}

	logger := logging.New(level, format)
	logger.SetOutput(errOut, errOut)
	return logger
}

// connect dials the device service and starts the client read loop. The
// returned stop function closes the client and waits for the loop to exit.
func connect(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*client.Client, func(), error) {
	logger.Debug("connecting to device service", map[string]any{
		"addr":      cfg.Address(),
		"retries":   cfg.RetryCount,
		"nymulator": cfg.Nymulator,
	})

	transport, err := client.Dial(ctx, cfg.Address(), cfg.RetryCount, cfg.Interval)
	if err != nil {
		return nil, nil, err
	}

	c := client.New(transport, client.WithLogger(logger))

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.Run(runCtx)
	}()

	stop := func() {
		cancel()
		_ = c.Close()
		<-done
	}
	return c, stop, nil
}

// exitWithError prints an error message to stderr and exits with status 1.
func exitWithError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
