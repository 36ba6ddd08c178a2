package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/nymi/nea-helpers/internal/cli/output"
	"github.com/nymi/nea-helpers/internal/config"
	"github.com/nymi/nea-helpers/internal/logging"
	"github.com/nymi/nea-helpers/pkg/nea"
)

// WatchCommand implements the 'watch' command, which prints events from the
// device service as they arrive.
type WatchCommand struct {
	out    io.Writer
	errOut io.Writer
}

// NewWatchCommand creates a new watch command instance.
func NewWatchCommand() *WatchCommand {
	return &WatchCommand{out: os.Stdout, errOut: os.Stderr}
}

// Execute runs the watch command with the provided arguments.
func (c *WatchCommand) Execute(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)

	host := fs.String("host", "", "Device service hostname or IP")
	port := fs.Int("port", 0, "Device service port")
	count := fs.Int("count", 0, "Stop after this many events (0 waits until interrupted)")
	enable := fs.Bool("enable", false, "Enable every notification type before watching")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: nea watch [flags]

Print band events (found and presence changes, errors, provisioning
progress, roaming authentication nonces) as JSON lines until interrupted.

Flags:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  nea watch --enable
  nea watch --count 1
`)
	}

	if err := fs.Parse(args); err != nil {
		exitWithError("failed to parse flags: %v", err)
	}

	cfg, err := loadConfig(*host, *port)
	if err != nil {
		exitWithError("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := c.watch(ctx, cfg, newLogger(cfg, c.errOut), *count, *enable); err != nil {
		exitWithError("%v", err)
	}
}

// watch prints events until ctx ends, the connection drops, or count events
// were printed.
func (c *WatchCommand) watch(ctx context.Context, cfg *config.Config, logger *logging.Logger, count int, enable bool) error {
	cl, stop, err := connect(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stop()

	sub := cl.Subscribe()
	defer cl.Unsubscribe(sub)

	if enable {
		req, err := nea.NotificationsSet(nea.NotificationFlags{
			OnFirmwareVersion: true,
			OnFoundChange:     true,
			OnGeneralError:    true,
			OnPresenceChange:  true,
			OnProvision:       true,
		})
		if err != nil {
			return err
		}
		if _, err := cl.Do(ctx, req); err != nil {
			return fmt.Errorf("failed to enable notifications: %w", err)
		}
	}

	logger.Info("watching for events", map[string]any{
		"addr":  cfg.Address(),
		"count": count,
	})

	seen := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-sub.C:
			if !ok {
				return fmt.Errorf("connection to device service closed")
			}
			formatted, err := output.FormatData(ev, output.FormatJSON)
			if err != nil {
				return fmt.Errorf("failed to format event: %w", err)
			}
			fmt.Fprint(c.out, formatted)

			seen++
			if count > 0 && seen >= count {
				return nil
			}
		}
	}
}
