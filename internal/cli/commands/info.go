package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nymi/nea-helpers/internal/cli/output"
	"github.com/nymi/nea-helpers/internal/config"
	"github.com/nymi/nea-helpers/internal/logging"
	"github.com/nymi/nea-helpers/pkg/client"
	"github.com/nymi/nea-helpers/pkg/nea"
	"github.com/nymi/nea-helpers/pkg/protocol"
)

const defaultRequestTimeout = 10 * time.Second

// InfoCommand implements the 'info' command for querying the device service state.
type InfoCommand struct {
	out    io.Writer
	errOut io.Writer
}

// NewInfoCommand creates a new info command instance.
func NewInfoCommand() *InfoCommand {
	return &InfoCommand{out: os.Stdout, errOut: os.Stderr}
}

// Execute runs the info command with the provided arguments.
func (c *InfoCommand) Execute(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)

	outputFormat := fs.String("output", "yaml", "Output format (yaml or json)")
	host := fs.String("host", "", "Device service hostname or IP")
	port := fs.Int("port", 0, "Device service port")
	timeout := fs.Duration("timeout", defaultRequestTimeout, "Time to wait for the response")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: nea info [flags]

Query the device service for its configuration and the bands it sees,
including provisioning details for provisioned bands.

Flags:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Output Formats:
  yaml  YAML format (default)
  json  JSON format

Examples:
  # Query the local device service
  nea info

  # Query a remote device service with JSON output
  nea info --host 192.168.1.100 --output json

  # Using environment variables for host/port
  export NEA_HOST=192.168.1.100
  export NEA_PORT=9089
  nea info
`)
	}

	if err := fs.Parse(args); err != nil {
		exitWithError("failed to parse flags: %v", err)
	}

	cfg, err := loadConfig(*host, *port)
	if err != nil {
		exitWithError("%v", err)
	}

	format, err := output.ParseFormat(*outputFormat)
	if err != nil {
		exitWithError("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := c.getInfo(ctx, cfg, newLogger(cfg, c.errOut), format); err != nil {
		exitWithError("%v", err)
	}
}

// getInfo runs info/get and displays the result.
func (c *InfoCommand) getInfo(ctx context.Context, cfg *config.Config, logger *logging.Logger, format output.Format) error {
	cl, stop, err := connect(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stop()

	req, err := nea.InfoGet()
	if err != nil {
		return err
	}

	result, err := cl.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to query device service: %w", err)
	}

	if ack := result.Ack(); !ack.Successful {
		logger.Warn("info/get was not successful", map[string]any{"errors": len(ack.Errors)})
	}

	if cfg.NEAName != "" {
		if err := checkInit(ctx, cl, cfg, logger); err != nil {
			return err
		}
	}

	formatted, err := output.FormatData(result, format)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	fmt.Fprint(c.out, formatted)
	return nil
}

// checkInit runs init/get and warns when the device service was initialized
// for another NEA or signature algorithm than the configured one.
func checkInit(ctx context.Context, cl *client.Client, cfg *config.Config, logger *logging.Logger) error {
	req, err := nea.InitGet()
	if err != nil {
		return err
	}

	result, err := cl.Do(ctx, req)
	if errors.Is(err, protocol.ErrIncompletePayload) {
		logger.Warn("init/get returned incomplete initialization info", map[string]any{"error": err.Error()})
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to query NEA initialization: %w", err)
	}

	initResp, ok := result.(*nea.InitResponse)
	if !ok {
		logger.Warn("init/get returned no initialization info", map[string]any{"path": result.Ack().PathString()})
		return nil
	}

	fields := map[string]any{
		"nea_name":      cfg.NEAName,
		"sig_algorithm": string(cfg.SigAlgorithm),
	}
	switch {
	case !initResp.Info.Initialized:
		logger.Warn("NEA is not initialized with the device service", fields)
	case initResp.Info.Name != cfg.NEAName:
		fields["daemon_nea_name"] = initResp.Info.Name
		logger.Warn("device service is initialized for another NEA", fields)
	case initResp.Info.SignatureAlgorithm != "" && initResp.Info.SignatureAlgorithm != cfg.SigAlgorithm:
		fields["daemon_sig_algorithm"] = string(initResp.Info.SignatureAlgorithm)
		logger.Warn("device service uses another signature algorithm", fields)
	default:
		logger.Debug("NEA initialization matches configuration", fields)
	}
	return nil
}
