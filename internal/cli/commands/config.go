package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nymi/nea-helpers/internal/config"
	"github.com/nymi/nea-helpers/pkg/nea"
)

// ConfigCommand implements the 'config' command for creating and showing the
// NEA configuration file.
type ConfigCommand struct {
	out io.Writer
}

// NewConfigCommand creates a new config command instance.
func NewConfigCommand() *ConfigCommand {
	return &ConfigCommand{out: os.Stdout}
}

// initOptions are the values 'config init' writes on top of the defaults.
type initOptions struct {
	name         string
	host         string
	port         int
	sigAlgorithm string
	nymulator    bool
	logDirectory string
	force        bool
}

// Execute runs the config command with the provided arguments.
func (c *ConfigCommand) Execute(args []string) {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "init":
		c.executeInit(args[1:])
	case "show":
		c.executeShow(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown config subcommand '%s'\n\n", args[0])
		printConfigUsage()
		os.Exit(1)
	}
}

func printConfigUsage() {
	fmt.Fprintf(os.Stderr, `Usage: nea config <init|show> [flags]

Subcommands:
  init   Write a new configuration file for this NEA
  show   Print the effective configuration

Run 'nea config <subcommand> --help' for the flags of each subcommand.
`)
}

func (c *ConfigCommand) executeInit(args []string) {
	fs := flag.NewFlagSet("config init", flag.ExitOnError)

	var opts initOptions
	fs.StringVar(&opts.name, "name", "", "NEA name, 6 to 18 letters, digits, spaces, '-' or '_' (required)")
	fs.StringVar(&opts.host, "host", "", "Device service hostname or IP")
	fs.IntVar(&opts.port, "port", 0, "Device service port")
	fs.StringVar(&opts.sigAlgorithm, "sig-algorithm", string(nea.NIST256P), "Signature algorithm (NIST256P or ED25519)")
	fs.BoolVar(&opts.nymulator, "nymulator", false, "The device service is the Nymulator")
	fs.StringVar(&opts.logDirectory, "log-directory", "", "Log directory (default: the config directory)")
	fs.BoolVar(&opts.force, "force", false, "Overwrite an existing configuration file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: nea config init --name <name> [flags]

Write a configuration file holding the NEA identity and the device service
connection settings. The file goes to --config, or to the user config
directory by default.

Flags:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  nea config init --name front-desk
  nea --config ./nea.yaml config init --name "lobby kiosk" --host 10.0.0.5 --nymulator
`)
	}

	if err := fs.Parse(args); err != nil {
		exitWithError("failed to parse flags: %v", err)
	}

	path, err := configPath()
	if err != nil {
		exitWithError("%v", err)
	}

	if err := c.initConfig(path, opts); err != nil {
		exitWithError("%v", err)
	}
}

// initConfig writes a validated configuration built from the defaults and opts.
func (c *ConfigCommand) initConfig(path string, opts initOptions) error {
	if !opts.force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to check config file: %w", err)
		}
	}

	cfg := config.Default()
	cfg.NEAName = opts.name
	cfg.SigAlgorithm = nea.SignatureAlgorithm(opts.sigAlgorithm)
	cfg.Nymulator = opts.nymulator
	cfg.LogDirectory = filepath.Dir(path)
	if opts.logDirectory != "" {
		cfg.LogDirectory = opts.logDirectory
	}
	cfg.ApplyFlags(opts.host, opts.port)

	if err := cfg.Save(path); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "wrote %s\n", path)
	return nil
}

func (c *ConfigCommand) executeShow(args []string) {
	fs := flag.NewFlagSet("config show", flag.ExitOnError)

	host := fs.String("host", "", "Device service hostname or IP")
	port := fs.Int("port", 0, "Device service port")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: nea config show [flags]

Print the configuration after environment and flag overrides.

Flags:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		exitWithError("failed to parse flags: %v", err)
	}

	cfg, err := loadConfig(*host, *port)
	if err != nil {
		exitWithError("%v", err)
	}

	if err := c.show(cfg); err != nil {
		exitWithError("%v", err)
	}
}

func (c *ConfigCommand) show(cfg *config.Config) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = c.out.Write(data)
	return err
}
