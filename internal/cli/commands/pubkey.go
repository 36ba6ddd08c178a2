package commands

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/nymi/nea-helpers/pkg/roamingauth"
)

// PubKeyCommand implements the 'pubkey' command.
type PubKeyCommand struct {
	out io.Writer
}

// NewPubKeyCommand creates a new pubkey command instance.
func NewPubKeyCommand() *PubKeyCommand {
	return &PubKeyCommand{out: os.Stdout}
}

// Execute runs the pubkey command with the provided arguments.
func (c *PubKeyCommand) Execute(args []string) {
	fs := flag.NewFlagSet("pubkey", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: nea pubkey <path>

Print the raw public key (X || Y, 128 hex characters) of the certificate
at <path>, as registered with the device service during roaming
authentication setup.

Examples:
  nea pubkey /etc/nea/ra.pem
`)
	}

	if err := fs.Parse(args); err != nil {
		exitWithError("failed to parse flags: %v", err)
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: path is required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	if err := c.print(fs.Arg(0)); err != nil {
		exitWithError("%v", err)
	}
}

func (c *PubKeyCommand) print(path string) error {
	pub, err := roamingauth.PublicKey(path)
	if err != nil {
		return fmt.Errorf("failed to read public key: %w", err)
	}
	fmt.Fprintf(c.out, "%x\n", pub)
	return nil
}
