package commands

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/nymi/nea-helpers/pkg/roamingauth"
)

// SignCommand implements the 'sign' command.
type SignCommand struct {
	out io.Writer
}

// NewSignCommand creates a new sign command instance.
func NewSignCommand() *SignCommand {
	return &SignCommand{out: os.Stdout}
}

// Execute runs the sign command with the provided arguments.
func (c *SignCommand) Execute(args []string) {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: nea sign <path> <message-hex>

Sign the hex-encoded message (typically a band nonce) with the private key
stored at <path> and print the raw signature (r || s, 128 hex characters).

Examples:
  nea sign /etc/nea/ra.pem 6e6f6e6365
`)
	}

	if err := fs.Parse(args); err != nil {
		exitWithError("failed to parse flags: %v", err)
	}

	if fs.NArg() < 2 {
		fmt.Fprintf(os.Stderr, "Error: path and message are required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	if err := c.sign(fs.Arg(0), fs.Arg(1)); err != nil {
		exitWithError("%v", err)
	}
}

func (c *SignCommand) sign(path, messageHex string) error {
	msg, err := hex.DecodeString(messageHex)
	if err != nil {
		return fmt.Errorf("message is not valid hex: %w", err)
	}

	sig, err := roamingauth.SignMessage(path, msg)
	if err != nil {
		return fmt.Errorf("failed to sign message: %w", err)
	}

	fmt.Fprintf(c.out, "%x\n", sig)
	return nil
}
