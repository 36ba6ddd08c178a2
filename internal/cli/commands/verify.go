package commands

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/nymi/nea-helpers/pkg/roamingauth"
)

// VerifyCommand implements the 'verify' command.
type VerifyCommand struct {
	out io.Writer
}

// NewVerifyCommand creates a new verify command instance.
func NewVerifyCommand() *VerifyCommand {
	return &VerifyCommand{out: os.Stdout}
}

// Execute runs the verify command with the provided arguments.
// It exits with status 1 when the signature does not verify.
func (c *VerifyCommand) Execute(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: nea verify <message-hex> <signature-hex> <public-key-hex>

Verify a raw P-256 signature (r || s) over the message against a raw
public key (X || Y). Prints "valid" or "invalid".

Examples:
  nea verify 6e6f6e6365 $(nea sign ra.pem 6e6f6e6365) $(nea pubkey ra.pem)
`)
	}

	if err := fs.Parse(args); err != nil {
		exitWithError("failed to parse flags: %v", err)
	}

	if fs.NArg() < 3 {
		fmt.Fprintf(os.Stderr, "Error: message, signature and public key are required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	valid, err := c.verify(fs.Arg(0), fs.Arg(1), fs.Arg(2))
	if err != nil {
		exitWithError("%v", err)
	}
	if !valid {
		os.Exit(1)
	}
}

// verify reports whether the signature is valid. Malformed hex or key
// material is an error; a well-formed signature that does not match is not.
func (c *VerifyCommand) verify(messageHex, signatureHex, publicKeyHex string) (bool, error) {
	msg, err := hex.DecodeString(messageHex)
	if err != nil {
		return false, fmt.Errorf("message is not valid hex: %w", err)
	}
	sig, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false, fmt.Errorf("signature is not valid hex: %w", err)
	}
	pub, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return false, fmt.Errorf("public key is not valid hex: %w", err)
	}

	err = roamingauth.VerifySignature(msg, sig, pub)
	switch {
	case err == nil:
		fmt.Fprintln(c.out, "valid")
		return true, nil
	case errors.Is(err, roamingauth.ErrInvalidSignature):
		fmt.Fprintln(c.out, "invalid")
		return false, nil
	default:
		return false, err
	}
}
