package commands

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/nymi/nea-helpers/pkg/roamingauth"
)

// GenCertCommand implements the 'gencert' command for creating a roaming
// authentication certificate.
type GenCertCommand struct {
	out io.Writer
}

// NewGenCertCommand creates a new gencert command instance.
func NewGenCertCommand() *GenCertCommand {
	return &GenCertCommand{out: os.Stdout}
}

// Execute runs the gencert command with the provided arguments.
func (c *GenCertCommand) Execute(args []string) {
	fs := flag.NewFlagSet("gencert", flag.ExitOnError)

	days := fs.Int("days", 0, "Validity in days (0 means until the 2038-01-18 horizon)")
	var subject roamingauth.Subject
	fs.StringVar(&subject.CommonName, "cn", "", "Subject common name")
	fs.StringVar(&subject.Country, "c", "", "Subject country")
	fs.StringVar(&subject.Province, "st", "", "Subject state or province")
	fs.StringVar(&subject.Locality, "l", "", "Subject locality")
	fs.StringVar(&subject.Organization, "o", "", "Subject organization")
	fs.StringVar(&subject.OrganizationalUnit, "ou", "", "Subject organizational unit")
	fs.StringVar(&subject.EmailAddress, "email", "", "Subject email address")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: nea gencert [flags] <path>

Generate a P-256 key pair and a self-signed certificate for roaming
authentication and write both as PEM to <path> (mode 0600).
At least one subject field is required.

Flags:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Certificate valid until the horizon
  nea gencert --cn front-desk --o "Example Corp" /etc/nea/ra.pem

  # Certificate valid for one year
  nea gencert --days 365 --email nea@example.com ./ra.pem
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

	if err := c.generate(fs.Arg(0), *days, subject); err != nil {
		exitWithError("%v", err)
	}
}

// generate writes the certificate and prints its raw public key.
func (c *GenCertCommand) generate(path string, days int, subject roamingauth.Subject) error {
	if days == 0 {
		days = roamingauth.MaxValidDays
	}

	if err := roamingauth.GenerateCertificate(path, days, subject); err != nil {
		return fmt.Errorf("failed to generate certificate: %w", err)
	}

	pub, err := roamingauth.PublicKey(path)
	if err != nil {
		return fmt.Errorf("failed to read generated certificate: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Certificate written to %s\n", path)
	fmt.Fprintf(c.out, "%x\n", pub)
	return nil
}
