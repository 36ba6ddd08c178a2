package commands

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/nymi/nea-helpers/internal/cli/output"
	"github.com/nymi/nea-helpers/pkg/client"
	"github.com/nymi/nea-helpers/pkg/nea"
	"github.com/nymi/nea-helpers/pkg/protocol"
)

// DecodeCommand implements the 'decode' command, which turns raw device
// service messages into their typed form without connecting anywhere.
type DecodeCommand struct {
	out    io.Writer
	errOut io.Writer
}

// NewDecodeCommand creates a new decode command instance.
func NewDecodeCommand() *DecodeCommand {
	return &DecodeCommand{out: os.Stdout, errOut: os.Stderr}
}

// Execute runs the decode command with the provided arguments.
func (c *DecodeCommand) Execute(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)

	outputFormat := fs.String("output", "yaml", "Output format (yaml or json)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: nea decode [flags] [file]

Decode newline-delimited device service messages from [file] or stdin and
print each as its typed response or event. Unrecognized operations are
reported on stderr and skipped.

Flags:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  echo '{"operation":"random/run","response":{"pseudoRandomNumber":"0a0b"}}' | nea decode
  nea decode --output json captured.log
`)
	}

	if err := fs.Parse(args); err != nil {
		exitWithError("failed to parse flags: %v", err)
	}

	format, err := output.ParseFormat(*outputFormat)
	if err != nil {
		exitWithError("%v", err)
	}

	in := io.Reader(os.Stdin)
	if fs.NArg() > 0 && fs.Arg(0) != "-" {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			exitWithError("failed to open input: %v", err)
		}
		defer f.Close()
		in = f
	}

	failed, err := c.decode(in, format)
	if err != nil {
		exitWithError("%v", err)
	}
	if failed > 0 {
		exitWithError("%d message(s) could not be decoded", failed)
	}
}

// decode prints every message in r and returns how many were rejected.
func (c *DecodeCommand) decode(r io.Reader, format output.Format) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), client.MaxFrameSize)

	failed := 0
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		env, err := protocol.Decode(raw)
		if err != nil {
			fmt.Fprintf(c.errOut, "line %d: %v\n", line, err)
			failed++
			continue
		}

		result, err := nea.Route(env)
		if err != nil {
			fmt.Fprintf(c.errOut, "line %d: %v\n", line, err)
			failed++
			continue
		}
		if result == nil {
			fmt.Fprintf(c.errOut, "line %d: unrecognized operation %s\n", line, env.PathString())
			continue
		}

		formatted, err := output.FormatData(result, format)
		if err != nil {
			return failed, fmt.Errorf("failed to format output: %w", err)
		}
		if format == output.FormatYAML {
			fmt.Fprintln(c.out, "---")
		}
		fmt.Fprint(c.out, formatted)
	}

	if err := scanner.Err(); err != nil {
		return failed, fmt.Errorf("failed to read input: %w", err)
	}
	return failed, nil
}
