// Package main provides the nea CLI tool for working with the NEA device service.
//
// The nea CLI creates and uses roaming authentication certificates, decodes
// captured device service messages, and queries or watches a running device
// service.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/nymi/nea-helpers/internal/cli/clicontext"
	"github.com/nymi/nea-helpers/internal/cli/commands"
	"golang.org/x/term"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	clicontext.SetHumanLogs(term.IsTerminal(int(os.Stderr.Fd())))

	// Parse global flags and extract command
	args, command, err := parseGlobalFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		printUsage()
		os.Exit(1)
	}

	// Handle special commands
	switch command {
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("nea version %s\n", version)
		os.Exit(0)
	}

	// Route to command implementations
	switch command {
	case "gencert":
		commands.NewGenCertCommand().Execute(args)
	case "pubkey":
		commands.NewPubKeyCommand().Execute(args)
	case "sign":
		commands.NewSignCommand().Execute(args)
	case "verify":
		commands.NewVerifyCommand().Execute(args)
	case "decode":
		commands.NewDecodeCommand().Execute(args)
	case "info":
		commands.NewInfoCommand().Execute(args)
	case "watch":
		commands.NewWatchCommand().Execute(args)
	case "config":
		commands.NewConfigCommand().Execute(args)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// parseGlobalFlags processes global flags and returns remaining args and the command.
// Global flags can appear anywhere in the argument list.
// Examples:
//
//	nea -d info --host localhost                 (before command)
//	nea info --config ./nea.yaml --output json   (after command)
//	nea info --output json --config=./nea.yaml   (at the end)
func parseGlobalFlags(args []string) ([]string, string, error) {
	remainingArgs := make([]string, 0, len(args))
	var command string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "--debug" || arg == "-d":
			clicontext.SetDebug(true)
			continue
		case arg == "--config":
			if i+1 >= len(args) {
				return nil, "", fmt.Errorf("--config requires a path")
			}
			i++
			clicontext.SetConfigPath(args[i])
			continue
		case strings.HasPrefix(arg, "--config="):
			clicontext.SetConfigPath(strings.TrimPrefix(arg, "--config="))
			continue
		}

		// The first argument is the command, including --help and --version
		if command == "" && (!isFlag(arg) || isSpecial(arg)) {
			command = arg
			continue
		}

		// All other arguments are passed to the command
		remainingArgs = append(remainingArgs, arg)
	}

	return remainingArgs, command, nil
}

// isFlag returns true if the argument looks like a flag (starts with -).
func isFlag(arg string) bool {
	return len(arg) > 0 && arg[0] == '-'
}

func isSpecial(arg string) bool {
	switch arg {
	case "--help", "-h", "--version", "-v":
		return true
	}
	return false
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `nea - helpers for NEAs talking to the Nymi device service

Usage:
  nea <command> [flags]

Available Commands:
  gencert   Generate a roaming authentication key and certificate
  pubkey    Print the raw public key of a certificate
  sign      Sign a hex message with a certificate's private key
  verify    Verify a raw signature against a raw public key
  decode    Decode captured device service messages
  info      Query the device service for its state and bands
  watch     Print device service events as they arrive
  config    Create or show the NEA configuration file

Global Flags:
  --help, -h        Show help information
  --version, -v     Show version information
  --debug, -d       Enable debug logging
  --config <path>   Config file (default: <UserConfigDir>/nea/config.yaml)

Examples:
  # Write the NEA configuration
  nea config init --name front-desk

  # Create a certificate and show its public key
  nea gencert --cn front-desk ./ra.pem

  # Sign a band nonce
  nea sign ./ra.pem 6e6f6e6365

  # Decode a captured message
  echo '{"operation":"buzz/run","completed":true}' | nea decode

  # Query the local device service
  nea info

For detailed help on a specific command, run:
  nea <command> --help

`)
}
