// stealthbridge reads one JSON command on stdin, performs one browser
// interaction, and writes exactly one JSON response line on stdout.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/svengraziani/stealthbridge/internal/bridge"
	"github.com/svengraziani/stealthbridge/internal/chrome"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
)

// Config holds the process configuration. Streams and the fetcher are
// injectable so tests can drive run end to end without a browser.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Fetcher bridge.Fetcher
}

// DefaultConfig returns the configuration used by the real process.
func DefaultConfig() *Config {
	return &Config{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Fetcher: chrome.NewFetcher(),
	}
}

func main() {
	os.Exit(run(DefaultConfig()))
}

// run handles exactly one command. Only undecodable input and a missing url
// are protocol-fatal; every other failure is reported through the payload
// and exits with ExitSuccess.
func run(cfg *Config) int {
	if f, ok := cfg.Stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintln(cfg.Stderr, "reading JSON command from stdin (end with EOF)")
	}

	cmd, err := bridge.ParseCommand(cfg.Stdin)
	if err != nil {
		writeResponse(cfg, bridge.Errorf("Invalid input: %v", err))
		return ExitError
	}

	if cmd.URL == "" {
		writeResponse(cfg, bridge.Errorf("Error: url is required"))
		return ExitError
	}

	resp := bridge.New(cfg.Fetcher).Dispatch(context.Background(), cmd)
	writeResponse(cfg, resp)
	return ExitSuccess
}

func writeResponse(cfg *Config, resp bridge.Response) {
	if err := resp.Write(cfg.Stdout); err != nil {
		fmt.Fprintf(cfg.Stderr, "error: %v\n", err)
	}
}
