package walkthrough

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/okian/reqbind/pkg/logger"
)

// SetupLogging initializes the global logger on w. Verbose runs log at
// debug level.
func SetupLogging(w io.Writer, verbose bool) error {
	if err := logger.InitWith(w, logger.FormatText); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		logger.SetLevel(slog.LevelDebug)
	}
	return nil
}

// ShowHelp prints usage information for the walkthrough tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `reqbind Walkthrough
===================

Sends every documented request to a running reqbind server, checks status
and JSON body of each response, and prints a summary. Exits non-zero when
any scenario fails.

Usage:
  go run ./cmd/walkthrough [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8000")
  -workers int
        Number of concurrent workers (default 4)
  -timeout duration
        HTTP request timeout (default 10s)
  -verbose
        Log and list every scenario, not only failures
  -help
        Show this help message

Every request carries X-Request-ID "<run id>/<scenario index>" so server
logs can be matched to a run.

Examples:
  # Walk a local server
  go run ./cmd/walkthrough

  # Walk a remote server with more workers
  go run ./cmd/walkthrough -url http://10.0.0.5:8000 -workers 16 -verbose
`)
}
