package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/reqbind/internal/walkthrough"
)

const defaultRunTimeout = 2 * time.Minute

func main() {
	var (
		baseURL = flag.String("url", walkthrough.DefaultBaseURL, "Base URL of the service")
		workers = flag.Int("workers", walkthrough.DefaultWorkers, "Number of concurrent workers")
		timeout = flag.Duration("timeout", walkthrough.DefaultTimeout, "HTTP request timeout")
		verbose = flag.Bool("verbose", false, "Log and list every scenario")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		walkthrough.ShowHelp(os.Stdout)
		return
	}

	if err := walkthrough.SetupLogging(os.Stderr, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)

	config := &walkthrough.Config{
		BaseURL: *baseURL,
		Workers: *workers,
		Timeout: *timeout,
		Verbose: *verbose,
	}

	_, err := walkthrough.Run(ctx, config, walkthrough.DefaultScenarios(), os.Stdout)
	cancel()
	stop()
	if err != nil {
		os.Stderr.WriteString("Walkthrough failed: " + err.Error() + "\n")
		if errors.Is(err, walkthrough.ErrUnhealthy) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
