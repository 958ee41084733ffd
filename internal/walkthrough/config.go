// Package walkthrough drives a running reqbind server through every route
// and checks each response against the documented behaviour.
package walkthrough

import "time"

// Config holds configuration for a walkthrough run.
type Config struct {
	BaseURL string        // Base URL of the service
	Workers int           // Number of concurrent workers
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Log every scenario, not only failures
	RunID   string        // Prefix of every X-Request-ID; generated when empty
}

// Scenario is one request and the response it must produce.
type Scenario struct {
	Name   string
	Method string
	Path   string
	Body   string // JSON request body; empty sends none

	WantStatus int
	// WantBody is compared as JSON, ignoring key order. Empty skips the check.
	WantBody string
	// WantErrors lists the expected detail types of a 422 in order.
	WantErrors []string
}

// Result is the outcome of one scenario.
type Result struct {
	Scenario  Scenario
	RequestID string
	Status    int
	Duration  time.Duration
	Err       error
}

// Passed reports whether the scenario met every expectation.
func (r Result) Passed() bool { return r.Err == nil }

// Stats holds run statistics.
type Stats struct {
	Scenarios int
	Passed    int
	Failed    int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Failures  []Result
}
