package walkthrough

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/reqbind/pkg/logger"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Do sends one request and returns the status and at most
// maxResponseBytes of the body.
func (c *HTTPClient) Do(ctx context.Context, method, path, body, requestID string) (int, []byte, error) {
	var rdr io.Reader = http.NoBody
	if body != "" {
		rdr = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID != "" {
		req.Header.Set(requestIDHeader, requestID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, data, nil
}

type job struct {
	index    int
	scenario Scenario
}

// runScenarios executes scenarios concurrently using a worker pool. Results
// keep the order of scenarios.
func runScenarios(ctx context.Context, config *Config, client *HTTPClient, scenarios []Scenario) []Result {
	log := logger.Get()
	log.Info(ctx, "running scenarios",
		logger.Int("scenarios", len(scenarios)),
		logger.Int("workers", config.Workers))

	results := make([]Result, len(scenarios))
	var done, failed int64

	jobs := make(chan job, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				res := runScenario(ctx, client, config.RunID, j)
				results[j.index] = res

				atomic.AddInt64(&done, 1)
				if !res.Passed() {
					atomic.AddInt64(&failed, 1)
					log.Warn(ctx, "scenario failed",
						logger.String("scenario", j.scenario.Name),
						logger.String("request_id", res.RequestID),
						logger.Error(res.Err))
				} else if config.Verbose {
					log.Info(ctx, "scenario passed",
						logger.String("scenario", j.scenario.Name),
						logger.Int("status", res.Status),
						logger.String("duration", res.Duration.String()))
				}
			}
		}()
	}

	// Send scenarios to workers
	go func() {
		defer close(jobs)
		for i, s := range scenarios {
			select {
			case <-ctx.Done():
				return
			case jobs <- job{index: i, scenario: s}:
			}
		}
	}()

	wg.Wait()

	// Scenarios never dispatched because ctx ended still count as failures.
	for i := range results {
		if results[i].RequestID == "" {
			results[i] = Result{Scenario: scenarios[i], Err: fmt.Errorf("not run: %w", context.Cause(ctx))}
		}
	}

	log.Info(ctx, "scenarios completed",
		logger.Int("completed", int(atomic.LoadInt64(&done))),
		logger.Int("failed", int(atomic.LoadInt64(&failed))))
	return results
}

// runScenario sends one scenario and verifies the response.
func runScenario(ctx context.Context, client *HTTPClient, runID string, j job) Result {
	res := Result{
		Scenario:  j.scenario,
		RequestID: fmt.Sprintf("%s/%04d", runID, j.index),
	}

	start := time.Now()
	status, body, err := client.Do(ctx, j.scenario.Method, j.scenario.Path, j.scenario.Body, res.RequestID)
	res.Duration = time.Since(start)
	res.Status = status
	if err != nil {
		res.Err = err
		return res
	}

	res.Err = verify(j.scenario, status, body)
	return res
}
