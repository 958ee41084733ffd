package walkthrough

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/okian/reqbind/pkg/logger"
)

// Run executes the walkthrough against config.BaseURL and writes a summary
// to out. It returns ErrScenariosFailed when any scenario fails.
func Run(ctx context.Context, config *Config, scenarios []Scenario, out io.Writer) (*Stats, error) {
	applyDefaults(config)
	stats := &Stats{
		Scenarios: len(scenarios),
		StartTime: time.Now(),
	}

	log := logger.Get()
	log.Info(ctx, "starting reqbind walkthrough",
		logger.String("baseURL", config.BaseURL),
		logger.String("runID", config.RunID),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Bool("verbose", config.Verbose))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, config.RunID); err != nil {
		return stats, err
	}

	// Step 2: Run scenarios concurrently
	results := runScenarios(ctx, config, client, scenarios)

	// Step 3: Tally and report
	for _, r := range results {
		if r.Passed() {
			stats.Passed++
			continue
		}
		stats.Failed++
		stats.Failures = append(stats.Failures, r)
	}
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	writeSummary(out, results, stats, config.Verbose)
	displayFinalStats(ctx, stats)

	if stats.Failed > 0 {
		return stats, fmt.Errorf("%w: %d of %d", ErrScenariosFailed, stats.Failed, stats.Scenarios)
	}
	log.Info(ctx, "walkthrough completed successfully")
	return stats, nil
}

func applyDefaults(config *Config) {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Workers <= 0 {
		config.Workers = DefaultWorkers
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.RunID == "" {
		config.RunID = uuid.NewString()
	}
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, runID string) error {
	logger.Get().Info(ctx, "checking service health")

	status, body, err := client.Do(ctx, http.MethodGet, "/healthz", "", runID+"/health")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", ErrUnhealthy, status, truncate(body))
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// writeSummary prints one row per failed scenario, or per scenario when
// verbose, followed by the totals.
func writeSummary(out io.Writer, results []Result, stats *Stats, verbose bool) {
	if out == nil {
		return
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RESULT\tMETHOD\tPATH\tSTATUS\tSCENARIO\tDETAIL")
	for _, r := range results {
		if r.Passed() && !verbose {
			continue
		}
		mark, detail := "PASS", ""
		if !r.Passed() {
			mark, detail = "FAIL", r.Err.Error()
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			mark, r.Scenario.Method, r.Scenario.Path, r.Status, r.Scenario.Name, detail)
	}
	_ = tw.Flush()
	_, _ = fmt.Fprintf(out, "\n%d scenarios, %d passed, %d failed in %s\n",
		stats.Scenarios, stats.Passed, stats.Failed, stats.Duration.Round(time.Millisecond))
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var passRate, scenariosPerSecond float64

	if stats.Scenarios > 0 {
		passRate = float64(stats.Passed) / float64(stats.Scenarios) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		scenariosPerSecond = float64(stats.Scenarios) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("scenarios", stats.Scenarios),
		logger.Int("passed", stats.Passed),
		logger.Int("failed", stats.Failed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("passRate", passRate),
		logger.Float64("scenariosPerSecond", scenariosPerSecond))
}
