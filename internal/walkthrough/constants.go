package walkthrough

import "time"

// Defaults used when Config leaves a field zero.
const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultWorkers = 4
	DefaultTimeout = 10 * time.Second
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
	requestIDHeader      = "X-Request-ID"
	maxResponseBytes     = 1 << 20
)
