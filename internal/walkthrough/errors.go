package walkthrough

import "errors"

// Sentinel errors returned by Run and scenario verification.
var (
	ErrUnhealthy       = errors.New("service is not healthy")
	ErrScenariosFailed = errors.New("walkthrough scenarios failed")
	ErrStatusMismatch  = errors.New("unexpected status")
	ErrBodyMismatch    = errors.New("unexpected body")
)
