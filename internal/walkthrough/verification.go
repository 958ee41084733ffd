package walkthrough

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
)

type errorDetail struct {
	Detail []struct {
		Loc  []string `json:"loc"`
		Type string   `json:"type"`
	} `json:"detail"`
}

// verify checks status, body and validation error types of one response.
func verify(s Scenario, status int, body []byte) error {
	if status != s.WantStatus {
		return fmt.Errorf("%w: got %d, want %d: %s", ErrStatusMismatch, status, s.WantStatus, truncate(body))
	}

	if s.WantBody != "" {
		equal, err := jsonEqual(body, []byte(s.WantBody))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBodyMismatch, err)
		}
		if !equal {
			return fmt.Errorf("%w: got %s, want %s", ErrBodyMismatch, truncate(body), s.WantBody)
		}
	}

	if len(s.WantErrors) > 0 {
		var ed errorDetail
		if err := json.Unmarshal(body, &ed); err != nil {
			return fmt.Errorf("%w: error body: %w", ErrBodyMismatch, err)
		}
		got := make([]string, len(ed.Detail))
		for i, d := range ed.Detail {
			got[i] = d.Type
		}
		if !slices.Equal(got, s.WantErrors) {
			return fmt.Errorf("%w: error types %v, want %v", ErrBodyMismatch, got, s.WantErrors)
		}
	}
	return nil
}

// jsonEqual compares two JSON documents ignoring object key order.
func jsonEqual(a, b []byte) (bool, error) {
	var va, vb any
	if err := json.Unmarshal(a, &va); err != nil {
		return false, fmt.Errorf("response is not JSON: %w", err)
	}
	if err := json.Unmarshal(b, &vb); err != nil {
		return false, fmt.Errorf("expected body is not JSON: %w", err)
	}
	return reflect.DeepEqual(va, vb), nil
}

func truncate(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
