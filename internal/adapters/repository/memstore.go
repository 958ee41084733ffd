package repository

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/reqbind/internal/domain/model"
)

// MemoryStore is an immutable in-memory Store. Safe for concurrent use:
// records are never written after construction and reads return copies.
type MemoryStore struct {
	records []model.SampleRecord
}

// NewMemoryStore builds a store over DefaultRecords unless WithRecords is given.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{records: DefaultRecords()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Slice implements Store.
func (s *MemoryStore) Slice(ctx context.Context, skip, limit int) ([]model.SampleRecord, error) {
	const op = "repository.slice"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	n := len(s.records)
	start := sliceIndex(skip, n)
	end := n
	switch {
	case limit > 0 && skip > math.MaxInt-limit:
		// skip+limit overflows; the window runs to the end.
	case limit < 0 && skip < math.MinInt-limit:
		end = 0
	default:
		end = sliceIndex(skip+limit, n)
	}
	if end < start {
		end = start
	}

	out := make([]model.SampleRecord, end-start)
	copy(out, s.records[start:end])
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	return len(s.records)
}

// sliceIndex resolves i against a list of length n: negative values count
// back from the end and the result is clamped to [0, n].
func sliceIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	return max(0, min(i, n))
}
