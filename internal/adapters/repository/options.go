package repository

import "github.com/okian/reqbind/internal/domain/model"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithRecords replaces the default sample list. The slice is copied.
func WithRecords(records []model.SampleRecord) Option {
	return func(s *MemoryStore) {
		if records != nil {
			s.records = append([]model.SampleRecord(nil), records...)
		}
	}
}
