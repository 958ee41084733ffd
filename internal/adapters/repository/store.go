// Package repository defines the sample record store interface.
package repository

import (
	"context"

	"github.com/okian/reqbind/internal/domain/model"
)

// Store provides read access to the fixed sample list.
type Store interface {
	// Slice returns records[skip:skip+limit] with Python slice rules:
	// negative indices count from the end, out-of-range indices clamp and
	// an inverted window is empty.
	Slice(ctx context.Context, skip, limit int) ([]model.SampleRecord, error)

	// Count returns the number of records.
	Count(ctx context.Context) int
}

// DefaultRecords is the sample list served when no records are configured.
func DefaultRecords() []model.SampleRecord {
	return []model.SampleRecord{
		{ItemName: "Foo"},
		{ItemName: "Bar"},
		{ItemName: "Baz"},
	}
}
