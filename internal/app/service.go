// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"

	repository "github.com/okian/reqbind/internal/adapters/repository"
	"github.com/okian/reqbind/internal/domain/model"
	"github.com/okian/reqbind/pkg/logger"
)

// Service implements the API dependencies over the sample store.
type Service struct {
	store  repository.Store
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the sample record store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Service. Without options it serves the default sample list
// and discards logs.
func New(opts ...Option) *Service {
	s := &Service{
		store:  repository.NewMemoryStore(),
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Samples returns a window of the sample list.
func (s *Service) Samples(ctx context.Context, skip, limit int) ([]model.SampleRecord, error) {
	const op = "service.samples"
	records, err := s.store.Slice(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.logger.Debug(ctx, "sample window served",
		logger.Int("skip", skip),
		logger.Int("limit", limit),
		logger.Int("returned", len(records)),
	)
	return records, nil
}

// Quote prices an item.
func (s *Service) Quote(ctx context.Context, item model.Item) model.Quote {
	q := model.NewQuote(item)
	if q.PriceWithTax != nil {
		s.logger.Debug(ctx, "item priced", logger.String("name", item.Name), logger.Float64("price_with_tax", *q.PriceWithTax))
	}
	return q
}

// SampleCount reports how many sample records are loaded.
func (s *Service) SampleCount(ctx context.Context) int {
	return s.store.Count(ctx)
}
