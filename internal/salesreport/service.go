package salesreport

import (
	"context"
	"errors"
	"time"
)

// Source supplies the raw line items for one category. The invoice store
// implements it; tests substitute fixtures.
type Source interface {
	CategoryLineItems(ctx context.Context, categoryID int64) ([]LineItem, error)
}

// ReportFilter narrows a category report to an inclusive date window.
// Zero bounds are unset.
type ReportFilter struct {
	CategoryID int64
	From       time.Time
	To         time.Time
}

// Service memoizes report construction through the versioned cache.
type Service struct {
	source Source
	cache  *Cache
}

// NewService wires a Source with a Cache helper.
func NewService(source Source, cache *Cache) *Service {
	return &Service{source: source, cache: cache}
}

// CategoryReport returns the sales rollup for one category, recomputing on
// cache miss. Recomputing is always safe: BuildReport is pure, so a cold
// cache only costs latency, never correctness.
func (s *Service) CategoryReport(ctx context.Context, filter ReportFilter) (Report, error) {
	if s == nil || s.source == nil {
		return Report{}, errors.New("salesreport: source not configured")
	}
	key, err := s.cache.BuildKey(ctx, keyCategoryReport(filter.CategoryID, filter.From, filter.To)...)
	if err != nil {
		return Report{}, err
	}
	var report Report
	err = s.cache.FetchJSON(ctx, key, &report, func(ctx context.Context) (interface{}, error) {
		items, err := s.source.CategoryLineItems(ctx, filter.CategoryID)
		if err != nil {
			return nil, err
		}
		return BuildReport(items, filter.From, filter.To), nil
	})
	if err != nil {
		return Report{}, err
	}
	return report, nil
}

// Invalidate bumps the cache version after invoice data changes.
func (s *Service) Invalidate(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return s.cache.Bump(ctx)
}
