package services

import (
	"context"
	"sync"
	"time"

	"lapmart/internal/domain"
	"lapmart/internal/filter"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	defaultFetchTimeout = 5 * time.Second
)

// SearchService runs the filter engine against the catalog store: primary
// page fetch, facet availability, or both at once.
type SearchService struct {
	Store filter.Store
	Calc  *filter.Calculator
	// FetchTimeout bounds the primary page fetch. Unlike facet probes,
	// a failed primary fetch is fatal to the request: an empty page
	// would be indistinguishable from "no matches".
	FetchTimeout time.Duration
}

func NewSearchService(store filter.Store, calc *filter.Calculator) *SearchService {
	return &SearchService{Store: store, Calc: calc}
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// Search returns the filtered, paginated result page for sel.
func (s *SearchService) Search(ctx context.Context, sel filter.Selection, page, limit int) (domain.SearchResult, error) {
	page, limit = clampPage(page, limit)
	fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout())
	defer cancel()
	rows, total, err := s.Store.Find(fctx, filter.Compile(sel), (page-1)*limit, limit)
	if err != nil {
		return domain.SearchResult{}, err
	}
	return filter.Paginate(rows, total, page, limit), nil
}

// FilterOptions computes the facet result set for sel.
func (s *SearchService) FilterOptions(ctx context.Context, sel filter.Selection) (domain.FilterOptions, error) {
	return s.Calc.Options(ctx, sel)
}

// Browse runs the page fetch and the facet computation concurrently over
// the same logical snapshot and assembles the combined response. Minor
// snapshot drift between the two is tolerated.
func (s *SearchService) Browse(ctx context.Context, sel filter.Selection, page, limit int) (domain.BrowseResult, error) {
	var (
		wg      sync.WaitGroup
		opts    domain.FilterOptions
		optsErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		opts, optsErr = s.Calc.Options(ctx, sel)
	}()

	res, err := s.Search(ctx, sel, page, limit)
	wg.Wait()
	if err != nil {
		return domain.BrowseResult{}, err
	}
	if optsErr != nil {
		return domain.BrowseResult{}, optsErr
	}
	return filter.Assemble(res.Data, res.Total, res.Page, res.Limit, opts), nil
}

func (s *SearchService) fetchTimeout() time.Duration {
	if s.FetchTimeout > 0 {
		return s.FetchTimeout
	}
	return defaultFetchTimeout
}
