package filter

import "lapmart/internal/domain"

// Paginate wraps a fetched page with its pagination metadata.
func Paginate(page []domain.Listing, total, pageNum, limit int) domain.SearchResult {
	if page == nil {
		page = []domain.Listing{}
	}
	pageCount := 0
	if limit > 0 {
		pageCount = (total + limit - 1) / limit
	}
	return domain.SearchResult{
		Data:      page,
		Total:     total,
		Page:      pageNum,
		Limit:     limit,
		PageCount: pageCount,
	}
}

// Assemble merges a result page, its pagination metadata and the facet
// computation into the combined browse response. Pure function of its
// inputs.
func Assemble(page []domain.Listing, total, pageNum, limit int, opts domain.FilterOptions) domain.BrowseResult {
	return domain.BrowseResult{
		SearchResult: Paginate(page, total, pageNum, limit),
		Filters:      opts,
	}
}
