package utils

// PaginationParams is a normalised page request
type PaginationParams struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// GetPaginationParams clamps page to at least 1. A limit of 0 means no limit.
func GetPaginationParams(page, limit int) PaginationParams {
	if page < 1 {
		page = 1
	}
	if limit < 0 {
		limit = 0
	}
	return PaginationParams{Page: page, Limit: limit}
}

// GetBoundedPaginationParams is GetPaginationParams for listings that must
// never return everything: a missing limit becomes defaultLimit and anything
// above maxLimit is clamped.
func GetBoundedPaginationParams(page, limit, defaultLimit, maxLimit int) PaginationParams {
	p := GetPaginationParams(page, limit)
	switch {
	case p.Limit == 0:
		p.Limit = defaultLimit
	case p.Limit > maxLimit:
		p.Limit = maxLimit
	}
	return p
}

// CalculateOffset returns the row offset of the page
func (p PaginationParams) CalculateOffset() int {
	if p.Page < 1 || p.Limit <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}
