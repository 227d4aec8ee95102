package purchase

import (
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// SortKey identifies the column a listing is ordered by.
type SortKey string

const (
	SortCreatedAt    SortKey = "createdAt"
	SortModelYear    SortKey = "modelYear"
	SortPurchaseDate SortKey = "purchaseDate"
	SortLoadDate     SortKey = "loadDate"
	SortETA          SortKey = "ETA"
	SortExpiryDate   SortKey = "expiryDate"
)

// ListQuery is the normalized form of a listing request: active filters, sort
// spec and pagination window. Build it with NewListQuery.
type ListQuery struct {
	Page  int
	Limit int

	// SearchTerms are the whitespace-split free-text terms. Every term must
	// match at least one of maker, model year, chassis number or auction,
	// case-insensitively.
	SearchTerms []string

	ChassisNumber string // case-insensitive substring
	ModelYear     string // case-insensitive substring
	Maker         string // case-insensitive substring
	AuctionNumber *int64 // exact match
	Status        Status // empty means all statuses

	SortBy   SortKey
	SortDesc bool
}

// ListParams carries the raw query-string values of a listing request.
type ListParams struct {
	Page          string
	Limit         string
	Search        string
	ChassisNumber string
	ModelYear     string
	Maker         string
	AuctionNumber string
	Status        string
	SortBy        string
	SortOrder     string
}

// NewListQuery normalizes raw listing parameters: defaults page/limit, splits
// the free-text search into terms, drops a non-numeric auction number filter
// and folds unrecognized sort keys back to creation time.
func NewListQuery(p ListParams) ListQuery {
	order := p.SortOrder
	if order == "" {
		order = "desc"
	}

	q := ListQuery{
		Page:          DefaultPage,
		Limit:         DefaultLimit,
		ChassisNumber: p.ChassisNumber,
		ModelYear:     p.ModelYear,
		Maker:         p.Maker,
		Status:        Status(p.Status),
		SortBy:        SortCreatedAt,
		SortDesc:      order == "desc",
	}

	if n, err := strconv.Atoi(p.Page); err == nil && n > 0 {
		q.Page = n
	}

	if n, err := strconv.Atoi(p.Limit); err == nil && n > 0 {
		q.Limit = n
	}

	if s := strings.TrimSpace(p.Search); s != "" {
		q.SearchTerms = strings.Fields(s)
	}

	if p.AuctionNumber != "" {
		if n, err := strconv.ParseInt(p.AuctionNumber, 10, 64); err == nil {
			q.AuctionNumber = &n
		}
	}

	switch SortKey(p.SortBy) {
	case SortModelYear, SortPurchaseDate, SortLoadDate, SortETA, SortExpiryDate:
		q.SortBy = SortKey(p.SortBy)
	}

	return q
}

// Offset returns the row offset of the requested page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Pagination describes one page of a listing result.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// NewPagination derives the page envelope from a total row count.
func NewPagination(q ListQuery, total int64) Pagination {
	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))

	return Pagination{
		CurrentPage: q.Page,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNext:     q.Page < totalPages,
		HasPrev:     q.Page > 1 && total > 0,
	}
}
