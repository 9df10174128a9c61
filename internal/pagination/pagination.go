package pagination

import (
	"strconv"
	"strings"

	"backoffice/internal/domain"
)

const (
	OrderAsc  = "ASC"
	OrderDesc = "DESC"
)

// Defaults is the per-route pagination policy.
type Defaults struct {
	PageSize    int
	MaxPageSize int
	SortBy      string
	// AllowedSortFields, when non-empty, is an allowlist checked before any
	// storage call.
	AllowedSortFields []string
}

// Query carries the raw pagination query parameters.
type Query struct {
	Page      string
	Limit     string
	SortBy    string
	SortOrder string
}

// Options is the resolved, bounded pagination request.
type Options struct {
	Page      int
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

// Meta describes one page of a listing. TotalPages is always derived from
// Total and Limit, never stored.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Resolve turns raw query parameters into bounded options. A sortBy outside
// the allowlist is rejected before touching storage.
func Resolve(q Query, d Defaults) (Options, error) {
	page := 1
	if s := strings.TrimSpace(q.Page); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			page = n
		}
	}

	limit := d.PageSize
	if s := strings.TrimSpace(q.Limit); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}
	if limit < 1 {
		limit = 1
	}
	if d.MaxPageSize > 0 && limit > d.MaxPageSize {
		limit = d.MaxPageSize
	}

	sortBy := strings.TrimSpace(q.SortBy)
	if sortBy == "" {
		sortBy = d.SortBy
	} else if len(d.AllowedSortFields) > 0 && !contains(d.AllowedSortFields, sortBy) {
		return Options{}, domain.NewValidationError("sortBy", "invalid sort field: "+sortBy)
	}

	sortOrder := strings.ToUpper(strings.TrimSpace(q.SortOrder))
	if sortOrder != OrderAsc && sortOrder != OrderDesc {
		sortOrder = OrderDesc
	}

	return Options{
		Page:      page,
		Limit:     limit,
		Offset:    (page - 1) * limit,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}, nil
}

// MetaFor derives page metadata from a total row count.
func MetaFor(opts Options, total int) Meta {
	totalPages := 0
	if opts.Limit > 0 {
		totalPages = (total + opts.Limit - 1) / opts.Limit
	}
	return Meta{
		Page:       opts.Page,
		Limit:      opts.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    opts.Page < totalPages,
		HasPrev:    opts.Page > 1,
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
