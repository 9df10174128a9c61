package pagination

import (
	"testing"

	"backoffice/internal/domain"
)

var defaults = Defaults{
	PageSize:          20,
	MaxPageSize:       100,
	SortBy:            "created_at",
	AllowedSortFields: []string{"created_at", "total_amount"},
}

func TestResolve_Defaults(t *testing.T) {
	opts, err := Resolve(Query{}, defaults)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Page != 1 || opts.Limit != 20 || opts.Offset != 0 {
		t.Fatalf("bad defaults: %+v", opts)
	}
	if opts.SortBy != "created_at" || opts.SortOrder != OrderDesc {
		t.Fatalf("bad sort defaults: %+v", opts)
	}
}

func TestResolve_ClampsLimit(t *testing.T) {
	opts, err := Resolve(Query{Limit: "5000"}, defaults)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Limit != 100 {
		t.Fatalf("limit not clamped to max, got %d", opts.Limit)
	}

	opts, _ = Resolve(Query{Limit: "0"}, defaults)
	if opts.Limit != 1 {
		t.Fatalf("limit not clamped to floor, got %d", opts.Limit)
	}
}

func TestResolve_PageFloor(t *testing.T) {
	opts, _ := Resolve(Query{Page: "-3"}, defaults)
	if opts.Page != 1 {
		t.Fatalf("page must floor at 1, got %d", opts.Page)
	}
}

func TestResolve_Offset(t *testing.T) {
	opts, _ := Resolve(Query{Page: "3", Limit: "25"}, defaults)
	if opts.Offset != 50 {
		t.Fatalf("offset math wrong, got %d", opts.Offset)
	}
}

func TestResolve_RejectsUnknownSortField(t *testing.T) {
	_, err := Resolve(Query{SortBy: "password_hash"}, defaults)
	if err == nil {
		t.Fatal("expected error for disallowed sort field")
	}
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %T", err)
	}
}

func TestResolve_SortOrderNormalized(t *testing.T) {
	opts, _ := Resolve(Query{SortOrder: "asc"}, defaults)
	if opts.SortOrder != OrderAsc {
		t.Fatalf("expected ASC, got %q", opts.SortOrder)
	}
	opts, _ = Resolve(Query{SortOrder: "sideways"}, defaults)
	if opts.SortOrder != OrderDesc {
		t.Fatalf("unknown order must fall back to DESC, got %q", opts.SortOrder)
	}
}

func TestMetaFor_DerivedTotals(t *testing.T) {
	cases := []struct {
		total, limit, page  int
		pages               int
		hasNext, hasPrev    bool
	}{
		{total: 0, limit: 20, page: 1, pages: 0, hasNext: false, hasPrev: false},
		{total: 41, limit: 20, page: 1, pages: 3, hasNext: true, hasPrev: false},
		{total: 41, limit: 20, page: 3, pages: 3, hasNext: false, hasPrev: true},
		{total: 40, limit: 20, page: 2, pages: 2, hasNext: false, hasPrev: true},
	}
	for _, tc := range cases {
		meta := MetaFor(Options{Page: tc.page, Limit: tc.limit}, tc.total)
		if meta.TotalPages != tc.pages {
			t.Fatalf("total=%d limit=%d: totalPages=%d want %d", tc.total, tc.limit, meta.TotalPages, tc.pages)
		}
		if meta.HasNext != tc.hasNext || meta.HasPrev != tc.hasPrev {
			t.Fatalf("total=%d page=%d: hasNext=%v hasPrev=%v", tc.total, tc.page, meta.HasNext, meta.HasPrev)
		}
	}
}
