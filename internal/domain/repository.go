// Package domain provides types shared by the ledger domain packages.
package domain

import "time"

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// Search matches document numbers and free-text fields (ILIKE)
	Search string

	// IncludeDeleted includes soft-deleted records
	IncludeDeleted bool

	// DateFrom/DateTo bound the document date, inclusive
	DateFrom *time.Time
	DateTo   *time.Time

	// OrderBy specifies sorting (e.g., "tanggal_keluar", "-created_at")
	OrderBy string

	// Pagination
	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{Limit: 50}
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}
