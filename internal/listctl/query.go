// Package listctl owns list-screen state: paginated query state with
// debounced search and stale-response suppression, and a simple fetch-all
// controller with optimistic deletes. Controllers are UI-agnostic; the TUI
// polls snapshots on its tick.
package listctl

import "context"

// SortDir is the sort direction sent to the backend.
type SortDir string

const (
	SortAsc  SortDir = "ASC"
	SortDesc SortDir = "DESC"
)

// Toggle flips the direction.
func (d SortDir) Toggle() SortDir {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// Query is one page request: page/size/sort plus the debounced search term.
type Query struct {
	Page    int
	Size    int
	SortBy  string
	SortDir SortDir
	Search  string
}

// Page is the backend's page envelope.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	HasNext       bool  `json:"hasNext"`
	HasPrevious   bool  `json:"hasPrevious"`
}

// FetchFunc loads one page for a query.
type FetchFunc[T any] func(ctx context.Context, q Query) (Page[T], error)
