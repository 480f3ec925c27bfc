// Package view turns a full collection into the exact slice a screen renders:
// search filter, then sort, then a clamped page window.
package view

import (
	"strings"
)

// DefaultPageSize is used when a caller passes a non-positive size
const DefaultPageSize = 10

// Page is one window of a filtered and sorted collection
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// TotalPages is never below 1 so an empty result still has a page to show
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// ClampPage forces page into [1, TotalPages(n, size)]
func ClampPage(page, n, size int) int {
	if page < 1 {
		return 1
	}
	if last := TotalPages(n, size); page > last {
		return last
	}
	return page
}

// Paginate slices items for the requested page after clamping it
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	page = ClampPage(page, len(items), size)

	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}

	window := make([]T, 0, end-start)
	window = append(window, items[start:end]...)

	return Page[T]{
		Items:      window,
		Page:       page,
		PageSize:   size,
		TotalItems: len(items),
		TotalPages: TotalPages(len(items), size),
	}
}

// Filter keeps the items whose fields contain query, case-insensitively.
// The query is matched as typed, surrounding spaces included; only the
// empty query keeps everything. The input slice is not modified.
func Filter[T any](items []T, query string, fields func(T) []string) []T {
	needle := strings.ToLower(query)

	out := make([]T, 0, len(items))
	for _, item := range items {
		if needle == "" || Matches(fields(item), needle) {
			out = append(out, item)
		}
	}
	return out
}

// Matches reports whether any field contains the already lower-cased needle
func Matches(fields []string, needle string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
