package mockstore

import (
	"strings"
	"time"
)

// Filter returns the items for which keep is true. The input is not
// modified.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"`
}

// Paginate slices items into 1-based pages of size. page is clamped into
// range and TotalPages is at least 1.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = len(items)
		if size == 0 {
			size = 1
		}
	}
	total := (len(items) + size - 1) / size
	if total < 1 {
		total = 1
	}
	page = min(max(page, 1), total)

	start := (page - 1) * size
	end := min(start+size, len(items))
	out := make([]T, 0, end-start)
	out = append(out, items[start:end]...)

	return Page[T]{Items: out, Page: page, TotalPages: total, Total: len(items)}
}

// ContainsFold reports whether any field contains query, ignoring case. An
// empty query matches everything.
func ContainsFold(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// WithinDays reports whether t is no more than days before now. days <= 0
// means no window.
func WithinDays(t, now time.Time, days int) bool {
	if days <= 0 {
		return true
	}
	return now.Sub(t) <= time.Duration(days)*24*time.Hour
}
