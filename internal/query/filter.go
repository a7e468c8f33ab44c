// Package query holds the post-fetch filters applied to collections read
// from the document store.
package query

import (
	"strings"

	"back2u-backend/internal/models"
)

// Field extracts a searchable string from an item
type Field[T any] func(T) string

// Owned is implemented by records that carry the creating user's uid
type Owned interface {
	Owner() string
}

// FilterBySubstring keeps items where any of fields contains q, ignoring
// case. A blank query returns items unchanged.
func FilterBySubstring[T any](items []T, q string, fields ...Field[T]) []T {
	q = strings.TrimSpace(q)
	if q == "" {
		return items
	}
	needle := strings.ToLower(q)

	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field(item)), needle) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// FilterByOwner keeps items created by uid
func FilterByOwner[T Owned](items []T, uid string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item.Owner() == uid {
			out = append(out, item)
		}
	}
	return out
}

// ReportFields are the fields matched by report search
var ReportFields = []Field[*models.Report]{
	func(r *models.Report) string { return r.Title },
	func(r *models.Report) string { return r.Description },
}

// ReturnFields are the fields matched by return search
var ReturnFields = []Field[*models.Return]{
	func(r *models.Return) string { return r.Title },
}
