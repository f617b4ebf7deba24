// Package listing filters, sorts and pages lists of records that were fetched
// in full from the marketplace.
package listing

import (
	"sort"
	"strings"
)

// DefaultPageSize is used when a query asks for a non-positive page size.
const DefaultPageSize = 8

// MaxPageSize bounds the page size a caller may ask for.
const MaxPageSize = 100

// Matcher reports whether rec passes a filter set to value.
type Matcher[T any] func(rec T, value string) bool

// Less orders two records for a sort key.
type Less[T any] func(a, b T) bool

// Query is what a listing screen asks for. Filters maps filter name to the
// selected value; empty and "all" values are inactive.
type Query struct {
	Filters  map[string]string
	Sort     string
	Desc     bool
	Page     int
	PageSize int
}

// SetFilter changes one filter and sends the query back to the first page.
func (q *Query) SetFilter(name, value string) {
	if q.Filters == nil {
		q.Filters = make(map[string]string)
	}
	q.Filters[name] = value
	q.Page = 1
}

// ClearFilters drops every filter and sends the query back to the first page.
func (q *Query) ClearFilters() {
	q.Filters = nil
	q.Page = 1
}

// Page is one page of filtered records.
type Page[T any] struct {
	Items        []T `json:"items"`
	Page         int `json:"page"`
	PageSize     int `json:"pageSize"`
	TotalPages   int `json:"totalPages"`
	TotalRecords int `json:"totalRecords"`
}

// Engine applies queries to records of type T. Configure it with Filter and
// SortBy before use; it is safe for concurrent Apply calls afterwards.
type Engine[T any] struct {
	filters map[string]Matcher[T]
	sorts   map[string]Less[T]
}

// NewEngine creates an Engine with no filters or sort keys.
func NewEngine[T any]() *Engine[T] {
	return &Engine[T]{
		filters: make(map[string]Matcher[T]),
		sorts:   make(map[string]Less[T]),
	}
}

// Filter registers a named filter.
func (e *Engine[T]) Filter(name string, m Matcher[T]) *Engine[T] {
	e.filters[name] = m
	return e
}

// SortBy registers a named sort key.
func (e *Engine[T]) SortBy(name string, less Less[T]) *Engine[T] {
	e.sorts[name] = less
	return e
}

// IsActive reports whether a filter value constrains results.
func IsActive(value string) bool {
	v := strings.TrimSpace(value)
	return v != "" && !strings.EqualFold(v, "all")
}

// Apply filters records with every active filter of q, sorts them if q names
// a known sort key, and returns the requested page. records is not modified.
// Unknown filter names are ignored.
func (e *Engine[T]) Apply(records []T, q Query) Page[T] {
	var active []func(T) bool
	for name, value := range q.Filters {
		m, ok := e.filters[name]
		if !ok || !IsActive(value) {
			continue
		}
		v := strings.TrimSpace(value)
		active = append(active, func(rec T) bool { return m(rec, v) })
	}

	filtered := make([]T, 0, len(records))
	for _, rec := range records {
		keep := true
		for _, match := range active {
			if !match(rec) {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, rec)
		}
	}

	if less, ok := e.sorts[q.Sort]; ok {
		sort.SliceStable(filtered, func(i, j int) bool {
			if q.Desc {
				return less(filtered[j], filtered[i])
			}
			return less(filtered[i], filtered[j])
		})
	}

	return paginate(filtered, q.Page, q.PageSize)
}

func paginate[T any](filtered []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(filtered)
	totalPages := total / size
	if total%size != 0 {
		totalPages++
	}

	if page < 1 || totalPages == 0 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start, end := 0, 0
	if total > 0 {
		start = (page - 1) * size
		end = start + min(size, total-start)
	}

	return Page[T]{
		Items:        filtered[start:end],
		Page:         page,
		PageSize:     size,
		TotalPages:   totalPages,
		TotalRecords: total,
	}
}
