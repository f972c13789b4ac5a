// Package paginator slices ordered lists into fixed-size, 1-indexed pages.
//
// Requested page numbers come straight from the query string and fail softly:
// a missing or non-numeric number yields the first page, and a number outside
// 1..NumPages yields the last page.
package paginator

import (
	"strconv"
	"strings"
)

// PerPage is the number of posts shown on every feed page.
const PerPage = 10

// Page is one window over an ordered list.
type Page[T any] struct {
	Items    []T `json:"items"`
	Number   int `json:"number"`
	NumPages int `json:"num_pages"`
	Count    int `json:"count"`
	PerPage  int `json:"per_page"`
}

// Paginate returns the page of items selected by number.
// items is never modified; the returned Items cannot grow into it.
func Paginate[T any](items []T, perPage int, number string) Page[T] {
	if perPage < 1 {
		perPage = PerPage
	}
	count := len(items)
	numPages := NumPages(count, perPage)
	n := ParseNumber(number, numPages)

	start := (n - 1) * perPage
	end := start + perPage
	if end > count {
		end = count
	}
	return Page[T]{
		Items:    items[start:end:end],
		Number:   n,
		NumPages: numPages,
		Count:    count,
		PerPage:  perPage,
	}
}

// NumPages is ceil(count/perPage), never less than one.
func NumPages(count, perPage int) int {
	if count == 0 {
		return 1
	}
	return (count + perPage - 1) / perPage
}

// ParseNumber converts a raw page parameter into a valid page number.
func ParseNumber(raw string, numPages int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	if n < 1 || n > numPages {
		return numPages
	}
	return n
}

func (p Page[T]) HasNext() bool     { return p.Number < p.NumPages }
func (p Page[T]) HasPrevious() bool { return p.Number > 1 }
func (p Page[T]) HasOtherPages() bool {
	return p.HasNext() || p.HasPrevious()
}

// NextPageNumber is only meaningful when HasNext is true.
func (p Page[T]) NextPageNumber() int { return p.Number + 1 }

// PreviousPageNumber is only meaningful when HasPrevious is true.
func (p Page[T]) PreviousPageNumber() int { return p.Number - 1 }

// StartIndex is the 1-based position of the first item, 0 for an empty list.
func (p Page[T]) StartIndex() int {
	if p.Count == 0 {
		return 0
	}
	return (p.Number-1)*p.PerPage + 1
}

// EndIndex is the 1-based position of the last item, 0 for an empty list.
func (p Page[T]) EndIndex() int {
	if p.Count == 0 {
		return 0
	}
	return p.StartIndex() + len(p.Items) - 1
}

// PageRange lists every page number, for rendering navigation.
func (p Page[T]) PageRange() []int {
	r := make([]int, p.NumPages)
	for i := range r {
		r[i] = i + 1
	}
	return r
}

// Meta is the page metadata without the items.
type Meta struct {
	Number      int  `json:"number"`
	NumPages    int  `json:"num_pages"`
	Count       int  `json:"count"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

func (p Page[T]) Meta() Meta {
	return Meta{
		Number:      p.Number,
		NumPages:    p.NumPages,
		Count:       p.Count,
		HasNext:     p.HasNext(),
		HasPrevious: p.HasPrevious(),
	}
}

// Map converts the items of a page while keeping its metadata.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, len(p.Items))
	for i, it := range p.Items {
		items[i] = fn(it)
	}
	return Page[U]{
		Items:    items,
		Number:   p.Number,
		NumPages: p.NumPages,
		Count:    p.Count,
		PerPage:  p.PerPage,
	}
}
