// Package listing is the in-memory list engine shared by the tickets
// and tasks screens: conjunctive filtering over a record slice and
// arithmetic pagination windows. It never reorders records; results
// keep the input's insertion order.
package listing

import "strings"

// All is the sentinel value of an inactive categorical filter.
const All = "all"

// Matcher reports whether a record passes one active filter.
type Matcher[T any] func(T) bool

// Equals builds a matcher that passes records whose key equals want.
// A want of All (or empty) deactivates the filter and passes everything.
func Equals[T any](want string, key func(T) string) Matcher[T] {
	if want == "" || want == All {
		return func(T) bool { return true }
	}
	return func(record T) bool {
		return key(record) == want
	}
}

// Search builds a matcher that passes records where the query is a
// case-insensitive substring of at least one searched field. An empty
// query passes everything.
func Search[T any](query string, fields func(T) []string) Matcher[T] {
	query = strings.ToLower(query)
	if query == "" {
		return func(T) bool { return true }
	}
	return func(record T) bool {
		for _, f := range fields(record) {
			if strings.Contains(strings.ToLower(f), query) {
				return true
			}
		}
		return false
	}
}

// Filter returns the records passing every matcher, in input order.
func Filter[T any](records []T, matchers ...Matcher[T]) []T {
	matches := make([]T, 0, len(records))
	for _, r := range records {
		ok := true
		for _, m := range matchers {
			if !m(r) {
				ok = false
				break
			}
		}
		if ok {
			matches = append(matches, r)
		}
	}
	return matches
}

// Paginate returns the window [(page-1)*pageSize, page*pageSize),
// clamped to the slice. A page past the end yields an empty slice; a
// non-positive pageSize returns everything.
func Paginate[T any](records []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return records
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(records) {
		return nil
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// TotalPages returns how many pages the count spans; at least 1 so the
// "Page X of Y" readout never shows zero pages.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 1
	}
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Pager holds a screen's pagination state. Any filter or page-size
// change resets it to the first page; navigation is clamped to the
// valid range.
type Pager struct {
	Page     int
	PageSize int
}

// NewPager starts on page 1 with the given page size.
func NewPager(pageSize int) Pager {
	if pageSize <= 0 {
		pageSize = 5
	}
	return Pager{Page: 1, PageSize: pageSize}
}

// Reset returns to the first page. Callers invoke it whenever a filter
// value or the search text changes.
func (p *Pager) Reset() {
	p.Page = 1
}

// SetPageSize changes the window size and returns to the first page.
func (p *Pager) SetPageSize(size int) {
	if size > 0 {
		p.PageSize = size
	}
	p.Page = 1
}

// Next advances one page, clamped to the last page of count records.
func (p *Pager) Next(count int) {
	if p.Page < TotalPages(count, p.PageSize) {
		p.Page++
	}
}

// Prev steps back one page, clamped to the first.
func (p *Pager) Prev() {
	if p.Page > 1 {
		p.Page--
	}
}

// First jumps to the first page.
func (p *Pager) First() {
	p.Page = 1
}

// Last jumps to the final page of count records.
func (p *Pager) Last(count int) {
	p.Page = TotalPages(count, p.PageSize)
}

// Clamp pulls the page back into range after the record count shrank.
func (p *Pager) Clamp(count int) {
	if last := TotalPages(count, p.PageSize); p.Page > last {
		p.Page = last
	}
}

// Window returns the slice of records visible on the current page.
func Window[T any](records []T, p Pager) []T {
	return Paginate(records, p.Page, p.PageSize)
}
