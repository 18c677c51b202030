// Package paginator slices an ordered result set into fixed-size, 1-based
// pages. It only computes page geometry, callers apply Offset/Limit to their
// own query or slice.
package paginator

import (
	"strconv"
	"strings"
)

const DefaultPerPage = 10

type Paginator struct {
	count   int
	perPage int
}

// Page describes one page of a result set. Offset and Limit address the items
// of this page in the full ordered collection.
type Page struct {
	Number      int  `json:"number"`
	NumPages    int  `json:"num_pages"`
	Count       int  `json:"count"`
	PerPage     int  `json:"per_page"`
	Offset      int  `json:"-"`
	Limit       int  `json:"-"`
	HasPrevious bool `json:"has_previous"`
	HasNext     bool `json:"has_next"`
}

// New creates a paginator over count items. A non-positive perPage falls back
// to DefaultPerPage.
func New(count int, perPage int) *Paginator {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if count < 0 {
		count = 0
	}
	return &Paginator{count: count, perPage: perPage}
}

// NumPages is never below 1, an empty collection still has one empty page.
func (p *Paginator) NumPages() int {
	if p.count == 0 {
		return 1
	}
	return (p.count + p.perPage - 1) / p.perPage
}

// GetPage returns the page for a raw page number as it comes from a query
// string. Empty or malformed numbers give the first page, numbers below 1 are
// clamped to the first page and numbers past the end to the last one.
func (p *Paginator) GetPage(number string) Page {
	n, err := strconv.Atoi(strings.TrimSpace(number))
	if err != nil {
		n = 1
	}
	return p.Page(n)
}

// Page returns page n, clamped into [1, NumPages].
func (p *Paginator) Page(n int) Page {
	numPages := p.NumPages()
	if n < 1 {
		n = 1
	}
	if n > numPages {
		n = numPages
	}

	offset := (n - 1) * p.perPage
	limit := p.perPage
	if remaining := p.count - offset; remaining < limit {
		limit = remaining
	}

	return Page{
		Number:      n,
		NumPages:    numPages,
		Count:       p.count,
		PerPage:     p.perPage,
		Offset:      offset,
		Limit:       limit,
		HasPrevious: n > 1,
		HasNext:     n < numPages,
	}
}

// Slice returns [lo, hi) bounds of this page inside an in-memory collection of
// length n.
func (pg Page) Slice(n int) (lo, hi int) {
	lo = pg.Offset
	if lo > n {
		lo = n
	}
	hi = lo + pg.Limit
	if hi > n {
		hi = n
	}
	return lo, hi
}

func (pg Page) PreviousPageNumber() int {
	if !pg.HasPrevious {
		return pg.Number
	}
	return pg.Number - 1
}

func (pg Page) NextPageNumber() int {
	if !pg.HasNext {
		return pg.Number
	}
	return pg.Number + 1
}
