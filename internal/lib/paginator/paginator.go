package paginator

import (
	"strconv"
	"strings"
)

// Paginator splits an ordered collection of count items into pages of
// fixed size. An empty collection still has one (empty) page.
type Paginator struct {
	count   int
	perPage int
}

// New creates paginator over count items. perPage lower than 1 is treated as 1
func New(count, perPage int) Paginator {
	if perPage < 1 {
		perPage = 1
	}
	if count < 0 {
		count = 0
	}

	return Paginator{count: count, perPage: perPage}
}

// NumPages returns total number of pages. It is never less than 1
func (p Paginator) NumPages() int {
	if p.count == 0 {
		return 1
	}

	return (p.count + p.perPage - 1) / p.perPage
}

// Page returns the page addressed by raw page number.
// Missing or non-numeric value falls back to the first page, a number
// greater than the last page to the last one and a number less than 1
// to the first one.
func (p Paginator) Page(raw string) Page {
	number, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		number = 1
	}

	last := p.NumPages()
	switch {
	case number < 1:
		number = 1
	case number > last:
		number = last
	}

	return Page{
		Number:   number,
		NumPages: last,
		Count:    p.count,
		PerPage:  p.perPage,
	}
}

// Page is a window over the collection
type Page struct {
	Number   int
	NumPages int
	Count    int
	PerPage  int
}

// Offset is the index of the first item of the page in the collection
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// Limit is the number of items on the page
func (p Page) Limit() int {
	return max(0, min(p.PerPage, p.Count-p.Offset()))
}

func (p Page) HasNext() bool {
	return p.Number < p.NumPages
}

func (p Page) HasPrevious() bool {
	return p.Number > 1
}

func (p Page) HasOtherPages() bool {
	return p.HasNext() || p.HasPrevious()
}

// NextNumber returns number of the next page or the current one if it is the last
func (p Page) NextNumber() int {
	if !p.HasNext() {
		return p.Number
	}

	return p.Number + 1
}

// PreviousNumber returns number of the previous page or the current one if it is the first
func (p Page) PreviousNumber() int {
	if !p.HasPrevious() {
		return p.Number
	}

	return p.Number - 1
}
