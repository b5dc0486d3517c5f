// Package pagination splits an ordered result into fixed-size pages.
package pagination

import "strconv"

// PostsPerPage is the page size used by every post listing.
const PostsPerPage = 10

// Paginator knows the size of a collection and how many items fit on a page.
type Paginator struct {
	Count   int
	PerPage int
}

// Page describes one page of a collection.
type Page struct {
	Number   int
	NumPages int
	Count    int
	Offset   int
	Limit    int
}

func New(count, perPage int) Paginator {
	if perPage < 1 {
		perPage = PostsPerPage
	}
	if count < 0 {
		count = 0
	}
	return Paginator{Count: count, PerPage: perPage}
}

// NumPages is never less than 1: an empty collection still has one empty page.
func (p Paginator) NumPages() int {
	if p.Count == 0 {
		return 1
	}
	return (p.Count + p.PerPage - 1) / p.PerPage
}

// Page parses a raw page number and clamps it into [1, NumPages].
// Anything that is not a number yields the first page.
func (p Paginator) Page(raw string) Page {
	n, err := strconv.Atoi(raw)
	if err != nil {
		n = 1
	}
	return p.PageNumber(n)
}

func (p Paginator) PageNumber(n int) Page {
	last := p.NumPages()
	if n < 1 {
		n = 1
	}
	if n > last {
		n = last
	}
	return Page{
		Number:   n,
		NumPages: last,
		Count:    p.Count,
		Offset:   (n - 1) * p.PerPage,
		Limit:    p.PerPage,
	}
}

func (pg Page) HasPrevious() bool { return pg.Number > 1 }
func (pg Page) HasNext() bool     { return pg.Number < pg.NumPages }
func (pg Page) HasOther() bool    { return pg.NumPages > 1 }
func (pg Page) PreviousNumber() int {
	if pg.HasPrevious() {
		return pg.Number - 1
	}
	return pg.Number
}
func (pg Page) NextNumber() int {
	if pg.HasNext() {
		return pg.Number + 1
	}
	return pg.Number
}

// Numbers lists all page numbers, for rendering the page links.
func (pg Page) Numbers() []int {
	nums := make([]int, pg.NumPages)
	for i := range nums {
		nums[i] = i + 1
	}
	return nums
}
