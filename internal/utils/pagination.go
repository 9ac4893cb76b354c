package utils

import "fmt"

// Pagination describes one page of a list.
type Pagination struct {
	Total      int
	PerPage    int
	Current    int
	TotalPages int
}

// Paginate returns the items on page (1-based) and where that page sits.
// Out of range pages are clamped.
func Paginate[T any](items []T, perPage, page int) ([]T, Pagination) {
	if perPage <= 0 {
		perPage = len(items)
		if perPage == 0 {
			perPage = 1
		}
	}
	total := len(items)
	pages := (total + perPage - 1) / perPage
	if pages == 0 {
		pages = 1
	}
	page = min(max(page, 1), pages)

	start := (page - 1) * perPage
	end := min(start+perPage, total)
	return items[start:end], Pagination{Total: total, PerPage: perPage, Current: page, TotalPages: pages}
}

func (p Pagination) HasNext() bool { return p.Current < p.TotalPages }

// Summary reads like "Showing 11-20 of 42 entries".
func (p Pagination) Summary() string {
	if p.Total == 0 {
		return "No entries"
	}
	start := (p.Current-1)*p.PerPage + 1
	end := min(start+p.PerPage-1, p.Total)
	return fmt.Sprintf("Showing %d-%d of %d %s", start, end, p.Total, plural(p.Total))
}

func plural(count int) string {
	if count == 1 {
		return "entry"
	}
	return "entries"
}
