package search

import (
	"slices"

	"github.com/quentin418/clear-fashion/internal/models"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 12
)

// PageRequest selects a page window.
type PageRequest struct {
	Page int
	Size int
}

// Normalize clamps the page to 1 and falls back to the default size.
func (r PageRequest) Normalize() PageRequest {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.Size < 1 {
		r.Size = DefaultPageSize
	}
	return r
}

// Offset of the first item of the page.
func (r PageRequest) Offset() int {
	r = r.Normalize()
	return (r.Page - 1) * r.Size
}

// Paginate returns a copy of the requested window and its metadata. A page
// past the end yields no items while keeping the real page count.
func Paginate(products []models.Product, req PageRequest) ([]models.Product, models.PaginationMeta) {
	req = req.Normalize()
	total := len(products)
	pages := pageCount(total, req.Size)

	items := []models.Product{}
	if req.Page <= pages {
		offset := req.Offset()
		end := offset + min(req.Size, total-offset)
		items = slices.Clone(products[offset:end])
	}

	return items, models.PaginationMeta{
		CurrentPage: req.Page,
		PageCount:   pages,
		PageSize:    len(items),
		Count:       total,
	}
}

func pageCount(total, size int) int {
	n := total / size
	if total%size != 0 {
		n++
	}
	return n
}
