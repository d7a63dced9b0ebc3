package utilities

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PageQuery is the parsed page/limit query pair.
type PageQuery struct {
	Page  int
	Limit int
}

// ParsePage reads page/limit query params with sane defaults and caps.
func ParsePage(c *gin.Context) PageQuery {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return PageQuery{Page: page, Limit: limit}
}

// Offset returns the row offset for the page.
func (p PageQuery) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageMeta is the pagination block of a paginated response.
type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	Total       int64 `json:"total"`
}

// NewPageMeta computes the pagination block for total rows. An empty result
// still reports one page so total_pages never falls below current_page's floor.
func NewPageMeta(p PageQuery, total int64) PageMeta {
	pages := int(total) / p.Limit
	if int(total)%p.Limit != 0 {
		pages++
	}
	if pages < 1 {
		pages = 1
	}
	return PageMeta{CurrentPage: p.Page, TotalPages: pages, Total: total}
}
