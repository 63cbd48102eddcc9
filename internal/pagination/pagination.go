package pagination

import (
	"fmt"
	"math"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Params struct {
	Page  int
	Limit int
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Parse reads page/limit query params with sane bounds.
func Parse(c *fiber.Ctx) Params {
	page := 1
	limit := defaultLimit

	if s := c.Query("page"); s != "" {
		if _, err := fmt.Sscan(s, &page); err != nil || page < 1 {
			page = 1
		}
	}
	if s := c.Query("limit"); s != "" {
		if _, err := fmt.Sscan(s, &limit); err != nil || limit < 1 {
			limit = defaultLimit
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return Params{Page: page, Limit: limit}
}

// Envelope is the list response shape used by every paginated endpoint.
type Envelope struct {
	Data         any   `json:"data"`
	TotalPages   int   `json:"totalPages"`
	TotalRecords int64 `json:"totalRecords"`
	CurrentPage  int   `json:"currentPage"`
}

func Wrap(data any, total int64, p Params) Envelope {
	pages := int(math.Ceil(float64(total) / float64(p.Limit)))
	if pages < 1 {
		pages = 1
	}
	return Envelope{
		Data:         data,
		TotalPages:   pages,
		TotalRecords: total,
		CurrentPage:  p.Page,
	}
}
