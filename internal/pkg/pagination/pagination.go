package pagination

import (
	"fmt"
	"math"

	"github.com/vijaygla/HRMS-sub000/internal/pkg/validator"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params are the page/limit query parameters shared by list endpoints.
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Normalize applies defaults and records range violations in errs.
func (p *Params) Normalize(errs *validator.ValidationErrors) {
	if p.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		errs.Add("limit", fmt.Sprintf("limit must not exceed %d", MaxLimit))
	}
}

func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Info describes one page of a list response.
type Info struct {
	TotalCount int64  `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
	Showing    string `json:"showing"`
}

func NewInfo(p Params, total int64) Info {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	showing := fmt.Sprintf("%d-%d of %d", p.Offset()+1, min(p.Page*p.Limit, int(total)), total)
	if total == 0 || int64(p.Offset()) >= total {
		showing = fmt.Sprintf("0 of %d", total)
	}
	return Info{
		TotalCount: total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
		Showing:    showing,
	}
}
