package dto

import "strings"

// PageRequest mirrors the page/size/sortBy/direction query contract of the
// list endpoints.
type PageRequest struct {
	Page      int    `form:"page"`
	Size      int    `form:"size"`
	SortBy    string `form:"sortBy"`
	Direction string `form:"direction"`
}

func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = 10
	}
	if p.Size > 100 {
		p.Size = 100
	}
	if p.SortBy == "" {
		p.SortBy = "created_at"
	}
	if !strings.EqualFold(p.Direction, "asc") {
		p.Direction = "desc"
	} else {
		p.Direction = "asc"
	}
	return p
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}
