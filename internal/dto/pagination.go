package dto

// PageRequest carries the paging query parameters shared by list endpoints.
type PageRequest struct {
	Limit int `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Page  int `form:"page,default=1" binding:"omitempty,min=1"`
}

// Normalize fills defaults for zero values so services never see an
// unbounded page.
func (p *PageRequest) Normalize() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Page <= 0 {
		p.Page = 1
	}
}

// Offset converts the 1-based page into a row offset.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageMeta describes the position of one page inside the full result set.
type PageMeta struct {
	Total       int  `json:"total"`
	Limit       int  `json:"limit"`
	Page        int  `json:"page"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// NewPageMeta computes the page envelope for a total row count.
func NewPageMeta(total int, req PageRequest) PageMeta {
	req.Normalize()
	totalPages := (total + req.Limit - 1) / req.Limit
	return PageMeta{
		Total:       total,
		Limit:       req.Limit,
		Page:        req.Page,
		TotalPages:  totalPages,
		HasNextPage: req.Page < totalPages,
		HasPrevPage: req.Page > 1,
	}
}
