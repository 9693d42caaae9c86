package model

// Pagination is embedded in every listing request. Page starts at 1.
type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

type PageInfo struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func NewPageInfo(p Pagination, total int64) PageInfo {
	pages := 0
	if p.PerPage > 0 {
		pages = int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	}

	return PageInfo{
		Page:    p.Page,
		PerPage: p.PerPage,
		Total:   total,
		Pages:   pages,
	}
}
