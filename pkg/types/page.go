package types

// Page is the list envelope returned by the remote storefront API.
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

// Normalize fills the derived fields the backend sometimes omits.
func (p Page[T]) Normalize(limit int) Page[T] {
	if p.Data == nil {
		p.Data = []T{}
	}
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.TotalPages <= 0 {
		p.TotalPages = 1
		if limit > 0 && p.Total > limit {
			p.TotalPages = (p.Total + limit - 1) / limit
		}
	}
	return p
}
