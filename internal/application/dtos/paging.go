// Package dtos carries data across the application boundary: commands in,
// DTOs out. Amounts travel as decimal strings, never floats.
package dtos

// Paging is the offset/limit window of a list query. Handlers clamp limit
// into [1, page_max_limit] before it reaches a use case.
type Paging struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Clamp normalizes the window against the tenant's maximum page size.
func (p Paging) Clamp(maxLimit int) Paging {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit < 1 {
		p.Limit = 1
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}
