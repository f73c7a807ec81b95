package model

// APIResponse is the single envelope every endpoint returns. Failures always
// carry Success=false plus a short human-readable Message and nothing else
// beyond optional field-level validation errors.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    any         `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
	Meta    *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	TotalItems  int  `json:"total_items"`
	HasNext     bool `json:"has_next"`
	HasPrev     bool `json:"has_prev"`
}
