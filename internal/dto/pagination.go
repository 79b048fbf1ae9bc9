package dto

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// PageQuery is the offset/limit pagination shared by list endpoints. Page is 1-based.
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

// SetDefaults fills unset values and clamps the limit
func (q *PageQuery) SetDefaults() {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
}

// Offset returns the row offset for the current page
func (q *PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}
