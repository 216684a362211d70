package dto

import "findtern_backend/internal/models"

// Actor - кто выполняет запрос (из JWT)
type Actor struct {
	ID   string
	Role models.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.UserRoleAdmin
}

// Owns - владелец ресурса или админ
func (a Actor) Owns(ownerID string) bool {
	return a.ID == ownerID || a.IsAdmin()
}

// Pagination - общая часть ответов со страницами
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

func NewPagination(total int64, page, pageSize int) Pagination {
	p := Pagination{Total: total, Page: page, PageSize: pageSize}
	if pageSize > 0 {
		p.TotalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return p
}
