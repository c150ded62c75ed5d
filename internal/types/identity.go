package types

import "github.com/pageza/recipe-catalog/backend/internal/models"

// Identity is an authenticated caller. A nil *Identity means anonymous.
type Identity struct {
	UserID uint
	Email  string
	Role   models.Role
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == models.RoleAdmin
}
