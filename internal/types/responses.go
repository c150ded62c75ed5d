package types

import (
	"time"

	"github.com/pageza/recipe-catalog/backend/internal/models"
)

// PublicUser is the outward projection of a user. It never carries the password hash.
type PublicUser struct {
	ID        uint        `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func NewPublicUser(u *models.User) *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type AuthResponse struct {
	User  *PublicUser `json:"user"`
	Token string      `json:"token"`
}

type RecipePage struct {
	Recipes []models.Recipe `json:"recipes"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
}
