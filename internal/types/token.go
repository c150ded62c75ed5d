package types

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/pageza/recipe-catalog/backend/internal/models"
)

// TokenClaims is the signed payload of a bearer token.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID uint        `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
}

// Identity returns the caller identity carried by the claims.
func (c *TokenClaims) Identity() *Identity {
	return &Identity{UserID: c.UserID, Email: c.Email, Role: c.Role}
}
