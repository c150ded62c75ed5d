package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-catalog/backend/internal/apperror"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

// Authenticator verifies bearer tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*types.Identity, error)
	OptionalAuthenticate(ctx context.Context, token string) *types.Identity
}

// RequireAuth rejects requests without a valid bearer token. The failure is
// handed to ErrorHandler.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, present, ok := bearerToken(c)
		if !ok {
			_ = c.Error(apperror.Unauthenticated("invalid authorization header format"))
			c.Abort()
			return
		}
		if !present {
			_ = c.Error(apperror.Unauthenticated("missing authorization header"))
			c.Abort()
			return
		}

		identity, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		SetIdentity(c, identity)
		c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a valid token is sent and
// otherwise lets the request through as anonymous.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, present, ok := bearerToken(c); present && ok {
			SetIdentity(c, auth.OptionalAuthenticate(c.Request.Context(), token))
		}
		c.Next()
	}
}
