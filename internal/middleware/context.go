package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-catalog/backend/internal/types"
)

const (
	identityKey  = "identity"
	requestIDKey = "request_id"
)

// SetIdentity stores the authenticated caller on the request context.
func SetIdentity(c *gin.Context, identity *types.Identity) {
	if identity != nil {
		c.Set(identityKey, identity)
	}
}

// CurrentIdentity returns the caller, or nil for an anonymous request.
func CurrentIdentity(c *gin.Context) *types.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*types.Identity)
	return identity
}

// RequestIDFrom returns the id assigned by RequestID.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
// ok is false when the header is present but malformed.
func bearerToken(c *gin.Context) (token string, present, ok bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", false, true
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", true, false
	}
	return parts[1], true, true
}
