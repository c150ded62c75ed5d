package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pageza/recipe-catalog/backend/internal/types"
)

const tokenIssuer = "recipe-catalog"

// TokenCodec signs and verifies bearer tokens.
type TokenCodec interface {
	Sign(claims *types.TokenClaims, ttl time.Duration) (string, error)
	Verify(token string) (*types.TokenClaims, error)
}

// JWTCodec is an HS256 TokenCodec.
type JWTCodec struct {
	secret []byte
	now    func() time.Time
}

func NewJWTCodec(secret string) *JWTCodec {
	return &JWTCodec{secret: []byte(secret), now: time.Now}
}

// WithClock replaces the codec's time source.
func (c *JWTCodec) WithClock(now func() time.Time) *JWTCodec {
	c.now = now
	return c
}

func (c *JWTCodec) Sign(claims *types.TokenClaims, ttl time.Duration) (string, error) {
	if len(c.secret) == 0 {
		return "", errors.New("token secret is not configured")
	}
	now := c.now()
	signed := *claims
	signed.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   strconv.FormatUint(uint64(claims.UserID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, &signed).SignedString(c.secret)
}

// Verify fails for a bad signature, another algorithm, a foreign issuer, a
// missing expiry, or once the clock reaches the expiry.
func (c *JWTCodec) Verify(token string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
