package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/recipe-catalog/backend/internal/apperror"
	"github.com/pageza/recipe-catalog/backend/internal/logging"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

const (
	msgMissingToken       = "missing token"
	msgInvalidToken       = "invalid or expired token"
	msgInvalidCredentials = "Invalid email or password"
	msgEmailInUse         = "Email already in use"
	msgUsernameTaken      = "Username already taken"
)

// AuthService verifies credentials and bearer tokens and registers accounts.
type AuthService struct {
	users UserDirectory
	codec TokenCodec
	ttl   time.Duration
	cost  int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService creates a new AuthService instance
func NewAuthService(users UserDirectory, codec TokenCodec, ttl time.Duration, cost int) *AuthService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, codec: codec, ttl: ttl, cost: cost}
}

// Authenticate verifies a bearer token and returns the identity it carries.
// It does not consult storage.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*types.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperror.Unauthenticated(msgMissingToken)
	}
	claims, err := s.codec.Verify(token)
	if err != nil {
		logging.Debug(ctx, "token rejected", "error", err)
		return nil, apperror.Unauthenticated(msgInvalidToken).Wrap(err)
	}
	if claims.UserID == 0 || !claims.Role.Valid() {
		return nil, apperror.Unauthenticated(msgInvalidToken)
	}
	return claims.Identity(), nil
}

// OptionalAuthenticate is Authenticate for public routes: any failure yields
// an anonymous caller.
func (s *AuthService) OptionalAuthenticate(ctx context.Context, token string) *types.Identity {
	identity, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil
	}
	return identity
}

// Issue signs a token for identity valid for the configured TTL.
func (s *AuthService) Issue(identity *types.Identity) (string, error) {
	if identity == nil {
		return "", apperror.Unauthenticated("no identity to issue a token for")
	}
	return s.codec.Sign(&types.TokenClaims{
		UserID: identity.UserID,
		Email:  identity.Email,
		Role:   identity.Role,
	}, s.ttl)
}

// VerifySecret reports whether plaintext matches the stored hash.
func (s *AuthService) VerifySecret(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

func (s *AuthService) HashSecret(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register creates a USER account and signs a token for it.
func (s *AuthService) Register(ctx context.Context, req types.RegisterRequest) (*types.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict(msgEmailInUse)
	} else if !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, apperror.Conflict(msgUsernameTaken)
	} else if !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}

	hash, err := s.HashSecret(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	logging.Info(ctx, "user registered", "user_id", user.ID)
	return s.respond(user)
}

// Login exchanges credentials for a token. Unknown email and wrong password
// produce the same error.
func (s *AuthService) Login(ctx context.Context, req types.LoginRequest) (*types.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	user, err := s.users.FindCredentialsByEmail(ctx, email)
	if err != nil {
		if !apperror.Is(err, apperror.KindNotFound) {
			return nil, err
		}
		// keep timing close to the found-user path
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(req.Password))
		return nil, apperror.Unauthenticated(msgInvalidCredentials)
	}
	if !s.VerifySecret(req.Password, user.PasswordHash) {
		return nil, apperror.Unauthenticated(msgInvalidCredentials)
	}
	user.PasswordHash = ""
	return s.respond(user)
}

func (s *AuthService) respond(user *models.User) (*types.AuthResponse, error) {
	token, err := s.Issue(&types.Identity{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return nil, err
	}
	return &types.AuthResponse{User: types.NewPublicUser(user), Token: token}, nil
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
	})
	return s.dummyHash
}
