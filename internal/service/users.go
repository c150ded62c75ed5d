package service

import (
	"context"
	"strings"

	"github.com/pageza/recipe-catalog/backend/internal/access"
	"github.com/pageza/recipe-catalog/backend/internal/apperror"
	"github.com/pageza/recipe-catalog/backend/internal/logging"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/store"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

// UserService manages accounts on behalf of an authenticated caller.
type UserService struct {
	users UserDirectory
	auth  *AuthService
}

func NewUserService(users UserDirectory, auth *AuthService) *UserService {
	return &UserService{users: users, auth: auth}
}

func (s *UserService) GetProfile(ctx context.Context, caller *types.Identity) (*types.PublicUser, error) {
	if err := access.Authorize(caller, access.Request{Operation: access.Read, Resource: access.Profile}); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	return types.NewPublicUser(user), nil
}

func (s *UserService) UpdateProfile(ctx context.Context, caller *types.Identity, req types.UpdateUserRequest) (*types.PublicUser, error) {
	if err := access.Authorize(caller, access.Request{Operation: access.Update, Resource: access.Profile}); err != nil {
		return nil, err
	}
	return s.UpdateUser(ctx, caller, caller.UserID, req)
}

func (s *UserService) DeleteProfile(ctx context.Context, caller *types.Identity) error {
	if err := access.Authorize(caller, access.Request{Operation: access.Delete, Resource: access.Profile}); err != nil {
		return err
	}
	return s.DeleteUser(ctx, caller, caller.UserID)
}

// MyRecipes lists the caller's recipes with their children.
func (s *UserService) MyRecipes(ctx context.Context, caller *types.Identity) ([]models.Recipe, error) {
	if err := access.Authorize(caller, access.Request{Operation: access.Read, Resource: access.Profile}); err != nil {
		return nil, err
	}
	return s.users.ListRecipesOf(ctx, caller.UserID)
}

func (s *UserService) ListUsers(ctx context.Context, caller *types.Identity, page store.Page) ([]types.PublicUser, int64, error) {
	err := access.Authorize(caller, access.Request{
		Operation:    access.Read,
		Resource:     access.User,
		RequiredRole: access.Role(models.RoleAdmin),
	})
	if err != nil {
		return nil, 0, err
	}
	users, total, err := s.users.List(ctx, page)
	if err != nil {
		return nil, 0, err
	}
	out := make([]types.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, *types.NewPublicUser(&users[i]))
	}
	return out, total, nil
}

// GetUser is authorized before the lookup so that a stranger cannot probe
// which ids exist.
func (s *UserService) GetUser(ctx context.Context, caller *types.Identity, id uint) (*types.PublicUser, error) {
	if err := s.authorizeUser(caller, access.Read, id); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return types.NewPublicUser(user), nil
}

// UpdateUser applies a partial profile change. Uniqueness is re-checked only
// for values that actually change.
func (s *UserService) UpdateUser(ctx context.Context, caller *types.Identity, id uint, req types.UpdateUserRequest) (*types.PublicUser, error) {
	if err := s.authorizeUser(caller, access.Update, id); err != nil {
		return nil, err
	}
	if req.Role != nil {
		err := access.Authorize(caller, access.Request{
			Operation:    access.Update,
			Resource:     access.User,
			RequiredRole: access.Role(models.RoleAdmin),
		})
		if err != nil {
			return nil, err
		}
		if !req.Role.Valid() {
			return nil, apperror.InvalidInput("invalid role", apperror.FieldError{Field: "role", Message: "must be ADMIN or USER"})
		}
	}

	current, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != current.Email {
			if err := s.ensureFree(ctx, s.users.FindByEmail, email, id, msgEmailInUse); err != nil {
				return nil, err
			}
			changes["email"] = email
		}
	}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username != current.Username {
			if err := s.ensureFree(ctx, s.users.FindByUsername, username, id, msgUsernameTaken); err != nil {
				return nil, err
			}
			changes["username"] = username
		}
	}
	if req.Password != nil {
		hash, err := s.auth.HashSecret(*req.Password)
		if err != nil {
			return nil, err
		}
		changes["password_hash"] = hash
	}
	if req.Role != nil && *req.Role != current.Role {
		changes["role"] = *req.Role
	}

	updated, err := s.users.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	return types.NewPublicUser(updated), nil
}

// DeleteUser removes the account together with every recipe it owns.
func (s *UserService) DeleteUser(ctx context.Context, caller *types.Identity, id uint) error {
	if err := s.authorizeUser(caller, access.Delete, id); err != nil {
		return err
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	logging.Info(ctx, "user deleted", "user_id", id, "by", caller.UserID)
	return nil
}

func (s *UserService) authorizeUser(caller *types.Identity, op access.Operation, id uint) error {
	return access.Authorize(caller, access.Request{
		Operation: op,
		Resource:  access.User,
		OwnerID:   access.Owned(id),
	})
}

func (s *UserService) ensureFree(ctx context.Context, find func(context.Context, string) (*models.User, error), value string, self uint, msg string) error {
	existing, err := find(ctx, value)
	if err == nil {
		if existing.ID != self {
			return apperror.Conflict(msg)
		}
		return nil
	}
	if apperror.Is(err, apperror.KindNotFound) {
		return nil
	}
	return err
}
