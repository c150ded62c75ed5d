package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/apperror"
	"github.com/pageza/recipe-catalog/backend/internal/models"
)

const (
	msgUserNotFound  = "User not found"
	msgUserConflict  = "Email or username already in use"
	msgEmailInUse    = "Email already in use"
	msgUsernameTaken = "Username already taken"
)

// publicUserColumns never include password_hash.
var publicUserColumns = []string{"id", "username", "email", "role", "created_at", "updated_at"}

// UserStore is the identity directory.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) public(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.User{}).Select(publicUserColumns)
}

func (s *UserStore) findPublic(ctx context.Context, column string, value any) (*models.User, error) {
	var user models.User
	err := s.public(ctx).Where(column+" = ?", value).First(&user).Error
	if err != nil {
		return nil, translate(err, "find user", msgUserNotFound, msgUserConflict)
	}
	return &user, nil
}

func (s *UserStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return s.findPublic(ctx, "id", id)
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findPublic(ctx, "email", email)
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findPublic(ctx, "username", username)
}

// FindCredentialsByEmail is the login lookup; unlike the other finders it
// loads the password hash.
func (s *UserStore) FindCredentialsByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, "find credentials", msgUserNotFound, msgUserConflict)
	}
	return &user, nil
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return s.conflictDetail(ctx, translate(err, "create user", msgUserNotFound, msgUserConflict), user.Email, user.Username, 0)
	}
	user.PasswordHash = ""
	return nil
}

// Update applies changes (column -> value) and returns the public projection.
func (s *UserStore) Update(ctx context.Context, id uint, changes map[string]any) (*models.User, error) {
	if len(changes) > 0 {
		res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(changes)
		if res.Error != nil {
			email, _ := changes["email"].(string)
			username, _ := changes["username"].(string)
			return nil, s.conflictDetail(ctx, translate(res.Error, "update user", msgUserNotFound, msgUserConflict), email, username, id)
		}
		if res.RowsAffected == 0 {
			return nil, apperror.NotFound(msgUserNotFound)
		}
	}
	return s.FindByID(ctx, id)
}

// Delete removes the user and, in the same transaction, every recipe they own
// together with the recipes' children.
func (s *UserStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := func() *gorm.DB {
			return tx.Model(&models.Recipe{}).Select("id").Where("user_id = ?", id)
		}
		if err := tx.Where("recipe_id IN (?)", owned()).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("delete user recipe links: %w", err)
		}
		if err := tx.Where("recipe_id IN (?)", owned()).Delete(&models.Instruction{}).Error; err != nil {
			return fmt.Errorf("delete user instructions: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Recipe{}).Error; err != nil {
			return fmt.Errorf("delete user recipes: %w", err)
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound(msgUserNotFound)
		}
		return nil
	})
}

func (s *UserStore) List(ctx context.Context, page Page) ([]models.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	var users []models.User
	if err := page.apply(s.public(ctx).Order("id")).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// ListRecipesOf returns the user's recipes with ordered instructions and links.
func (s *UserStore) ListRecipesOf(ctx context.Context, userID uint) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := withChildren(s.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("list recipes of user %d: %w", userID, err)
	}
	return recipes, nil
}

// conflictDetail narrows a generic user conflict to the field that collided.
func (s *UserStore) conflictDetail(ctx context.Context, err error, email, username string, self uint) error {
	if !apperror.Is(err, apperror.KindConflict) {
		return err
	}
	if email != "" {
		if u, ferr := s.FindByEmail(ctx, email); ferr == nil && u.ID != self {
			return apperror.Conflict(msgEmailInUse).Wrap(err)
		}
	}
	if username != "" {
		if u, ferr := s.FindByUsername(ctx, username); ferr == nil && u.ID != self {
			return apperror.Conflict(msgUsernameTaken).Wrap(err)
		}
	}
	return err
}
