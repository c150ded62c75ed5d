package testhelpers

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

// CreateUser inserts a user with TestPassword and the given role.
func CreateUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

// IdentityOf returns the caller identity for a fixture user.
func IdentityOf(u *models.User) *types.Identity {
	return &types.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ing := &models.Ingredient{Name: name, Unit: unit}
	if err := db.Create(ing).Error; err != nil {
		t.Fatalf("failed to create ingredient %s: %v", name, err)
	}
	return ing
}

// CreateRecipe inserts a recipe owned by owner with the given step descriptions
// numbered from 1.
func CreateRecipe(t *testing.T, db *gorm.DB, owner *models.User, title string, steps ...string) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{Title: title, Servings: 2, UserID: owner.ID}
	if err := db.Omit("Instructions", "Ingredients").Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe %s: %v", title, err)
	}
	for i, desc := range steps {
		ins := models.Instruction{RecipeID: recipe.ID, StepNumber: i + 1, Description: desc}
		if err := db.Create(&ins).Error; err != nil {
			t.Fatalf("failed to create instruction %d: %v", i+1, err)
		}
		recipe.Instructions = append(recipe.Instructions, ins)
	}
	return recipe
}
