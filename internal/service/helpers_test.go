package service

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/store"
	"github.com/pageza/recipe-catalog/backend/internal/testhelpers"
)

const testSecret = "test-secret-key-that-is-long-enough-1234"

type testServices struct {
	db          *gorm.DB
	auth        *AuthService
	users       *UserService
	recipes     *RecipeService
	ingredients *IngredientService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := testhelpers.NewTestDB(t)

	userStore := store.NewUserStore(db)

	auth := NewAuthService(userStore, NewJWTCodec(testSecret), time.Hour, 4)
	return &testServices{
		db:          db,
		auth:        auth,
		users:       NewUserService(userStore, auth),
		recipes:     NewRecipeService(store.NewRecipeStore(db), store.NewInstructionStore(db)),
		ingredients: NewIngredientService(store.NewIngredientStore(db)),
	}
}
