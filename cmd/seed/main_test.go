package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-catalog/backend/config"
	"github.com/pageza/recipe-catalog/backend/internal/logging"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/testhelpers"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.JWTSecret = "seed-test-secret-that-is-long-enough"
	cfg.BcryptCost = 4
	return cfg
}

func TestSeedIsIdempotent(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()
	account := adminAccount{Username: "chef_admin", Email: "admin@recipeapi.com", Password: "password123"}

	buf := new(bytes.Buffer)
	prev := logging.Replace(slog.New(logging.NewHandler(buf)))
	t.Cleanup(func() { logging.Replace(prev) })

	first, err := seed(ctx, db, testConfig(), account)
	require.NoError(t, err)
	require.Len(t, first.Instructions, 3)
	require.Len(t, first.Ingredients, 3)
	assert.Equal(t, seedRecipeTitle, first.Title)

	second, err := seed(ctx, db, testConfig(), account)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Contains(t, buf.String(), `msg="seed data already present"`)

	var users, ingredients, recipes int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&ingredients).Error)
	require.NoError(t, db.Model(&models.Recipe{}).Count(&recipes).Error)
	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(3), ingredients)
	assert.Equal(t, int64(1), recipes)

	var admin models.User
	require.NoError(t, db.Where("email = ?", account.Email).First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
}

func TestSeedPromotesExistingAccount(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	existing := testhelpers.CreateUser(t, db, "chef_admin", models.RoleUser)

	recipe, err := seed(context.Background(), db, testConfig(), adminAccount{
		Username: existing.Username,
		Email:    existing.Email,
		Password: testhelpers.TestPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, recipe.UserID)

	var admin models.User
	require.NoError(t, db.First(&admin, existing.ID).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
}
