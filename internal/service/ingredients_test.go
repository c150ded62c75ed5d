package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-catalog/backend/internal/apperror"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/store"
	"github.com/pageza/recipe-catalog/backend/internal/testhelpers"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

func TestIngredientCatalogIsAdminManaged(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	admin := testhelpers.IdentityOf(testhelpers.CreateUser(t, svc.db, "admin", models.RoleAdmin))
	user := testhelpers.IdentityOf(testhelpers.CreateUser(t, svc.db, "cook", models.RoleUser))

	_, err := svc.ingredients.CreateIngredient(ctx, nil, types.CreateIngredientRequest{Name: "Salt", Unit: "tsp"})
	assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))

	_, err = svc.ingredients.CreateIngredient(ctx, user, types.CreateIngredientRequest{Name: "Salt", Unit: "tsp"})
	require.True(t, apperror.Is(err, apperror.KindForbidden))
	assert.Equal(t, apperror.ReasonRoleRequired, apperror.ReasonOf(err))

	salt, err := svc.ingredients.CreateIngredient(ctx, admin, types.CreateIngredientRequest{Name: " Salt ", Unit: "tsp"})
	require.NoError(t, err)
	assert.Equal(t, "Salt", salt.Name)

	list, err := svc.ingredients.ListIngredients(ctx, nil, store.Page{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	got, err := svc.ingredients.GetIngredient(ctx, nil, salt.ID)
	require.NoError(t, err)
	assert.Equal(t, "tsp", got.Unit)
}

func TestIngredientNameUniqueness(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	admin := testhelpers.IdentityOf(testhelpers.CreateUser(t, svc.db, "admin", models.RoleAdmin))

	salt, err := svc.ingredients.CreateIngredient(ctx, admin, types.CreateIngredientRequest{Name: "Salt", Unit: "tsp"})
	require.NoError(t, err)
	sugar, err := svc.ingredients.CreateIngredient(ctx, admin, types.CreateIngredientRequest{Name: "Sugar", Unit: "cup"})
	require.NoError(t, err)

	_, err = svc.ingredients.CreateIngredient(ctx, admin, types.CreateIngredientRequest{Name: "Salt  ", Unit: "g"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	// exact match only
	_, err = svc.ingredients.CreateIngredient(ctx, admin, types.CreateIngredientRequest{Name: "salt", Unit: "g"})
	assert.NoError(t, err)

	_, err = svc.ingredients.UpdateIngredient(ctx, admin, sugar.ID, types.UpdateIngredientRequest{Name: strPtr("Salt")})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	renamed, err := svc.ingredients.UpdateIngredient(ctx, admin, salt.ID, types.UpdateIngredientRequest{Name: strPtr("Salt"), Unit: strPtr("g")})
	require.NoError(t, err)
	assert.Equal(t, "g", renamed.Unit)

	_, err = svc.ingredients.UpdateIngredient(ctx, admin, 9999, types.UpdateIngredientRequest{Unit: strPtr("kg")})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestDeleteIngredientRemovesLinks(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	admin := testhelpers.IdentityOf(testhelpers.CreateUser(t, svc.db, "admin", models.RoleAdmin))
	cook := testhelpers.IdentityOf(testhelpers.CreateUser(t, svc.db, "cook", models.RoleUser))
	salt := testhelpers.CreateIngredient(t, svc.db, "Salt", "tsp")

	recipe, err := svc.recipes.CreateRecipe(ctx, cook, types.CreateRecipeRequest{
		Title:       "Salted nuts",
		Servings:    2,
		Ingredients: []types.RecipeIngredientInput{{IngredientID: salt.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.True(t, apperror.Is(svc.ingredients.DeleteIngredient(ctx, cook, salt.ID), apperror.KindForbidden))
	require.NoError(t, svc.ingredients.DeleteIngredient(ctx, admin, salt.ID))
	assert.True(t, apperror.Is(svc.ingredients.DeleteIngredient(ctx, admin, salt.ID), apperror.KindNotFound))

	reloaded, err := svc.recipes.GetRecipe(ctx, nil, recipe.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Ingredients)
}
