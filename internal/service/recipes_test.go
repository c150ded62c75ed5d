package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-catalog/backend/internal/apperror"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/testhelpers"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestAnonymousCanListButNotCreate(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	owner := testhelpers.CreateUser(t, svc.db, "owner", models.RoleUser)
	testhelpers.CreateRecipe(t, svc.db, owner, "Toast", "Slice the bread")

	page, err := svc.recipes.ListRecipes(ctx, nil, types.ListRecipesQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageSize, page.Limit)

	_, err = svc.recipes.CreateRecipe(ctx, nil, types.CreateRecipeRequest{Title: "Soup", Servings: 2})
	assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))
}

func TestCreateRecipeOwnerIsCaller(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, svc.db, "cook", models.RoleUser)
	salt := testhelpers.CreateIngredient(t, svc.db, "Salt", "tsp")

	recipe, err := svc.recipes.CreateRecipe(ctx, testhelpers.IdentityOf(user), types.CreateRecipeRequest{
		Title:    "  Pasta ",
		Servings: 2,
		Ingredients: []types.RecipeIngredientInput{
			{IngredientID: salt.ID, Quantity: 1},
		},
		Instructions: []types.InstructionInput{
			{StepNumber: 2, Description: "Add the pasta"},
			{StepNumber: 1, Description: "Boil water"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, recipe.UserID)
	assert.Equal(t, "Pasta", recipe.Title)
	require.Len(t, recipe.Instructions, 2)
	assert.Equal(t, 1, recipe.Instructions[0].StepNumber)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, "Salt", recipe.Ingredients[0].Ingredient.Name)
}

func TestCreateRecipeBatchConflicts(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	caller := testhelpers.IdentityOf(testhelpers.CreateUser(t, svc.db, "cook", models.RoleUser))
	salt := testhelpers.CreateIngredient(t, svc.db, "Salt", "tsp")

	_, err := svc.recipes.CreateRecipe(ctx, caller, types.CreateRecipeRequest{
		Title:    "Twice",
		Servings: 1,
		Instructions: []types.InstructionInput{
			{StepNumber: 1, Description: "First step"},
			{StepNumber: 1, Description: "Also first"},
		},
	})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = svc.recipes.CreateRecipe(ctx, caller, types.CreateRecipeRequest{
		Title:    "Salty",
		Servings: 1,
		Ingredients: []types.RecipeIngredientInput{
			{IngredientID: salt.ID, Quantity: 1},
			{IngredientID: salt.ID, Quantity: 2},
		},
	})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = svc.recipes.CreateRecipe(ctx, caller, types.CreateRecipeRequest{
		Title:        "Ghost",
		Servings:     1,
		Ingredients:  []types.RecipeIngredientInput{{IngredientID: 999, Quantity: 1}},
		Instructions: []types.InstructionInput{{StepNumber: 1, Description: "Never stored"}},
	})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	var recipes, instructions int64
	require.NoError(t, svc.db.Model(&models.Recipe{}).Count(&recipes).Error)
	require.NoError(t, svc.db.Model(&models.Instruction{}).Count(&instructions).Error)
	assert.Zero(t, recipes)
	assert.Zero(t, instructions)
}

func TestAddInstructionSequentialConflict(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	owner := testhelpers.CreateUser(t, svc.db, "owner", models.RoleUser)
	recipe := testhelpers.CreateRecipe(t, svc.db, owner, "Tea")
	caller := testhelpers.IdentityOf(owner)

	_, err := svc.recipes.AddInstruction(ctx, caller, recipe.ID, types.InstructionInput{StepNumber: 1, Description: "Boil water"})
	require.NoError(t, err)

	_, err = svc.recipes.AddInstruction(ctx, caller, recipe.ID, types.InstructionInput{StepNumber: 1, Description: "Steep leaves"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = svc.recipes.AddInstruction(ctx, caller, 9999, types.InstructionInput{StepNumber: 1, Description: "Boil water"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = svc.recipes.AddInstruction(ctx, nil, recipe.ID, types.InstructionInput{StepNumber: 2, Description: "Steep leaves"})
	assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))
}

func TestUpdateInstructionOwnershipScenario(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	admin := testhelpers.IdentityOf(testhelpers.CreateUser(t, svc.db, "admin", models.RoleAdmin))
	u := testhelpers.IdentityOf(testhelpers.CreateUser(t, svc.db, "user1", models.RoleUser))
	u2 := testhelpers.IdentityOf(testhelpers.CreateUser(t, svc.db, "user2", models.RoleUser))

	salt, err := svc.ingredients.CreateIngredient(ctx, admin, types.CreateIngredientRequest{Name: "Salt", Unit: "tsp"})
	require.NoError(t, err)

	recipe, err := svc.recipes.CreateRecipe(ctx, u, types.CreateRecipeRequest{
		Title:        "Pasta water",
		Servings:     1,
		Ingredients:  []types.RecipeIngredientInput{{IngredientID: salt.ID, Quantity: 1}},
		Instructions: []types.InstructionInput{{StepNumber: 1, Description: "Boil water"}},
	})
	require.NoError(t, err)
	assert.Equal(t, u.UserID, recipe.UserID)
	insID := recipe.Instructions[0].ID

	_, err = svc.recipes.UpdateInstruction(ctx, u2, insID, types.UpdateInstructionRequest{Description: strPtr("Boil salted water")})
	require.True(t, apperror.Is(err, apperror.KindForbidden))
	assert.Equal(t, apperror.ReasonNotOwner, apperror.ReasonOf(err))

	updated, err := svc.recipes.UpdateInstruction(ctx, admin, insID, types.UpdateInstructionRequest{Description: strPtr("Boil salted water")})
	require.NoError(t, err)
	assert.Equal(t, "Boil salted water", updated.Description)

	err = svc.recipes.DeleteInstruction(ctx, u2, insID)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}

func TestUpdateInstructionStepUniquenessExcludesSelf(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	owner := testhelpers.CreateUser(t, svc.db, "owner", models.RoleUser)
	recipe := testhelpers.CreateRecipe(t, svc.db, owner, "Bread", "Mix flour", "Knead dough")
	caller := testhelpers.IdentityOf(owner)
	first := recipe.Instructions[0]

	same, err := svc.recipes.UpdateInstruction(ctx, caller, first.ID, types.UpdateInstructionRequest{
		StepNumber:  intPtr(1),
		Description: strPtr("Mix flour and water"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, same.StepNumber)

	_, err = svc.recipes.UpdateInstruction(ctx, caller, first.ID, types.UpdateInstructionRequest{StepNumber: intPtr(2)})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	moved, err := svc.recipes.UpdateInstruction(ctx, caller, first.ID, types.UpdateInstructionRequest{StepNumber: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, moved.StepNumber)

	_, err = svc.recipes.UpdateInstruction(ctx, caller, 9999, types.UpdateInstructionRequest{StepNumber: intPtr(4)})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestDeleteRecipeCascades(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	owner := testhelpers.CreateUser(t, svc.db, "owner", models.RoleUser)
	other := testhelpers.IdentityOf(testhelpers.CreateUser(t, svc.db, "other", models.RoleUser))
	salt := testhelpers.CreateIngredient(t, svc.db, "Salt", "tsp")
	caller := testhelpers.IdentityOf(owner)

	recipe, err := svc.recipes.CreateRecipe(ctx, caller, types.CreateRecipeRequest{
		Title:        "Brine",
		Servings:     1,
		Ingredients:  []types.RecipeIngredientInput{{IngredientID: salt.ID, Quantity: 3}},
		Instructions: []types.InstructionInput{{StepNumber: 1, Description: "Dissolve salt"}, {StepNumber: 2, Description: "Chill brine"}},
	})
	require.NoError(t, err)

	err = svc.recipes.DeleteRecipe(ctx, other, recipe.ID)
	require.True(t, apperror.Is(err, apperror.KindForbidden))

	require.NoError(t, svc.recipes.DeleteRecipe(ctx, caller, recipe.ID))

	for _, ins := range recipe.Instructions {
		_, err := svc.recipes.GetInstruction(ctx, nil, ins.ID)
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	}
	_, err = svc.recipes.GetRecipe(ctx, nil, recipe.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	var links int64
	require.NoError(t, svc.db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&links).Error)
	assert.Zero(t, links)

	err = svc.recipes.DeleteRecipe(ctx, caller, recipe.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestUpdateRecipe(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	owner := testhelpers.CreateUser(t, svc.db, "owner", models.RoleUser)
	admin := testhelpers.IdentityOf(testhelpers.CreateUser(t, svc.db, "admin", models.RoleAdmin))
	other := testhelpers.IdentityOf(testhelpers.CreateUser(t, svc.db, "other", models.RoleUser))
	pepper := testhelpers.CreateIngredient(t, svc.db, "Pepper", "tsp")
	recipe := testhelpers.CreateRecipe(t, svc.db, owner, "Steak", "Season it")

	_, err := svc.recipes.UpdateRecipe(ctx, other, recipe.ID, types.UpdateRecipeRequest{Title: strPtr("Mine now")})
	require.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = svc.recipes.UpdateRecipe(ctx, testhelpers.IdentityOf(owner), recipe.ID, types.UpdateRecipeRequest{Servings: intPtr(0)})
	require.True(t, apperror.Is(err, apperror.KindInvalidInput))

	updated, err := svc.recipes.UpdateRecipe(ctx, admin, recipe.ID, types.UpdateRecipeRequest{
		Title:       strPtr("Pepper steak"),
		Servings:    intPtr(4),
		Ingredients: []types.RecipeIngredientInput{{IngredientID: pepper.ID, Quantity: 0.5}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Pepper steak", updated.Title)
	assert.Equal(t, 4, updated.Servings)
	assert.Equal(t, owner.ID, updated.UserID)
	require.Len(t, updated.Ingredients, 1)
	require.Len(t, updated.Instructions, 1)

	cleared, err := svc.recipes.UpdateRecipe(ctx, testhelpers.IdentityOf(owner), recipe.ID, types.UpdateRecipeRequest{
		Ingredients: []types.RecipeIngredientInput{},
	})
	require.NoError(t, err)
	assert.Empty(t, cleared.Ingredients)

	_, err = svc.recipes.UpdateRecipe(ctx, admin, 9999, types.UpdateRecipeRequest{Title: strPtr("Nothing")})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestListInstructionsOrdered(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	owner := testhelpers.CreateUser(t, svc.db, "owner", models.RoleUser)
	recipe := testhelpers.CreateRecipe(t, svc.db, owner, "Salad")
	caller := testhelpers.IdentityOf(owner)

	for _, step := range []int{3, 1, 2} {
		_, err := svc.recipes.AddInstruction(ctx, caller, recipe.ID, types.InstructionInput{StepNumber: step, Description: "Do a thing"})
		require.NoError(t, err)
	}

	list, err := svc.recipes.ListInstructions(ctx, nil, recipe.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, ins := range list {
		assert.Equal(t, i+1, ins.StepNumber)
	}

	_, err = svc.recipes.ListInstructions(ctx, nil, 9999)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
