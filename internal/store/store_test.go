package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/apperror"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/testhelpers"
)

func TestUserStorePublicProjection(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	users := NewUserStore(db)
	ctx := context.Background()

	created := testhelpers.CreateUser(t, db, "alice", models.RoleUser)

	byEmail, err := users.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Empty(t, byEmail.PasswordHash)

	byName, err := users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, byName.PasswordHash)

	creds, err := users.FindCredentialsByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, creds.PasswordHash)

	_, err = users.FindByID(ctx, 9999)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestUserStoreUniqueConstraintsArbitrate(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	users := NewUserStore(db)
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, &models.User{Username: "alice", Email: "a@example.com", PasswordHash: "x", Role: models.RoleUser}))

	err := users.Create(ctx, &models.User{Username: "other", Email: "a@example.com", PasswordHash: "x", Role: models.RoleUser})
	require.True(t, apperror.Is(err, apperror.KindConflict))
	appErr, _ := apperror.As(err)
	assert.Equal(t, "Email already in use", appErr.Message)

	err = users.Create(ctx, &models.User{Username: "alice", Email: "b@example.com", PasswordHash: "x", Role: models.RoleUser})
	require.True(t, apperror.Is(err, apperror.KindConflict))
	appErr, _ = apperror.As(err)
	assert.Equal(t, "Username already taken", appErr.Message)

	// exact match: a different case is a different email
	assert.NoError(t, users.Create(ctx, &models.User{Username: "alice2", Email: "A@example.com", PasswordHash: "x", Role: models.RoleUser}))
}

func TestUserStoreUpdateAndDelete(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	users := NewUserStore(db)
	ctx := context.Background()

	alice := testhelpers.CreateUser(t, db, "alice", models.RoleUser)
	bob := testhelpers.CreateUser(t, db, "bob", models.RoleUser)
	recipe := testhelpers.CreateRecipe(t, db, alice, "Toast", "Slice the bread")

	updated, err := users.Update(ctx, alice.ID, map[string]any{"username": "alicia"})
	require.NoError(t, err)
	assert.Equal(t, "alicia", updated.Username)

	_, err = users.Update(ctx, alice.ID, map[string]any{"email": bob.Email})
	require.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = users.Update(ctx, 9999, map[string]any{"username": "ghost"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	require.NoError(t, users.Delete(ctx, alice.ID))
	assert.True(t, apperror.Is(users.Delete(ctx, alice.ID), apperror.KindNotFound))

	var remaining int64
	require.NoError(t, db.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
	require.NoError(t, db.Model(&models.Instruction{}).Where("recipe_id = ?", recipe.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestUserStoreListRecipesOf(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	users := NewUserStore(db)

	alice := testhelpers.CreateUser(t, db, "alice", models.RoleUser)
	bob := testhelpers.CreateUser(t, db, "bob", models.RoleUser)
	testhelpers.CreateRecipe(t, db, alice, "Soup", "Boil water", "Add salt")
	testhelpers.CreateRecipe(t, db, bob, "Salad", "Wash leaves")

	recipes, err := users.ListRecipesOf(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Soup", recipes[0].Title)
	require.Len(t, recipes[0].Instructions, 2)
	assert.Equal(t, 1, recipes[0].Instructions[0].StepNumber)
	assert.Equal(t, 2, recipes[0].Instructions[1].StepNumber)
}

func TestRecipeStoreCreateIsAtomic(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	recipes := NewRecipeStore(db)
	ctx := context.Background()

	owner := testhelpers.CreateUser(t, db, "alice", models.RoleUser)
	salt := testhelpers.CreateIngredient(t, db, "Salt", "tsp")

	recipe := &models.Recipe{
		Title:    "Pasta",
		Servings: 2,
		UserID:   owner.ID,
		Instructions: []models.Instruction{
			{StepNumber: 2, Description: "Drain the pasta"},
			{StepNumber: 1, Description: "Boil the water"},
		},
		Ingredients: []models.RecipeIngredient{{IngredientID: salt.ID, Quantity: 1.5}},
	}
	require.NoError(t, recipes.Create(ctx, recipe))
	require.Len(t, recipe.Instructions, 2)
	assert.Equal(t, 1, recipe.Instructions[0].StepNumber)
	require.Len(t, recipe.Ingredients, 1)
	require.NotNil(t, recipe.Ingredients[0].Ingredient)
	assert.Equal(t, "Salt", recipe.Ingredients[0].Ingredient.Name)

	dup := &models.Recipe{
		Title:    "Broken",
		Servings: 1,
		UserID:   owner.ID,
		Instructions: []models.Instruction{
			{StepNumber: 1, Description: "First step"},
			{StepNumber: 1, Description: "Also first"},
		},
	}
	err := recipes.Create(ctx, dup)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	missing := &models.Recipe{
		Title:       "Ghost",
		Servings:    1,
		UserID:      owner.ID,
		Ingredients: []models.RecipeIngredient{{IngredientID: 4242, Quantity: 1}},
	}
	err = recipes.Create(ctx, missing)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "failed aggregates must not leave a recipe row")
}

func TestRecipeStoreCreateForMissingOwner(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	recipes := NewRecipeStore(db)

	err := recipes.Create(context.Background(), &models.Recipe{Title: "Orphan", Servings: 1, UserID: 9999})
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindNotFound, appErr.Kind)
	assert.Equal(t, "User not found", appErr.Message)
}

func TestRecipeStoreUpdateReplacesLinks(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	recipes := NewRecipeStore(db)
	ctx := context.Background()

	owner := testhelpers.CreateUser(t, db, "alice", models.RoleUser)
	salt := testhelpers.CreateIngredient(t, db, "Salt", "tsp")
	pepper := testhelpers.CreateIngredient(t, db, "Pepper", "tsp")
	recipe := testhelpers.CreateRecipe(t, db, owner, "Eggs")

	updated, err := recipes.Update(ctx, recipe.ID, map[string]any{"servings": 4},
		[]models.RecipeIngredient{{IngredientID: salt.ID, Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Servings)
	require.Len(t, updated.Ingredients, 1)

	updated, err = recipes.Update(ctx, recipe.ID, nil,
		[]models.RecipeIngredient{{IngredientID: pepper.ID, Quantity: 2}})
	require.NoError(t, err)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, pepper.ID, updated.Ingredients[0].IngredientID)

	updated, err = recipes.Update(ctx, recipe.ID, map[string]any{"title": "Scrambled eggs"}, nil)
	require.NoError(t, err)
	assert.Len(t, updated.Ingredients, 1, "nil links keep existing links")

	_, err = recipes.Update(ctx, 9999, map[string]any{"title": "Nope"}, nil)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestRecipeStoreDeleteCascades(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	recipes := NewRecipeStore(db)
	instructions := NewInstructionStore(db)
	ctx := context.Background()

	owner := testhelpers.CreateUser(t, db, "alice", models.RoleUser)
	salt := testhelpers.CreateIngredient(t, db, "Salt", "tsp")
	recipe := &models.Recipe{
		Title:        "Brine",
		Servings:     1,
		UserID:       owner.ID,
		Instructions: []models.Instruction{{StepNumber: 1, Description: "Dissolve salt"}},
		Ingredients:  []models.RecipeIngredient{{IngredientID: salt.ID, Quantity: 3}},
	}
	require.NoError(t, recipes.Create(ctx, recipe))
	insID := recipe.Instructions[0].ID

	require.NoError(t, recipes.Delete(ctx, recipe.ID))

	_, err := instructions.FindByID(ctx, insID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	var links int64
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&links).Error)
	assert.Zero(t, links)

	assert.True(t, apperror.Is(recipes.Delete(ctx, recipe.ID), apperror.KindNotFound))
}

func TestRecipeStoreList(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	recipes := NewRecipeStore(db)

	owner := testhelpers.CreateUser(t, db, "alice", models.RoleUser)
	testhelpers.CreateRecipe(t, db, owner, "Tomato Soup")
	testhelpers.CreateRecipe(t, db, owner, "Green Salad")
	testhelpers.CreateRecipe(t, db, owner, "Onion Soup")

	list, total, err := recipes.List(context.Background(), RecipeFilter{Title: "soup"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	list, total, err = recipes.List(context.Background(), RecipeFilter{Page: Page{Limit: 1, Offset: 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, list, 1)
}

func TestInstructionStoreStepUniqueness(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	instructions := NewInstructionStore(db)
	ctx := context.Background()

	owner := testhelpers.CreateUser(t, db, "alice", models.RoleUser)
	recipe := testhelpers.CreateRecipe(t, db, owner, "Tea", "Boil water")

	found, err := instructions.FindByRecipeAndStep(ctx, recipe.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Boil water", found.Description)

	// the index rejects the duplicate even without a pre-check
	err = instructions.Create(ctx, &models.Instruction{RecipeID: recipe.ID, StepNumber: 1, Description: "Steep leaves"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	second := &models.Instruction{RecipeID: recipe.ID, StepNumber: 2, Description: "Steep leaves"}
	require.NoError(t, instructions.Create(ctx, second))

	_, err = instructions.Update(ctx, second.ID, map[string]any{"step_number": 1})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	err = instructions.Create(ctx, &models.Instruction{RecipeID: 9999, StepNumber: 1, Description: "Orphan step"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	list, err := instructions.ListByRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []int{1, 2}, []int{list[0].StepNumber, list[1].StepNumber})

	require.NoError(t, instructions.Delete(ctx, second.ID))
	assert.True(t, apperror.Is(instructions.Delete(ctx, second.ID), apperror.KindNotFound))
}

func TestIngredientStoreUniqueness(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ingredients := NewIngredientStore(db)
	ctx := context.Background()

	salt := &models.Ingredient{Name: "Salt", Unit: "tsp"}
	require.NoError(t, ingredients.Create(ctx, salt))

	err := ingredients.Create(ctx, &models.Ingredient{Name: "Salt", Unit: "g"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.NoError(t, ingredients.Create(ctx, &models.Ingredient{Name: "salt", Unit: "g"}))

	updated, err := ingredients.Update(ctx, salt.ID, map[string]any{"unit": "g"})
	require.NoError(t, err)
	assert.Equal(t, "g", updated.Unit)

	byName, err := ingredients.FindByName(ctx, "Salt")
	require.NoError(t, err)
	assert.Equal(t, salt.ID, byName.ID)

	owner := testhelpers.CreateUser(t, db, "alice", models.RoleUser)
	recipe := testhelpers.CreateRecipe(t, db, owner, "Brine")
	require.NoError(t, db.Create(&models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: salt.ID, Quantity: 1}).Error)

	require.NoError(t, ingredients.Delete(ctx, salt.ID))
	_, err = ingredients.FindByID(ctx, salt.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	var links int64
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Where("ingredient_id = ?", salt.ID).Count(&links).Error)
	assert.Zero(t, links)
}

func TestIngredientStoreReadDuringUpdate(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ingredients := NewIngredientStore(db)
	ctx := context.Background()

	salt := &models.Ingredient{Name: "Salt", Unit: "tsp"}
	require.NoError(t, ingredients.Create(ctx, salt))

	// A concurrent reader observes the row after the update starts but before
	// it commits.
	var midRead *models.Ingredient
	const callback = "test:read_during_update"
	require.NoError(t, db.Callback().Update().Before("gorm:begin_transaction").Register(callback, func(*gorm.DB) {
		if midRead != nil {
			return
		}
		found, err := ingredients.FindByID(ctx, salt.ID)
		require.NoError(t, err)
		midRead = found
	}))
	t.Cleanup(func() { _ = db.Callback().Update().Remove(callback) })

	updated, err := ingredients.Update(ctx, salt.ID, map[string]any{"name": "Sea Salt"})
	require.NoError(t, err)
	require.NotNil(t, midRead)
	assert.Equal(t, "Salt", midRead.Name)
	assert.Equal(t, "Sea Salt", updated.Name)

	found, err := ingredients.FindByID(ctx, salt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sea Salt", found.Name)
}

func TestIngredientStoresShareDatabaseState(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	writer := NewIngredientStore(db)
	reader := NewIngredientStore(db)
	ctx := context.Background()

	salt := &models.Ingredient{Name: "Salt", Unit: "tsp"}
	require.NoError(t, writer.Create(ctx, salt))

	before, err := reader.FindByID(ctx, salt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Salt", before.Name)

	_, err = writer.Update(ctx, salt.ID, map[string]any{"name": "Sea Salt"})
	require.NoError(t, err)
	renamed, err := reader.FindByID(ctx, salt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sea Salt", renamed.Name)

	require.NoError(t, writer.Delete(ctx, salt.ID))
	_, err = reader.FindByID(ctx, salt.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestPostgresUniqueRaceHasOneWinner(t *testing.T) {
	db := testhelpers.SetupPostgres(t)
	users := NewUserStore(db)
	ctx := context.Background()

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := users.Create(ctx, &models.User{
				Username:     "racer" + string(rune('a'+i)),
				Email:        "same@example.com",
				PasswordHash: "x",
				Role:         models.RoleUser,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case apperror.Is(err, apperror.KindConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, writers-1, conflicts)
}
