package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/config"
	"github.com/pageza/recipe-catalog/backend/internal/apperror"
	"github.com/pageza/recipe-catalog/backend/internal/database"
	"github.com/pageza/recipe-catalog/backend/internal/logging"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/service"
	"github.com/pageza/recipe-catalog/backend/internal/store"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

var seedIngredients = []types.CreateIngredientRequest{
	{Name: "Chicken Breast", Unit: "oz"},
	{Name: "Salt", Unit: "tsp"},
	{Name: "Black Pepper", Unit: "tsp"},
}

const seedRecipeTitle = "Simple Baked Chicken"

type adminAccount struct {
	Username string
	Email    string
	Password string
}

func main() {
	ctx := context.Background()

	var admin adminAccount
	pflag.StringVar(&admin.Username, "admin-username", "chef_admin", "username of the seeded admin")
	pflag.StringVar(&admin.Email, "admin-email", "admin@recipeapi.com", "email of the seeded admin")
	pflag.StringVar(&admin.Password, "admin-password", "password123", "password of the seeded admin")
	pflag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Error(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg)
	if err != nil {
		logging.Error(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.RunMigrations(ctx, db); err != nil {
		logging.Error(ctx, "failed to run migrations", "error", err)
		database.Close(db)
		os.Exit(1)
	}

	recipe, err := seed(ctx, db, cfg, admin)
	if err != nil {
		logging.Error(ctx, "failed to seed catalog", "error", err)
		database.Close(db)
		os.Exit(1)
	}
	logging.Info(ctx, "seeded catalog", "admin", admin.Username, "recipe_id", recipe.ID)
}

// seed creates an admin account, a few ingredients and one recipe. Running it
// twice reuses the existing rows and returns the recipe already stored.
func seed(ctx context.Context, db *gorm.DB, cfg *config.Config, account adminAccount) (*models.Recipe, error) {
	ingredientStore := store.NewIngredientStore(db)
	users := store.NewUserStore(db)
	auth := service.NewAuthService(users, service.NewJWTCodec(cfg.JWTSecret), cfg.JWTExpiresIn, cfg.BcryptCost)
	ingredients := service.NewIngredientService(ingredientStore)
	recipes := service.NewRecipeService(store.NewRecipeStore(db), store.NewInstructionStore(db))

	admin, err := ensureAdmin(ctx, users, auth, account.Username, account.Email, account.Password)
	if err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	caller := &types.Identity{UserID: admin.ID, Email: admin.Email, Role: admin.Role}

	ids := make([]uint, 0, len(seedIngredients))
	for _, req := range seedIngredients {
		ing, err := ingredientStore.FindByName(ctx, req.Name)
		if apperror.Is(err, apperror.KindNotFound) {
			ing, err = ingredients.CreateIngredient(ctx, caller, req)
		}
		if err != nil {
			return nil, fmt.Errorf("seed ingredient %q: %w", req.Name, err)
		}
		ids = append(ids, ing.ID)
	}

	owned, err := users.ListRecipesOf(ctx, admin.ID)
	if err != nil {
		return nil, fmt.Errorf("list admin recipes: %w", err)
	}
	for i := range owned {
		if owned[i].Title == seedRecipeTitle {
			logging.Info(ctx, "seed data already present", "recipe_id", owned[i].ID)
			return &owned[i], nil
		}
	}

	recipe, err := recipes.CreateRecipe(ctx, caller, types.CreateRecipeRequest{
		Title:       seedRecipeTitle,
		Description: "Juicy oven-baked chicken breast with simple seasoning.",
		PrepTime:    10,
		CookTime:    25,
		Servings:    2,
		Ingredients: []types.RecipeIngredientInput{
			{IngredientID: ids[0], Quantity: 16},
			{IngredientID: ids[1], Quantity: 1},
			{IngredientID: ids[2], Quantity: 0.5},
		},
		Instructions: []types.InstructionInput{
			{StepNumber: 1, Description: "Preheat the oven to 400°F (200°C)."},
			{StepNumber: 2, Description: "Season the chicken breast with salt and black pepper."},
			{StepNumber: 3, Description: "Bake for 22 to 25 minutes until the internal temperature reaches 165°F."},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("seed recipe: %w", err)
	}
	return recipe, nil
}

func ensureAdmin(ctx context.Context, users *store.UserStore, auth *service.AuthService, username, email, password string) (*models.User, error) {
	existing, err := users.FindByEmail(ctx, email)
	if err == nil {
		if existing.Role != models.RoleAdmin {
			return users.Update(ctx, existing.ID, map[string]any{"role": models.RoleAdmin})
		}
		return existing, nil
	}
	if !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}

	hash, err := auth.HashSecret(password)
	if err != nil {
		return nil, err
	}
	admin := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}
