package service

import (
	"context"

	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/store"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

// UserDirectory is the identity directory contract. Every finder except
// FindCredentialsByEmail returns the public projection.
type UserDirectory interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindCredentialsByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id uint, changes map[string]any) (*models.User, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, page store.Page) ([]models.User, int64, error)
	ListRecipesOf(ctx context.Context, userID uint) ([]models.Recipe, error)
}

type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	FindByID(ctx context.Context, id uint) (*models.Recipe, error)
	FindOwner(ctx context.Context, id uint) (*models.Recipe, error)
	List(ctx context.Context, filter store.RecipeFilter) ([]models.Recipe, int64, error)
	Update(ctx context.Context, id uint, changes map[string]any, links []models.RecipeIngredient) (*models.Recipe, error)
	Delete(ctx context.Context, id uint) error
}

type InstructionRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Instruction, error)
	FindByRecipeAndStep(ctx context.Context, recipeID uint, step int) (*models.Instruction, error)
	ListByRecipe(ctx context.Context, recipeID uint) ([]models.Instruction, error)
	Create(ctx context.Context, ins *models.Instruction) error
	Update(ctx context.Context, id uint, changes map[string]any) (*models.Instruction, error)
	Delete(ctx context.Context, id uint) error
}

type IngredientRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Ingredient, error)
	FindByName(ctx context.Context, name string) (*models.Ingredient, error)
	List(ctx context.Context, page store.Page) ([]models.Ingredient, error)
	Create(ctx context.Context, ing *models.Ingredient) error
	Update(ctx context.Context, id uint, changes map[string]any) (*models.Ingredient, error)
	Delete(ctx context.Context, id uint) error
}

var (
	_ UserDirectory         = (*store.UserStore)(nil)
	_ RecipeRepository      = (*store.RecipeStore)(nil)
	_ InstructionRepository = (*store.InstructionStore)(nil)
	_ IngredientRepository  = (*store.IngredientStore)(nil)
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Authenticate(ctx context.Context, token string) (*types.Identity, error)
	OptionalAuthenticate(ctx context.Context, token string) *types.Identity
	Issue(identity *types.Identity) (string, error)
	Register(ctx context.Context, req types.RegisterRequest) (*types.AuthResponse, error)
	Login(ctx context.Context, req types.LoginRequest) (*types.AuthResponse, error)
}

// IUserService defines the interface for account operations
type IUserService interface {
	GetProfile(ctx context.Context, caller *types.Identity) (*types.PublicUser, error)
	UpdateProfile(ctx context.Context, caller *types.Identity, req types.UpdateUserRequest) (*types.PublicUser, error)
	DeleteProfile(ctx context.Context, caller *types.Identity) error
	MyRecipes(ctx context.Context, caller *types.Identity) ([]models.Recipe, error)
	ListUsers(ctx context.Context, caller *types.Identity, page store.Page) ([]types.PublicUser, int64, error)
	GetUser(ctx context.Context, caller *types.Identity, id uint) (*types.PublicUser, error)
	UpdateUser(ctx context.Context, caller *types.Identity, id uint, req types.UpdateUserRequest) (*types.PublicUser, error)
	DeleteUser(ctx context.Context, caller *types.Identity, id uint) error
}

// IRecipeService defines the recipe aggregate operations
type IRecipeService interface {
	ListRecipes(ctx context.Context, caller *types.Identity, q types.ListRecipesQuery) (*types.RecipePage, error)
	GetRecipe(ctx context.Context, caller *types.Identity, id uint) (*models.Recipe, error)
	CreateRecipe(ctx context.Context, caller *types.Identity, req types.CreateRecipeRequest) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, caller *types.Identity, id uint, req types.UpdateRecipeRequest) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, caller *types.Identity, id uint) error
	ListInstructions(ctx context.Context, caller *types.Identity, recipeID uint) ([]models.Instruction, error)
	GetInstruction(ctx context.Context, caller *types.Identity, id uint) (*models.Instruction, error)
	AddInstruction(ctx context.Context, caller *types.Identity, recipeID uint, req types.InstructionInput) (*models.Instruction, error)
	UpdateInstruction(ctx context.Context, caller *types.Identity, id uint, req types.UpdateInstructionRequest) (*models.Instruction, error)
	DeleteInstruction(ctx context.Context, caller *types.Identity, id uint) error
}

// IIngredientService defines the ingredient catalog operations
type IIngredientService interface {
	ListIngredients(ctx context.Context, caller *types.Identity, page store.Page) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, caller *types.Identity, id uint) (*models.Ingredient, error)
	CreateIngredient(ctx context.Context, caller *types.Identity, req types.CreateIngredientRequest) (*models.Ingredient, error)
	UpdateIngredient(ctx context.Context, caller *types.Identity, id uint, req types.UpdateIngredientRequest) (*models.Ingredient, error)
	DeleteIngredient(ctx context.Context, caller *types.Identity, id uint) error
}

var (
	_ IAuthService       = (*AuthService)(nil)
	_ IUserService       = (*UserService)(nil)
	_ IRecipeService     = (*RecipeService)(nil)
	_ IIngredientService = (*IngredientService)(nil)
)
