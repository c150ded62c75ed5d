package types

import "github.com/pageza/recipe-catalog/backend/internal/models"

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest carries optional profile changes. Role is honoured for admins only.
type UpdateUserRequest struct {
	Username *string      `json:"username" binding:"omitempty,min=3,max=50"`
	Email    *string      `json:"email" binding:"omitempty,email"`
	Password *string      `json:"password" binding:"omitempty,min=6"`
	Role     *models.Role `json:"role" binding:"omitempty,oneof=ADMIN USER"`
}

type RecipeIngredientInput struct {
	IngredientID uint    `json:"ingredient_id" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"min=0"`
	Notes        *string `json:"notes" binding:"omitempty,max=255"`
}

type InstructionInput struct {
	StepNumber  int    `json:"step_number" binding:"required,min=1"`
	Description string `json:"description" binding:"required,min=5,max=1000"`
}

// CreateRecipeRequest has no owner field; the owner is always the caller.
type CreateRecipeRequest struct {
	Title        string                  `json:"title" binding:"required,min=3,max=100"`
	Description  string                  `json:"description" binding:"max=500"`
	PrepTime     int                     `json:"prep_time" binding:"min=0"`
	CookTime     int                     `json:"cook_time" binding:"min=0"`
	Servings     int                     `json:"servings" binding:"required,min=1"`
	Ingredients  []RecipeIngredientInput `json:"ingredients" binding:"omitempty,dive"`
	Instructions []InstructionInput      `json:"instructions" binding:"omitempty,dive"`
}

// UpdateRecipeRequest patches scalar fields. A non-nil Ingredients (including an
// empty list) replaces every ingredient link of the recipe.
type UpdateRecipeRequest struct {
	Title       *string                 `json:"title" binding:"omitempty,min=3,max=100"`
	Description *string                 `json:"description" binding:"omitempty,max=500"`
	PrepTime    *int                    `json:"prep_time" binding:"omitempty,min=0"`
	CookTime    *int                    `json:"cook_time" binding:"omitempty,min=0"`
	Servings    *int                    `json:"servings" binding:"omitempty,min=1"`
	Ingredients []RecipeIngredientInput `json:"ingredients" binding:"omitempty,dive"`
}

type UpdateInstructionRequest struct {
	StepNumber  *int    `json:"step_number" binding:"omitempty,min=1"`
	Description *string `json:"description" binding:"omitempty,min=5,max=1000"`
}

type CreateIngredientRequest struct {
	Name string `json:"name" binding:"required,min=3,max=100"`
	Unit string `json:"unit" binding:"required,max=50"`
}

type UpdateIngredientRequest struct {
	Name *string `json:"name" binding:"omitempty,min=3,max=100"`
	Unit *string `json:"unit" binding:"omitempty,min=1,max=50"`
}

// ListRecipesQuery is bound from the query string of the public recipe list.
type ListRecipesQuery struct {
	Page  int    `form:"page" binding:"omitempty,min=1"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Query string `form:"q" binding:"omitempty,max=100"`
}

// PageQuery is bound from the query string of paginated admin lists.
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}
