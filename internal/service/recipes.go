package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pageza/recipe-catalog/backend/internal/access"
	"github.com/pageza/recipe-catalog/backend/internal/apperror"
	"github.com/pageza/recipe-catalog/backend/internal/logging"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/store"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	msgDuplicateStepInRecipe       = "Duplicate step number in recipe instructions"
	msgDuplicateIngredientInRecipe = "Duplicate ingredient in recipe"
	msgStepExists                  = "Step number already exists for this recipe"
)

// RecipeService manages the recipe aggregate: the recipe, its ordered
// instructions and its ingredient links.
type RecipeService struct {
	recipes      RecipeRepository
	instructions InstructionRepository
}

func NewRecipeService(recipes RecipeRepository, instructions InstructionRepository) *RecipeService {
	return &RecipeService{recipes: recipes, instructions: instructions}
}

// ListRecipes is public.
func (s *RecipeService) ListRecipes(ctx context.Context, caller *types.Identity, q types.ListRecipesQuery) (*types.RecipePage, error) {
	if err := access.Authorize(caller, access.Request{Operation: access.Read, Resource: access.Recipe}); err != nil {
		return nil, err
	}
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	recipes, total, err := s.recipes.List(ctx, store.RecipeFilter{
		Page:  store.Page{Offset: (page - 1) * limit, Limit: limit},
		Title: strings.TrimSpace(q.Query),
	})
	if err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	return &types.RecipePage{Recipes: recipes, Total: total, Page: page, Limit: limit}, nil
}

func (s *RecipeService) GetRecipe(ctx context.Context, caller *types.Identity, id uint) (*models.Recipe, error) {
	if err := access.Authorize(caller, access.Request{Operation: access.Read, Resource: access.Recipe}); err != nil {
		return nil, err
	}
	return s.recipes.FindByID(ctx, id)
}

// CreateRecipe stores the recipe, its instructions and ingredient links as one
// unit owned by the caller.
func (s *RecipeService) CreateRecipe(ctx context.Context, caller *types.Identity, req types.CreateRecipeRequest) (*models.Recipe, error) {
	if err := access.Authorize(caller, access.Request{Operation: access.Create, Resource: access.Recipe}); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if err := validateRecipeFields(title, req.PrepTime, req.CookTime, req.Servings); err != nil {
		return nil, err
	}

	steps := make(map[int]struct{}, len(req.Instructions))
	instructions := make([]models.Instruction, 0, len(req.Instructions))
	for _, in := range req.Instructions {
		if in.StepNumber < 1 {
			return nil, apperror.InvalidInput("invalid instruction", apperror.FieldError{Field: "step_number", Message: "must be at least 1"})
		}
		if _, dup := steps[in.StepNumber]; dup {
			return nil, apperror.Conflict(msgDuplicateStepInRecipe)
		}
		steps[in.StepNumber] = struct{}{}
		instructions = append(instructions, models.Instruction{
			StepNumber:  in.StepNumber,
			Description: strings.TrimSpace(in.Description),
		})
	}

	links, err := buildLinks(req.Ingredients)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		Title:        title,
		Description:  strings.TrimSpace(req.Description),
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		Servings:     req.Servings,
		UserID:       caller.UserID,
		Instructions: instructions,
		Ingredients:  links,
	}
	if err := s.recipes.Create(ctx, recipe); err != nil {
		return nil, err
	}
	logging.Info(ctx, "recipe created", "recipe_id", recipe.ID, "user_id", caller.UserID)
	return recipe, nil
}

// UpdateRecipe patches scalar fields. A non-nil Ingredients list replaces the
// recipe's links.
func (s *RecipeService) UpdateRecipe(ctx context.Context, caller *types.Identity, id uint, req types.UpdateRecipeRequest) (*models.Recipe, error) {
	current, err := s.authorizeRecipe(ctx, caller, access.Update, id)
	if err != nil {
		return nil, err
	}

	var fields []apperror.FieldError
	changes := map[string]any{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			fields = append(fields, apperror.FieldError{Field: "title", Message: "is required"})
		}
		changes["title"] = title
	}
	if req.Description != nil {
		changes["description"] = strings.TrimSpace(*req.Description)
	}
	if req.PrepTime != nil {
		if *req.PrepTime < 0 {
			fields = append(fields, apperror.FieldError{Field: "prep_time", Message: "must not be negative"})
		}
		changes["prep_time"] = *req.PrepTime
	}
	if req.CookTime != nil {
		if *req.CookTime < 0 {
			fields = append(fields, apperror.FieldError{Field: "cook_time", Message: "must not be negative"})
		}
		changes["cook_time"] = *req.CookTime
	}
	if req.Servings != nil {
		if *req.Servings < 1 {
			fields = append(fields, apperror.FieldError{Field: "servings", Message: "must be at least 1"})
		}
		changes["servings"] = *req.Servings
	}
	if len(fields) > 0 {
		return nil, apperror.InvalidInput("invalid recipe", fields...)
	}

	var links []models.RecipeIngredient
	if req.Ingredients != nil {
		if links, err = buildLinks(req.Ingredients); err != nil {
			return nil, err
		}
		if links == nil {
			links = []models.RecipeIngredient{}
		}
	}
	return s.recipes.Update(ctx, current.ID, changes, links)
}

// DeleteRecipe removes the recipe with its instructions and links.
func (s *RecipeService) DeleteRecipe(ctx context.Context, caller *types.Identity, id uint) error {
	if _, err := s.authorizeRecipe(ctx, caller, access.Delete, id); err != nil {
		return err
	}
	if err := s.recipes.Delete(ctx, id); err != nil {
		return err
	}
	logging.Info(ctx, "recipe deleted", "recipe_id", id, "by", caller.UserID)
	return nil
}

// authorizeRecipe resolves the recipe's owner and asks the access engine
// whether caller may perform op on it. Anonymous callers are rejected before
// the lookup; a missing recipe is NotFound before any ownership verdict.
func (s *RecipeService) authorizeRecipe(ctx context.Context, caller *types.Identity, op access.Operation, id uint) (*models.Recipe, error) {
	if err := access.Authorize(caller, access.Request{Operation: op, Resource: access.Recipe}); err != nil {
		return nil, err
	}
	recipe, err := s.recipes.FindOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	err = access.Authorize(caller, access.Request{
		Operation: op,
		Resource:  access.Recipe,
		OwnerID:   access.Owned(recipe.UserID),
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

func validateRecipeFields(title string, prep, cook, servings int) error {
	var fields []apperror.FieldError
	if title == "" {
		fields = append(fields, apperror.FieldError{Field: "title", Message: "is required"})
	}
	if prep < 0 {
		fields = append(fields, apperror.FieldError{Field: "prep_time", Message: "must not be negative"})
	}
	if cook < 0 {
		fields = append(fields, apperror.FieldError{Field: "cook_time", Message: "must not be negative"})
	}
	if servings < 1 {
		fields = append(fields, apperror.FieldError{Field: "servings", Message: "must be at least 1"})
	}
	if len(fields) > 0 {
		return apperror.InvalidInput("invalid recipe", fields...)
	}
	return nil
}

func buildLinks(inputs []types.RecipeIngredientInput) ([]models.RecipeIngredient, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	seen := make(map[uint]struct{}, len(inputs))
	links := make([]models.RecipeIngredient, 0, len(inputs))
	for i, in := range inputs {
		if in.IngredientID == 0 {
			return nil, apperror.InvalidInput("invalid ingredient link",
				apperror.FieldError{Field: fmt.Sprintf("ingredients[%d].ingredient_id", i), Message: "is required"})
		}
		if in.Quantity < 0 {
			return nil, apperror.InvalidInput("invalid ingredient link",
				apperror.FieldError{Field: fmt.Sprintf("ingredients[%d].quantity", i), Message: "must not be negative"})
		}
		if _, dup := seen[in.IngredientID]; dup {
			return nil, apperror.Conflict(msgDuplicateIngredientInRecipe)
		}
		seen[in.IngredientID] = struct{}{}
		links = append(links, models.RecipeIngredient{
			IngredientID: in.IngredientID,
			Quantity:     in.Quantity,
			Notes:        in.Notes,
		})
	}
	return links, nil
}
