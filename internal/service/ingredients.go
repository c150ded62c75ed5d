package service

import (
	"context"
	"strings"

	"github.com/pageza/recipe-catalog/backend/internal/access"
	"github.com/pageza/recipe-catalog/backend/internal/apperror"
	"github.com/pageza/recipe-catalog/backend/internal/logging"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/store"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

const msgIngredientExists = "Ingredient name must be unique"

// IngredientService manages the admin-curated ingredient catalog.
type IngredientService struct {
	ingredients IngredientRepository
}

func NewIngredientService(ingredients IngredientRepository) *IngredientService {
	return &IngredientService{ingredients: ingredients}
}

func (s *IngredientService) ListIngredients(ctx context.Context, caller *types.Identity, page store.Page) ([]models.Ingredient, error) {
	if err := access.Authorize(caller, access.Request{Operation: access.Read, Resource: access.Ingredient}); err != nil {
		return nil, err
	}
	list, err := s.ingredients.List(ctx, page)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Ingredient{}
	}
	return list, nil
}

func (s *IngredientService) GetIngredient(ctx context.Context, caller *types.Identity, id uint) (*models.Ingredient, error) {
	if err := access.Authorize(caller, access.Request{Operation: access.Read, Resource: access.Ingredient}); err != nil {
		return nil, err
	}
	return s.ingredients.FindByID(ctx, id)
}

func (s *IngredientService) CreateIngredient(ctx context.Context, caller *types.Identity, req types.CreateIngredientRequest) (*models.Ingredient, error) {
	if err := s.authorizeAdmin(caller, access.Create); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	unit := strings.TrimSpace(req.Unit)
	if err := validateIngredient(name, unit); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}

	ing := &models.Ingredient{Name: name, Unit: unit}
	if err := s.ingredients.Create(ctx, ing); err != nil {
		return nil, err
	}
	logging.Info(ctx, "ingredient created", "ingredient_id", ing.ID, "name", ing.Name)
	return ing, nil
}

// UpdateIngredient renames or re-units an ingredient. The name stays unique
// across the catalog, not counting the ingredient itself.
func (s *IngredientService) UpdateIngredient(ctx context.Context, caller *types.Identity, id uint, req types.UpdateIngredientRequest) (*models.Ingredient, error) {
	if err := s.authorizeAdmin(caller, access.Update); err != nil {
		return nil, err
	}
	current, err := s.ingredients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, unit := current.Name, current.Unit
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if req.Unit != nil {
		unit = strings.TrimSpace(*req.Unit)
	}
	if err := validateIngredient(name, unit); err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if name != current.Name {
		if err := s.ensureNameFree(ctx, name, id); err != nil {
			return nil, err
		}
		changes["name"] = name
	}
	if unit != current.Unit {
		changes["unit"] = unit
	}
	return s.ingredients.Update(ctx, id, changes)
}

// DeleteIngredient removes the ingredient and every recipe link to it.
func (s *IngredientService) DeleteIngredient(ctx context.Context, caller *types.Identity, id uint) error {
	if err := s.authorizeAdmin(caller, access.Delete); err != nil {
		return err
	}
	if _, err := s.ingredients.FindByID(ctx, id); err != nil {
		return err
	}
	return s.ingredients.Delete(ctx, id)
}

func (s *IngredientService) authorizeAdmin(caller *types.Identity, op access.Operation) error {
	return access.Authorize(caller, access.Request{
		Operation:    op,
		Resource:     access.Ingredient,
		RequiredRole: access.Role(models.RoleAdmin),
	})
}

func (s *IngredientService) ensureNameFree(ctx context.Context, name string, self uint) error {
	existing, err := s.ingredients.FindByName(ctx, name)
	switch {
	case err == nil:
		if existing.ID != self {
			return apperror.Conflict(msgIngredientExists)
		}
		return nil
	case apperror.Is(err, apperror.KindNotFound):
		return nil
	default:
		return err
	}
}

func validateIngredient(name, unit string) error {
	var fields []apperror.FieldError
	if name == "" {
		fields = append(fields, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if unit == "" {
		fields = append(fields, apperror.FieldError{Field: "unit", Message: "is required"})
	}
	if len(fields) > 0 {
		return apperror.InvalidInput("invalid ingredient", fields...)
	}
	return nil
}
