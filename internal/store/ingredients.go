package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/apperror"
	"github.com/pageza/recipe-catalog/backend/internal/models"
)

const msgIngredientConflict = "Ingredient name must be unique"

// IngredientStore reads and writes the ingredient catalog. Every read goes to
// the database; nothing is held between calls.
type IngredientStore struct {
	db *gorm.DB
}

func NewIngredientStore(db *gorm.DB) *IngredientStore {
	return &IngredientStore{db: db}
}

func (s *IngredientStore) FindByID(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := s.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		return nil, translate(err, "find ingredient", msgIngredientNotFound, msgIngredientConflict)
	}
	return &ing, nil
}

// FindByName is the exact-match name existence probe.
func (s *IngredientStore) FindByName(ctx context.Context, name string) (*models.Ingredient, error) {
	var ing models.Ingredient
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&ing).Error; err != nil {
		return nil, translate(err, "find ingredient by name", msgIngredientNotFound, msgIngredientConflict)
	}
	return &ing, nil
}

func (s *IngredientStore) List(ctx context.Context, page Page) ([]models.Ingredient, error) {
	var list []models.Ingredient
	if err := page.apply(s.db.WithContext(ctx).Order("name ASC")).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return list, nil
}

func (s *IngredientStore) Create(ctx context.Context, ing *models.Ingredient) error {
	if err := s.db.WithContext(ctx).Create(ing).Error; err != nil {
		return translate(err, "create ingredient", msgIngredientNotFound, msgIngredientConflict)
	}
	return nil
}

func (s *IngredientStore) Update(ctx context.Context, id uint, changes map[string]any) (*models.Ingredient, error) {
	if len(changes) > 0 {
		res := s.db.WithContext(ctx).Model(&models.Ingredient{ID: id}).Updates(changes)
		if res.Error != nil {
			return nil, translate(res.Error, "update ingredient", msgIngredientNotFound, msgIngredientConflict)
		}
		if res.RowsAffected == 0 {
			return nil, apperror.NotFound(msgIngredientNotFound)
		}
	}
	return s.FindByID(ctx, id)
}

// Delete removes the ingredient and every recipe link that references it.
func (s *IngredientStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ingredient_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("delete ingredient links: %w", err)
		}
		res := tx.Delete(&models.Ingredient{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete ingredient: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound(msgIngredientNotFound)
		}
		return nil
	})
}
