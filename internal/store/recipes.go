package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/apperror"
	"github.com/pageza/recipe-catalog/backend/internal/models"
)

const (
	msgRecipeNotFound     = "Recipe not found"
	msgIngredientNotFound = "Ingredient not found"
	msgDuplicateStep      = "Step number already exists for this recipe"
	msgDuplicateLink      = "Ingredient is already linked to this recipe"
	msgAggregateConflict  = "Recipe contains duplicate step numbers or ingredient links"
)

// withChildren preloads instructions in step order and ingredient links.
func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Instructions", func(db *gorm.DB) *gorm.DB { return db.Order("step_number ASC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("ingredient_id ASC") }).
		Preload("Ingredients.Ingredient")
}

// RecipeFilter narrows the public recipe list.
type RecipeFilter struct {
	Page
	// Title matches recipes whose title contains the value.
	Title string
}

type RecipeStore struct {
	db *gorm.DB
}

func NewRecipeStore(db *gorm.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

// Create inserts the recipe with its instructions and ingredient links as one
// unit. Nothing is written if any child fails.
func (s *RecipeStore) Create(ctx context.Context, recipe *models.Recipe) error {
	instructions := recipe.Instructions
	links := recipe.Ingredients

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Instructions", "Ingredients").Create(recipe).Error; err != nil {
			return translate(err, "create recipe", msgUserNotFound, msgAggregateConflict)
		}
		for i := range instructions {
			instructions[i].ID = 0
			instructions[i].RecipeID = recipe.ID
		}
		if len(instructions) > 0 {
			if err := tx.Create(&instructions).Error; err != nil {
				return translate(err, "create instructions", msgRecipeNotFound, msgDuplicateStep)
			}
		}
		return insertLinks(tx, recipe.ID, links)
	})
	if err != nil {
		return err
	}
	return s.reload(ctx, recipe)
}

func (s *RecipeStore) FindByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := withChildren(s.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		return nil, translate(err, "find recipe", msgRecipeNotFound, msgAggregateConflict)
	}
	return &recipe, nil
}

// FindOwner resolves only the recipe row, enough to make an ownership decision.
func (s *RecipeStore) FindOwner(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Select("id", "user_id").First(&recipe, id).Error
	if err != nil {
		return nil, translate(err, "find recipe owner", msgRecipeNotFound, msgAggregateConflict)
	}
	return &recipe, nil
}

func (s *RecipeStore) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error) {
	base := func() *gorm.DB {
		query := s.db.WithContext(ctx).Model(&models.Recipe{})
		if filter.Title != "" {
			query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(filter.Title)+"%")
		}
		return query
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	var recipes []models.Recipe
	err := filter.apply(withChildren(base())).Order("created_at DESC, id DESC").Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, total, nil
}

// Update applies scalar changes and, when links is non-nil, replaces every
// ingredient link. Both happen in one transaction.
func (s *RecipeStore) Update(ctx context.Context, id uint, changes map[string]any, links []models.RecipeIngredient) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Recipe{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return fmt.Errorf("check recipe: %w", err)
		}
		if exists == 0 {
			return apperror.NotFound(msgRecipeNotFound)
		}
		if len(changes) > 0 {
			if err := tx.Model(&models.Recipe{ID: id}).Updates(changes).Error; err != nil {
				return translate(err, "update recipe", msgRecipeNotFound, msgAggregateConflict)
			}
		}
		if links == nil {
			return nil
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("clear recipe links: %w", err)
		}
		return insertLinks(tx, id, links)
	})
	if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}

// Delete removes links, instructions and the recipe in one transaction.
func (s *RecipeStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("delete recipe links: %w", err)
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Instruction{}).Error; err != nil {
			return fmt.Errorf("delete recipe instructions: %w", err)
		}
		res := tx.Delete(&models.Recipe{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete recipe: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound(msgRecipeNotFound)
		}
		return nil
	})
}

func (s *RecipeStore) reload(ctx context.Context, recipe *models.Recipe) error {
	fresh, err := s.FindByID(ctx, recipe.ID)
	if err != nil {
		return err
	}
	*recipe = *fresh
	return nil
}

// insertLinks checks every referenced ingredient inside tx before inserting,
// so a missing ingredient aborts the whole aggregate write.
func insertLinks(tx *gorm.DB, recipeID uint, links []models.RecipeIngredient) error {
	if len(links) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.IngredientID)
	}
	var found int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Distinct("id").Count(&found).Error; err != nil {
		return fmt.Errorf("check ingredients: %w", err)
	}
	if int(found) != countDistinct(ids) {
		return apperror.NotFound(msgIngredientNotFound)
	}

	rows := make([]models.RecipeIngredient, len(links))
	for i, l := range links {
		rows[i] = models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: l.IngredientID,
			Quantity:     l.Quantity,
			Notes:        l.Notes,
		}
	}
	if err := tx.Omit("Ingredient").Create(&rows).Error; err != nil {
		return translate(err, "create recipe links", msgIngredientNotFound, msgDuplicateLink)
	}
	return nil
}

func countDistinct(ids []uint) int {
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
