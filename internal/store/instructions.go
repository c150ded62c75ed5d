package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/apperror"
	"github.com/pageza/recipe-catalog/backend/internal/models"
)

const msgInstructionNotFound = "Instruction not found"

type InstructionStore struct {
	db *gorm.DB
}

func NewInstructionStore(db *gorm.DB) *InstructionStore {
	return &InstructionStore{db: db}
}

func (s *InstructionStore) FindByID(ctx context.Context, id uint) (*models.Instruction, error) {
	var ins models.Instruction
	if err := s.db.WithContext(ctx).First(&ins, id).Error; err != nil {
		return nil, translate(err, "find instruction", msgInstructionNotFound, msgDuplicateStep)
	}
	return &ins, nil
}

// FindByRecipeAndStep is the step-number existence probe.
func (s *InstructionStore) FindByRecipeAndStep(ctx context.Context, recipeID uint, step int) (*models.Instruction, error) {
	var ins models.Instruction
	err := s.db.WithContext(ctx).
		Where("recipe_id = ? AND step_number = ?", recipeID, step).
		First(&ins).Error
	if err != nil {
		return nil, translate(err, "find instruction by step", msgInstructionNotFound, msgDuplicateStep)
	}
	return &ins, nil
}

// ListByRecipe returns the recipe's instructions ordered by step number.
func (s *InstructionStore) ListByRecipe(ctx context.Context, recipeID uint) ([]models.Instruction, error) {
	var list []models.Instruction
	err := s.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("step_number ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list instructions of recipe %d: %w", recipeID, err)
	}
	return list, nil
}

// Create inserts ins under its recipe. A parent removed concurrently surfaces
// as NotFound through the foreign key.
func (s *InstructionStore) Create(ctx context.Context, ins *models.Instruction) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var parents int64
		if err := tx.Model(&models.Recipe{}).Where("id = ?", ins.RecipeID).Count(&parents).Error; err != nil {
			return fmt.Errorf("check recipe: %w", err)
		}
		if parents == 0 {
			return apperror.NotFound(msgRecipeNotFound)
		}
		if err := tx.Create(ins).Error; err != nil {
			return translate(err, "create instruction", msgRecipeNotFound, msgDuplicateStep)
		}
		return nil
	})
}

func (s *InstructionStore) Update(ctx context.Context, id uint, changes map[string]any) (*models.Instruction, error) {
	if len(changes) > 0 {
		res := s.db.WithContext(ctx).Model(&models.Instruction{ID: id}).Updates(changes)
		if res.Error != nil {
			return nil, translate(res.Error, "update instruction", msgInstructionNotFound, msgDuplicateStep)
		}
		if res.RowsAffected == 0 {
			return nil, apperror.NotFound(msgInstructionNotFound)
		}
	}
	return s.FindByID(ctx, id)
}

func (s *InstructionStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Instruction{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete instruction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(msgInstructionNotFound)
	}
	return nil
}
