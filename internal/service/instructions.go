package service

import (
	"context"
	"strings"

	"github.com/pageza/recipe-catalog/backend/internal/access"
	"github.com/pageza/recipe-catalog/backend/internal/apperror"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

// ListInstructions returns the recipe's steps in order. It is public.
func (s *RecipeService) ListInstructions(ctx context.Context, caller *types.Identity, recipeID uint) ([]models.Instruction, error) {
	if err := access.Authorize(caller, access.Request{Operation: access.Read, Resource: access.Instruction}); err != nil {
		return nil, err
	}
	if _, err := s.recipes.FindOwner(ctx, recipeID); err != nil {
		return nil, err
	}
	list, err := s.instructions.ListByRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Instruction{}
	}
	return list, nil
}

func (s *RecipeService) GetInstruction(ctx context.Context, caller *types.Identity, id uint) (*models.Instruction, error) {
	if err := access.Authorize(caller, access.Request{Operation: access.Read, Resource: access.Instruction}); err != nil {
		return nil, err
	}
	return s.instructions.FindByID(ctx, id)
}

// AddInstruction appends a step to a recipe. Adding a step modifies the
// recipe, so it takes the recipe owner's update right.
func (s *RecipeService) AddInstruction(ctx context.Context, caller *types.Identity, recipeID uint, req types.InstructionInput) (*models.Instruction, error) {
	if _, err := s.authorizeRecipe(ctx, caller, access.Update, recipeID); err != nil {
		return nil, err
	}
	description := strings.TrimSpace(req.Description)
	if err := validateInstruction(req.StepNumber, description); err != nil {
		return nil, err
	}
	if err := s.ensureStepFree(ctx, recipeID, req.StepNumber, 0); err != nil {
		return nil, err
	}

	ins := &models.Instruction{RecipeID: recipeID, StepNumber: req.StepNumber, Description: description}
	if err := s.instructions.Create(ctx, ins); err != nil {
		return nil, err
	}
	return ins, nil
}

// UpdateInstruction changes a step. A new step number must not collide with
// another step of the same recipe.
func (s *RecipeService) UpdateInstruction(ctx context.Context, caller *types.Identity, id uint, req types.UpdateInstructionRequest) (*models.Instruction, error) {
	current, err := s.authorizeInstruction(ctx, caller, access.Update, id)
	if err != nil {
		return nil, err
	}

	step := current.StepNumber
	if req.StepNumber != nil {
		step = *req.StepNumber
	}
	description := current.Description
	if req.Description != nil {
		description = strings.TrimSpace(*req.Description)
	}
	if err := validateInstruction(step, description); err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if step != current.StepNumber {
		if err := s.ensureStepFree(ctx, current.RecipeID, step, current.ID); err != nil {
			return nil, err
		}
		changes["step_number"] = step
	}
	if description != current.Description {
		changes["description"] = description
	}
	return s.instructions.Update(ctx, current.ID, changes)
}

func (s *RecipeService) DeleteInstruction(ctx context.Context, caller *types.Identity, id uint) error {
	current, err := s.authorizeInstruction(ctx, caller, access.Delete, id)
	if err != nil {
		return err
	}
	return s.instructions.Delete(ctx, current.ID)
}

// authorizeInstruction resolves the instruction and decides against the owner
// of its parent recipe.
func (s *RecipeService) authorizeInstruction(ctx context.Context, caller *types.Identity, op access.Operation, id uint) (*models.Instruction, error) {
	if err := access.Authorize(caller, access.Request{Operation: op, Resource: access.Instruction}); err != nil {
		return nil, err
	}
	ins, err := s.instructions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	recipe, err := s.recipes.FindOwner(ctx, ins.RecipeID)
	if err != nil {
		return nil, err
	}
	err = access.Authorize(caller, access.Request{
		Operation: op,
		Resource:  access.Instruction,
		OwnerID:   access.Owned(recipe.UserID),
	})
	if err != nil {
		return nil, err
	}
	return ins, nil
}

// ensureStepFree reports Conflict when another instruction than self already
// uses step in the recipe.
func (s *RecipeService) ensureStepFree(ctx context.Context, recipeID uint, step int, self uint) error {
	existing, err := s.instructions.FindByRecipeAndStep(ctx, recipeID, step)
	switch {
	case err == nil:
		if existing.ID != self {
			return apperror.Conflict(msgStepExists)
		}
		return nil
	case apperror.Is(err, apperror.KindNotFound):
		return nil
	default:
		return err
	}
}

func validateInstruction(step int, description string) error {
	var fields []apperror.FieldError
	if step < 1 {
		fields = append(fields, apperror.FieldError{Field: "step_number", Message: "must be at least 1"})
	}
	if description == "" {
		fields = append(fields, apperror.FieldError{Field: "description", Message: "is required"})
	}
	if len(fields) > 0 {
		return apperror.InvalidInput("invalid instruction", fields...)
	}
	return nil
}
