package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

// MockRecipeService is a mock implementation of the recipe aggregate service
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) ListRecipes(ctx context.Context, caller *types.Identity, q types.ListRecipesQuery) (*types.RecipePage, error) {
	args := m.Called(ctx, caller, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipePage), args.Error(1)
}

func (m *MockRecipeService) GetRecipe(ctx context.Context, caller *types.Identity, id uint) (*models.Recipe, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) CreateRecipe(ctx context.Context, caller *types.Identity, req types.CreateRecipeRequest) (*models.Recipe, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) UpdateRecipe(ctx context.Context, caller *types.Identity, id uint, req types.UpdateRecipeRequest) (*models.Recipe, error) {
	args := m.Called(ctx, caller, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) DeleteRecipe(ctx context.Context, caller *types.Identity, id uint) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

func (m *MockRecipeService) ListInstructions(ctx context.Context, caller *types.Identity, recipeID uint) ([]models.Instruction, error) {
	args := m.Called(ctx, caller, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Instruction), args.Error(1)
}

func (m *MockRecipeService) GetInstruction(ctx context.Context, caller *types.Identity, id uint) (*models.Instruction, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Instruction), args.Error(1)
}

func (m *MockRecipeService) AddInstruction(ctx context.Context, caller *types.Identity, recipeID uint, req types.InstructionInput) (*models.Instruction, error) {
	args := m.Called(ctx, caller, recipeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Instruction), args.Error(1)
}

func (m *MockRecipeService) UpdateInstruction(ctx context.Context, caller *types.Identity, id uint, req types.UpdateInstructionRequest) (*models.Instruction, error) {
	args := m.Called(ctx, caller, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Instruction), args.Error(1)
}

func (m *MockRecipeService) DeleteInstruction(ctx context.Context, caller *types.Identity, id uint) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}
