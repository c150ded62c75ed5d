package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipe-catalog/backend/internal/types"
)

// MockAuthService is a mock implementation of the token verifier
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*types.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Identity), args.Error(1)
}

func (m *MockAuthService) OptionalAuthenticate(ctx context.Context, token string) *types.Identity {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*types.Identity)
}
