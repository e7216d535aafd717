package catalog

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/casevault/backend/internal/domain"
)

// MockCatalogRepo is a mock implementation of repository.Catalog
type MockCatalogRepo struct {
	mock.Mock
}

func (m *MockCatalogRepo) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}

func (m *MockCatalogRepo) ListCases(ctx context.Context) ([]domain.Case, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Case), args.Error(1)
}

func (m *MockCatalogRepo) UpsertCase(ctx context.Context, c *domain.Case) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
