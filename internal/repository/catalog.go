package repository

import (
	"context"

	"github.com/casevault/backend/internal/domain"
)

// Catalog defines the interface for case definition persistence
type Catalog interface {
	GetCase(ctx context.Context, caseID string) (*domain.Case, error)
	ListCases(ctx context.Context) ([]domain.Case, error)
	UpsertCase(ctx context.Context, c *domain.Case) error
}
