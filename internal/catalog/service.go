package catalog

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/casevault/backend/internal/domain"
	"github.com/casevault/backend/internal/logger"
	"github.com/casevault/backend/internal/repository"
)

// Service provides case catalog operations
type Service interface {
	GetCase(ctx context.Context, caseID string) (*domain.Case, error)
	ListCases(ctx context.Context) ([]domain.Case, error)
	PublishCase(ctx context.Context, c *domain.Case) error
	// PublishFile validates and publishes every case in a catalog file.
	PublishFile(ctx context.Context, path string) (int, error)
}

type service struct {
	repo  repository.Catalog
	cache *lru.Cache[string, *domain.Case]
}

// NewService creates a new catalog service
func NewService(repo repository.Catalog) Service {
	// Case definitions are small and read on every draw. The cache is
	// invalidated on publish, never by TTL.
	cache, _ := lru.New[string, *domain.Case](cacheSize)
	return &service{
		repo:  repo,
		cache: cache,
	}
}

func (s *service) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	if c, ok := s.cache.Get(caseID); ok {
		return c, nil
	}

	c, err := s.repo.GetCase(ctx, caseID)
	if err != nil {
		if errors.Is(err, domain.ErrCaseNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", domain.ErrMsgCatalogLoad, err)
	}

	s.cache.Add(caseID, c)
	return c, nil
}

func (s *service) ListCases(ctx context.Context) ([]domain.Case, error) {
	cases, err := s.repo.ListCases(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", domain.ErrMsgCatalogLoad, err)
	}
	return cases, nil
}

func (s *service) PublishCase(ctx context.Context, c *domain.Case) error {
	if err := Validate(c); err != nil {
		return err
	}
	if err := s.repo.UpsertCase(ctx, c); err != nil {
		return fmt.Errorf("failed to publish case %s: %w", c.ID, err)
	}
	s.cache.Remove(c.ID)
	return nil
}

func (s *service) PublishFile(ctx context.Context, path string) (int, error) {
	log := logger.FromContext(ctx)

	cases, err := LoadFile(path)
	if err != nil {
		return 0, err
	}

	for i := range cases {
		if err := s.PublishCase(ctx, &cases[i]); err != nil {
			return 0, err
		}
	}

	log.Info("Catalog published", "path", path, "cases", len(cases))
	return len(cases), nil
}
