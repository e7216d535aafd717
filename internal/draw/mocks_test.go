package draw

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/casevault/backend/internal/domain"
	"github.com/casevault/backend/internal/event"
	"github.com/casevault/backend/internal/fairness"
	"github.com/casevault/backend/internal/repository"
)

// MockDrawRepo is a mock implementation of repository.Draw
type MockDrawRepo struct {
	mock.Mock
}

func (m *MockDrawRepo) GetDraw(ctx context.Context, drawID uuid.UUID) (*domain.Draw, error) {
	args := m.Called(ctx, drawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draw), args.Error(1)
}

func (m *MockDrawRepo) ListByActor(ctx context.Context, actorID string, limit int) ([]domain.Draw, error) {
	args := m.Called(ctx, actorID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Draw), args.Error(1)
}

func (m *MockDrawRepo) ListStalled(ctx context.Context, cutoff time.Time) ([]domain.Draw, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Draw), args.Error(1)
}

func (m *MockDrawRepo) ListByBattle(ctx context.Context, battleID uuid.UUID) ([]domain.Draw, error) {
	args := m.Called(ctx, battleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Draw), args.Error(1)
}

func (m *MockDrawRepo) MarkRevealed(ctx context.Context, drawID uuid.UUID, revealedAt time.Time) error {
	args := m.Called(ctx, drawID, revealedAt)
	return args.Error(0)
}

func (m *MockDrawRepo) BeginTx(ctx context.Context) (repository.DrawTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.DrawTx), args.Error(1)
}

// MockDrawTx is a mock implementation of repository.DrawTx
type MockDrawTx struct {
	mock.Mock
}

func (m *MockDrawTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDrawTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDrawTx) CreateDraw(ctx context.Context, draw *domain.Draw) error {
	args := m.Called(ctx, draw)
	return args.Error(0)
}

func (m *MockDrawTx) CompleteDraw(ctx context.Context, drawID uuid.UUID, entryID string, randomValue float64, payout int64, resolvedAt time.Time) error {
	args := m.Called(ctx, drawID, entryID, randomValue, payout, resolvedAt)
	return args.Error(0)
}

func (m *MockDrawTx) Debit(ctx context.Context, actorID string, amount int64, reference, idempotencyKey string) error {
	args := m.Called(ctx, actorID, amount, reference, idempotencyKey)
	return args.Error(0)
}

func (m *MockDrawTx) Credit(ctx context.Context, actorID string, amount int64, reference, idempotencyKey string) error {
	args := m.Called(ctx, actorID, amount, reference, idempotencyKey)
	return args.Error(0)
}

// MockCatalogService is a mock implementation of catalog.Service
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}

func (m *MockCatalogService) ListCases(ctx context.Context) ([]domain.Case, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Case), args.Error(1)
}

func (m *MockCatalogService) PublishCase(ctx context.Context, c *domain.Case) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCatalogService) PublishFile(ctx context.Context, path string) (int, error) {
	args := m.Called(ctx, path)
	return args.Int(0), args.Error(1)
}

// stubFairness returns a fixed commit so outcomes are predictable.
type stubFairness struct {
	commit *fairness.Commit
	err    error
	nonce  int64
}

func (s *stubFairness) NewCommit(_ context.Context, _ string) (*fairness.Commit, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.commit, nil
}

func (s *stubFairness) CurrentNonce(_ context.Context, _ string) (int64, error) {
	return s.nonce, nil
}

// MockBroadcaster records fire-and-forget publishes.
type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) PublishWithRetry(ctx context.Context, e event.Event) {
	m.Called(ctx, e)
}
