package battle

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/casevault/backend/internal/domain"
	"github.com/casevault/backend/internal/draw"
	"github.com/casevault/backend/internal/event"
)

// MockBattleRepo is a mock implementation of repository.Battle
type MockBattleRepo struct {
	mock.Mock
}

func (m *MockBattleRepo) GetBattle(ctx context.Context, battleID uuid.UUID) (*domain.Battle, error) {
	args := m.Called(ctx, battleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Battle), args.Error(1)
}

func (m *MockBattleRepo) CreateBattle(ctx context.Context, battle *domain.Battle) error {
	args := m.Called(ctx, battle)
	return args.Error(0)
}

func (m *MockBattleRepo) AddParticipant(ctx context.Context, p *domain.BattleParticipant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockBattleRepo) TransitionState(ctx context.Context, battleID uuid.UUID, from, to domain.BattleState) (bool, error) {
	args := m.Called(ctx, battleID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockBattleRepo) SetWinner(ctx context.Context, battleID uuid.UUID, winnerID string, totalPayout int64) error {
	args := m.Called(ctx, battleID, winnerID, totalPayout)
	return args.Error(0)
}

func (m *MockBattleRepo) ListExpired(ctx context.Context, cutoff time.Time) ([]domain.Battle, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Battle), args.Error(1)
}

func (m *MockBattleRepo) ListStalledResolving(ctx context.Context, cutoff time.Time) ([]domain.Battle, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Battle), args.Error(1)
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

// MockLedgerService is a mock implementation of ledger.Service
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetBalance(ctx context.Context, actorID string) (int64, error) {
	args := m.Called(ctx, actorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerService) Debit(ctx context.Context, actorID string, amount int64, reference string) error {
	args := m.Called(ctx, actorID, amount, reference)
	return args.Error(0)
}

func (m *MockLedgerService) Credit(ctx context.Context, actorID string, amount int64, reference, idempotencyKey string) error {
	args := m.Called(ctx, actorID, amount, reference, idempotencyKey)
	return args.Error(0)
}

func (m *MockLedgerService) Deposit(ctx context.Context, actorID string, amount int64, reference string) error {
	args := m.Called(ctx, actorID, amount, reference)
	return args.Error(0)
}

func (m *MockLedgerService) History(ctx context.Context, actorID string, limit int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, actorID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

// MockDrawService is a mock implementation of draw.Service
type MockDrawService struct {
	mock.Mock
}

func (m *MockDrawService) Open(ctx context.Context, caseID, actorID, clientSeed string) (*domain.DrawResult, error) {
	args := m.Called(ctx, caseID, actorID, clientSeed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DrawResult), args.Error(1)
}

func (m *MockDrawService) OpenPrepaid(ctx context.Context, caseID, actorID, clientSeed string, battleID uuid.UUID) (*domain.DrawResult, error) {
	args := m.Called(ctx, caseID, actorID, clientSeed, battleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DrawResult), args.Error(1)
}

func (m *MockDrawService) GetDraw(ctx context.Context, drawID uuid.UUID) (*domain.Draw, error) {
	args := m.Called(ctx, drawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draw), args.Error(1)
}

func (m *MockDrawService) History(ctx context.Context, actorID string, limit int) ([]domain.Draw, error) {
	args := m.Called(ctx, actorID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Draw), args.Error(1)
}

func (m *MockDrawService) ListByBattle(ctx context.Context, battleID uuid.UUID) ([]domain.Draw, error) {
	args := m.Called(ctx, battleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Draw), args.Error(1)
}

func (m *MockDrawService) GetCommitment(ctx context.Context, drawID uuid.UUID) (*domain.VerificationRecord, error) {
	args := m.Called(ctx, drawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationRecord), args.Error(1)
}

func (m *MockDrawService) GetRevealedSeed(ctx context.Context, drawID uuid.UUID) (*domain.VerificationRecord, error) {
	args := m.Called(ctx, drawID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationRecord), args.Error(1)
}

func (m *MockDrawService) Verify(ctx context.Context, caseID string, rec domain.VerificationRecord) (*draw.VerifyResult, error) {
	args := m.Called(ctx, caseID, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*draw.VerifyResult), args.Error(1)
}

func (m *MockDrawService) RecoverStalled(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}

// MockBroadcaster records fire-and-forget publishes.
type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) PublishWithRetry(ctx context.Context, e event.Event) {
	m.Called(ctx, e)
}
