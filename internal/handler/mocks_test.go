package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/casevault/backend/internal/battle"
	"github.com/casevault/backend/internal/domain"
	"github.com/casevault/backend/internal/draw"
)

// MockDrawService is a mock implementation of draw.Service
type MockDrawService struct {
	mock.Mock
}

var _ draw.Service = (*MockDrawService)(nil)

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

func (m *MockDrawService) ListByBattle(ctx context.Context, battleID uuid.UUID) ([]domain.Draw, error) {
	args := m.Called(ctx, battleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Draw), args.Error(1)
}

func (m *MockDrawService) RecoverStalled(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}

// MockBattleService is a mock implementation of battle.Service
type MockBattleService struct {
	mock.Mock
}

var _ battle.Service = (*MockBattleService)(nil)

func (m *MockBattleService) Create(ctx context.Context, caseID, creatorID string, maxPlayers int) (*domain.Battle, error) {
	args := m.Called(ctx, caseID, creatorID, maxPlayers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Battle), args.Error(1)
}

func (m *MockBattleService) Join(ctx context.Context, battleID uuid.UUID, actorID string) (*domain.Battle, error) {
	args := m.Called(ctx, battleID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Battle), args.Error(1)
}

func (m *MockBattleService) GetBattle(ctx context.Context, battleID uuid.UUID) (*domain.Battle, error) {
	args := m.Called(ctx, battleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Battle), args.Error(1)
}

func (m *MockBattleService) Execute(ctx context.Context, battleID uuid.UUID) (*domain.BattleResult, error) {
	args := m.Called(ctx, battleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BattleResult), args.Error(1)
}

func (m *MockBattleService) SweepExpired(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}

func (m *MockBattleService) RecoverStalled(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
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
