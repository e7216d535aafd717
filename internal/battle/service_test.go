package battle

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/casevault/backend/internal/concurrency"
	"github.com/casevault/backend/internal/domain"
)

const joinWindow = time.Minute

type fixture struct {
	repo   *MockBattleRepo
	cat    *MockCatalogService
	ledger *MockLedgerService
	draws  *MockDrawService
	pub    *MockBroadcaster
	svc    *service
}

func newFixture() *fixture {
	f := &fixture{
		repo:   new(MockBattleRepo),
		cat:    new(MockCatalogService),
		ledger: new(MockLedgerService),
		draws:  new(MockDrawService),
		pub:    new(MockBroadcaster),
	}
	f.svc = NewService(f.repo, f.cat, f.ledger, f.draws, f.pub, concurrency.NewLockManager(), joinWindow).(*service)
	return f
}

func testCase() *domain.Case {
	return &domain.Case{
		ID:    "battle-crate",
		Name:  "Battle Crate",
		Price: 1000,
		Entries: []domain.OddsEntry{
			{ID: "junk", Weight: 0.9, PayoutMultiplier: 0.1, Rarity: domain.RarityCommon},
			{ID: "jackpot", Weight: 0.1, PayoutMultiplier: 5, Rarity: domain.RarityRare},
		},
	}
}

func joiningBattle(id uuid.UUID, maxPlayers int, actors ...string) *domain.Battle {
	b := &domain.Battle{
		ID:           id,
		CaseID:       "battle-crate",
		CreatorID:    "creator",
		State:        domain.BattleStateJoining,
		MaxPlayers:   maxPlayers,
		JoinDeadline: time.Now().Add(joinWindow),
		CreatedAt:    time.Now(),
	}
	for _, a := range actors {
		b.Participants = append(b.Participants, domain.BattleParticipant{
			BattleID: id, ActorID: a, JoinedAt: time.Now(),
		})
	}
	return b
}

func TestCreate_ValidatesMaxPlayers(t *testing.T) {
	f := newFixture()

	for _, n := range []int{0, 1, MaxPlayers + 1} {
		_, err := f.svc.Create(context.Background(), "battle-crate", "creator", n)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestCreate_DebitsCreatorBuyIn(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := testCase()

	f.cat.On("GetCase", ctx, c.ID).Return(c, nil)

	var battleID uuid.UUID
	f.repo.On("CreateBattle", ctx, mock.MatchedBy(func(b *domain.Battle) bool {
		return b.State == domain.BattleStateJoining && b.MaxPlayers == 4
	})).Run(func(args mock.Arguments) {
		b := args.Get(1).(*domain.Battle)
		battleID = b.ID
		f.repo.On("GetBattle", ctx, b.ID).Return(joiningBattle(b.ID, 4), nil)
	}).Return(nil)

	f.ledger.On("Debit", ctx, "creator", c.Price, mock.MatchedBy(func(ref string) bool {
		return len(ref) > 7 && ref[:7] == "battle:"
	})).Return(nil)
	f.repo.On("AddParticipant", ctx, mock.MatchedBy(func(p *domain.BattleParticipant) bool {
		return p.ActorID == "creator"
	})).Return(nil)
	f.pub.On("PublishWithRetry", ctx, mock.Anything).Return()

	b, err := f.svc.Create(ctx, c.ID, "creator", 4)
	require.NoError(t, err)
	assert.Equal(t, battleID, b.ID)
	f.ledger.AssertExpectations(t)
	f.repo.AssertExpectations(t)
}

func TestJoin_RejectsWrongState(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := uuid.New()

	b := joiningBattle(id, 4, "creator")
	b.State = domain.BattleStateResolving
	f.repo.On("GetBattle", ctx, id).Return(b, nil)

	_, err := f.svc.Join(ctx, id, "actor-2")
	assert.ErrorIs(t, err, domain.ErrBattleNotJoinable)
}

func TestJoin_RejectsPastDeadline(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := uuid.New()

	b := joiningBattle(id, 4, "creator")
	b.JoinDeadline = time.Now().Add(-time.Second)
	f.repo.On("GetBattle", ctx, id).Return(b, nil)

	_, err := f.svc.Join(ctx, id, "actor-2")
	assert.ErrorIs(t, err, domain.ErrJoinDeadlinePassed)
}

func TestJoin_RejectsFullLobby(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := uuid.New()

	f.repo.On("GetBattle", ctx, id).Return(joiningBattle(id, 2, "creator", "actor-2"), nil)

	_, err := f.svc.Join(ctx, id, "actor-3")
	assert.ErrorIs(t, err, domain.ErrBattleFull)
}

func TestJoin_RejectsDoubleJoin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := uuid.New()

	f.repo.On("GetBattle", ctx, id).Return(joiningBattle(id, 4, "creator", "actor-2"), nil)

	_, err := f.svc.Join(ctx, id, "actor-2")
	assert.ErrorIs(t, err, domain.ErrAlreadyJoined)
}

func TestJoin_DebitFailureLeavesNoSeat(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := uuid.New()
	c := testCase()

	f.repo.On("GetBattle", ctx, id).Return(joiningBattle(id, 4, "creator"), nil)
	f.cat.On("GetCase", ctx, c.ID).Return(c, nil)
	f.ledger.On("Debit", ctx, "actor-2", c.Price, mock.Anything).Return(domain.ErrInsufficientFunds)

	_, err := f.svc.Join(ctx, id, "actor-2")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	f.repo.AssertNotCalled(t, "AddParticipant", mock.Anything, mock.Anything)
}

func TestJoin_RefundsWhenSeatFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := uuid.New()
	c := testCase()

	f.repo.On("GetBattle", ctx, id).Return(joiningBattle(id, 4, "creator"), nil)
	f.cat.On("GetCase", ctx, c.ID).Return(c, nil)
	f.ledger.On("Debit", ctx, "actor-2", c.Price, mock.Anything).Return(nil)
	f.repo.On("AddParticipant", ctx, mock.Anything).Return(assert.AnError)
	f.ledger.On("Credit", ctx, "actor-2", c.Price, mock.Anything, mock.MatchedBy(func(key string) bool {
		return len(key) > 14 && key[:14] == "battle-refund:"
	})).Return(nil)

	_, err := f.svc.Join(ctx, id, "actor-2")
	require.Error(t, err)
	f.ledger.AssertExpectations(t)
}

func TestExecute_LosesTransitionRace(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := uuid.New()

	f.repo.On("TransitionState", ctx, id, domain.BattleStateJoining, domain.BattleStateResolving).
		Return(false, nil)

	_, err := f.svc.Execute(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotInJoiningState)
}

func TestExecute_WinnerByHighestPayout(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := uuid.New()

	f.repo.On("TransitionState", ctx, id, domain.BattleStateJoining, domain.BattleStateResolving).
		Return(true, nil)
	f.repo.On("GetBattle", ctx, id).Return(joiningBattle(id, 3, "a", "b", "c"), nil)

	payouts := map[string]int64{"a": 100, "b": 5000, "c": 100}
	for actor, payout := range payouts {
		f.draws.On("OpenPrepaid", mock.Anything, "battle-crate", actor, "", id).Return(&domain.DrawResult{
			DrawID:  uuid.New(),
			CaseID:  "battle-crate",
			ActorID: actor,
			Payout:  payout,
		}, nil)
	}

	f.repo.On("SetWinner", mock.Anything, id, "b", int64(5200)).Return(nil)
	f.repo.On("TransitionState", mock.Anything, id, domain.BattleStateResolving, domain.BattleStateCompleted).
		Return(true, nil)
	f.pub.On("PublishWithRetry", mock.Anything, mock.Anything).Return()

	result, err := f.svc.Execute(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "b", result.WinnerID)
	assert.Equal(t, int64(5200), result.TotalPayout)
	assert.Len(t, result.Draws, 3)
	f.repo.AssertExpectations(t)
}

func TestExecute_TieSettledByInjectedRNG(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := uuid.New()

	// Always pick the second sorted candidate.
	f.svc.rng = func(n int) int { return 1 }

	f.repo.On("TransitionState", ctx, id, domain.BattleStateJoining, domain.BattleStateResolving).
		Return(true, nil)
	f.repo.On("GetBattle", ctx, id).Return(joiningBattle(id, 2, "zeta", "alpha"), nil)

	for _, actor := range []string{"zeta", "alpha"} {
		f.draws.On("OpenPrepaid", mock.Anything, "battle-crate", actor, "", id).Return(&domain.DrawResult{
			DrawID:  uuid.New(),
			CaseID:  "battle-crate",
			ActorID: actor,
			Payout:  300,
		}, nil)
	}

	// Sorted tie candidates are [alpha, zeta]; index 1 is zeta.
	f.repo.On("SetWinner", mock.Anything, id, "zeta", int64(600)).Return(nil)
	f.repo.On("TransitionState", mock.Anything, id, domain.BattleStateResolving, domain.BattleStateCompleted).
		Return(true, nil)
	f.pub.On("PublishWithRetry", mock.Anything, mock.Anything).Return()

	result, err := f.svc.Execute(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "zeta", result.WinnerID)
}

func TestExecute_CancelsUnderfilledBattle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := uuid.New()
	c := testCase()

	f.repo.On("TransitionState", ctx, id, domain.BattleStateJoining, domain.BattleStateResolving).
		Return(true, nil)
	f.repo.On("GetBattle", ctx, id).Return(joiningBattle(id, 4, "creator"), nil)
	f.cat.On("GetCase", ctx, c.ID).Return(c, nil)
	f.ledger.On("Credit", ctx, "creator", c.Price, mock.Anything, mock.MatchedBy(func(key string) bool {
		return len(key) > 14 && key[:14] == "battle-refund:"
	})).Return(nil)
	f.repo.On("TransitionState", ctx, id, domain.BattleStateResolving, domain.BattleStateCancelled).
		Return(true, nil)

	_, err := f.svc.Execute(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotEnoughOpponents)
	f.ledger.AssertExpectations(t)
	f.draws.AssertNotCalled(t, "OpenPrepaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_FailedDrawDoesNotCancelSiblings(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := uuid.New()
	c := testCase()

	f.repo.On("TransitionState", ctx, id, domain.BattleStateJoining, domain.BattleStateResolving).
		Return(true, nil)
	f.repo.On("GetBattle", ctx, id).Return(joiningBattle(id, 2, "alice", "bob"), nil)

	// Alice's draw dies before anything persisted.
	f.draws.On("OpenPrepaid", mock.Anything, "battle-crate", "alice", "", id).
		Return(nil, assert.AnError)

	// Bob's draw must still run to completion on a live context.
	var bobCtxErr error
	f.draws.On("OpenPrepaid", mock.Anything, "battle-crate", "bob", "", id).
		Run(func(args mock.Arguments) {
			bobCtxErr = args.Get(0).(context.Context).Err()
		}).
		Return(&domain.DrawResult{DrawID: uuid.New(), CaseID: "battle-crate", ActorID: "bob", Payout: 100}, nil)

	// Alice paid a buy-in with no draw row behind it; she gets it back.
	f.cat.On("GetCase", mock.Anything, c.ID).Return(c, nil)
	f.ledger.On("Credit", mock.Anything, "alice", c.Price, mock.Anything,
		"battle-refund:"+id.String()+":alice").Return(nil)

	_, err := f.svc.Execute(ctx, id)
	require.Error(t, err)

	assert.NoError(t, bobCtxErr)
	f.draws.AssertNumberOfCalls(t, "OpenPrepaid", 2)
	f.ledger.AssertExpectations(t)
	f.ledger.AssertNotCalled(t, "Credit", mock.Anything, "bob", mock.Anything, mock.Anything, mock.Anything)
	// The battle stays in resolving for the recovery sweep to finish.
	f.repo.AssertNotCalled(t, "SetWinner", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "TransitionState",
		mock.Anything, id, domain.BattleStateResolving, domain.BattleStateCompleted)
}

func TestExecute_PendingDrawIsNotRefunded(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := uuid.New()
	c := testCase()

	f.repo.On("TransitionState", ctx, id, domain.BattleStateJoining, domain.BattleStateResolving).
		Return(true, nil)
	f.repo.On("GetBattle", ctx, id).Return(joiningBattle(id, 2, "alice", "bob"), nil)

	// Alice's draw committed but resolution was interrupted; recovery
	// will pay the outcome, so refunding now would pay her twice.
	f.draws.On("OpenPrepaid", mock.Anything, "battle-crate", "alice", "", id).
		Return(nil, fmt.Errorf("%w: draw stuck", domain.ErrResolutionPending))
	f.draws.On("OpenPrepaid", mock.Anything, "battle-crate", "bob", "", id).
		Return(&domain.DrawResult{DrawID: uuid.New(), CaseID: "battle-crate", ActorID: "bob", Payout: 100}, nil)

	f.cat.On("GetCase", mock.Anything, c.ID).Return(c, nil)

	_, err := f.svc.Execute(ctx, id)
	require.Error(t, err)

	f.ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "SetWinner", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func resolvingBattle(id uuid.UUID, actors ...string) *domain.Battle {
	b := joiningBattle(id, len(actors), actors...)
	b.State = domain.BattleStateResolving
	b.JoinDeadline = time.Now().Add(-time.Hour)
	return b
}

func resolvedDraw(battleID uuid.UUID, actorID, entryID string, payout int64) domain.Draw {
	return domain.Draw{
		ID:       uuid.New(),
		CaseID:   "battle-crate",
		ActorID:  actorID,
		BattleID: &battleID,
		EntryID:  entryID,
		Payout:   payout,
		State:    domain.DrawStateResolved,
	}
}

func TestRecoverStalled_CompletesFromPersistedDraws(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := uuid.New()
	cutoff := time.Now()
	b := resolvingBattle(id, "alice", "bob")

	f.repo.On("ListStalledResolving", ctx, cutoff).Return([]domain.Battle{*b}, nil)
	f.repo.On("GetBattle", ctx, id).Return(b, nil)
	f.draws.On("ListByBattle", ctx, id).Return([]domain.Draw{
		resolvedDraw(id, "alice", "junk", 100),
		resolvedDraw(id, "bob", "jackpot", 5000),
	}, nil)
	f.cat.On("GetCase", ctx, "battle-crate").Return(testCase(), nil)

	f.repo.On("SetWinner", ctx, id, "bob", int64(5100)).Return(nil)
	f.repo.On("TransitionState", ctx, id, domain.BattleStateResolving, domain.BattleStateCompleted).
		Return(true, nil)
	f.pub.On("PublishWithRetry", ctx, mock.Anything).Return()

	n, err := f.svc.RecoverStalled(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	f.repo.AssertExpectations(t)
}

func TestRecoverStalled_WaitsForCommittedDraws(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := uuid.New()
	cutoff := time.Now()
	b := resolvingBattle(id, "alice", "bob")

	committed := resolvedDraw(id, "alice", "", 0)
	committed.State = domain.DrawStateCommitted

	f.repo.On("ListStalledResolving", ctx, cutoff).Return([]domain.Battle{*b}, nil)
	f.repo.On("GetBattle", ctx, id).Return(b, nil)
	f.draws.On("ListByBattle", ctx, id).Return([]domain.Draw{
		committed,
		resolvedDraw(id, "bob", "junk", 100),
	}, nil)

	n, err := f.svc.RecoverStalled(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	f.repo.AssertNotCalled(t, "SetWinner", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecoverStalled_CancelsBattleWithNoDraws(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := uuid.New()
	cutoff := time.Now()
	c := testCase()
	b := resolvingBattle(id, "alice", "bob")

	f.repo.On("ListStalledResolving", ctx, cutoff).Return([]domain.Battle{*b}, nil)
	f.repo.On("GetBattle", ctx, id).Return(b, nil)
	f.draws.On("ListByBattle", ctx, id).Return([]domain.Draw{}, nil)
	f.cat.On("GetCase", ctx, c.ID).Return(c, nil)

	// Refunds are keyed per battle and actor, so a buy-in already
	// returned by the failed execution is simply skipped here.
	f.ledger.On("Credit", ctx, "alice", c.Price, mock.Anything,
		"battle-refund:"+id.String()+":alice").Return(domain.ErrCreditAlreadyApplied)
	f.ledger.On("Credit", ctx, "bob", c.Price, mock.Anything,
		"battle-refund:"+id.String()+":bob").Return(nil)
	f.repo.On("TransitionState", ctx, id, domain.BattleStateResolving, domain.BattleStateCancelled).
		Return(true, nil)

	n, err := f.svc.RecoverStalled(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	f.ledger.AssertExpectations(t)
	f.repo.AssertExpectations(t)
}

func TestSweepExpired_HandlesEachBattle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cutoff := time.Now()

	b1 := joiningBattle(uuid.New(), 4, "creator")
	f.repo.On("ListExpired", ctx, cutoff).Return([]domain.Battle{*b1}, nil)

	// The sweep executes; this one loses the transition race and is
	// simply counted.
	f.repo.On("TransitionState", ctx, b1.ID, domain.BattleStateJoining, domain.BattleStateResolving).
		Return(false, nil)

	n, err := f.svc.SweepExpired(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
