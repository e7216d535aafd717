package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casevault/backend/internal/domain"
)

// BattleRepository implements the battle repository for PostgreSQL
type BattleRepository struct {
	db *pgxpool.Pool
}

// NewBattleRepository creates a new BattleRepository
func NewBattleRepository(db *pgxpool.Pool) *BattleRepository {
	return &BattleRepository{db: db}
}

// GetBattle retrieves a battle with its participants
func (r *BattleRepository) GetBattle(ctx context.Context, battleID uuid.UUID) (*domain.Battle, error) {
	b := &domain.Battle{}
	var state string
	err := r.db.QueryRow(ctx,
		`SELECT battle_id, case_id, creator_id, state, max_players, join_deadline, created_at
		 FROM battles WHERE battle_id = $1`,
		battleID,
	).Scan(&b.ID, &b.CaseID, &b.CreatorID, &state, &b.MaxPlayers, &b.JoinDeadline, &b.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrBattleNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetBattle, err)
	}
	b.State = domain.BattleState(state)

	rows, err := r.db.Query(ctx,
		`SELECT battle_id, actor_id, joined_at
		 FROM battle_participants WHERE battle_id = $1 ORDER BY joined_at`,
		battleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetParticipants, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.BattleParticipant
		if err := rows.Scan(&p.BattleID, &p.ActorID, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanParticipantRows, err)
		}
		b.Participants = append(b.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanParticipantRows, err)
	}
	return b, nil
}

// CreateBattle persists a new battle
func (r *BattleRepository) CreateBattle(ctx context.Context, battle *domain.Battle) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO battles (battle_id, case_id, creator_id, state, max_players, join_deadline, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		battle.ID, battle.CaseID, battle.CreatorID, string(battle.State),
		battle.MaxPlayers, battle.JoinDeadline, battle.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCreateBattle, err)
	}
	return nil
}

// AddParticipant seats an actor in a battle
func (r *BattleRepository) AddParticipant(ctx context.Context, p *domain.BattleParticipant) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO battle_participants (battle_id, actor_id, joined_at)
		 VALUES ($1, $2, $3)`,
		p.BattleID, p.ActorID, p.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyJoined
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToAddParticipant, err)
	}
	return nil
}

// TransitionState moves the battle between states only when it is
// currently in the expected state
func (r *BattleRepository) TransitionState(ctx context.Context, battleID uuid.UUID, from, to domain.BattleState) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE battles SET state = $3 WHERE battle_id = $1 AND state = $2`,
		battleID, string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToUpdateBattleState, err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetWinner records the battle outcome
func (r *BattleRepository) SetWinner(ctx context.Context, battleID uuid.UUID, winnerID string, totalPayout int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE battles SET winner_id = $2, total_payout_cents = $3 WHERE battle_id = $1`,
		battleID, winnerID, totalPayout)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSetWinner, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBattleNotFound
	}
	return nil
}

// ListExpired retrieves joining battles whose deadline passed before
// the cutoff. Participants are not loaded; callers re-fetch the
// battles they act on.
func (r *BattleRepository) ListExpired(ctx context.Context, cutoff time.Time) ([]domain.Battle, error) {
	return r.listByStateBefore(ctx, domain.BattleStateJoining, cutoff)
}

// ListStalledResolving retrieves battles left in the resolving state
// past their deadline, to be finished or cancelled by recovery.
func (r *BattleRepository) ListStalledResolving(ctx context.Context, cutoff time.Time) ([]domain.Battle, error) {
	return r.listByStateBefore(ctx, domain.BattleStateResolving, cutoff)
}

func (r *BattleRepository) listByStateBefore(ctx context.Context, state domain.BattleState, cutoff time.Time) ([]domain.Battle, error) {
	rows, err := r.db.Query(ctx,
		`SELECT battle_id, case_id, creator_id, state, max_players, join_deadline, created_at
		 FROM battles
		 WHERE state = $1 AND join_deadline < $2
		 ORDER BY join_deadline`,
		string(state), cutoff)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListExpiredBattles, err)
	}
	defer rows.Close()

	var battles []domain.Battle
	for rows.Next() {
		var b domain.Battle
		var st string
		if err := rows.Scan(&b.ID, &b.CaseID, &b.CreatorID, &st, &b.MaxPlayers, &b.JoinDeadline, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanBattle, err)
		}
		b.State = domain.BattleState(st)
		battles = append(battles, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanBattle, err)
	}
	return battles, nil
}
