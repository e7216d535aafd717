package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casevault/backend/internal/domain"
	"github.com/casevault/backend/internal/repository"
)

// DrawRepository implements the draw repository for PostgreSQL
type DrawRepository struct {
	db *pgxpool.Pool
}

// NewDrawRepository creates a new DrawRepository
func NewDrawRepository(db *pgxpool.Pool) *DrawRepository {
	return &DrawRepository{db: db}
}

// DrawTx implements repository.DrawTx
type DrawTx struct {
	tx pgx.Tx
}

// BeginTx starts a new transaction
func (r *DrawRepository) BeginTx(ctx context.Context) (repository.DrawTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &DrawTx{tx: tx}, nil
}

const drawColumns = `draw_id, case_id, actor_id, battle_id, client_seed, server_seed,
	commitment, nonce, state, random_value, entry_id, payout_cents,
	created_at, resolved_at, revealed_at`

// GetDraw retrieves a draw by ID
func (r *DrawRepository) GetDraw(ctx context.Context, drawID uuid.UUID) (*domain.Draw, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+drawColumns+` FROM draws WHERE draw_id = $1`, drawID)
	draw, err := scanDraw(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDrawNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetDraw, err)
	}
	return draw, nil
}

// ListByActor retrieves an actor's most recent draws
func (r *DrawRepository) ListByActor(ctx context.Context, actorID string, limit int) ([]domain.Draw, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+drawColumns+` FROM draws
		 WHERE actor_id = $1 ORDER BY created_at DESC LIMIT $2`,
		actorID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListDraws, err)
	}
	defer rows.Close()
	return collectDraws(rows)
}

// ListStalled retrieves committed draws older than the cutoff
func (r *DrawRepository) ListStalled(ctx context.Context, cutoff time.Time) ([]domain.Draw, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+drawColumns+` FROM draws
		 WHERE state = $1 AND created_at < $2 ORDER BY created_at`,
		string(domain.DrawStateCommitted), cutoff)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListDraws, err)
	}
	defer rows.Close()
	return collectDraws(rows)
}

// ListByBattle retrieves every draw recorded for a battle
func (r *DrawRepository) ListByBattle(ctx context.Context, battleID uuid.UUID) ([]domain.Draw, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+drawColumns+` FROM draws
		 WHERE battle_id = $1 ORDER BY created_at`,
		battleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListDraws, err)
	}
	defer rows.Close()
	return collectDraws(rows)
}

// MarkRevealed transitions a resolved draw to the revealed state
func (r *DrawRepository) MarkRevealed(ctx context.Context, drawID uuid.UUID, revealedAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE draws SET state = $2, revealed_at = $3
		 WHERE draw_id = $1 AND state = $4`,
		drawID, string(domain.DrawStateRevealed), revealedAt, string(domain.DrawStateResolved))
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMarkRevealed, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", ErrMsgDrawRowNotUpdated, domain.ErrDrawNotFound)
	}
	return nil
}

// Commit commits the transaction
func (t *DrawTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *DrawTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// CreateDraw persists a new committed draw
func (t *DrawTx) CreateDraw(ctx context.Context, draw *domain.Draw) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO draws (draw_id, case_id, actor_id, battle_id, client_seed, server_seed,
		                    commitment, nonce, state, payout_cents, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		draw.ID, draw.CaseID, draw.ActorID, draw.BattleID, draw.ClientSeed, draw.ServerSeed,
		draw.Commitment, draw.Nonce, string(draw.State), draw.Payout, draw.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCreateDraw, err)
	}
	return nil
}

// CompleteDraw records the resolved outcome. The state guard keeps a
// concurrent recovery replay from resolving the same draw twice.
func (t *DrawTx) CompleteDraw(ctx context.Context, drawID uuid.UUID, entryID string, randomValue float64, payout int64, resolvedAt time.Time) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE draws
		 SET state = $2, entry_id = $3, random_value = $4, payout_cents = $5, resolved_at = $6
		 WHERE draw_id = $1 AND state = $7`,
		drawID, string(domain.DrawStateResolved), entryID, randomValue, payout, resolvedAt,
		string(domain.DrawStateCommitted))
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCompleteDraw, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", ErrMsgDrawRowNotUpdated, domain.ErrDrawNotFound)
	}
	return nil
}

// Debit charges the actor within the draw transaction
func (t *DrawTx) Debit(ctx context.Context, actorID string, amount int64, reference, idempotencyKey string) error {
	return debitInTx(ctx, t.tx, actorID, amount, reference, idempotencyKey)
}

// Credit pays the actor within the draw transaction
func (t *DrawTx) Credit(ctx context.Context, actorID string, amount int64, reference, idempotencyKey string) error {
	return creditInTx(ctx, t.tx, actorID, amount, reference, idempotencyKey)
}

func scanDraw(row pgx.Row) (*domain.Draw, error) {
	var d domain.Draw
	var state string
	var randomValue *float64
	var entryID *string
	err := row.Scan(&d.ID, &d.CaseID, &d.ActorID, &d.BattleID, &d.ClientSeed, &d.ServerSeed,
		&d.Commitment, &d.Nonce, &state, &randomValue, &entryID, &d.Payout,
		&d.CreatedAt, &d.ResolvedAt, &d.RevealedAt)
	if err != nil {
		return nil, err
	}
	d.State = domain.DrawState(state)
	if randomValue != nil {
		d.RandomValue = *randomValue
	}
	if entryID != nil {
		d.EntryID = *entryID
	}
	return &d, nil
}

func collectDraws(rows pgx.Rows) ([]domain.Draw, error) {
	var draws []domain.Draw
	for rows.Next() {
		draw, err := scanDraw(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListDraws, err)
		}
		draws = append(draws, *draw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListDraws, err)
	}
	return draws, nil
}
