package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casevault/backend/internal/domain"
	"github.com/casevault/backend/internal/repository"
)

// LedgerRepository implements the ledger repository for PostgreSQL
type LedgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// GetBalance retrieves an actor's balance in cents. Unknown actors
// have a zero balance.
func (r *LedgerRepository) GetBalance(ctx context.Context, actorID string) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx,
		`SELECT balance_cents FROM balances WHERE actor_id = $1`, actorID,
	).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToGetBalance, err)
	}
	return balance, nil
}

// Debit atomically checks and reduces the balance
func (r *LedgerRepository) Debit(ctx context.Context, actorID string, amount int64, reference, idempotencyKey string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := debitInTx(ctx, tx, actorID, amount, reference, idempotencyKey); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

// Credit adds to the balance
func (r *LedgerRepository) Credit(ctx context.Context, actorID string, amount int64, reference, idempotencyKey string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := creditInTx(ctx, tx, actorID, amount, reference, idempotencyKey); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

// ListEntries retrieves an actor's most recent ledger entries
func (r *LedgerRepository) ListEntries(ctx context.Context, actorID string, limit int) ([]domain.LedgerEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT entry_id, actor_id, amount_cents, direction, reference, idempotency_key, created_at
		 FROM ledger_entries
		 WHERE actor_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		actorID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListEntries, err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		var direction string
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Amount, &direction, &e.Reference, &e.IdempotencyKey, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListEntries, err)
		}
		e.Direction = domain.LedgerDirection(direction)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListEntries, err)
	}
	return entries, nil
}

// debitInTx writes the ledger entry and applies the balance change
// inside the caller's transaction. The ON CONFLICT guard makes a
// replayed idempotency key a no-op instead of a double charge, and
// the conditional balance update is the only funds check: there is no
// read-then-write window for concurrent debits to race through.
func debitInTx(ctx context.Context, tx pgx.Tx, actorID string, amount int64, reference, idempotencyKey string) error {
	tag, err := tx.Exec(ctx,
		`INSERT INTO ledger_entries (entry_id, actor_id, amount_cents, direction, reference, idempotency_key)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (idempotency_key) DO NOTHING`,
		uuid.New(), actorID, amount, string(domain.LedgerDebit), reference, idempotencyKey)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertEntryLg, err)
	}
	if tag.RowsAffected() == 0 {
		// Already applied under this key.
		return nil
	}

	tag, err = tx.Exec(ctx,
		`UPDATE balances
		 SET balance_cents = balance_cents - $2, updated_at = now()
		 WHERE actor_id = $1 AND balance_cents >= $2`,
		actorID, amount)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateBalance, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientFunds
	}
	return nil
}

// creditInTx mirrors debitInTx for the credit direction. A duplicate
// idempotency key returns domain.ErrCreditAlreadyApplied without
// aborting the surrounding transaction, so callers that tolerate the
// replay can still commit their other statements.
func creditInTx(ctx context.Context, tx pgx.Tx, actorID string, amount int64, reference, idempotencyKey string) error {
	tag, err := tx.Exec(ctx,
		`INSERT INTO ledger_entries (entry_id, actor_id, amount_cents, direction, reference, idempotency_key)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (idempotency_key) DO NOTHING`,
		uuid.New(), actorID, amount, string(domain.LedgerCredit), reference, idempotencyKey)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertEntryLg, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCreditAlreadyApplied
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO balances (actor_id, balance_cents)
		 VALUES ($1, $2)
		 ON CONFLICT (actor_id) DO UPDATE
		 SET balance_cents = balances.balance_cents + EXCLUDED.balance_cents, updated_at = now()`,
		actorID, amount)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateBalance, err)
	}
	return nil
}
