package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casevault/backend/internal/domain"
	"github.com/casevault/backend/internal/repository"
)

// CatalogRepository implements the catalog repository for PostgreSQL
type CatalogRepository struct {
	db *pgxpool.Pool
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// GetCase retrieves a case definition with its odds table in catalog order
func (r *CatalogRepository) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	c := &domain.Case{}
	err := r.db.QueryRow(ctx,
		`SELECT case_id, name, price_cents FROM cases WHERE case_id = $1`,
		caseID,
	).Scan(&c.ID, &c.Name, &c.Price)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrCaseNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetCase, err)
	}

	entries, err := r.getEntries(ctx, caseID)
	if err != nil {
		return nil, err
	}
	c.Entries = entries
	return c, nil
}

// ListCases retrieves all case definitions
func (r *CatalogRepository) ListCases(ctx context.Context) ([]domain.Case, error) {
	rows, err := r.db.Query(ctx,
		`SELECT case_id, name, price_cents FROM cases ORDER BY case_id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListCases, err)
	}
	defer rows.Close()

	var cases []domain.Case
	for rows.Next() {
		var c domain.Case
		if err := rows.Scan(&c.ID, &c.Name, &c.Price); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListCases, err)
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListCases, err)
	}

	for i := range cases {
		entries, err := r.getEntries(ctx, cases[i].ID)
		if err != nil {
			return nil, err
		}
		cases[i].Entries = entries
	}
	return cases, nil
}

// UpsertCase replaces a case definition and its odds table atomically.
// Entry positions record the catalog order used by outcome resolution.
func (r *CatalogRepository) UpsertCase(ctx context.Context, c *domain.Case) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer repository.SafeRollback(ctx, tx)

	_, err = tx.Exec(ctx,
		`INSERT INTO cases (case_id, name, price_cents)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (case_id) DO UPDATE
		 SET name = EXCLUDED.name, price_cents = EXCLUDED.price_cents, updated_at = now()`,
		c.ID, c.Name, c.Price)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpsertCase, err)
	}

	_, err = tx.Exec(ctx, `DELETE FROM case_entries WHERE case_id = $1`, c.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteEntries, err)
	}

	for i, entry := range c.Entries {
		_, err = tx.Exec(ctx,
			`INSERT INTO case_entries (case_id, entry_id, weight, payout_multiplier, rarity, position)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			c.ID, entry.ID, entry.Weight, entry.PayoutMultiplier, string(entry.Rarity), i)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToInsertEntry, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

func (r *CatalogRepository) getEntries(ctx context.Context, caseID string) ([]domain.OddsEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT entry_id, weight, payout_multiplier, rarity
		 FROM case_entries WHERE case_id = $1 ORDER BY position`,
		caseID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetEntries, err)
	}
	defer rows.Close()

	var entries []domain.OddsEntry
	for rows.Next() {
		var e domain.OddsEntry
		var rarity string
		if err := rows.Scan(&e.ID, &e.Weight, &e.PayoutMultiplier, &rarity); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetEntries, err)
		}
		e.Rarity = domain.RarityTier(rarity)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetEntries, err)
	}
	return entries, nil
}
