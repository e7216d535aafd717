package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casevault/backend/internal/database/postgres"
	"github.com/casevault/backend/internal/repository"
)

// Repositories holds all repository implementations used by the
// application, keeping dependency injection in one place.
type Repositories struct {
	Catalog repository.Catalog
	Draw    repository.Draw
	Ledger  repository.Ledger
	Nonce   repository.Nonce
	Battle  repository.Battle
}

// InitializeRepositories creates all repository implementations.
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Catalog: postgres.NewCatalogRepository(dbPool),
		Draw:    postgres.NewDrawRepository(dbPool),
		Ledger:  postgres.NewLedgerRepository(dbPool),
		Nonce:   postgres.NewNonceRepository(dbPool),
		Battle:  postgres.NewBattleRepository(dbPool),
	}
}
