package repository

import "context"

// Tx is the common surface of a repository transaction. Concrete
// transaction interfaces embed it and add their own statement methods.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
