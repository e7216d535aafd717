package repository

import (
	"context"

	"github.com/casevault/backend/internal/domain"
	"github.com/casevault/backend/internal/logger"
)

// SafeRollback rolls a transaction back from a defer. Rollback after a
// successful Commit reports the closed-tx error, which is expected and
// not worth a log line.
func SafeRollback(ctx context.Context, tx Tx) {
	err := tx.Rollback(ctx)
	if err == nil || err.Error() == domain.ErrMsgTxClosed {
		return
	}
	logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
}
