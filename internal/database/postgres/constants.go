package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Catalog Operations
const (
	ErrMsgFailedToGetCase       = "failed to get case"
	ErrMsgFailedToGetEntries    = "failed to get case entries"
	ErrMsgFailedToListCases     = "failed to list cases"
	ErrMsgFailedToUpsertCase    = "failed to upsert case"
	ErrMsgFailedToDeleteEntries = "failed to delete case entries"
	ErrMsgFailedToInsertEntry   = "failed to insert case entry"
)

// Error Messages - Draw Operations
const (
	ErrMsgFailedToGetDraw      = "failed to get draw"
	ErrMsgFailedToListDraws    = "failed to list draws"
	ErrMsgFailedToCreateDraw   = "failed to create draw"
	ErrMsgFailedToCompleteDraw = "failed to complete draw"
	ErrMsgFailedToMarkRevealed = "failed to mark draw revealed"
	ErrMsgDrawRowNotUpdated    = "draw row not updated"
)

// Error Messages - Ledger Operations
const (
	ErrMsgFailedToGetBalance    = "failed to get balance"
	ErrMsgFailedToInsertEntryLg = "failed to insert ledger entry"
	ErrMsgFailedToUpdateBalance = "failed to update balance"
	ErrMsgFailedToListEntries   = "failed to list ledger entries"
)

// Error Messages - Nonce Operations
const (
	ErrMsgFailedToAdvanceNonce = "failed to advance nonce"
	ErrMsgFailedToGetNonce     = "failed to get nonce"
)

// Error Messages - Battle Operations
const (
	ErrMsgFailedToGetBattle           = "failed to get battle"
	ErrMsgFailedToGetParticipants     = "failed to get participants"
	ErrMsgFailedToCreateBattle        = "failed to create battle"
	ErrMsgFailedToAddParticipant      = "failed to add participant"
	ErrMsgFailedToUpdateBattleState   = "failed to update battle state"
	ErrMsgFailedToSetWinner           = "failed to set winner"
	ErrMsgFailedToListExpiredBattles  = "failed to list expired battles"
	ErrMsgFailedToCountParticipants   = "failed to count participants"
	ErrMsgFailedToScanBattle          = "failed to scan battle"
	ErrMsgFailedToScanParticipantRows = "failed to scan participant rows"
)
