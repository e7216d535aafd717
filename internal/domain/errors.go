package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Catalog errors
	ErrMsgInvalidOddsTable = "invalid odds table"
	ErrMsgCaseNotFound     = "case not found"
	ErrMsgCatalogLoad      = "failed to load catalog"

	// Draw errors
	ErrMsgDrawNotFound      = "draw not found"
	ErrMsgSeedNotRevealed   = "server seed not yet revealed"
	ErrMsgResolutionPending = "draw resolution pending"

	// Fairness errors
	ErrMsgEntropyUnavailable = "entropy source unavailable"
	ErrMsgCommitmentMismatch = "commitment mismatch"

	// Ledger errors
	ErrMsgInsufficientFunds    = "insufficient funds"
	ErrMsgCreditAlreadyApplied = "credit already applied"
	ErrMsgActorNotFound        = "actor not found"

	// Battle errors
	ErrMsgBattleNotFound     = "battle not found"
	ErrMsgBattleFull         = "battle is full"
	ErrMsgBattleNotJoinable  = "battle is not joinable"
	ErrMsgAlreadyJoined      = "actor already joined battle"
	ErrMsgJoinDeadlinePassed = "join deadline has passed"
	ErrMsgNotEnoughOpponents = "battle needs at least two participants"
	ErrMsgNotInJoiningState  = "battle is not in joining state"

	// Input errors
	ErrMsgInvalidInput = "invalid input"

	// Transaction errors
	ErrMsgTxClosed = "tx is closed"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Catalog errors. ErrInvalidOddsTable is a configuration error: it is
	// not retryable and must be caught at catalog-publish time, never
	// surfaced to an actor mid-draw.
	ErrInvalidOddsTable = errors.New(ErrMsgInvalidOddsTable)
	ErrCaseNotFound     = errors.New(ErrMsgCaseNotFound)

	// Draw errors. ErrResolutionPending means the committed draw record
	// is durable and the recovery worker will finish it; the caller must
	// not treat the draw as lost or refund its payment.
	ErrDrawNotFound      = errors.New(ErrMsgDrawNotFound)
	ErrSeedNotRevealed   = errors.New(ErrMsgSeedNotRevealed)
	ErrResolutionPending = errors.New(ErrMsgResolutionPending)

	// Fairness errors. Fatal to the attempt: a draw never degrades to a
	// non-cryptographic randomness source.
	ErrEntropyUnavailable = errors.New(ErrMsgEntropyUnavailable)
	ErrCommitmentMismatch = errors.New(ErrMsgCommitmentMismatch)

	// Ledger errors
	ErrInsufficientFunds    = errors.New(ErrMsgInsufficientFunds)
	ErrCreditAlreadyApplied = errors.New(ErrMsgCreditAlreadyApplied)
	ErrActorNotFound        = errors.New(ErrMsgActorNotFound)

	// Battle errors
	ErrBattleNotFound     = errors.New(ErrMsgBattleNotFound)
	ErrBattleFull         = errors.New(ErrMsgBattleFull)
	ErrBattleNotJoinable  = errors.New(ErrMsgBattleNotJoinable)
	ErrAlreadyJoined      = errors.New(ErrMsgAlreadyJoined)
	ErrJoinDeadlinePassed = errors.New(ErrMsgJoinDeadlinePassed)
	ErrNotEnoughOpponents = errors.New(ErrMsgNotEnoughOpponents)
	ErrNotInJoiningState  = errors.New(ErrMsgNotInJoiningState)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
