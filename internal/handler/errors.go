package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	ErrMsgMissingQueryParam = "Missing %s query parameter"

	ErrMsgInvalidDrawID   = "Invalid draw id"
	ErrMsgInvalidBattleID = "Invalid battle id"
)

// Success messages
const (
	MsgJoinedBattleSuccess = "Joined battle"
	MsgCasePublished       = "Case published"
	MsgDepositApplied      = "Deposit applied"
)
