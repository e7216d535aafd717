package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/casevault/backend/internal/domain"
	"github.com/casevault/backend/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers are already sent, nothing useful left to write.
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs a service failure and maps it to a
// user-facing HTTP response
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	logger.FromContext(r.Context()).Error(opName+" failed", "error", err)
	status, msg := mapServiceErrorToUserMessage(err)
	respondError(w, status, msg)
}

// User-facing error messages for service errors. These deliberately do
// not expose internal error details.
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"

	ErrMsgCaseNotFoundError      = "Case not found"
	ErrMsgInvalidOddsTableError  = "Case has an invalid odds table"
	ErrMsgDrawNotFoundError      = "Draw not found"
	ErrMsgSeedNotRevealedError   = "Server seed is not revealed yet"
	ErrMsgEntropyError           = "Unable to start a draw right now. Please try again."
	ErrMsgCommitmentMismatchErr  = "Verification failed: commitment does not match"
	ErrMsgNotEnoughMoneyError    = "Not enough funds"
	ErrMsgBattleNotFoundError    = "Battle not found"
	ErrMsgBattleFullError        = "Battle is full"
	ErrMsgBattleNotJoinableError = "Battle is not accepting new participants"
	ErrMsgAlreadyJoinedError     = "You have already joined this battle"
	ErrMsgJoinDeadlineError      = "Too late to join this battle"
	ErrMsgNotEnoughOpponentsErr  = "Battle needs at least two participants"
	ErrMsgInvalidInputError      = "Invalid request. Please check your inputs."
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// status codes and messages.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrCaseNotFound):
		return http.StatusNotFound, ErrMsgCaseNotFoundError
	case errors.Is(err, domain.ErrInvalidOddsTable):
		return http.StatusUnprocessableEntity, ErrMsgInvalidOddsTableError
	case errors.Is(err, domain.ErrDrawNotFound):
		return http.StatusNotFound, ErrMsgDrawNotFoundError
	case errors.Is(err, domain.ErrSeedNotRevealed):
		return http.StatusConflict, ErrMsgSeedNotRevealedError
	case errors.Is(err, domain.ErrEntropyUnavailable):
		return http.StatusServiceUnavailable, ErrMsgEntropyError
	case errors.Is(err, domain.ErrCommitmentMismatch):
		return http.StatusUnprocessableEntity, ErrMsgCommitmentMismatchErr
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, ErrMsgNotEnoughMoneyError
	case errors.Is(err, domain.ErrBattleNotFound):
		return http.StatusNotFound, ErrMsgBattleNotFoundError
	case errors.Is(err, domain.ErrBattleFull):
		return http.StatusBadRequest, ErrMsgBattleFullError
	case errors.Is(err, domain.ErrNotInJoiningState),
		errors.Is(err, domain.ErrBattleNotJoinable):
		return http.StatusBadRequest, ErrMsgBattleNotJoinableError
	case errors.Is(err, domain.ErrAlreadyJoined):
		return http.StatusBadRequest, ErrMsgAlreadyJoinedError
	case errors.Is(err, domain.ErrJoinDeadlinePassed):
		return http.StatusBadRequest, ErrMsgJoinDeadlineError
	case errors.Is(err, domain.ErrNotEnoughOpponents):
		return http.StatusBadRequest, ErrMsgNotEnoughOpponentsErr
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
