package handler

import (
	"net/http"

	"github.com/casevault/backend/internal/ledger"
)

type BalanceHandler struct {
	service ledger.Service
}

func NewBalanceHandler(service ledger.Service) *BalanceHandler {
	return &BalanceHandler{service: service}
}

// BalanceResponse carries an actor's balance in cents
type BalanceResponse struct {
	ActorID      string `json:"actor_id"`
	BalanceCents int64  `json:"balance_cents"`
}

// HandleGetBalance returns an actor's current balance
func (h *BalanceHandler) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	actorID, ok := GetQueryParam(r, w, "actor_id")
	if !ok {
		return
	}

	balance, err := h.service.GetBalance(r.Context(), actorID)
	if err != nil {
		respondServiceError(w, r, "Get balance", err)
		return
	}

	respondJSON(w, http.StatusOK, BalanceResponse{ActorID: actorID, BalanceCents: balance})
}

type DepositRequest struct {
	ActorID     string `json:"actor_id" validate:"required,max=64"`
	AmountCents int64  `json:"amount_cents" validate:"gt=0"`
	Reference   string `json:"reference" validate:"max=128"`
}

// HandleDeposit tops up an actor's balance from an external source
func (h *BalanceHandler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	var req DepositRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Deposit"); err != nil {
		return
	}

	if err := h.service.Deposit(r.Context(), req.ActorID, req.AmountCents, req.Reference); err != nil {
		respondServiceError(w, r, "Deposit", err)
		return
	}

	respondJSON(w, http.StatusCreated, SuccessResponse{Message: MsgDepositApplied})
}

// HandleGetLedger returns an actor's most recent ledger entries
func (h *BalanceHandler) HandleGetLedger(w http.ResponseWriter, r *http.Request) {
	actorID, ok := GetQueryParam(r, w, "actor_id")
	if !ok {
		return
	}

	entries, err := h.service.History(r.Context(), actorID, GetLimitParam(r))
	if err != nil {
		respondServiceError(w, r, "Get ledger history", err)
		return
	}

	respondJSON(w, http.StatusOK, entries)
}
