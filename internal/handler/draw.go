package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/casevault/backend/internal/domain"
	"github.com/casevault/backend/internal/draw"
)

type DrawHandler struct {
	service draw.Service
}

func NewDrawHandler(service draw.Service) *DrawHandler {
	return &DrawHandler{service: service}
}

type OpenDrawRequest struct {
	ActorID    string `json:"actor_id" validate:"required,max=64"`
	CaseID     string `json:"case_id" validate:"required,max=64"`
	ClientSeed string `json:"client_seed" validate:"max=64,clientseed"`
}

// HandleOpenDraw runs a full case opening for the actor
func (h *DrawHandler) HandleOpenDraw(w http.ResponseWriter, r *http.Request) {
	var req OpenDrawRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Open draw"); err != nil {
		return
	}

	result, err := h.service.Open(r.Context(), req.CaseID, req.ActorID, req.ClientSeed)
	if err != nil {
		respondServiceError(w, r, "Open draw", err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// HandleGetDraw returns a draw record by ID
func (h *DrawHandler) HandleGetDraw(w http.ResponseWriter, r *http.Request) {
	drawID, ok := parseDrawID(w, r)
	if !ok {
		return
	}

	d, err := h.service.GetDraw(r.Context(), drawID)
	if err != nil {
		respondServiceError(w, r, "Get draw", err)
		return
	}

	respondJSON(w, http.StatusOK, d)
}

// HandleGetHistory returns an actor's most recent draws
func (h *DrawHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	actorID, ok := GetQueryParam(r, w, "actor_id")
	if !ok {
		return
	}

	draws, err := h.service.History(r.Context(), actorID, GetLimitParam(r))
	if err != nil {
		respondServiceError(w, r, "Get draw history", err)
		return
	}

	respondJSON(w, http.StatusOK, draws)
}

// HandleGetCommitment returns the pre-reveal fairness material for a draw
func (h *DrawHandler) HandleGetCommitment(w http.ResponseWriter, r *http.Request) {
	drawID, ok := parseDrawID(w, r)
	if !ok {
		return
	}

	rec, err := h.service.GetCommitment(r.Context(), drawID)
	if err != nil {
		respondServiceError(w, r, "Get commitment", err)
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

// HandleGetSeed returns the full verification record of a revealed draw
func (h *DrawHandler) HandleGetSeed(w http.ResponseWriter, r *http.Request) {
	drawID, ok := parseDrawID(w, r)
	if !ok {
		return
	}

	rec, err := h.service.GetRevealedSeed(r.Context(), drawID)
	if err != nil {
		respondServiceError(w, r, "Get revealed seed", err)
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

type VerifyDrawRequest struct {
	CaseID     string `json:"case_id" validate:"required,max=64"`
	Commitment string `json:"commitment" validate:"required"`
	ServerSeed string `json:"server_seed" validate:"required"`
	ClientSeed string `json:"client_seed" validate:"required,max=64"`
	Nonce      int64  `json:"nonce" validate:"gte=1"`
}

// HandleVerify replays a revealed draw so anyone can audit the outcome
func (h *DrawHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyDrawRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Verify draw"); err != nil {
		return
	}

	result, err := h.service.Verify(r.Context(), req.CaseID, domain.VerificationRecord{
		Commitment: req.Commitment,
		ServerSeed: req.ServerSeed,
		ClientSeed: req.ClientSeed,
		Nonce:      req.Nonce,
	})
	if err != nil {
		respondServiceError(w, r, "Verify draw", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func parseDrawID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr, ok := GetQueryParam(r, w, "id")
	if !ok {
		return uuid.Nil, false
	}
	drawID, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, ErrMsgInvalidDrawID, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return drawID, true
}
