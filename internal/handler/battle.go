package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/casevault/backend/internal/battle"
)

type BattleHandler struct {
	service battle.Service
}

func NewBattleHandler(service battle.Service) *BattleHandler {
	return &BattleHandler{service: service}
}

type CreateBattleRequest struct {
	CaseID     string `json:"case_id" validate:"required,max=64"`
	CreatorID  string `json:"creator_id" validate:"required,max=64"`
	MaxPlayers int    `json:"max_players" validate:"gte=2,lte=8"`
}

// HandleCreateBattle opens a battle lobby and seats the creator
func (h *BattleHandler) HandleCreateBattle(w http.ResponseWriter, r *http.Request) {
	var req CreateBattleRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create battle"); err != nil {
		return
	}

	b, err := h.service.Create(r.Context(), req.CaseID, req.CreatorID, req.MaxPlayers)
	if err != nil {
		respondServiceError(w, r, "Create battle", err)
		return
	}

	respondJSON(w, http.StatusCreated, b)
}

type JoinBattleRequest struct {
	ActorID string `json:"actor_id" validate:"required,max=64"`
}

// HandleJoinBattle seats an actor in a joining battle, debiting the buy-in
func (h *BattleHandler) HandleJoinBattle(w http.ResponseWriter, r *http.Request) {
	battleID, ok := parseBattleID(w, r)
	if !ok {
		return
	}

	var req JoinBattleRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Join battle"); err != nil {
		return
	}

	b, err := h.service.Join(r.Context(), battleID, req.ActorID)
	if err != nil {
		respondServiceError(w, r, "Join battle", err)
		return
	}

	respondJSON(w, http.StatusOK, b)
}

// HandleGetBattle returns a battle with its participants
func (h *BattleHandler) HandleGetBattle(w http.ResponseWriter, r *http.Request) {
	battleID, ok := parseBattleID(w, r)
	if !ok {
		return
	}

	b, err := h.service.GetBattle(r.Context(), battleID)
	if err != nil {
		respondServiceError(w, r, "Get battle", err)
		return
	}

	respondJSON(w, http.StatusOK, b)
}

func parseBattleID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr, ok := GetQueryParam(r, w, "id")
	if !ok {
		return uuid.Nil, false
	}
	battleID, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, ErrMsgInvalidBattleID, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return battleID, true
}
