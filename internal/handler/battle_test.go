package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/casevault/backend/internal/domain"
)

func TestHandleCreateBattle_Success(t *testing.T) {
	svc := new(MockBattleService)
	h := NewBattleHandler(svc)

	b := &domain.Battle{
		ID:           uuid.New(),
		CaseID:       "case-basic",
		CreatorID:    "actor-1",
		State:        domain.BattleStateJoining,
		MaxPlayers:   4,
		JoinDeadline: time.Now().Add(time.Minute),
	}
	svc.On("Create", mock.Anything, "case-basic", "actor-1", 4).Return(b, nil)

	body, _ := json.Marshal(CreateBattleRequest{
		CaseID:     "case-basic",
		CreatorID:  "actor-1",
		MaxPlayers: 4,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/battles", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleCreateBattle(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var got domain.Battle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, b.ID, got.ID)
	svc.AssertExpectations(t)
}

func TestHandleCreateBattle_TooFewPlayers(t *testing.T) {
	svc := new(MockBattleService)
	h := NewBattleHandler(svc)

	body, _ := json.Marshal(CreateBattleRequest{
		CaseID:     "case-basic",
		CreatorID:  "actor-1",
		MaxPlayers: 1,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/battles", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleCreateBattle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleJoinBattle_Full(t *testing.T) {
	svc := new(MockBattleService)
	h := NewBattleHandler(svc)

	battleID := uuid.New()
	svc.On("Join", mock.Anything, battleID, "actor-2").Return(nil, domain.ErrBattleFull)

	body, _ := json.Marshal(JoinBattleRequest{ActorID: "actor-2"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/battles/join?id="+battleID.String(), bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleJoinBattle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ErrMsgBattleFullError, resp.Error)
}

func TestHandleJoinBattle_MissingID(t *testing.T) {
	svc := new(MockBattleService)
	h := NewBattleHandler(svc)

	body, _ := json.Marshal(JoinBattleRequest{ActorID: "actor-2"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/battles/join", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleJoinBattle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Join", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleGetBattle_NotFound(t *testing.T) {
	svc := new(MockBattleService)
	h := NewBattleHandler(svc)

	battleID := uuid.New()
	svc.On("GetBattle", mock.Anything, battleID).Return(nil, domain.ErrBattleNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/battles/get?id="+battleID.String(), nil)
	rec := httptest.NewRecorder()

	h.HandleGetBattle(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
