package handler

import (
	"net/http"

	"github.com/casevault/backend/internal/catalog"
	"github.com/casevault/backend/internal/domain"
)

type CatalogHandler struct {
	service catalog.Service
}

func NewCatalogHandler(service catalog.Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// HandleListCases returns every published case definition
func (h *CatalogHandler) HandleListCases(w http.ResponseWriter, r *http.Request) {
	cases, err := h.service.ListCases(r.Context())
	if err != nil {
		respondServiceError(w, r, "List cases", err)
		return
	}

	respondJSON(w, http.StatusOK, cases)
}

// HandleGetCase returns a single case definition by ID
func (h *CatalogHandler) HandleGetCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := GetQueryParam(r, w, "id")
	if !ok {
		return
	}

	c, err := h.service.GetCase(r.Context(), caseID)
	if err != nil {
		respondServiceError(w, r, "Get case", err)
		return
	}

	respondJSON(w, http.StatusOK, c)
}

// HandlePublishCase validates and publishes a case definition. A case
// that fails odds-table validation is rejected as a whole.
func (h *CatalogHandler) HandlePublishCase(w http.ResponseWriter, r *http.Request) {
	var c domain.Case
	if err := DecodeAndValidateRequest(r, w, &c, "Publish case"); err != nil {
		return
	}

	if err := h.service.PublishCase(r.Context(), &c); err != nil {
		respondServiceError(w, r, "Publish case", err)
		return
	}

	respondJSON(w, http.StatusCreated, SuccessResponse{Message: MsgCasePublished})
}
