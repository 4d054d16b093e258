package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"fleetbook/internal/entities"
	apperrors "fleetbook/internal/errors"
	"fleetbook/internal/service"
)

type BlockoutHandler struct {
	Blockouts *service.BlockoutService
}

func NewBlockoutHandler(blockouts *service.BlockoutService) *BlockoutHandler {
	return &BlockoutHandler{Blockouts: blockouts}
}

func (h *BlockoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateBlockoutRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	blockout, err := h.Blockouts.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, blockout)
}

func (h *BlockoutHandler) List(w http.ResponseWriter, r *http.Request) {
	blockouts, err := h.Blockouts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, blockouts)
}

func (h *BlockoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.InvalidInput("invalid blockout id"))
		return
	}
	if err := h.Blockouts.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
