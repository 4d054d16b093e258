package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"fleetbook/internal/auth"
	"fleetbook/internal/db"
	"fleetbook/internal/entities"
	apperrors "fleetbook/internal/errors"
	"fleetbook/internal/service"
)

type BookingHandler struct {
	Bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{Bookings: bookings}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		writeError(w, apperrors.Unauthorized("not authenticated"))
		return
	}
	var req entities.CreateBookingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	booking, err := h.Bookings.Create(r.Context(), user, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		writeError(w, apperrors.Unauthorized("not authenticated"))
		return
	}
	bookings, err := h.Bookings.List(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// ListMine serves GET /bookings/me: always the caller's own bookings,
// even for admins.
func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		writeError(w, apperrors.Unauthorized("not authenticated"))
		return
	}
	bookings, err := h.Bookings.ListMine(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Bookings.Approve)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Bookings.Cancel)
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Bookings.Complete)
}

func (h *BookingHandler) transition(w http.ResponseWriter, r *http.Request,
	apply func(context.Context, *db.User, uuid.UUID) (*db.Booking, error)) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		writeError(w, apperrors.Unauthorized("not authenticated"))
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.InvalidInput("invalid booking id"))
		return
	}
	booking, err := apply(r.Context(), user, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
