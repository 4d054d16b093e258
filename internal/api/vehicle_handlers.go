package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"fleetbook/internal/entities"
	apperrors "fleetbook/internal/errors"
	"fleetbook/internal/service"
)

type VehicleHandler struct {
	Vehicles *service.VehicleService
}

func NewVehicleHandler(vehicles *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{Vehicles: vehicles}
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.Vehicles.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := vehicleID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	vehicle, err := h.Vehicles.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateVehicleRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	vehicle, err := h.Vehicles.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vehicle)
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := vehicleID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req entities.UpdateVehicleRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	vehicle, err := h.Vehicles.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := vehicleID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Vehicles.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Calendar serves GET /vehicles/{id}/calendar?month=YYYY-MM.
func (h *VehicleHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	id, err := vehicleID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	month := r.URL.Query().Get("month")
	cal, err := h.Vehicles.Calendar(r.Context(), id, month)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cal)
}

// Availability serves GET /availability?from=...&to=... with RFC 3339
// timestamps.
func (h *VehicleHandler) Availability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	vehicles, err := h.Vehicles.FindAvailable(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func vehicleID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, apperrors.InvalidInput("invalid vehicle id")
	}
	return id, nil
}
