package api

import (
	"net/http"

	"fleetbook/internal/auth"
	"fleetbook/internal/entities"
	apperrors "fleetbook/internal/errors"
	"fleetbook/internal/service"
)

type DeviceHandler struct {
	Devices *service.DeviceService
}

func NewDeviceHandler(devices *service.DeviceService) *DeviceHandler {
	return &DeviceHandler{Devices: devices}
}

func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		writeError(w, apperrors.Unauthorized("not authenticated"))
		return
	}
	var req entities.DeviceRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	device, err := h.Devices.Register(r.Context(), user, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, device)
}

func (h *DeviceHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		writeError(w, apperrors.Unauthorized("not authenticated"))
		return
	}
	var req entities.DeviceRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Devices.Unregister(r.Context(), user, req.Token); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
