package api

import (
	"net/http"

	"fleetbook/internal/service"
)

// AdminHandler serves the fleet-wide read views behind the admin
// middleware.
type AdminHandler struct {
	Bookings *service.BookingService
	Vehicles *service.VehicleService
}

func NewAdminHandler(bookings *service.BookingService, vehicles *service.VehicleService) *AdminHandler {
	return &AdminHandler{Bookings: bookings, Vehicles: vehicles}
}

// ListBookings returns every booking joined with owner and vehicle names.
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Bookings.ListWithNames(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// ListInUse returns the bookings currently underway.
func (h *AdminHandler) ListInUse(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Vehicles.InUse(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
