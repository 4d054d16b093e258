package entities

import (
	"time"

	"github.com/google/uuid"
)

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// BusyInterval is one occupied range in a vehicle's calendar. Kind is
// either "booking" or "blockout".
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Kind  string    `json:"type"`
}

type CalendarResponse struct {
	Busy []BusyInterval `json:"busy"`
}

// BookingWithNames is the admin listing row: a booking joined with its
// owner and vehicle for display purposes.
type BookingWithNames struct {
	ID           uuid.UUID `json:"id"`
	Status       string    `json:"status"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	Purpose      string    `json:"purpose,omitempty"`
	UserID       uuid.UUID `json:"user_id"`
	UserFullName string    `json:"user_full_name"`
	UserEmail    string    `json:"user_email"`
	VehicleID    uuid.UUID `json:"vehicle_id"`
	VehiclePlate string    `json:"vehicle_plate"`
	VehicleBrand string    `json:"vehicle_brand"`
	VehicleModel string    `json:"vehicle_model"`
}

// InUseEntry describes a booking whose interval covers the current instant.
type InUseEntry struct {
	BookingID    uuid.UUID `json:"booking_id"`
	Until        time.Time `json:"until"`
	UserID       uuid.UUID `json:"user_id"`
	UserFullName string    `json:"user_full_name"`
	UserEmail    string    `json:"user_email"`
	VehicleID    uuid.UUID `json:"vehicle_id"`
	VehiclePlate string    `json:"vehicle_plate"`
	VehicleBrand string    `json:"vehicle_brand"`
	VehicleModel string    `json:"vehicle_model"`
}
