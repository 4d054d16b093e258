package db

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type VehicleStatus string

const (
	VehicleActive      VehicleStatus = "active"
	VehicleMaintenance VehicleStatus = "maintenance"
	VehicleRetired     VehicleStatus = "retired"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingCanceled  BookingStatus = "canceled"
	BookingCompleted BookingStatus = "completed"
)

// Active reports whether the status counts toward the non-overlap
// invariant. Canceled and completed bookings free their interval.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingApproved
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type Vehicle struct {
	ID              uuid.UUID     `json:"id"`
	Plate           string        `json:"plate"`
	Brand           string        `json:"brand"`
	Model           string        `json:"model"`
	Color           string        `json:"color,omitempty"`
	ModelYear       int           `json:"model_year,omitempty"`
	Seats           int           `json:"seats,omitempty"`
	FuelType        string        `json:"fuel_type,omitempty"`
	Transmission    string        `json:"transmission,omitempty"`
	Status          VehicleStatus `json:"status"`
	CurrentOdometer int           `json:"current_odometer,omitempty"`
	ImageURL        string        `json:"image_url,omitempty"`

	// Last reported parking spot, set by admins on update.
	LastLocationName string    `json:"last_location_name,omitempty"`
	LastLocationLat  float64   `json:"last_location_lat,omitempty"`
	LastLocationLng  float64   `json:"last_location_lng,omitempty"`
	LastLocationAt   time.Time `json:"last_location_updated_at"`

	CreatedAt time.Time `json:"created_at"`
}

type Booking struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	VehicleID uuid.UUID     `json:"vehicle_id"`
	StartsAt  time.Time     `json:"starts_at"`
	EndsAt    time.Time     `json:"ends_at"`
	Status    BookingStatus `json:"status"`
	Purpose   string        `json:"purpose,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

type VehicleBlockout struct {
	ID        uuid.UUID `json:"id"`
	VehicleID uuid.UUID `json:"vehicle_id"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type DeviceToken struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"-"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
}
