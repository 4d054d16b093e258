package entities

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone" validate:"omitempty,e164"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries optional fields; nil means "leave as is".
type UpdateProfileRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,e164"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
}

type DeviceRequest struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"omitempty,oneof=android ios web other"`
}

type CreateVehicleRequest struct {
	Plate            string  `json:"plate" validate:"required"`
	Brand            string  `json:"brand" validate:"required"`
	Model            string  `json:"model" validate:"required"`
	Color            string  `json:"color"`
	ModelYear        int     `json:"model_year"`
	Seats            int     `json:"seats"`
	FuelType         string  `json:"fuel_type"`
	Transmission     string  `json:"transmission"`
	CurrentOdometer  int     `json:"current_odometer"`
	ImageURL         string  `json:"image_url" validate:"omitempty,url"`
	LastLocationName string  `json:"last_location_name"`
	LastLocationLat  float64 `json:"last_location_lat" validate:"omitempty,latitude"`
	LastLocationLng  float64 `json:"last_location_lng" validate:"omitempty,longitude"`
}

type UpdateVehicleRequest struct {
	Plate            *string  `json:"plate,omitempty"`
	Brand            *string  `json:"brand,omitempty"`
	Model            *string  `json:"model,omitempty"`
	Color            *string  `json:"color,omitempty"`
	ModelYear        *int     `json:"model_year,omitempty"`
	Seats            *int     `json:"seats,omitempty"`
	FuelType         *string  `json:"fuel_type,omitempty"`
	Transmission     *string  `json:"transmission,omitempty"`
	Status           *string  `json:"status,omitempty" validate:"omitempty,oneof=active maintenance retired"`
	CurrentOdometer  *int     `json:"current_odometer,omitempty"`
	ImageURL         *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	LastLocationName *string  `json:"last_location_name,omitempty"`
	LastLocationLat  *float64 `json:"last_location_lat,omitempty" validate:"omitempty,latitude"`
	LastLocationLng  *float64 `json:"last_location_lng,omitempty" validate:"omitempty,longitude"`
}

type CreateBookingRequest struct {
	VehicleID uuid.UUID `json:"vehicle_id" validate:"required"`
	StartsAt  time.Time `json:"starts_at" validate:"required"`
	EndsAt    time.Time `json:"ends_at" validate:"required"`
	Purpose   string    `json:"purpose"`
}

type CreateBlockoutRequest struct {
	VehicleID uuid.UUID `json:"vehicle_id" validate:"required"`
	StartsAt  time.Time `json:"starts_at" validate:"required"`
	EndsAt    time.Time `json:"ends_at" validate:"required"`
	Reason    string    `json:"reason"`
}
