package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fleetbook/internal/db"
	"fleetbook/internal/entities"
	"fleetbook/internal/interval"
	"fleetbook/internal/repository"
)

type VehicleService struct {
	vehicles  repository.VehicleRepository
	bookings  repository.BookingRepository
	blockouts repository.BlockoutRepository
}

func NewVehicleService(vehicles repository.VehicleRepository, bookings repository.BookingRepository,
	blockouts repository.BlockoutRepository) *VehicleService {
	return &VehicleService{vehicles: vehicles, bookings: bookings, blockouts: blockouts}
}

func (s *VehicleService) Create(ctx context.Context, req entities.CreateVehicleRequest) (*db.Vehicle, error) {
	v := &db.Vehicle{
		Plate:            req.Plate,
		Brand:            req.Brand,
		Model:            req.Model,
		Color:            req.Color,
		ModelYear:        req.ModelYear,
		Seats:            req.Seats,
		FuelType:         req.FuelType,
		Transmission:     req.Transmission,
		Status:           db.VehicleActive,
		CurrentOdometer:  req.CurrentOdometer,
		ImageURL:         req.ImageURL,
		LastLocationName: req.LastLocationName,
		LastLocationLat:  req.LastLocationLat,
		LastLocationLng:  req.LastLocationLng,
	}
	if err := s.vehicles.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VehicleService) Get(ctx context.Context, id uuid.UUID) (*db.Vehicle, error) {
	return s.vehicles.GetByID(ctx, id)
}

func (s *VehicleService) List(ctx context.Context) ([]db.Vehicle, error) {
	return s.vehicles.List(ctx)
}

func (s *VehicleService) Update(ctx context.Context, id uuid.UUID, req entities.UpdateVehicleRequest) (*db.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Plate != nil {
		v.Plate = *req.Plate
	}
	if req.Brand != nil {
		v.Brand = *req.Brand
	}
	if req.Model != nil {
		v.Model = *req.Model
	}
	if req.Color != nil {
		v.Color = *req.Color
	}
	if req.ModelYear != nil {
		v.ModelYear = *req.ModelYear
	}
	if req.Seats != nil {
		v.Seats = *req.Seats
	}
	if req.FuelType != nil {
		v.FuelType = *req.FuelType
	}
	if req.Transmission != nil {
		v.Transmission = *req.Transmission
	}
	if req.Status != nil {
		v.Status = db.VehicleStatus(*req.Status)
	}
	if req.CurrentOdometer != nil {
		v.CurrentOdometer = *req.CurrentOdometer
	}
	if req.ImageURL != nil {
		v.ImageURL = *req.ImageURL
	}
	if req.LastLocationName != nil {
		v.LastLocationName = *req.LastLocationName
	}
	if req.LastLocationLat != nil {
		v.LastLocationLat = *req.LastLocationLat
	}
	if req.LastLocationLng != nil {
		v.LastLocationLng = *req.LastLocationLng
	}
	if req.LastLocationName != nil || req.LastLocationLat != nil || req.LastLocationLng != nil {
		v.LastLocationAt = time.Now().UTC()
	}
	if err := s.vehicles.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VehicleService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.vehicles.Delete(ctx, id)
}

// FindAvailable lists active vehicles free of bookings and blockouts over
// the window.
func (s *VehicleService) FindAvailable(ctx context.Context, from, to string) ([]db.Vehicle, error) {
	window, err := interval.FromStrings(from, to)
	if err != nil {
		return nil, err
	}
	return s.vehicles.FindAvailable(ctx, window)
}

// Calendar returns the busy intervals of one vehicle for a calendar month
// ("YYYY-MM"): active bookings plus blockouts.
func (s *VehicleService) Calendar(ctx context.Context, vehicleID uuid.UUID, month string) (*entities.CalendarResponse, error) {
	window, err := interval.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}

	bookings, err := s.bookings.ListForVehicleWindow(ctx, vehicleID, window)
	if err != nil {
		return nil, err
	}
	blockouts, err := s.blockouts.ListForVehicleWindow(ctx, vehicleID, window)
	if err != nil {
		return nil, err
	}

	busy := make([]entities.BusyInterval, 0, len(bookings)+len(blockouts))
	for _, b := range bookings {
		busy = append(busy, entities.BusyInterval{Start: b.StartsAt, End: b.EndsAt, Kind: "booking"})
	}
	for _, bo := range blockouts {
		busy = append(busy, entities.BusyInterval{Start: bo.StartsAt, End: bo.EndsAt, Kind: "blockout"})
	}
	return &entities.CalendarResponse{Busy: busy}, nil
}

// InUse lists bookings whose interval covers the current instant.
func (s *VehicleService) InUse(ctx context.Context) ([]entities.InUseEntry, error) {
	return s.bookings.ListInUse(ctx, time.Now())
}
