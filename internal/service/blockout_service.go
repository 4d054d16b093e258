package service

import (
	"context"

	"github.com/google/uuid"

	"fleetbook/internal/db"
	"fleetbook/internal/entities"
	"fleetbook/internal/interval"
	"fleetbook/internal/repository"
)

type BlockoutService struct {
	blockouts repository.BlockoutRepository
	vehicles  repository.VehicleRepository
}

func NewBlockoutService(blockouts repository.BlockoutRepository, vehicles repository.VehicleRepository) *BlockoutService {
	return &BlockoutService{blockouts: blockouts, vehicles: vehicles}
}

// Create records an unavailability window. The repository re-validates
// against active bookings inside the insert transaction, so an overlap
// with an existing booking aborts with a CONFLICT error.
func (s *BlockoutService) Create(ctx context.Context, req entities.CreateBlockoutRequest) (*db.VehicleBlockout, error) {
	iv, err := interval.New(req.StartsAt, req.EndsAt)
	if err != nil {
		return nil, err
	}
	if _, err := s.vehicles.GetByID(ctx, req.VehicleID); err != nil {
		return nil, err
	}
	bo := &db.VehicleBlockout{
		VehicleID: req.VehicleID,
		StartsAt:  iv.Start,
		EndsAt:    iv.End,
		Reason:    req.Reason,
	}
	if err := s.blockouts.Create(ctx, bo); err != nil {
		return nil, err
	}
	return bo, nil
}

func (s *BlockoutService) List(ctx context.Context) ([]db.VehicleBlockout, error) {
	return s.blockouts.List(ctx)
}

func (s *BlockoutService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.blockouts.Delete(ctx, id)
}
