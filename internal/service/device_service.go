package service

import (
	"context"

	"fleetbook/internal/db"
	"fleetbook/internal/entities"
	"fleetbook/internal/repository"
)

type DeviceService struct {
	devices repository.DeviceRepository
}

func NewDeviceService(devices repository.DeviceRepository) *DeviceService {
	return &DeviceService{devices: devices}
}

func (s *DeviceService) Register(ctx context.Context, actor *db.User, req entities.DeviceRequest) (*db.DeviceToken, error) {
	d := &db.DeviceToken{
		UserID:   actor.ID,
		Token:    req.Token,
		Platform: req.Platform,
	}
	if err := s.devices.Upsert(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DeviceService) Unregister(ctx context.Context, actor *db.User, token string) error {
	return s.devices.Delete(ctx, actor.ID, token)
}
