package service

import (
	"context"

	"github.com/google/uuid"

	"fleetbook/internal/db"
	"fleetbook/internal/entities"
	apperrors "fleetbook/internal/errors"
	"fleetbook/internal/interval"
	"fleetbook/internal/repository"
)

// Notifier is invoked after booking state changes. Implementations must
// never block the caller or surface delivery failures.
type Notifier interface {
	BookingRequested(b *db.Booking)
	BookingStatusChanged(b *db.Booking, from, to db.BookingStatus)
}

type BookingService struct {
	bookings repository.BookingRepository
	vehicles repository.VehicleRepository
	notifier Notifier
}

func NewBookingService(bookings repository.BookingRepository, vehicles repository.VehicleRepository, notifier Notifier) *BookingService {
	return &BookingService{bookings: bookings, vehicles: vehicles, notifier: notifier}
}

// Create requests a booking for the actor. The conflict pre-check keeps
// the common case cheap; the exclusion constraint behind Insert is what
// actually guarantees that two racing overlapping requests cannot both
// succeed.
func (s *BookingService) Create(ctx context.Context, actor *db.User, req entities.CreateBookingRequest) (*db.Booking, error) {
	iv, err := interval.New(req.StartsAt, req.EndsAt)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.vehicles.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.Status != db.VehicleActive {
		return nil, apperrors.Conflict("vehicle is not available for booking")
	}

	conflict, err := s.bookings.HasConflict(ctx, vehicle.ID, iv)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, apperrors.Conflict("vehicle already reserved for an overlapping interval")
	}

	b := &db.Booking{
		UserID:    actor.ID,
		VehicleID: vehicle.ID,
		StartsAt:  iv.Start,
		EndsAt:    iv.End,
		Status:    db.BookingPending,
		Purpose:   req.Purpose,
	}
	if err := s.bookings.Insert(ctx, b); err != nil {
		return nil, err
	}

	s.notifier.BookingRequested(b)
	return b, nil
}

// List returns the actor's bookings, or every booking for admins.
func (s *BookingService) List(ctx context.Context, actor *db.User) ([]db.Booking, error) {
	if actor.Role == db.RoleAdmin {
		return s.bookings.ListAll(ctx)
	}
	return s.bookings.ListByUser(ctx, actor.ID)
}

// ListMine returns the actor's own bookings regardless of role.
func (s *BookingService) ListMine(ctx context.Context, actor *db.User) ([]db.Booking, error) {
	return s.bookings.ListByUser(ctx, actor.ID)
}

func (s *BookingService) ListWithNames(ctx context.Context) ([]entities.BookingWithNames, error) {
	return s.bookings.ListWithNames(ctx)
}

func (s *BookingService) Approve(ctx context.Context, actor *db.User, id uuid.UUID) (*db.Booking, error) {
	return s.transition(ctx, actor, id, db.BookingApproved)
}

func (s *BookingService) Cancel(ctx context.Context, actor *db.User, id uuid.UUID) (*db.Booking, error) {
	return s.transition(ctx, actor, id, db.BookingCanceled)
}

func (s *BookingService) Complete(ctx context.Context, actor *db.User, id uuid.UUID) (*db.Booking, error) {
	return s.transition(ctx, actor, id, db.BookingCompleted)
}

// transition applies a status change: existence, then authorization, then
// legality, in that order, so a non-owner gets 403 rather than learning
// about the booking's state.
func (s *BookingService) transition(ctx context.Context, actor *db.User, id uuid.UUID, to db.BookingStatus) (*db.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch to {
	case db.BookingApproved, db.BookingCompleted:
		if actor.Role != db.RoleAdmin {
			return nil, apperrors.Forbidden("admin only")
		}
	case db.BookingCanceled:
		if actor.Role != db.RoleAdmin && b.UserID != actor.ID {
			return nil, apperrors.Forbidden("not the booking owner")
		}
	default:
		return nil, apperrors.InvalidTransition(string(b.Status), string(to))
	}

	if !CanTransition(b.Status, to) {
		return nil, apperrors.InvalidTransition(string(b.Status), string(to))
	}

	from := b.Status
	updated, err := s.bookings.UpdateStatus(ctx, id, from, to)
	if err != nil {
		return nil, err
	}

	s.notifier.BookingStatusChanged(updated, from, to)
	return updated, nil
}
