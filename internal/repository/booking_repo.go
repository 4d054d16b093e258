package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"fleetbook/internal/db"
	"fleetbook/internal/entities"
	apperrors "fleetbook/internal/errors"
	"fleetbook/internal/interval"
)

// pgExclusionViolation is SQLSTATE 23P01, raised when an insert collides
// with the no_overlapping_active_bookings constraint.
const (
	pgExclusionViolation   = pq.ErrorCode("23P01")
	pgForeignKeyViolation  = pq.ErrorCode("23503")
	pgSerializationFailure = pq.ErrorCode("40001")
)

type BookingRepository interface {
	// HasConflict is the advisory fast path: it reports whether any active
	// booking or any blockout for the vehicle overlaps the candidate
	// interval. Correctness under concurrency rests on Insert, not here.
	HasConflict(ctx context.Context, vehicleID uuid.UUID, candidate interval.Interval) (bool, error)
	Insert(ctx context.Context, b *db.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*db.Booking, error)
	// UpdateStatus writes the new status only while the row still holds
	// the expected prior one, so a transition racing another writer fails
	// instead of overwriting it.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to db.BookingStatus) (*db.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]db.Booking, error)
	ListAll(ctx context.Context) ([]db.Booking, error)
	ListForVehicleWindow(ctx context.Context, vehicleID uuid.UUID, window interval.Interval) ([]db.Booking, error)
	ListWithNames(ctx context.Context) ([]entities.BookingWithNames, error)
	ListInUse(ctx context.Context, now time.Time) ([]entities.InUseEntry, error)
}

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(database *sql.DB) BookingRepository {
	return &bookingRepository{db: database}
}

const bookingColumns = `id, user_id, vehicle_id, starts_at, ends_at, status, purpose, created_at`

func (r *bookingRepository) HasConflict(ctx context.Context, vehicleID uuid.UUID, candidate interval.Interval) (bool, error) {
	var conflict bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE vehicle_id = $1
			  AND status IN ('pending','approved')
			  AND tstzrange(starts_at, ends_at, '[)') && tstzrange($2, $3, '[)')
		) OR EXISTS (
			SELECT 1 FROM vehicle_blockouts
			WHERE vehicle_id = $1
			  AND tstzrange(starts_at, ends_at, '[)') && tstzrange($2, $3, '[)')
		)`,
		vehicleID, candidate.Start, candidate.End,
	).Scan(&conflict)
	if err != nil {
		return false, apperrors.Storage(err)
	}
	return conflict, nil
}

// Insert persists a pending booking. The non-overlap invariant is enforced
// by the exclusion constraint at commit time, so one of two racing inserts
// for overlapping intervals always fails here with a CONFLICT error that is
// indistinguishable from the pre-check's.
func (r *bookingRepository) Insert(ctx context.Context, b *db.Booking) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO bookings (user_id, vehicle_id, starts_at, ends_at, status, purpose)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		b.UserID, b.VehicleID, b.StartsAt, b.EndsAt, b.Status, b.Purpose,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case pgExclusionViolation:
				return apperrors.Conflict("vehicle already reserved for an overlapping interval")
			case pgForeignKeyViolation:
				return apperrors.NotFound("vehicle")
			}
		}
		return apperrors.Storage(err)
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*db.Booking, error) {
	var b db.Booking
	err := r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id,
	).Scan(&b.ID, &b.UserID, &b.VehicleID, &b.StartsAt, &b.EndsAt, &b.Status, &b.Purpose, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("booking")
		}
		return nil, apperrors.Storage(err)
	}
	return &b, nil
}

// UpdateStatus is a compare-and-set on the status column. The WHERE guard
// keeps a transition that lost a race from writing through the status
// another request committed in between; overlap is never re-checked
// because a transition keeps or frees its interval, never widens it.
func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to db.BookingStatus) (*db.Booking, error) {
	var b db.Booking
	err := r.db.QueryRowContext(ctx, `
		UPDATE bookings SET status = $1 WHERE id = $2 AND status = $3
		RETURNING `+bookingColumns,
		to, id, from,
	).Scan(&b.ID, &b.UserID, &b.VehicleID, &b.StartsAt, &b.EndsAt, &b.Status, &b.Purpose, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Zero rows means the booking vanished or its status moved
			// under us; re-read to tell the two apart.
			current, gerr := r.GetByID(ctx, id)
			if gerr != nil {
				return nil, gerr
			}
			return nil, apperrors.InvalidTransition(string(current.Status), string(to))
		}
		return nil, apperrors.Storage(err)
	}
	return &b, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]db.Booking, error) {
	return r.queryBookings(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1 ORDER BY starts_at DESC`,
		userID)
}

func (r *bookingRepository) ListAll(ctx context.Context) ([]db.Booking, error) {
	return r.queryBookings(ctx,
		`SELECT `+bookingColumns+` FROM bookings ORDER BY starts_at DESC`)
}

func (r *bookingRepository) ListForVehicleWindow(ctx context.Context, vehicleID uuid.UUID, window interval.Interval) ([]db.Booking, error) {
	return r.queryBookings(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE vehicle_id = $1
		  AND status IN ('pending','approved')
		  AND tstzrange(starts_at, ends_at, '[)') && tstzrange($2, $3, '[)')
		ORDER BY starts_at`,
		vehicleID, window.Start, window.End)
}

func (r *bookingRepository) ListWithNames(ctx context.Context) ([]entities.BookingWithNames, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT b.id, b.status, b.starts_at, b.ends_at, b.purpose,
		       u.id, u.full_name, u.email,
		       v.id, v.plate, v.brand, v.model
		FROM bookings b
		JOIN users u ON b.user_id = u.id
		JOIN vehicles v ON b.vehicle_id = v.id
		ORDER BY b.starts_at DESC`)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	defer rows.Close()

	var out []entities.BookingWithNames
	for rows.Next() {
		var e entities.BookingWithNames
		if err := rows.Scan(&e.ID, &e.Status, &e.StartsAt, &e.EndsAt, &e.Purpose,
			&e.UserID, &e.UserFullName, &e.UserEmail,
			&e.VehicleID, &e.VehiclePlate, &e.VehicleBrand, &e.VehicleModel); err != nil {
			return nil, apperrors.Storage(err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage(err)
	}
	return out, nil
}

func (r *bookingRepository) ListInUse(ctx context.Context, now time.Time) ([]entities.InUseEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT b.id, b.ends_at,
		       u.id, u.full_name, u.email,
		       v.id, v.plate, v.brand, v.model
		FROM bookings b
		JOIN users u ON b.user_id = u.id
		JOIN vehicles v ON b.vehicle_id = v.id
		WHERE b.status IN ('pending','approved')
		  AND b.starts_at <= $1 AND b.ends_at > $1
		ORDER BY b.ends_at`,
		now.UTC())
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	defer rows.Close()

	var out []entities.InUseEntry
	for rows.Next() {
		var e entities.InUseEntry
		if err := rows.Scan(&e.BookingID, &e.Until,
			&e.UserID, &e.UserFullName, &e.UserEmail,
			&e.VehicleID, &e.VehiclePlate, &e.VehicleBrand, &e.VehicleModel); err != nil {
			return nil, apperrors.Storage(err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage(err)
	}
	return out, nil
}

func (r *bookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]db.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		var b db.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.VehicleID, &b.StartsAt, &b.EndsAt, &b.Status, &b.Purpose, &b.CreatedAt); err != nil {
			return nil, apperrors.Storage(err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage(err)
	}
	return bookings, nil
}
