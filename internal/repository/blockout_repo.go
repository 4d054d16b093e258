package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"fleetbook/internal/db"
	apperrors "fleetbook/internal/errors"
	"fleetbook/internal/interval"
)

type BlockoutRepository interface {
	// Create inserts the blockout and re-validates inside the same
	// transaction that no active booking overlaps it, aborting with a
	// CONFLICT error if one does.
	Create(ctx context.Context, bo *db.VehicleBlockout) error
	List(ctx context.Context) ([]db.VehicleBlockout, error)
	ListForVehicleWindow(ctx context.Context, vehicleID uuid.UUID, window interval.Interval) ([]db.VehicleBlockout, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type blockoutRepository struct {
	db *sql.DB
}

func NewBlockoutRepository(database *sql.DB) BlockoutRepository {
	return &blockoutRepository{db: database}
}

const blockoutColumns = `id, vehicle_id, starts_at, ends_at, reason, created_at`

func (r *blockoutRepository) Create(ctx context.Context, bo *db.VehicleBlockout) error {
	// Serializable, so a booking insert whose conflict pre-check ran
	// before this transaction committed cannot slip past the re-check.
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return apperrors.Storage(err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO vehicle_blockouts (vehicle_id, starts_at, ends_at, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		bo.VehicleID, bo.StartsAt, bo.EndsAt, bo.Reason,
	).Scan(&bo.ID, &bo.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation {
			return apperrors.NotFound("vehicle")
		}
		return apperrors.Storage(err)
	}

	var conflict bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE vehicle_id = $1
			  AND status IN ('pending','approved')
			  AND tstzrange(starts_at, ends_at, '[)') && tstzrange($2, $3, '[)')
		)`,
		bo.VehicleID, bo.StartsAt, bo.EndsAt,
	).Scan(&conflict)
	if err != nil {
		return apperrors.Storage(err)
	}
	if conflict {
		return apperrors.Conflict("blockout overlaps an active booking")
	}

	if err := tx.Commit(); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgSerializationFailure {
			return apperrors.Conflict("blockout conflicts with a concurrent booking")
		}
		return apperrors.Storage(err)
	}
	return nil
}

func (r *blockoutRepository) List(ctx context.Context) ([]db.VehicleBlockout, error) {
	return r.queryBlockouts(ctx,
		`SELECT `+blockoutColumns+` FROM vehicle_blockouts ORDER BY starts_at DESC`)
}

func (r *blockoutRepository) ListForVehicleWindow(ctx context.Context, vehicleID uuid.UUID, window interval.Interval) ([]db.VehicleBlockout, error) {
	return r.queryBlockouts(ctx, `
		SELECT `+blockoutColumns+` FROM vehicle_blockouts
		WHERE vehicle_id = $1
		  AND tstzrange(starts_at, ends_at, '[)') && tstzrange($2, $3, '[)')
		ORDER BY starts_at`,
		vehicleID, window.Start, window.End)
}

func (r *blockoutRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vehicle_blockouts WHERE id = $1`, id)
	if err != nil {
		return apperrors.Storage(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("blockout")
	}
	return nil
}

func (r *blockoutRepository) queryBlockouts(ctx context.Context, query string, args ...any) ([]db.VehicleBlockout, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	defer rows.Close()

	var blockouts []db.VehicleBlockout
	for rows.Next() {
		var bo db.VehicleBlockout
		if err := rows.Scan(&bo.ID, &bo.VehicleID, &bo.StartsAt, &bo.EndsAt, &bo.Reason, &bo.CreatedAt); err != nil {
			return nil, apperrors.Storage(err)
		}
		blockouts = append(blockouts, bo)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage(err)
	}
	return blockouts, nil
}
