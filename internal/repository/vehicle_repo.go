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

type VehicleRepository interface {
	Create(ctx context.Context, v *db.Vehicle) error
	GetByID(ctx context.Context, id uuid.UUID) (*db.Vehicle, error)
	List(ctx context.Context) ([]db.Vehicle, error)
	Update(ctx context.Context, v *db.Vehicle) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAvailable(ctx context.Context, window interval.Interval) ([]db.Vehicle, error)
}

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(database *sql.DB) VehicleRepository {
	return &vehicleRepository{db: database}
}

const vehicleColumns = `id, plate, brand, model, color, model_year, seats,
	fuel_type, transmission, status, current_odometer, image_url,
	last_location_name, last_location_lat, last_location_lng, last_location_updated_at,
	created_at`

func scanVehicleRow(scan func(dest ...any) error) (db.Vehicle, error) {
	var v db.Vehicle
	err := scan(&v.ID, &v.Plate, &v.Brand, &v.Model, &v.Color, &v.ModelYear,
		&v.Seats, &v.FuelType, &v.Transmission, &v.Status, &v.CurrentOdometer, &v.ImageURL,
		&v.LastLocationName, &v.LastLocationLat, &v.LastLocationLng, &v.LastLocationAt,
		&v.CreatedAt)
	return v, err
}

func (r *vehicleRepository) Create(ctx context.Context, v *db.Vehicle) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO vehicles
			(plate, brand, model, color, model_year, seats, fuel_type, transmission,
			 status, current_odometer, image_url,
			 last_location_name, last_location_lat, last_location_lng)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, last_location_updated_at, created_at`,
		v.Plate, v.Brand, v.Model, v.Color, v.ModelYear, v.Seats,
		v.FuelType, v.Transmission, v.Status, v.CurrentOdometer, v.ImageURL,
		v.LastLocationName, v.LastLocationLat, v.LastLocationLng,
	).Scan(&v.ID, &v.LastLocationAt, &v.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return apperrors.Conflict("plate already registered")
		}
		return apperrors.Storage(err)
	}
	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*db.Vehicle, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id)
	v, err := scanVehicleRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("vehicle")
		}
		return nil, apperrors.Storage(err)
	}
	return &v, nil
}

func (r *vehicleRepository) List(ctx context.Context) ([]db.Vehicle, error) {
	return r.queryVehicles(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles ORDER BY brand, model`)
}

func (r *vehicleRepository) Update(ctx context.Context, v *db.Vehicle) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE vehicles SET
			plate = $1, brand = $2, model = $3, color = $4, model_year = $5,
			seats = $6, fuel_type = $7, transmission = $8, status = $9,
			current_odometer = $10, image_url = $11,
			last_location_name = $12, last_location_lat = $13, last_location_lng = $14,
			last_location_updated_at = $15
		WHERE id = $16`,
		v.Plate, v.Brand, v.Model, v.Color, v.ModelYear, v.Seats,
		v.FuelType, v.Transmission, v.Status, v.CurrentOdometer, v.ImageURL,
		v.LastLocationName, v.LastLocationLat, v.LastLocationLng, v.LastLocationAt,
		v.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return apperrors.Conflict("plate already registered")
		}
		return apperrors.Storage(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("vehicle")
	}
	return nil
}

// Delete removes the vehicle; bookings and blockouts go with it via the
// ON DELETE CASCADE foreign keys.
func (r *vehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return apperrors.Storage(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("vehicle")
	}
	return nil
}

// FindAvailable returns active vehicles with no active booking and no
// blockout overlapping the window. Set difference in one round trip.
func (r *vehicleRepository) FindAvailable(ctx context.Context, window interval.Interval) ([]db.Vehicle, error) {
	return r.queryVehicles(ctx, `
		WITH conflicts AS (
			SELECT DISTINCT vehicle_id
			FROM bookings
			WHERE status IN ('pending','approved')
			  AND tstzrange(starts_at, ends_at, '[)') && tstzrange($1, $2, '[)')
			UNION
			SELECT vehicle_id
			FROM vehicle_blockouts
			WHERE tstzrange(starts_at, ends_at, '[)') && tstzrange($1, $2, '[)')
		)
		SELECT `+vehicleColumns+`
		FROM vehicles
		WHERE status = 'active' AND id NOT IN (SELECT vehicle_id FROM conflicts)
		ORDER BY brand, model`,
		window.Start, window.End)
}

func (r *vehicleRepository) queryVehicles(ctx context.Context, query string, args ...any) ([]db.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	defer rows.Close()

	var vehicles []db.Vehicle
	for rows.Next() {
		v, err := scanVehicleRow(rows.Scan)
		if err != nil {
			return nil, apperrors.Storage(err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage(err)
	}
	return vehicles, nil
}
