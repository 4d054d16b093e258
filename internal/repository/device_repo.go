package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"fleetbook/internal/db"
	apperrors "fleetbook/internal/errors"
)

type DeviceRepository interface {
	Upsert(ctx context.Context, d *db.DeviceToken) error
	Delete(ctx context.Context, userID uuid.UUID, token string) error
	TokensForUsers(ctx context.Context, userIDs []uuid.UUID) ([]string, error)
}

type deviceRepository struct {
	db *sql.DB
}

func NewDeviceRepository(database *sql.DB) DeviceRepository {
	return &deviceRepository{db: database}
}

// Upsert registers a device token, refreshing the platform tag when the
// same (user, token) pair is registered again.
func (r *deviceRepository) Upsert(ctx context.Context, d *db.DeviceToken) error {
	if d.Platform == "" {
		d.Platform = "other"
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO device_tokens (user_id, token, platform)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, token) DO UPDATE SET platform = EXCLUDED.platform
		RETURNING id, created_at`,
		d.UserID, d.Token, d.Platform,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return apperrors.Storage(err)
	}
	return nil
}

func (r *deviceRepository) Delete(ctx context.Context, userID uuid.UUID, token string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM device_tokens WHERE user_id = $1 AND token = $2`,
		userID, token); err != nil {
		return apperrors.Storage(err)
	}
	return nil
}

func (r *deviceRepository) TokensForUsers(ctx context.Context, userIDs []uuid.UUID) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT token FROM device_tokens WHERE user_id = ANY($1)`,
		pq.Array(userIDs))
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, apperrors.Storage(err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage(err)
	}
	return tokens, nil
}
