package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// statements run in order on startup; all of them are idempotent.
var statements = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,

	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		full_name     TEXT NOT NULL,
		phone         TEXT NOT NULL DEFAULT '',
		role          TEXT NOT NULL DEFAULT 'user',
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS vehicles (
		id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		plate            TEXT NOT NULL UNIQUE,
		brand            TEXT NOT NULL,
		model            TEXT NOT NULL,
		color            TEXT NOT NULL DEFAULT '',
		model_year       INT NOT NULL DEFAULT 0,
		seats            INT NOT NULL DEFAULT 0,
		fuel_type        TEXT NOT NULL DEFAULT '',
		transmission     TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL DEFAULT 'active',
		current_odometer INT NOT NULL DEFAULT 0,
		image_url        TEXT NOT NULL DEFAULT '',
		last_location_name       TEXT NOT NULL DEFAULT '',
		last_location_lat        DOUBLE PRECISION NOT NULL DEFAULT 0,
		last_location_lng        DOUBLE PRECISION NOT NULL DEFAULT 0,
		last_location_updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		vehicle_id UUID NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
		starts_at  TIMESTAMPTZ NOT NULL,
		ends_at    TIMESTAMPTZ NOT NULL,
		status     TEXT NOT NULL DEFAULT 'pending',
		purpose    TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT booking_interval_valid CHECK (ends_at > starts_at)
	)`,

	`CREATE TABLE IF NOT EXISTS vehicle_blockouts (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		vehicle_id UUID NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
		starts_at  TIMESTAMPTZ NOT NULL,
		ends_at    TIMESTAMPTZ NOT NULL,
		reason     TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT blockout_interval_valid CHECK (ends_at > starts_at)
	)`,

	`CREATE TABLE IF NOT EXISTS device_tokens (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token      TEXT NOT NULL,
		platform   TEXT NOT NULL DEFAULT 'other',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT uq_user_token UNIQUE (user_id, token)
	)`,

	// The storage-level source of truth for the non-overlap invariant:
	// no two rows with status pending/approved may share a vehicle and an
	// overlapping [starts_at, ends_at) range. Racing inserts are resolved
	// here, at commit time, with SQLSTATE 23P01 for the loser.
	`DO $$
	BEGIN
		IF NOT EXISTS (
			SELECT 1 FROM pg_constraint WHERE conname = 'no_overlapping_active_bookings'
		) THEN
			ALTER TABLE bookings
			ADD CONSTRAINT no_overlapping_active_bookings
			EXCLUDE USING gist (
				vehicle_id WITH =,
				tstzrange(starts_at, ends_at, '[)') WITH &&
			)
			WHERE (status IN ('pending','approved'));
		END IF;
	END$$`,

	`CREATE INDEX IF NOT EXISTS idx_blockouts_vehicle_range
		ON vehicle_blockouts
		USING gist (vehicle_id, tstzrange(starts_at, ends_at, '[)'))`,

	`CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings (user_id)`,
}

// Bootstrap applies the schema. It requires a role allowed to create the
// pgcrypto and btree_gist extensions; without btree_gist the exclusion
// constraint cannot be installed and startup fails.
func Bootstrap(ctx context.Context, database *sql.DB) error {
	for _, stmt := range statements {
		if _, err := database.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema bootstrap: %w", err)
		}
	}
	return nil
}

// SeedAdmin inserts the initial administrator account if no user with the
// given email exists yet.
func SeedAdmin(ctx context.Context, database *sql.DB, email, password string) error {
	if email == "" || password == "" {
		logrus.Warn("admin seed skipped: ADMIN_EMAIL/ADMIN_PASSWORD not set")
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	res, err := database.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, full_name, role)
		VALUES ($1, $2, 'Admin', 'admin')
		ON CONFLICT (email) DO NOTHING`,
		email, string(hash))
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		logrus.WithField("email", email).Info("seeded admin account")
	}
	return nil
}
