package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"fleetbook/internal/db"
	apperrors "fleetbook/internal/errors"
)

type UserRepository interface {
	Create(ctx context.Context, u *db.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetByEmail(ctx context.Context, email string) (*db.User, error)
	Update(ctx context.Context, u *db.User) error
	ListAdminIDs(ctx context.Context) ([]uuid.UUID, error)
	ContactsForUsers(ctx context.Context, ids []uuid.UUID) ([]db.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(database *sql.DB) UserRepository {
	return &userRepository{db: database}
}

const userColumns = `id, email, password_hash, full_name, phone, role, is_active, created_at`

func scanUser(row *sql.Row) (*db.User, error) {
	var u db.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone, &u.Role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user")
		}
		return nil, apperrors.Storage(err)
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, u *db.User) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, full_name, phone, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, created_at`,
		u.Email, u.PasswordHash, u.FullName, u.Phone, u.Role,
	).Scan(&u.ID, &u.IsActive, &u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return apperrors.Conflict("email already registered")
		}
		return apperrors.Storage(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*db.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*db.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *userRepository) Update(ctx context.Context, u *db.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET email = $1, password_hash = $2, full_name = $3, phone = $4
		WHERE id = $5`,
		u.Email, u.PasswordHash, u.FullName, u.Phone, u.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return apperrors.Conflict("email already registered")
		}
		return apperrors.Storage(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("user")
	}
	return nil
}

func (r *userRepository) ListAdminIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM users WHERE role = 'admin' AND is_active`)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Storage(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage(err)
	}
	return ids, nil
}

func (r *userRepository) ContactsForUsers(ctx context.Context, ids []uuid.UUID) ([]db.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = ANY($1) AND is_active`,
		pq.Array(ids))
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	defer rows.Close()

	var users []db.User
	for rows.Next() {
		var u db.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone, &u.Role, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, apperrors.Storage(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage(err)
	}
	return users, nil
}
