package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"fleetbook/internal/db"
	apperrors "fleetbook/internal/errors"
	"fleetbook/internal/repository"
)

type contextKey struct{}

var userKey contextKey

// Middleware authenticates requests with a Bearer JWT and loads the
// current user row, rejecting unknown or deactivated accounts.
type Middleware struct {
	users  repository.UserRepository
	secret string
}

func NewMiddleware(users repository.UserRepository, secret string) *Middleware {
	return &Middleware{users: users, secret: secret}
}

func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeAuthError(w, apperrors.Unauthorized("missing bearer token"))
			return
		}
		claims, err := ParseToken(m.secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeAuthError(w, err)
			return
		}
		id, err := claims.UserID()
		if err != nil {
			writeAuthError(w, err)
			return
		}
		user, err := m.users.GetByID(r.Context(), id)
		if err != nil || !user.IsActive {
			writeAuthError(w, apperrors.Unauthorized("user not found or inactive"))
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireAdmin must run after Authenticate.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFrom(r.Context())
		if !ok || user.Role != db.RoleAdmin {
			writeAuthError(w, apperrors.Forbidden("admin only"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithUser(ctx context.Context, u *db.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFrom(ctx context.Context) (*db.User, bool) {
	u, ok := ctx.Value(userKey).(*db.User)
	return u, ok
}

func writeAuthError(w http.ResponseWriter, err error) {
	appErr := apperrors.As(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.HTTPStatus)
	json.NewEncoder(w).Encode(appErr)
}
