package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"fleetbook/internal/db"
	apperrors "fleetbook/internal/errors"
)

// Claims are the JWT claims issued at login. Role is informational; the
// middleware re-reads the user row on every request, so a stale role claim
// cannot grant elevated access.
type Claims struct {
	Email string  `json:"email"`
	Role  db.Role `json:"role"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, u *db.User, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	return claims, nil
}

// UserID extracts the subject claim as a UUID.
func (c *Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, apperrors.Unauthorized("invalid token subject")
	}
	return id, nil
}
