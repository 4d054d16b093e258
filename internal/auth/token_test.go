package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetbook/internal/db"
	apperrors "fleetbook/internal/errors"
)

func TestTokenRoundTrip(t *testing.T) {
	u := &db.User{ID: uuid.New(), Email: "driver@example.com", Role: db.RoleUser}

	token, err := GenerateToken("secret", u, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, u.Email, claims.Email)
	assert.Equal(t, db.RoleUser, claims.Role)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
}

func TestParseTokenWrongSecret(t *testing.T) {
	u := &db.User{ID: uuid.New(), Email: "driver@example.com", Role: db.RoleUser}

	token, err := GenerateToken("secret", u, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestParseTokenExpired(t *testing.T) {
	u := &db.User{ID: uuid.New(), Email: "driver@example.com", Role: db.RoleUser}

	token, err := GenerateToken("secret", u, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("secret", "not.a.token")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}
