package auth

import (
	"testing"
	"time"

	"lumina_backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	token, err := m.Generate("user-1", models.UserRoleModerator, 0)
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.UserRoleModerator, claims.Role)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	_, err := m.Generate("user-1", models.UserRoleAnonymous, 0)
	assert.Error(t, err, "anonymous is not a token role")
	_, err = m.Generate("", models.UserRoleMember, 0)
	assert.Error(t, err)

	token, err := m.Generate("user-1", models.UserRoleMember, 0)
	require.NoError(t, err)

	// Чужой секрет
	_, err = NewTokenManager("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Истекший токен
	expired := NewTokenManager("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Generate("user-1", models.UserRoleMember, 0)
	require.NoError(t, err)
	_, err = m.Parse(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Мусор
	_, err = m.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsUnknownRoleAndAlgorithm(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:           "user-1",
		Role:             "admin",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = m.Parse(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID:           "user-1",
		Role:             models.UserRoleMember,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = m.Parse(hs512)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
