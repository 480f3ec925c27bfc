package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestServiceTokenRoundTrip(t *testing.T) {
	src := NewServiceTokenSource("s3cret", "admin-dashboard", 30*time.Minute)

	token, err := src.Token(context.Background())
	require.NoError(t, err)

	claims, err := ParseBearer("Bearer "+token, "s3cret", RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "admin-dashboard", claims["sub"])
}

func TestServiceTokenIsCachedUntilNearExpiry(t *testing.T) {
	src := NewServiceTokenSource("s3cret", "svc", 10*time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	src.now = func() time.Time { return now }

	first, err := src.Token(context.Background())
	require.NoError(t, err)

	now = now.Add(5 * time.Minute)
	second, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	now = now.Add(4*time.Minute + 30*time.Second)
	third, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestParseBearer(t *testing.T) {
	admin := signed(t, "s3cret", jwt.MapClaims{"role": "admin", "exp": time.Now().Add(time.Hour).Unix()})
	user := signed(t, "s3cret", jwt.MapClaims{"role": "user", "exp": time.Now().Add(time.Hour).Unix()})
	expired := signed(t, "s3cret", jwt.MapClaims{"role": "admin", "exp": time.Now().Add(-time.Hour).Unix()})

	_, err := ParseBearer("", "s3cret", RoleAdmin)
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = ParseBearer("Token "+admin, "s3cret", RoleAdmin)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseBearer("Bearer "+admin, "other", RoleAdmin)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseBearer("Bearer "+expired, "s3cret", RoleAdmin)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseBearer("Bearer "+user, "s3cret", RoleAdmin)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = ParseBearer("bearer "+admin, "s3cret", RoleAdmin)
	assert.NoError(t, err)
}

func TestStaticToken(t *testing.T) {
	token, err := StaticToken("abc").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
}
