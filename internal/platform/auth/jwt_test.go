package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestNewAccessTokenRoundTrip(t *testing.T) {
	token, err := NewAccessToken(42, "dana@example.com", "customer", testSecret, 15*time.Minute)
	require.NoError(t, err)

	claims, err := Parse(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "dana@example.com", claims.Email)
	assert.Equal(t, "customer", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestParseExpiredToken(t *testing.T) {
	token, err := NewAccessToken(42, "dana@example.com", "customer", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = Parse(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseWrongSecret(t *testing.T) {
	token, err := NewAccessToken(42, "dana@example.com", "customer", testSecret, 15*time.Minute)
	require.NoError(t, err)

	_, err = Parse(token, "other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseGarbage(t *testing.T) {
	_, err := Parse("not.a.token", testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseRequiresExpiry(t *testing.T) {
	// A validly signed token with no exp claim must not be accepted;
	// downstream code relies on ExpiresAt being present.
	claims := Claims{UserID: 42, Email: "dana@example.com", Role: "customer"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = Parse(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokensGetUniqueIDs(t *testing.T) {
	a, err := NewAccessToken(1, "a@example.com", "customer", testSecret, time.Minute)
	require.NoError(t, err)
	b, err := NewAccessToken(1, "a@example.com", "customer", testSecret, time.Minute)
	require.NoError(t, err)

	ca, err := Parse(a, testSecret)
	require.NoError(t, err)
	cb, err := Parse(b, testSecret)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}
