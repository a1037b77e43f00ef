package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stayloop/hotel-bookings/internal/domain"
	mw "github.com/stayloop/hotel-bookings/internal/http/middleware"
	"github.com/stayloop/hotel-bookings/internal/platform/auth"
)

const testSecret = "test-secret"

// memoryTokenStore satisfies the denylist interface for router tests.
type memoryTokenStore struct {
	revoked map[string]bool
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{revoked: map[string]bool{}}
}

func (m *memoryTokenStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl > 0 {
		m.revoked[jti] = true
	}
	return nil
}

func (m *memoryTokenStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	return m.revoked[jti], nil
}

func (m *memoryTokenStore) Close() error { return nil }

func requireAuthMW(tokens *memoryTokenStore) func(http.Handler) http.Handler {
	return mw.RequireAuth(testSecret, tokens)
}

func bearerFor(t *testing.T, userID int64, role string) string {
	t.Helper()
	token, err := auth.NewAccessToken(userID, "user@example.com", role, testSecret, 15*time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}

func adminBearer(t *testing.T) string    { return bearerFor(t, 1, domain.RoleAdmin) }
func customerBearer(t *testing.T) string { return bearerFor(t, 2, domain.RoleCustomer) }
