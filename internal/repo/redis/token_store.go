package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "denylist:token:"

// TokenStore tracks revoked access tokens. Entries carry the remaining
// token lifetime as their TTL and expire with the token.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Close() error
}

type tokenStore struct {
	client *redis.Client
}

func NewTokenStore(url string) (TokenStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &tokenStore{client: redis.NewClient(opts)}, nil
}

func (s *tokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already past expiry, nothing to revoke.
		return nil
	}
	return s.client.Set(ctx, denylistPrefix+jti, "1", ttl).Err()
}

func (s *tokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, err := s.client.Get(ctx, denylistPrefix+jti).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *tokenStore) Close() error {
	return s.client.Close()
}
