package kv

import (
	"context"
	"time"

	"fuelraffle/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const noncePrefix = "qr:nonce:"

// NonceStore records redemption nonces for exactly their remaining
// validity, so replay records clean themselves up.
type NonceStore struct {
	rdb *redis.Client
}

func NewNonceStore(rdb *redis.Client) *NonceStore {
	return &NonceStore{rdb: rdb}
}

// Claim atomically records the nonce. Returns false when the nonce was
// already present: of two concurrent validations, exactly one wins.
func (s *NonceStore) Claim(ctx context.Context, nonce string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Second
	}
	ok, err := s.rdb.SetNX(ctx, noncePrefix+nonce, 1, ttl).Result()
	if err != nil {
		return false, errs.Wrap(err, "failed to claim nonce")
	}
	return ok, nil
}
