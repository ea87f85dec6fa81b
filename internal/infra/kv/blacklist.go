package kv

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"fuelraffle/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "auth:blacklist:"

// Blacklist stores revoked credentials until their natural expiry. Tokens
// are keyed by digest so raw credentials never land in the store.
type Blacklist struct {
	rdb *redis.Client
}

func NewBlacklist(rdb *redis.Client) *Blacklist {
	return &Blacklist{rdb: rdb}
}

// Claim revokes the token if and only if it was not already revoked.
// Rotation uses this as its once-only gate: the second of two concurrent
// rotations finds the entry present and loses.
func (b *Blacklist) Claim(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		// Token already expired naturally; nothing to revoke, but the
		// claim must still fail for a second caller.
		ttl = time.Second
	}
	ok, err := b.rdb.SetNX(ctx, blacklistPrefix+digest(token), 1, ttl).Result()
	if err != nil {
		return false, errs.Wrap(err, "failed to claim blacklist entry")
	}
	return ok, nil
}

// Revoke unconditionally blacklists the token for ttl. Used by logout,
// where revoking an already-revoked token is not an error.
func (b *Blacklist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.rdb.Set(ctx, blacklistPrefix+digest(token), 1, ttl).Err(); err != nil {
		return errs.Wrap(err, "failed to revoke token")
	}
	return nil
}

func (b *Blacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := b.rdb.Exists(ctx, blacklistPrefix+digest(token)).Result()
	if err != nil {
		return false, errs.Wrap(err, "failed to check blacklist")
	}
	return n > 0, nil
}

func digest(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
