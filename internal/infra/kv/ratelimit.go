package kv

import (
	"context"
	"time"

	"fuelraffle/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "qr:rate:"

const rateWindow = time.Minute

// RateLimiter counts events per key in a fixed 60 second window.
type RateLimiter struct {
	rdb   *redis.Client
	limit int64
}

func NewRateLimiter(rdb *redis.Client, limit int64) *RateLimiter {
	return &RateLimiter{rdb: rdb, limit: limit}
}

// Allow increments the key's counter and reports whether it is still under
// the ceiling. INCR and EXPIRE NX run in one pipeline: the first hit arms
// the window TTL, later hits must not re-arm it or the counter never resets.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, rateLimitPrefix+key)
	pipe.ExpireNX(ctx, rateLimitPrefix+key, rateWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, errs.Wrap(err, "failed to increment rate counter")
	}
	return incr.Val() <= l.limit, nil
}
