package kv

import (
	"context"
	"time"

	"fuelraffle/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

const otpPrefix = "auth:otp:"

var ErrChallengeNotFound = errs.New("otp challenge not found")

// OTPStore holds pending login challenges keyed by phone number. Only the
// bcrypt hash of the code is stored; the entry expires with the challenge.
type OTPStore struct {
	rdb *redis.Client
}

func NewOTPStore(rdb *redis.Client) *OTPStore {
	return &OTPStore{rdb: rdb}
}

func (s *OTPStore) Save(ctx context.Context, phone, codeHash string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, otpPrefix+phone, codeHash, ttl).Err(); err != nil {
		return errs.Wrap(err, "failed to save otp challenge")
	}
	return nil
}

func (s *OTPStore) Get(ctx context.Context, phone string) (string, error) {
	hash, err := s.rdb.Get(ctx, otpPrefix+phone).Result()
	if err == redis.Nil {
		return "", ErrChallengeNotFound
	}
	if err != nil {
		return "", errs.Wrap(err, "failed to load otp challenge")
	}
	return hash, nil
}

// Delete consumes the challenge so a verified code cannot be replayed.
func (s *OTPStore) Delete(ctx context.Context, phone string) error {
	if err := s.rdb.Del(ctx, otpPrefix+phone).Err(); err != nil {
		return errs.Wrap(err, "failed to delete otp challenge")
	}
	return nil
}
