package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"fuelraffle/internal/pkg/clock"
	"fuelraffle/internal/pkg/errs"
	"fuelraffle/internal/pkg/qrsign"
	"fuelraffle/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrRateLimited      = errs.New("rate limited")
	ErrInvalidFormat    = errs.New("invalid redemption format")
	ErrInvalidSignature = errs.New("invalid redemption signature")
	ErrInvalidPayload   = errs.New("invalid redemption payload")
	ErrReplay           = errs.New("redemption replayed")
	ErrPayloadExpired   = errs.New("redemption payload expired")
)

const EventPointEarned = "PointEarned"

type NonceStore interface {
	Claim(ctx context.Context, nonce string, ttl time.Duration) (bool, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type RedemptionResult struct {
	PointID     uuid.UUID `json:"pointId"`
	StationID   string    `json:"stationId"`
	DispenserID string    `json:"dispenserId"`
}

type RedemptionCommands interface {
	Redeem(ctx context.Context, wire string, userID uuid.UUID) (*RedemptionResult, error)
}

type redemptionUseCaseImpl struct {
	uow       shared.UnitOfWork
	verifier  *qrsign.Verifier
	nonces    NonceStore
	limiter   RateLimiter
	clockSkew time.Duration
	clock     clock.Clock
}

func NewRedemptionUseCase(
	uow shared.UnitOfWork,
	verifier *qrsign.Verifier,
	nonces NonceStore,
	limiter RateLimiter,
	clockSkew time.Duration,
	clk clock.Clock,
) RedemptionCommands {
	return &redemptionUseCaseImpl{
		uow:       uow,
		verifier:  verifier,
		nonces:    nonces,
		limiter:   limiter,
		clockSkew: clockSkew,
		clock:     clk,
	}
}

// Redeem runs the gates strictly in order: rate limit, structural split,
// signature, payload decode, nonce claim, expiry. The ordering is load-
// bearing twice over: the rate limit must precede any signature work so a
// flood of garbage cannot buy CPU time, and the nonce must be claimed
// before the expiry check so a replayed payload reports ErrReplay rather
// than leaking whether its twin was accepted in time.
func (u *redemptionUseCaseImpl) Redeem(ctx context.Context, wire string, userID uuid.UUID) (*RedemptionResult, error) {
	allowed, err := u.limiter.Allow(ctx, rateKey(wire))
	if err != nil {
		return nil, errs.Wrap(err, "rate limiter unavailable")
	}
	if !allowed {
		return nil, ErrRateLimited
	}

	encodedClaims, encodedSig, err := qrsign.Split(wire)
	if err != nil {
		return nil, ErrInvalidFormat
	}

	if err := u.verifier.Verify(encodedClaims, encodedSig); err != nil {
		return nil, ErrInvalidSignature
	}

	payload, err := qrsign.Decode(encodedClaims)
	if err != nil {
		return nil, ErrInvalidPayload
	}

	now := u.clock.Now()
	ttl := payload.Expiry().Add(u.clockSkew).Sub(now)
	if ttl <= 0 {
		ttl = time.Second
	}
	claimed, err := u.nonces.Claim(ctx, payload.Nonce, ttl)
	if err != nil {
		return nil, errs.Wrap(err, "nonce store unavailable")
	}
	if !claimed {
		return nil, ErrReplay
	}

	if now.After(payload.Expiry().Add(u.clockSkew)) {
		return nil, ErrPayloadExpired
	}

	pointID := uuid.New()
	event := pointEarnedEvent{
		PointID:     pointID,
		UserID:      userID,
		StationID:   payload.StationID,
		DispenserID: payload.DispenserID,
		Nonce:       payload.Nonce,
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return nil, errs.Wrap(err, "failed to encode redemption event")
	}
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Outbox().Record(ctx, tx.DB(), "redemption", pointID, EventPointEarned, raw)
	})
	if err != nil {
		return nil, err
	}

	return &RedemptionResult{
		PointID:     pointID,
		StationID:   payload.StationID,
		DispenserID: payload.DispenserID,
	}, nil
}

type pointEarnedEvent struct {
	PointID     uuid.UUID `json:"pointId"`
	UserID      uuid.UUID `json:"userId"`
	StationID   string    `json:"stationId"`
	DispenserID string    `json:"dispenserId"`
	Nonce       string    `json:"nonce"`
}

// rateKey buckets requests by wire-payload prefix so one hot dispenser
// cannot starve the rest, and so the limiter runs before any parsing or
// signature work.
func rateKey(wire string) string {
	if len(wire) > 32 {
		wire = wire[:32]
	}
	sum := sha256.Sum256([]byte(wire))
	return hex.EncodeToString(sum[:8])
}
