package commands

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"fuelraffle/internal/domain/coupon"
	"fuelraffle/internal/infra"
	"fuelraffle/internal/pkg/clock"
	"fuelraffle/internal/pkg/errs"
	"fuelraffle/internal/pkg/jwt"
	"fuelraffle/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrCouponNotFound = errs.New("coupon not found")
	ErrInvalidCoupon  = errs.New("invalid coupon")
	ErrAlreadyUsed    = errs.New("coupon already used")
	ErrExpired        = errs.New("coupon expired")
	ErrInvalidState   = errs.New("invalid state")
	ErrForbidden      = errs.New("forbidden")
)

const EventCouponActivated = "CouponActivated"

type GenerateCouponResult struct {
	CouponID    uuid.UUID `json:"couponId"`
	Token       string    `json:"token"`
	QRCode      string    `json:"qrCode"`
	BaseTickets int32     `json:"baseTickets"`
	ExpiresAt   int64     `json:"expiresAt"`
}

type CouponConfig struct {
	TicketRatio int64
	TokenTTL    time.Duration
}

type CouponCommands interface {
	Generate(ctx context.Context, stationID, employeeID uuid.UUID, amount int64) (*GenerateCouponResult, error)
	Scan(ctx context.Context, token string, userID uuid.UUID) (*coupon.Coupon, error)
	Activate(ctx context.Context, couponID, userID uuid.UUID) (*coupon.Coupon, error)
	Complete(ctx context.Context, couponID uuid.UUID) error
}

type couponUseCaseImpl struct {
	uow    shared.UnitOfWork
	tokens *jwt.Service
	cfg    CouponConfig
	clock  clock.Clock
}

func NewCouponUseCase(uow shared.UnitOfWork, tokens *jwt.Service, cfg CouponConfig, clk clock.Clock) CouponCommands {
	return &couponUseCaseImpl{
		uow:    uow,
		tokens: tokens,
		cfg:    cfg,
		clock:  clk,
	}
}

// Generate inserts the coupon first and mints the signed token second, so
// the token's subject claim references a row that already exists. Both steps
// commit together.
func (u *couponUseCaseImpl) Generate(ctx context.Context, stationID, employeeID uuid.UUID, amount int64) (*GenerateCouponResult, error) {
	c, err := coupon.New(stationID, employeeID, amount, u.cfg.TicketRatio, u.clock.Now(), u.cfg.TokenTTL)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCoupon)
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Coupons().Create(ctx, tx.DB(), c); err != nil {
			return err
		}

		token, err := u.tokens.GenerateWithTTL(c.ID(), jwt.TokenTypeCoupon, u.cfg.TokenTTL)
		if err != nil {
			return errs.Wrap(err, "failed to sign coupon token")
		}
		c.AttachToken(token, qrPayloadFor(token))

		return tx.Coupons().AttachToken(ctx, tx.DB(), c.ID(), c.Token(), c.QRPayload())
	})
	if err != nil {
		return nil, err
	}

	return &GenerateCouponResult{
		CouponID:    c.ID(),
		Token:       c.Token(),
		QRCode:      c.QRPayload(),
		BaseTickets: c.BaseTickets(),
		ExpiresAt:   c.ExpiresAt().Unix(),
	}, nil
}

// Scan redeems the token's single GENERATED -> SCANNED transition for
// userID. The row lock serializes concurrent scans of the same coupon; the
// loser of the race reads SCANNED and fails ErrAlreadyUsed.
func (u *couponUseCaseImpl) Scan(ctx context.Context, token string, userID uuid.UUID) (*coupon.Coupon, error) {
	// Clients post the literal QR content, ops tooling posts the bare token.
	token = strings.TrimPrefix(token, qrScheme)

	claims, err := u.tokens.Validate(token, jwt.TokenTypeCoupon)
	if err != nil {
		return nil, ErrInvalidCoupon
	}

	var c *coupon.Coupon
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		locked, err := tx.Coupons().FindByIDForUpdate(ctx, tx.DB(), claims.Subject)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrCouponNotFound
			}
			return err
		}

		if err := locked.Scan(userID, u.clock.Now()); err != nil {
			return markTransitionErr(err)
		}
		if err := tx.Coupons().SaveTransition(ctx, tx.DB(), locked); err != nil {
			return err
		}
		c = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Activate confirms the scanning user's claim and records the activation
// event in the same transaction, so downstream ticket accrual sees the
// event only if the state change committed.
func (u *couponUseCaseImpl) Activate(ctx context.Context, couponID, userID uuid.UUID) (*coupon.Coupon, error) {
	var c *coupon.Coupon
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		locked, err := tx.Coupons().FindByIDForUpdate(ctx, tx.DB(), couponID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrCouponNotFound
			}
			return err
		}

		if err := locked.Activate(userID, u.clock.Now()); err != nil {
			return markTransitionErr(err)
		}
		if err := tx.Coupons().SaveTransition(ctx, tx.DB(), locked); err != nil {
			return err
		}

		payload, err := json.Marshal(activatedEvent{
			CouponID:     locked.ID(),
			UserID:       userID,
			StationID:    locked.StationID(),
			BaseTickets:  locked.BaseTickets(),
			BonusTickets: locked.BonusTickets(),
		})
		if err != nil {
			return errs.Wrap(err, "failed to encode activation event")
		}
		if err := tx.Outbox().Record(ctx, tx.DB(), "coupon", locked.ID(), EventCouponActivated, payload); err != nil {
			return err
		}
		c = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Complete closes the lifecycle once the activation event's consumer has
// accrued the tickets.
func (u *couponUseCaseImpl) Complete(ctx context.Context, couponID uuid.UUID) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		locked, err := tx.Coupons().FindByIDForUpdate(ctx, tx.DB(), couponID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrCouponNotFound
			}
			return err
		}
		if err := locked.Complete(); err != nil {
			return markTransitionErr(err)
		}
		return tx.Coupons().SaveTransition(ctx, tx.DB(), locked)
	})
}

type activatedEvent struct {
	CouponID     uuid.UUID `json:"couponId"`
	UserID       uuid.UUID `json:"userId"`
	StationID    uuid.UUID `json:"stationId"`
	BaseTickets  int32     `json:"baseTickets"`
	BonusTickets int32     `json:"bonusTickets"`
}

func markTransitionErr(err error) error {
	switch {
	case errors.Is(err, coupon.ErrAlreadyUsed):
		return ErrAlreadyUsed
	case errors.Is(err, coupon.ErrExpired):
		return ErrExpired
	case errors.Is(err, coupon.ErrForbidden):
		return ErrForbidden
	case errors.Is(err, coupon.ErrInvalidState), errors.Is(err, coupon.ErrMissingScanner):
		return ErrInvalidState
	default:
		return err
	}
}

// qrScheme is the URI prefix station QR scanners are provisioned to
// recognize. Scan accepts the full QR text or the bare token.
const qrScheme = "fuelraffle://coupon/"

func qrPayloadFor(token string) string {
	return qrScheme + token
}
