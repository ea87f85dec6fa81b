package commands

import (
	"context"
	"log/slog"
	"time"

	"fuelraffle/internal/pkg/errs"
	"fuelraffle/internal/pkg/jwt"
	"fuelraffle/internal/pkg/otp"
	"fuelraffle/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCredential is the single answer for every credential
	// failure: unknown phone, wrong code, expired challenge, revoked or
	// malformed token. Callers never learn which.
	ErrInvalidCredential = errs.New("invalid credential")
	ErrOTPDelivery       = errs.New("failed to issue otp challenge")
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type OTPStore interface {
	Save(ctx context.Context, phone, codeHash string, ttl time.Duration) error
	Get(ctx context.Context, phone string) (string, error)
	Delete(ctx context.Context, phone string) error
}

type Blacklist interface {
	Claim(ctx context.Context, token string, ttl time.Duration) (bool, error)
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type CodeSender interface {
	Send(ctx context.Context, phone, code string) error
}

type AuthCommands interface {
	RequestOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, code string) (*TokenPair, error)
	Rotate(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
}

type authUseCaseImpl struct {
	uow       shared.UnitOfWork
	tokens    *jwt.Service
	otpStore  OTPStore
	blacklist Blacklist
	sender    CodeSender
	otpTTL    time.Duration
}

func NewAuthUseCase(
	uow shared.UnitOfWork,
	tokens *jwt.Service,
	otpStore OTPStore,
	blacklist Blacklist,
	sender CodeSender,
	otpTTL time.Duration,
) AuthCommands {
	return &authUseCaseImpl{
		uow:       uow,
		tokens:    tokens,
		otpStore:  otpStore,
		blacklist: blacklist,
		sender:    sender,
		otpTTL:    otpTTL,
	}
}

func (a *authUseCaseImpl) RequestOTP(ctx context.Context, phone string) error {
	code, err := otp.GenerateCode()
	if err != nil {
		return errs.Mark(err, ErrOTPDelivery)
	}
	hash, err := otp.HashCode(code)
	if err != nil {
		return errs.Mark(err, ErrOTPDelivery)
	}
	if err := a.otpStore.Save(ctx, phone, hash, a.otpTTL); err != nil {
		return errs.Mark(err, ErrOTPDelivery)
	}
	if err := a.sender.Send(ctx, phone, code); err != nil {
		return errs.Mark(err, ErrOTPDelivery)
	}
	return nil
}

func (a *authUseCaseImpl) VerifyOTP(ctx context.Context, phone, code string) (*TokenPair, error) {
	hash, err := a.otpStore.Get(ctx, phone)
	if err != nil {
		return nil, ErrInvalidCredential
	}
	if err := otp.CompareCode(hash, code); err != nil {
		return nil, ErrInvalidCredential
	}
	// Consume the challenge before minting anything; a verified code must
	// not be replayable even if token issuance fails below.
	if err := a.otpStore.Delete(ctx, phone); err != nil {
		slog.Warn("failed to consume otp challenge", "error", err)
	}

	var (
		userID uuid.UUID
		role   string
	)
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, r, err := tx.Users().FindOrCreateByPhone(ctx, tx.DB(), phone)
		if err != nil {
			return err
		}
		userID, role = id, r
		return tx.Users().UpdateLastLogin(ctx, tx.DB(), id)
	})
	if err != nil {
		return nil, errs.Wrap(err, "failed to resolve user")
	}

	return a.mintPair(userID, role)
}

// Rotate exchanges a refresh token for a fresh pair exactly once. The old
// token is claimed into the blacklist with SET NX before new tokens exist,
// so of two concurrent rotations only the one holding the claim succeeds.
func (a *authUseCaseImpl) Rotate(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.tokens.Validate(refreshToken, jwt.TokenTypeRefresh)
	if err != nil {
		return nil, ErrInvalidCredential
	}

	claimed, err := a.blacklist.Claim(ctx, refreshToken, a.tokens.RemainingValidity(claims))
	if err != nil {
		return nil, errs.Wrap(err, "failed to claim refresh token")
	}
	if !claimed {
		return nil, ErrInvalidCredential
	}

	return a.mintPair(claims.Subject, claims.Role)
}

// Logout revokes both credentials for their remaining validity. Revoking an
// already-invalid token is not an error; logout is idempotent.
func (a *authUseCaseImpl) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if claims, err := a.tokens.Validate(accessToken, jwt.TokenTypeAccess); err == nil {
		if err := a.blacklist.Revoke(ctx, accessToken, a.tokens.RemainingValidity(claims)); err != nil {
			return errs.Wrap(err, "failed to revoke access token")
		}
	}
	if claims, err := a.tokens.Validate(refreshToken, jwt.TokenTypeRefresh); err == nil {
		if err := a.blacklist.Revoke(ctx, refreshToken, a.tokens.RemainingValidity(claims)); err != nil {
			return errs.Wrap(err, "failed to revoke refresh token")
		}
	}
	return nil
}

func (a *authUseCaseImpl) mintPair(subject uuid.UUID, role string) (*TokenPair, error) {
	access, err := a.tokens.GenerateAccessToken(subject, role)
	if err != nil {
		return nil, errs.Wrap(err, "failed to sign access token")
	}
	refresh, err := a.tokens.GenerateRefreshToken(subject, role)
	if err != nil {
		return nil, errs.Wrap(err, "failed to sign refresh token")
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
