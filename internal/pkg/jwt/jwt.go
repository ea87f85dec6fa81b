package jwt

import (
	"errors"
	"time"

	"fuelraffle/internal/pkg/clock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every validation failure (bad signature, expiry,
// wrong type, malformed claims). Callers must not learn which check failed.
var ErrInvalidToken = errors.New("invalid token")

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
	TokenTypeCoupon  TokenType = "coupon"
)

// Claims is the fixed, versioned schema carried by every token this
// service signs. The type claim prevents cross-use of access and refresh
// tokens; coupon tokens carry the coupon id as subject.
type Claims struct {
	Subject   uuid.UUID `json:"sub_id"`
	TokenType TokenType `json:"typ"`
	Role      string    `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type Service struct {
	secretKey       []byte
	accessDuration  time.Duration
	refreshDuration time.Duration
	clock           clock.Clock
}

func NewService(secretKey string, accessDuration, refreshDuration time.Duration, clk clock.Clock) *Service {
	return &Service{
		secretKey:       []byte(secretKey),
		accessDuration:  accessDuration,
		refreshDuration: refreshDuration,
		clock:           clk,
	}
}

func (s *Service) GenerateAccessToken(subject uuid.UUID, role string) (string, error) {
	return s.generate(subject, TokenTypeAccess, role, s.accessDuration)
}

func (s *Service) GenerateRefreshToken(subject uuid.UUID, role string) (string, error) {
	return s.generate(subject, TokenTypeRefresh, role, s.refreshDuration)
}

// GenerateWithTTL signs a token with an explicit lifetime, used for coupon
// tokens whose TTL is configured per campaign rather than per credential class.
func (s *Service) GenerateWithTTL(subject uuid.UUID, typ TokenType, ttl time.Duration) (string, error) {
	return s.generate(subject, typ, "", ttl)
}

func (s *Service) generate(subject uuid.UUID, typ TokenType, role string, ttl time.Duration) (string, error) {
	now := s.clock.Now()
	claims := Claims{
		Subject:   subject,
		TokenType: typ,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// Validate verifies signature, expiry and the type claim. Every failure maps
// to ErrInvalidToken so the caller cannot be used as a verification oracle.
func (s *Service) Validate(tokenString string, expected TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.clock.Now))

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != expected {
		return nil, ErrInvalidToken
	}

	if claims.Subject == uuid.Nil || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// RemainingValidity reports how long a token stays usable from now. The
// blacklist uses this as the TTL so revocation entries self-expire exactly
// when the token would have expired naturally.
func (s *Service) RemainingValidity(claims *Claims) time.Duration {
	if claims.ExpiresAt == nil {
		return 0
	}
	remaining := claims.ExpiresAt.Time.Sub(s.clock.Now())
	if remaining < 0 {
		return 0
	}
	return remaining
}
