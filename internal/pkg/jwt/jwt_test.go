//go:build unit

package jwt_test

import (
	"testing"
	"time"

	"fuelraffle/internal/pkg/clock"
	"fuelraffle/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(clk clock.Clock) *jwt.Service {
	return jwt.NewService("unit-test-secret", 15*time.Minute, 14*24*time.Hour, clk)
}

func TestGenerateAndValidate(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC))
	svc := newService(clk)
	subject := uuid.New()

	t.Run("access token round trip", func(t *testing.T) {
		token, err := svc.GenerateAccessToken(subject, "user")
		require.NoError(t, err)

		claims, err := svc.Validate(token, jwt.TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, subject, claims.Subject)
		assert.Equal(t, jwt.TokenTypeAccess, claims.TokenType)
		assert.Equal(t, "user", claims.Role)
	})

	t.Run("refresh token round trip", func(t *testing.T) {
		token, err := svc.GenerateRefreshToken(subject, "user")
		require.NoError(t, err)

		claims, err := svc.Validate(token, jwt.TokenTypeRefresh)
		require.NoError(t, err)
		assert.Equal(t, jwt.TokenTypeRefresh, claims.TokenType)
	})

	t.Run("cross-type use is rejected", func(t *testing.T) {
		access, err := svc.GenerateAccessToken(subject, "user")
		require.NoError(t, err)
		refresh, err := svc.GenerateRefreshToken(subject, "user")
		require.NoError(t, err)

		_, err = svc.Validate(access, jwt.TokenTypeRefresh)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
		_, err = svc.Validate(refresh, jwt.TokenTypeAccess)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token, err := svc.GenerateAccessToken(subject, "user")
		require.NoError(t, err)

		clk.Add(16 * time.Minute)
		defer clk.Add(-16 * time.Minute)

		_, err = svc.Validate(token, jwt.TokenTypeAccess)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("tampered token is rejected", func(t *testing.T) {
		token, err := svc.GenerateAccessToken(subject, "user")
		require.NoError(t, err)

		tampered := token[:len(token)-2] + "xx"
		_, err = svc.Validate(tampered, jwt.TokenTypeAccess)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("token signed with a different secret is rejected", func(t *testing.T) {
		other := jwt.NewService("other-secret", 15*time.Minute, time.Hour, clk)
		token, err := other.GenerateAccessToken(subject, "user")
		require.NoError(t, err)

		_, err = svc.Validate(token, jwt.TokenTypeAccess)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("malformed token is rejected", func(t *testing.T) {
		_, err := svc.Validate("not-a-token", jwt.TokenTypeAccess)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}

func TestGenerateWithTTL(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC))
	svc := newService(clk)
	couponID := uuid.New()

	token, err := svc.GenerateWithTTL(couponID, jwt.TokenTypeCoupon, 24*time.Hour)
	require.NoError(t, err)

	claims, err := svc.Validate(token, jwt.TokenTypeCoupon)
	require.NoError(t, err)
	assert.Equal(t, couponID, claims.Subject)

	clk.Add(25 * time.Hour)
	_, err = svc.Validate(token, jwt.TokenTypeCoupon)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestRemainingValidity(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC))
	svc := newService(clk)

	token, err := svc.GenerateAccessToken(uuid.New(), "user")
	require.NoError(t, err)
	claims, err := svc.Validate(token, jwt.TokenTypeAccess)
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, svc.RemainingValidity(claims))

	clk.Add(10 * time.Minute)
	assert.Equal(t, 5*time.Minute, svc.RemainingValidity(claims))

	clk.Add(10 * time.Minute)
	assert.Equal(t, time.Duration(0), svc.RemainingValidity(claims))
}
