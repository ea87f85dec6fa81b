//go:build unit

package otp_test

import (
	"testing"

	"fuelraffle/internal/pkg/otp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	code, err := otp.GenerateCode()
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}
}

func TestHashAndCompare(t *testing.T) {
	hashed, err := otp.HashCode("493027")
	require.NoError(t, err)
	assert.NotEqual(t, "493027", hashed)

	assert.NoError(t, otp.CompareCode(hashed, "493027"))
	assert.ErrorIs(t, otp.CompareCode(hashed, "000000"), otp.ErrCodeMismatch)
}

func TestEmptyInputs(t *testing.T) {
	_, err := otp.HashCode("")
	assert.ErrorIs(t, err, otp.ErrInvalidCode)

	assert.ErrorIs(t, otp.CompareCode("", "123456"), otp.ErrInvalidCode)
	assert.ErrorIs(t, otp.CompareCode("hash", ""), otp.ErrInvalidCode)
}
