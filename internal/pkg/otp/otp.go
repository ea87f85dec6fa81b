package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrHashingFailed = errors.New("otp hashing failed")
	ErrCodeMismatch  = errors.New("otp code mismatch")
	ErrInvalidCode   = errors.New("invalid otp code")
)

const codeDigits = 6

// GenerateCode returns a zero-padded 6-digit one-time code.
func GenerateCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}

// HashCode hashes a code for storage; challenges are never kept in clear.
func HashCode(code string) (string, error) {
	if code == "" {
		return "", ErrInvalidCode
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(hashed), nil
}

func CompareCode(hashedCode, code string) error {
	if hashedCode == "" || code == "" {
		return ErrInvalidCode
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hashedCode), []byte(code)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrCodeMismatch
		}
		return err
	}
	return nil
}
