package qrsign

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidFormat    = errors.New("invalid payload format")
	ErrInvalidSignature = errors.New("invalid payload signature")
	ErrInvalidPayload   = errors.New("invalid payload claims")
	ErrInvalidKey       = errors.New("invalid dispenser key")
)

// Payload is the ephemeral claim set a dispenser signs at scan time.
// Unknown fields are rejected at decode time.
type Payload struct {
	StationID   string `json:"stationId"`
	DispenserID string `json:"dispenserId"`
	Nonce       string `json:"nonce"`
	IssuedAt    int64  `json:"issuedAt"`
	ExpiresAt   int64  `json:"expiresAt"`
}

func (p Payload) Expiry() time.Time { return time.Unix(p.ExpiresAt, 0) }

// Verifier checks dispenser payloads against the authority's public key.
type Verifier struct {
	publicKey ed25519.PublicKey
}

func NewVerifier(hexPublicKey string) (*Verifier, error) {
	raw, err := hex.DecodeString(hexPublicKey)
	if err != nil || len(raw) != ed25519.PublicKeySize {
		return nil, ErrInvalidKey
	}
	return &Verifier{publicKey: ed25519.PublicKey(raw)}, nil
}

// Split separates a wire payload into its encoded-claims prefix and
// signature part. The prefix is also the rate-limit key material, so it
// is exposed before any cryptographic work happens.
func Split(wire string) (encodedClaims, encodedSig string, err error) {
	parts := strings.Split(wire, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", ErrInvalidFormat
	}
	return parts[0], parts[1], nil
}

// Verify checks the ed25519 signature over the raw encoded-claims bytes.
func (v *Verifier) Verify(encodedClaims, encodedSig string) error {
	sig, err := base64.RawURLEncoding.DecodeString(encodedSig)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return ErrInvalidSignature
	}
	if !ed25519.Verify(v.publicKey, []byte(encodedClaims), sig) {
		return ErrInvalidSignature
	}
	return nil
}

// Decode parses the claims part into the fixed payload schema.
func Decode(encodedClaims string) (*Payload, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encodedClaims)
	if err != nil {
		return nil, ErrInvalidPayload
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, ErrInvalidPayload
	}
	if p.StationID == "" || p.DispenserID == "" || p.Nonce == "" || p.ExpiresAt == 0 {
		return nil, ErrInvalidPayload
	}
	return &p, nil
}

// Signer mints signed payloads. The production authority runs on the
// dispenser itself; this implementation backs ops tooling and tests.
type Signer struct {
	privateKey ed25519.PrivateKey
}

func NewSigner(privateKey ed25519.PrivateKey) *Signer {
	return &Signer{privateKey: privateKey}
}

func (s *Signer) Sign(p Payload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	encodedClaims := base64.RawURLEncoding.EncodeToString(raw)
	sig := ed25519.Sign(s.privateKey, []byte(encodedClaims))
	return encodedClaims + "." + base64.RawURLEncoding.EncodeToString(sig), nil
}
