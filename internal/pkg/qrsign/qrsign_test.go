//go:build unit

package qrsign_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"testing"
	"time"

	"fuelraffle/internal/pkg/qrsign"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKeyPair(t *testing.T) (*qrsign.Signer, *qrsign.Verifier) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	verifier, err := qrsign.NewVerifier(hex.EncodeToString(pub))
	require.NoError(t, err)
	return qrsign.NewSigner(priv), verifier
}

func samplePayload() qrsign.Payload {
	now := time.Now()
	return qrsign.Payload{
		StationID:   "ST-001",
		DispenserID: "D-07",
		Nonce:       "f3a1c9",
		IssuedAt:    now.Unix(),
		ExpiresAt:   now.Add(2 * time.Minute).Unix(),
	}
}

func TestSignAndVerify(t *testing.T) {
	signer, verifier := newKeyPair(t)

	wire, err := signer.Sign(samplePayload())
	require.NoError(t, err)

	encodedClaims, encodedSig, err := qrsign.Split(wire)
	require.NoError(t, err)
	require.NoError(t, verifier.Verify(encodedClaims, encodedSig))

	p, err := qrsign.Decode(encodedClaims)
	require.NoError(t, err)
	assert.Equal(t, "ST-001", p.StationID)
	assert.Equal(t, "D-07", p.DispenserID)
	assert.Equal(t, "f3a1c9", p.Nonce)
}

func TestSplit(t *testing.T) {
	cases := []struct {
		name string
		wire string
		ok   bool
	}{
		{name: "two parts", wire: "claims.sig", ok: true},
		{name: "missing signature", wire: "claimsonly", ok: false},
		{name: "three parts", wire: "a.b.c", ok: false},
		{name: "empty claims", wire: ".sig", ok: false},
		{name: "empty signature", wire: "claims.", ok: false},
		{name: "empty string", wire: "", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := qrsign.Split(tc.wire)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, qrsign.ErrInvalidFormat)
			}
		})
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	signer, verifier := newKeyPair(t)

	wire, err := signer.Sign(samplePayload())
	require.NoError(t, err)
	encodedClaims, encodedSig, err := qrsign.Split(wire)
	require.NoError(t, err)

	t.Run("claims tampered", func(t *testing.T) {
		forged := samplePayload()
		forged.StationID = "ST-999"
		forgedWire, err := qrsign.NewSigner(mustOtherKey(t)).Sign(forged)
		require.NoError(t, err)
		forgedClaims, _, err := qrsign.Split(forgedWire)
		require.NoError(t, err)

		assert.ErrorIs(t, verifier.Verify(forgedClaims, encodedSig), qrsign.ErrInvalidSignature)
	})

	t.Run("signature from another key", func(t *testing.T) {
		otherSigner := qrsign.NewSigner(mustOtherKey(t))
		otherWire, err := otherSigner.Sign(samplePayload())
		require.NoError(t, err)
		_, otherSig, err := qrsign.Split(otherWire)
		require.NoError(t, err)

		assert.ErrorIs(t, verifier.Verify(encodedClaims, otherSig), qrsign.ErrInvalidSignature)
	})

	t.Run("garbage signature", func(t *testing.T) {
		assert.ErrorIs(t, verifier.Verify(encodedClaims, "!!!"), qrsign.ErrInvalidSignature)
	})
}

func TestDecode(t *testing.T) {
	encode := func(s string) string {
		return base64.RawURLEncoding.EncodeToString([]byte(s))
	}

	t.Run("unknown fields rejected", func(t *testing.T) {
		_, err := qrsign.Decode(encode(`{"stationId":"s","dispenserId":"d","nonce":"n","issuedAt":1,"expiresAt":2,"extra":true}`))
		assert.ErrorIs(t, err, qrsign.ErrInvalidPayload)
	})

	t.Run("missing nonce rejected", func(t *testing.T) {
		_, err := qrsign.Decode(encode(`{"stationId":"s","dispenserId":"d","issuedAt":1,"expiresAt":2}`))
		assert.ErrorIs(t, err, qrsign.ErrInvalidPayload)
	})

	t.Run("malformed json rejected", func(t *testing.T) {
		_, err := qrsign.Decode(encode(`{not json`))
		assert.ErrorIs(t, err, qrsign.ErrInvalidPayload)
	})

	t.Run("bad base64 rejected", func(t *testing.T) {
		_, err := qrsign.Decode("%%%")
		assert.ErrorIs(t, err, qrsign.ErrInvalidPayload)
	})
}

func TestNewVerifier(t *testing.T) {
	t.Run("short key rejected", func(t *testing.T) {
		_, err := qrsign.NewVerifier("abcd")
		assert.ErrorIs(t, err, qrsign.ErrInvalidKey)
	})

	t.Run("non-hex key rejected", func(t *testing.T) {
		_, err := qrsign.NewVerifier("zz")
		assert.ErrorIs(t, err, qrsign.ErrInvalidKey)
	})
}

func mustOtherKey(t *testing.T) ed25519.PrivateKey {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return priv
}
