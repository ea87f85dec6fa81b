package request

type RedeemRequest struct {
	// Payload is the raw scanned QR content: base64url claims, a dot, a
	// base64url ed25519 signature.
	Payload string `json:"payload" binding:"required"`
}
