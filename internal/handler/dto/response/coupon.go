package response

import (
	"time"

	"fuelraffle/internal/domain/coupon"

	"github.com/google/uuid"
)

type GenerateCouponResponse struct {
	CouponID    uuid.UUID `json:"coupon_id"`
	Token       string    `json:"token"`
	QRCode      string    `json:"qr_code"`
	BaseTickets int32     `json:"base_tickets"`
	ExpiresAt   int64     `json:"expires_at"`
}

// CouponStateResponse is the post-transition snapshot returned by scan and
// activate.
type CouponStateResponse struct {
	ID           uuid.UUID  `json:"id"`
	Status       string     `json:"status"`
	BaseTickets  int32      `json:"base_tickets"`
	BonusTickets int32      `json:"bonus_tickets"`
	TotalTickets int32      `json:"total_tickets"`
	ScannedBy    *uuid.UUID `json:"scanned_by,omitempty"`
	ScannedAt    *time.Time `json:"scanned_at,omitempty"`
	ActivatedAt  *time.Time `json:"activated_at,omitempty"`
	ExpiresAt    time.Time  `json:"expires_at"`
}

func NewCouponStateResponse(c *coupon.Coupon) CouponStateResponse {
	return CouponStateResponse{
		ID:           c.ID(),
		Status:       c.Status().String(),
		BaseTickets:  c.BaseTickets(),
		BonusTickets: c.BonusTickets(),
		TotalTickets: c.TotalTickets(),
		ScannedBy:    c.ScannedBy(),
		ScannedAt:    c.ScannedAt(),
		ActivatedAt:  c.ActivatedAt(),
		ExpiresAt:    c.ExpiresAt(),
	}
}
