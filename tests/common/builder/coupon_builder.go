//go:build unit

package builder

import (
	"time"

	domcoupon "fuelraffle/internal/domain/coupon"
	reqdto "fuelraffle/internal/handler/dto/request"
	"fuelraffle/internal/usecase/commands"
	"fuelraffle/internal/usecase/queries"

	"github.com/google/uuid"
)

type CouponBuilder struct {
	CouponID    uuid.UUID
	StationID   uuid.UUID
	EmployeeID  uuid.UUID
	Amount      int64
	TicketRatio int64
	Status      string
	CreatedAt   time.Time
	TTL         time.Duration
}

func NewCouponBuilder() *CouponBuilder {
	return &CouponBuilder{
		CouponID:    uuid.New(),
		StationID:   uuid.New(),
		EmployeeID:  uuid.New(),
		Amount:      50000,
		TicketRatio: 10000,
		Status:      domcoupon.StatusGenerated.String(),
		CreatedAt:   time.Now(),
		TTL:         15 * time.Minute,
	}
}

func (b *CouponBuilder) With(mutate func(*CouponBuilder)) *CouponBuilder {
	mutate(b)
	return b
}

func (b *CouponBuilder) BuildDomain() (*domcoupon.Coupon, error) {
	return domcoupon.New(b.StationID, b.EmployeeID, b.Amount, b.TicketRatio, b.CreatedAt, b.TTL)
}

func (b *CouponBuilder) BuildGenerateRequestDTO() reqdto.GenerateCouponRequest {
	return reqdto.GenerateCouponRequest{
		StationID: b.StationID,
		Amount:    b.Amount,
	}
}

func (b *CouponBuilder) BuildScanRequestDTO(token string) reqdto.ScanCouponRequest {
	return reqdto.ScanCouponRequest{Token: token}
}

func (b *CouponBuilder) BuildGenerateResult() *commands.GenerateCouponResult {
	return &commands.GenerateCouponResult{
		CouponID:    b.CouponID,
		Token:       "signed.coupon.token",
		QRCode:      "fuelraffle://coupon/signed.coupon.token",
		BaseTickets: int32(b.Amount / b.TicketRatio),
		ExpiresAt:   b.CreatedAt.Add(b.TTL).Unix(),
	}
}

func (b *CouponBuilder) BuildView() *queries.CouponView {
	base := int32(b.Amount / b.TicketRatio)
	return &queries.CouponView{
		ID:           b.CouponID,
		StationID:    b.StationID,
		EmployeeID:   b.EmployeeID,
		Amount:       b.Amount,
		BaseTickets:  base,
		TotalTickets: base,
		Status:       b.Status,
		ExpiresAt:    b.CreatedAt.Add(b.TTL),
		CreatedAt:    b.CreatedAt,
	}
}
