package request

import "github.com/google/uuid"

type GenerateCouponRequest struct {
	StationID uuid.UUID `json:"station_id" binding:"required"`
	// Amount is the fuel purchase in won; tickets derive from it server-side.
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

type ScanCouponRequest struct {
	Token string `json:"token" binding:"required"`
}
