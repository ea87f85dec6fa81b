package response

import "github.com/google/uuid"

type RedeemResponse struct {
	PointID     uuid.UUID `json:"point_id"`
	StationID   string    `json:"station_id"`
	DispenserID string    `json:"dispenser_id"`
}
