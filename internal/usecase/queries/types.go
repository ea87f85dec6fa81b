package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type CouponView struct {
	ID           uuid.UUID  `json:"id"`
	StationID    uuid.UUID  `json:"station_id"`
	EmployeeID   uuid.UUID  `json:"employee_id"`
	Amount       int64      `json:"amount"`
	BaseTickets  int32      `json:"base_tickets"`
	BonusTickets int32      `json:"bonus_tickets"`
	TotalTickets int32      `json:"total_tickets"`
	Status       string     `json:"status"`
	ScannedBy    *uuid.UUID `json:"scanned_by,omitempty"`
	ScannedAt    *time.Time `json:"scanned_at,omitempty"`
	ActivatedAt  *time.Time `json:"activated_at,omitempty"`
	ExpiresAt    time.Time  `json:"expires_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

type RaffleView struct {
	ID            uuid.UUID  `json:"id"`
	Period        string     `json:"period"`
	MerkleRoot    string     `json:"merkle_root"`
	Status        string     `json:"status"`
	EntryCount    int        `json:"entry_count"`
	DrawAt        *time.Time `json:"draw_at,omitempty"`
	ExternalSeed  *string    `json:"external_seed,omitempty"`
	WinnerEntryID *uuid.UUID `json:"winner_entry_id,omitempty"`
}

type RaffleEntryView struct {
	PointID  uuid.UUID `json:"point_id"`
	UserID   uuid.UUID `json:"user_id"`
	Position int32     `json:"position"`
}

type WinnerView struct {
	RaffleID       uuid.UUID `json:"raffle_id"`
	UserID         uuid.UUID `json:"user_id"`
	WinningPointID uuid.UUID `json:"winning_point_id"`
	Prize          string    `json:"prize"`
}

// VerificationView is the public-audit projection: every value a third
// party needs to replay the draw offline, plus the recomputed result.
type VerificationView struct {
	RaffleID         uuid.UUID `json:"raffle_id"`
	MerkleRoot       string    `json:"merkle_root"`
	ExternalSeed     string    `json:"external_seed"`
	EntryCount       int       `json:"entry_count"`
	RecomputedIndex  int       `json:"recomputed_index"`
	RecordedWinnerID uuid.UUID `json:"recorded_winner_id"`
	Valid            bool      `json:"valid"`
}
