package response

import (
	"github.com/google/uuid"
)

type CloseAcceptedResponse struct {
	JobID     uuid.UUID `json:"job_id"`
	StatusURL string    `json:"status_url"`
}

type DrawResponse struct {
	RaffleID       uuid.UUID `json:"raffle_id"`
	WinnerUserID   uuid.UUID `json:"winner_user_id"`
	WinningPointID uuid.UUID `json:"winning_point_id"`
	ExternalSeed   string    `json:"external_seed"`
	MerkleRoot     string    `json:"merkle_root"`
}

// RaffleEntriesResponse carries the committed entry list together with the
// root it was committed under, so an auditor can rebuild the root from the
// body alone.
type RaffleEntriesResponse struct {
	RaffleID   uuid.UUID         `json:"raffle_id"`
	MerkleRoot string            `json:"merkle_root"`
	Entries    []RaffleEntryItem `json:"entries"`
}

type RaffleEntryItem struct {
	PointID  uuid.UUID `json:"point_id"`
	UserID   uuid.UUID `json:"user_id"`
	Position int32     `json:"position"`
}

type JobStatusResponse struct {
	JobID    uuid.UUID  `json:"job_id"`
	Period   string     `json:"period"`
	State    string     `json:"state"`
	RaffleID *uuid.UUID `json:"raffle_id,omitempty"`
	Error    string     `json:"error,omitempty"`
}
