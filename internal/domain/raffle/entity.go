package raffle

import (
	"errors"
	"time"

	"fuelraffle/internal/pkg/merkle"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus = errors.New("invalid raffle status")
	ErrAlreadyClosed = errors.New("raffle already closed")
	ErrInvalidState  = errors.New("invalid raffle state transition")
	ErrNoEntries     = errors.New("raffle period has no entries")
	ErrInvalidSeed   = errors.New("invalid external seed")
)

type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
	StatusDrawn  Status = "DRAWN"
)

func (s Status) String() string { return string(s) }

func NewStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusOpen, StatusClosed, StatusDrawn:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// Entry is one qualifying redemption point. Position fixes the entry's index
// in the committed order; the draw maps its winner index against this order,
// never against a re-fetched list.
type Entry struct {
	RaffleID uuid.UUID
	PointID  uuid.UUID
	UserID   uuid.UUID
	Position int32
}

type Winner struct {
	RaffleID       uuid.UUID
	UserID         uuid.UUID
	WinningPointID uuid.UUID
	Prize          string
}

// Raffle is a per-period draw. The merkle root is fixed at close time,
// before the external seed exists, which is what makes the draw a
// commit-then-reveal protocol.
type Raffle struct {
	id            uuid.UUID
	period        string
	merkleRoot    string
	status        Status
	drawAt        *time.Time
	externalSeed  *string
	winnerEntryID *uuid.UUID
}

// Close commits the period's entries: their leaves are hashed into a merkle
// root and the raffle starts life CLOSED with that root fixed.
func Close(period string, entries []Entry) (*Raffle, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	leaves := make([]string, len(entries))
	for i, e := range entries {
		leaves[i] = EntryLeaf(e)
	}

	root, err := merkle.Root(leaves)
	if err != nil {
		return nil, err
	}

	return &Raffle{
		id:         uuid.New(),
		period:     period,
		merkleRoot: root,
		status:     StatusClosed,
	}, nil
}

// EntryLeaf is the canonical leaf encoding for one entry. Published so
// third-party verifiers can rebuild the committed root.
func EntryLeaf(e Entry) string {
	return e.PointID.String() + ":" + e.UserID.String()
}

func Rehydrate(
	id uuid.UUID,
	period, merkleRoot string,
	status Status,
	drawAt *time.Time,
	externalSeed *string,
	winnerEntryID *uuid.UUID,
) *Raffle {
	return &Raffle{
		id:            id,
		period:        period,
		merkleRoot:    merkleRoot,
		status:        status,
		drawAt:        drawAt,
		externalSeed:  externalSeed,
		winnerEntryID: winnerEntryID,
	}
}

// Draw selects the winner among entries using the committed root and the
// revealed external seed, then transitions CLOSED -> DRAWN. entries must be
// the persisted, position-ordered list committed at close time.
func (r *Raffle) Draw(seed string, entries []Entry, now time.Time) (*Entry, error) {
	if r.status != StatusClosed {
		return nil, ErrInvalidState
	}
	if !isHexSeed(seed) {
		return nil, ErrInvalidSeed
	}
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	idx := WinnerIndex(r.merkleRoot, seed, len(entries))
	winner := entries[idx]

	r.status = StatusDrawn
	r.externalSeed = &seed
	r.winnerEntryID = &winner.PointID
	drawAt := now
	r.drawAt = &drawAt

	return &winner, nil
}

func isHexSeed(seed string) bool {
	if len(seed) == 0 {
		return false
	}
	for _, c := range seed {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func (r *Raffle) ID() uuid.UUID            { return r.id }
func (r *Raffle) Period() string           { return r.period }
func (r *Raffle) MerkleRoot() string       { return r.merkleRoot }
func (r *Raffle) Status() Status           { return r.status }
func (r *Raffle) DrawAt() *time.Time       { return r.drawAt }
func (r *Raffle) ExternalSeed() *string    { return r.externalSeed }
func (r *Raffle) WinnerEntryID() *uuid.UUID { return r.winnerEntryID }
