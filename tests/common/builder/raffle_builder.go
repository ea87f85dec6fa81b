//go:build unit

package builder

import (
	"fmt"
	"time"

	domraffle "fuelraffle/internal/domain/raffle"
	"fuelraffle/internal/usecase/commands"
	"fuelraffle/internal/usecase/queries"

	"github.com/google/uuid"
)

type RaffleBuilder struct {
	RaffleID     uuid.UUID
	Period       string
	MerkleRoot   string
	Status       string
	EntryCount   int
	ExternalSeed string
}

func NewRaffleBuilder() *RaffleBuilder {
	return &RaffleBuilder{
		RaffleID:     uuid.New(),
		Period:       "2026-03",
		MerkleRoot:   "aa11bb22cc33dd44ee55ff66aa77bb88cc99dd00ee11ff22aa33bb44cc55dd66",
		Status:       domraffle.StatusClosed.String(),
		EntryCount:   3,
		ExternalSeed: "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
	}
}

func (b *RaffleBuilder) With(mutate func(*RaffleBuilder)) *RaffleBuilder {
	mutate(b)
	return b
}

func (b *RaffleBuilder) BuildEntries() []domraffle.Entry {
	entries := make([]domraffle.Entry, b.EntryCount)
	for i := range entries {
		entries[i] = domraffle.Entry{
			RaffleID: b.RaffleID,
			PointID:  uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", i+1)),
			UserID:   uuid.New(),
			Position: int32(i),
		}
	}
	return entries
}

func (b *RaffleBuilder) BuildView() *queries.RaffleView {
	view := &queries.RaffleView{
		ID:         b.RaffleID,
		Period:     b.Period,
		MerkleRoot: b.MerkleRoot,
		Status:     b.Status,
		EntryCount: b.EntryCount,
	}
	if b.Status == domraffle.StatusDrawn.String() {
		now := time.Now()
		seed := b.ExternalSeed
		view.DrawAt = &now
		view.ExternalSeed = &seed
	}
	return view
}

func (b *RaffleBuilder) BuildWinnerView() *queries.WinnerView {
	return &queries.WinnerView{
		RaffleID:       b.RaffleID,
		UserID:         uuid.New(),
		WinningPointID: uuid.New(),
		Prize:          "FUEL_VOUCHER_50000",
	}
}

func (b *RaffleBuilder) BuildCloseJob() *commands.CloseJob {
	return &commands.CloseJob{
		JobID:  uuid.New(),
		Period: b.Period,
	}
}

func (b *RaffleBuilder) BuildDrawResult() *commands.DrawResult {
	return &commands.DrawResult{
		RaffleID:       b.RaffleID,
		WinnerUserID:   uuid.New(),
		WinningPointID: uuid.New(),
		ExternalSeed:   b.ExternalSeed,
		MerkleRoot:     b.MerkleRoot,
	}
}

func (b *RaffleBuilder) BuildVerificationView() *queries.VerificationView {
	return &queries.VerificationView{
		RaffleID:         b.RaffleID,
		MerkleRoot:       b.MerkleRoot,
		ExternalSeed:     b.ExternalSeed,
		EntryCount:       b.EntryCount,
		RecomputedIndex:  1,
		RecordedWinnerID: uuid.New(),
		Valid:            true,
	}
}
