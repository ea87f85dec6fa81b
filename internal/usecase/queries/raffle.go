package queries

import (
	"context"

	"fuelraffle/internal/domain/raffle"
	"fuelraffle/internal/infra"
	"fuelraffle/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrRaffleNotFound = errs.New("raffle not found")
	ErrWinnerNotFound = errs.New("winner not found")
	ErrNotDrawn       = errs.New("raffle not drawn yet")
)

type RaffleQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*RaffleView, error)
	ListEntries(ctx context.Context, id uuid.UUID) ([]RaffleEntryView, error)
	GetWinner(ctx context.Context, id uuid.UUID) (*WinnerView, error)
	// Verify replays the draw from the persisted inputs alone.
	Verify(ctx context.Context, id uuid.UUID) (*VerificationView, error)
}

type RaffleViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RaffleView, error)
	ListEntries(ctx context.Context, raffleID uuid.UUID) ([]RaffleEntryView, error)
	FindWinner(ctx context.Context, raffleID uuid.UUID) (*WinnerView, error)
}

type raffleQueriesImpl struct {
	repo RaffleViewRepo
}

func NewRaffleQueries(repo RaffleViewRepo) RaffleQueries {
	return &raffleQueriesImpl{repo: repo}
}

func (q *raffleQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*RaffleView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrRaffleNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *raffleQueriesImpl) ListEntries(ctx context.Context, id uuid.UUID) ([]RaffleEntryView, error) {
	return q.repo.ListEntries(ctx, id)
}

func (q *raffleQueriesImpl) GetWinner(ctx context.Context, id uuid.UUID) (*WinnerView, error) {
	winner, err := q.repo.FindWinner(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrWinnerNotFound
		}
		return nil, err
	}
	return winner, nil
}

// Verify recomputes the merkle root and winner index from the persisted
// entry order and compares against the recorded winner. Everything it
// reads is public, so its output doubles as the offline-audit recipe.
func (q *raffleQueriesImpl) Verify(ctx context.Context, id uuid.UUID) (*VerificationView, error) {
	view, err := q.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if view.Status != raffle.StatusDrawn.String() || view.ExternalSeed == nil {
		return nil, ErrNotDrawn
	}

	winner, err := q.GetWinner(ctx, id)
	if err != nil {
		return nil, err
	}

	entryViews, err := q.repo.ListEntries(ctx, id)
	if err != nil {
		return nil, err
	}

	entries := make([]raffle.Entry, len(entryViews))
	for i, e := range entryViews {
		entries[i] = raffle.Entry{
			RaffleID: id,
			PointID:  e.PointID,
			UserID:   e.UserID,
			Position: e.Position,
		}
	}

	valid, idx, err := raffle.VerifyDraw(view.MerkleRoot, *view.ExternalSeed, entries, winner.WinningPointID.String())
	if err != nil {
		return nil, err
	}

	return &VerificationView{
		RaffleID:         id,
		MerkleRoot:       view.MerkleRoot,
		ExternalSeed:     *view.ExternalSeed,
		EntryCount:       len(entries),
		RecomputedIndex:  idx,
		RecordedWinnerID: winner.UserID,
		Valid:            valid,
	}, nil
}
