package readstore

import (
	"context"

	"fuelraffle/internal/infra"
	"fuelraffle/internal/infra/db"
	"fuelraffle/internal/pkg/pgconv"
	"fuelraffle/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type RaffleReadStore struct {
	db db.DBTX
}

func NewRaffleReadStore(dbtx db.DBTX) *RaffleReadStore {
	return &RaffleReadStore{db: dbtx}
}

const selectRaffleViewSQL = `
SELECT r.id, r.period, r.merkle_root, r.status, r.draw_at, r.external_seed, r.winner_entry_id,
	(SELECT count(*) FROM raffle_entries e WHERE e.raffle_id = r.id) AS entry_count
FROM raffles r
WHERE r.id = $1`

func (r *RaffleReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.RaffleView, error) {
	var (
		rid           pgtype.UUID
		period        string
		merkleRoot    string
		status        string
		drawAt        pgtype.Timestamptz
		externalSeed  pgtype.Text
		winnerEntryID pgtype.UUID
		entryCount    int64
	)

	err := r.db.QueryRow(ctx, selectRaffleViewSQL, pgconv.UUIDToPgtype(id)).Scan(
		&rid, &period, &merkleRoot, &status, &drawAt, &externalSeed, &winnerEntryID, &entryCount,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("raffle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find raffle by ID", err)
	}

	return &queries.RaffleView{
		ID:            uuid.UUID(rid.Bytes),
		Period:        period,
		MerkleRoot:    merkleRoot,
		Status:        status,
		EntryCount:    int(entryCount),
		DrawAt:        pgconv.TimePtrFromPgtype(drawAt),
		ExternalSeed:  pgconv.StringPtrFromPgtype(externalSeed),
		WinnerEntryID: pgconv.UUIDPtrFromPgtype(winnerEntryID),
	}, nil
}

const listEntryViewsSQL = `
SELECT point_id, user_id, position
FROM raffle_entries
WHERE raffle_id = $1
ORDER BY position`

func (r *RaffleReadStore) ListEntries(ctx context.Context, raffleID uuid.UUID) ([]queries.RaffleEntryView, error) {
	rows, err := r.db.Query(ctx, listEntryViewsSQL, pgconv.UUIDToPgtype(raffleID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list raffle entries", err)
	}
	defer rows.Close()

	var entries []queries.RaffleEntryView
	for rows.Next() {
		var (
			pointID, userID pgtype.UUID
			position        int32
		)
		if err := rows.Scan(&pointID, &userID, &position); err != nil {
			return nil, infra.WrapRepoErr("failed to scan raffle entry", err)
		}
		entries = append(entries, queries.RaffleEntryView{
			PointID:  uuid.UUID(pointID.Bytes),
			UserID:   uuid.UUID(userID.Bytes),
			Position: position,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate raffle entries", err)
	}
	return entries, nil
}

const selectWinnerSQL = `
SELECT raffle_id, user_id, winning_point_id, prize
FROM raffle_winners
WHERE raffle_id = $1`

func (r *RaffleReadStore) FindWinner(ctx context.Context, raffleID uuid.UUID) (*queries.WinnerView, error) {
	var (
		rid, userID, pointID pgtype.UUID
		prize                string
	)

	err := r.db.QueryRow(ctx, selectWinnerSQL, pgconv.UUIDToPgtype(raffleID)).Scan(&rid, &userID, &pointID, &prize)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("raffle winner not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find raffle winner", err)
	}

	return &queries.WinnerView{
		RaffleID:       uuid.UUID(rid.Bytes),
		UserID:         uuid.UUID(userID.Bytes),
		WinningPointID: uuid.UUID(pointID.Bytes),
		Prize:          prize,
	}, nil
}
