package repository

import (
	"context"
	"errors"

	"fuelraffle/internal/domain/raffle"
	"fuelraffle/internal/infra"
	"fuelraffle/internal/infra/db"
	"fuelraffle/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const pgErrCodeUniqueViolation = "23505"

type RaffleRepository struct{}

func NewRaffleRepository() *RaffleRepository {
	return &RaffleRepository{}
}

const insertRaffleSQL = `
INSERT INTO raffles (id, period, merkle_root, status)
VALUES ($1, $2, $3, $4)`

func (r *RaffleRepository) Create(ctx context.Context, dbtx db.DBTX, rf *raffle.Raffle) error {
	_, err := dbtx.Exec(ctx, insertRaffleSQL,
		pgconv.UUIDToPgtype(rf.ID()),
		rf.Period(),
		rf.MerkleRoot(),
		rf.Status().String(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return infra.WrapRepoErr("raffle period already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create raffle", err)
	}
	return nil
}

const selectRaffleSQL = `
SELECT id, period, merkle_root, status, draw_at, external_seed, winner_entry_id
FROM raffles`

func (r *RaffleRepository) FindByPeriod(ctx context.Context, dbtx db.DBTX, period string) (*raffle.Raffle, error) {
	row := dbtx.QueryRow(ctx, selectRaffleSQL+` WHERE period = $1`, period)

	rf, err := scanRaffle(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("raffle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find raffle by period", err)
	}
	return rf, nil
}

// FindByIDForUpdate locks the raffle row; the DRAWN transition is the
// linearization point for concurrent draw attempts.
func (r *RaffleRepository) FindByIDForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*raffle.Raffle, error) {
	row := dbtx.QueryRow(ctx, selectRaffleSQL+` WHERE id = $1 FOR UPDATE`, pgconv.UUIDToPgtype(id))

	rf, err := scanRaffle(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("raffle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find raffle for update", err)
	}
	return rf, nil
}

const insertEntrySQL = `
INSERT INTO raffle_entries (raffle_id, point_id, user_id, position)
VALUES ($1, $2, $3, $4)`

func (r *RaffleRepository) InsertEntries(ctx context.Context, dbtx db.DBTX, raffleID uuid.UUID, entries []raffle.Entry) error {
	for _, e := range entries {
		_, err := dbtx.Exec(ctx, insertEntrySQL,
			pgconv.UUIDToPgtype(raffleID),
			pgconv.UUIDToPgtype(e.PointID),
			pgconv.UUIDToPgtype(e.UserID),
			e.Position,
		)
		if err != nil {
			return infra.WrapRepoErr("failed to insert raffle entry", err)
		}
	}
	return nil
}

const listEntriesSQL = `
SELECT raffle_id, point_id, user_id, position
FROM raffle_entries
WHERE raffle_id = $1
ORDER BY position`

// ListEntries returns the committed entries in position order. The winner
// index is only meaningful against this exact order.
func (r *RaffleRepository) ListEntries(ctx context.Context, dbtx db.DBTX, raffleID uuid.UUID) ([]raffle.Entry, error) {
	rows, err := dbtx.Query(ctx, listEntriesSQL, pgconv.UUIDToPgtype(raffleID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list raffle entries", err)
	}
	defer rows.Close()

	var entries []raffle.Entry
	for rows.Next() {
		var (
			rid, pointID, userID pgtype.UUID
			position             int32
		)
		if err := rows.Scan(&rid, &pointID, &userID, &position); err != nil {
			return nil, infra.WrapRepoErr("failed to scan raffle entry", err)
		}
		entries = append(entries, raffle.Entry{
			RaffleID: uuid.UUID(rid.Bytes),
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

const updateRaffleDrawnSQL = `
UPDATE raffles
SET status = $2, draw_at = $3, external_seed = $4, winner_entry_id = $5
WHERE id = $1`

func (r *RaffleRepository) SaveDrawn(ctx context.Context, dbtx db.DBTX, rf *raffle.Raffle) error {
	tag, err := dbtx.Exec(ctx, updateRaffleDrawnSQL,
		pgconv.UUIDToPgtype(rf.ID()),
		rf.Status().String(),
		pgconv.TimePtrToPgtype(rf.DrawAt()),
		pgconv.StringPtrToPgtype(rf.ExternalSeed()),
		pgconv.UUIDPtrToPgtype(rf.WinnerEntryID()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save drawn raffle", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("raffle not found", nil, infra.KindNotFound)
	}
	return nil
}

const insertWinnerSQL = `
INSERT INTO raffle_winners (raffle_id, user_id, winning_point_id, prize)
VALUES ($1, $2, $3, $4)`

func (r *RaffleRepository) InsertWinner(ctx context.Context, dbtx db.DBTX, w raffle.Winner) error {
	_, err := dbtx.Exec(ctx, insertWinnerSQL,
		pgconv.UUIDToPgtype(w.RaffleID),
		pgconv.UUIDToPgtype(w.UserID),
		pgconv.UUIDToPgtype(w.WinningPointID),
		w.Prize,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert raffle winner", err)
	}
	return nil
}

func scanRaffle(row rowScanner) (*raffle.Raffle, error) {
	var (
		id            pgtype.UUID
		period        string
		merkleRoot    string
		status        string
		drawAt        pgtype.Timestamptz
		externalSeed  pgtype.Text
		winnerEntryID pgtype.UUID
	)

	if err := row.Scan(&id, &period, &merkleRoot, &status, &drawAt, &externalSeed, &winnerEntryID); err != nil {
		return nil, err
	}

	st, err := raffle.NewStatus(status)
	if err != nil {
		return nil, err
	}

	return raffle.Rehydrate(
		uuid.UUID(id.Bytes),
		period,
		merkleRoot,
		st,
		pgconv.TimePtrFromPgtype(drawAt),
		pgconv.StringPtrFromPgtype(externalSeed),
		pgconv.UUIDPtrFromPgtype(winnerEntryID),
	), nil
}
