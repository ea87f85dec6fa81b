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

type CouponReadStore struct {
	db db.DBTX
}

func NewCouponReadStore(dbtx db.DBTX) *CouponReadStore {
	return &CouponReadStore{db: dbtx}
}

const selectCouponViewSQL = `
SELECT id, station_id, employee_id, amount, base_tickets, bonus_tickets,
	status, scanned_by, scanned_at, activated_at, expires_at, created_at
FROM coupons
WHERE id = $1`

func (r *CouponReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.CouponView, error) {
	var (
		cid, stationID, employeeID pgtype.UUID
		amount                     int64
		baseTickets, bonusTickets  int32
		status                     string
		scannedBy                  pgtype.UUID
		scannedAt, activatedAt     pgtype.Timestamptz
		expiresAt, createdAt       pgtype.Timestamptz
	)

	err := r.db.QueryRow(ctx, selectCouponViewSQL, pgconv.UUIDToPgtype(id)).Scan(
		&cid, &stationID, &employeeID, &amount, &baseTickets, &bonusTickets,
		&status, &scannedBy, &scannedAt, &activatedAt, &expiresAt, &createdAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by ID", err)
	}

	return &queries.CouponView{
		ID:           uuid.UUID(cid.Bytes),
		StationID:    uuid.UUID(stationID.Bytes),
		EmployeeID:   uuid.UUID(employeeID.Bytes),
		Amount:       amount,
		BaseTickets:  baseTickets,
		BonusTickets: bonusTickets,
		TotalTickets: baseTickets + bonusTickets,
		Status:       status,
		ScannedBy:    pgconv.UUIDPtrFromPgtype(scannedBy),
		ScannedAt:    pgconv.TimePtrFromPgtype(scannedAt),
		ActivatedAt:  pgconv.TimePtrFromPgtype(activatedAt),
		ExpiresAt:    expiresAt.Time,
		CreatedAt:    createdAt.Time,
	}, nil
}
