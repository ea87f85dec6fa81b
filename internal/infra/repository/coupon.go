package repository

import (
	"context"

	"fuelraffle/internal/domain/coupon"
	"fuelraffle/internal/infra"
	"fuelraffle/internal/infra/db"
	"fuelraffle/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CouponRepository struct{}

func NewCouponRepository() *CouponRepository {
	return &CouponRepository{}
}

const insertCouponSQL = `
INSERT INTO coupons (
	id, station_id, employee_id, amount, base_tickets, bonus_tickets,
	status, token, qr_payload, expires_at, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

func (r *CouponRepository) Create(ctx context.Context, dbtx db.DBTX, c *coupon.Coupon) error {
	_, err := dbtx.Exec(ctx, insertCouponSQL,
		pgconv.UUIDToPgtype(c.ID()),
		pgconv.UUIDToPgtype(c.StationID()),
		pgconv.UUIDToPgtype(c.EmployeeID()),
		c.Amount(),
		c.BaseTickets(),
		c.BonusTickets(),
		c.Status().String(),
		c.Token(),
		c.QRPayload(),
		pgconv.TimeToPgtype(c.ExpiresAt()),
		pgconv.TimeToPgtype(c.CreatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create coupon", err)
	}
	return nil
}

func (r *CouponRepository) AttachToken(ctx context.Context, dbtx db.DBTX, id uuid.UUID, token, qrPayload string) error {
	tag, err := dbtx.Exec(ctx,
		`UPDATE coupons SET token = $2, qr_payload = $3 WHERE id = $1`,
		pgconv.UUIDToPgtype(id), token, qrPayload,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to attach coupon token", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return nil
}

const selectCouponForUpdateSQL = `
SELECT id, station_id, employee_id, amount, base_tickets, bonus_tickets,
	status, token, qr_payload, scanned_by, scanned_at, activated_at,
	expires_at, created_at
FROM coupons
WHERE id = $1
FOR UPDATE`

// FindByIDForUpdate holds a row-level exclusive lock until the enclosing
// transaction ends, so concurrent scans of the same coupon serialize.
func (r *CouponRepository) FindByIDForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*coupon.Coupon, error) {
	row := dbtx.QueryRow(ctx, selectCouponForUpdateSQL, pgconv.UUIDToPgtype(id))

	c, err := scanCoupon(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon for update", err)
	}
	return c, nil
}

const updateCouponTransitionSQL = `
UPDATE coupons
SET status = $2, scanned_by = $3, scanned_at = $4, activated_at = $5
WHERE id = $1`

func (r *CouponRepository) SaveTransition(ctx context.Context, dbtx db.DBTX, c *coupon.Coupon) error {
	tag, err := dbtx.Exec(ctx, updateCouponTransitionSQL,
		pgconv.UUIDToPgtype(c.ID()),
		c.Status().String(),
		pgconv.UUIDPtrToPgtype(c.ScannedBy()),
		pgconv.TimePtrToPgtype(c.ScannedAt()),
		pgconv.TimePtrToPgtype(c.ActivatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save coupon transition", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCoupon(row rowScanner) (*coupon.Coupon, error) {
	var (
		id, stationID, employeeID pgtype.UUID
		amount                    int64
		baseTickets, bonusTickets int32
		status                    string
		token, qrPayload          string
		scannedBy                 pgtype.UUID
		scannedAt, activatedAt    pgtype.Timestamptz
		expiresAt, createdAt      pgtype.Timestamptz
	)

	err := row.Scan(
		&id, &stationID, &employeeID, &amount, &baseTickets, &bonusTickets,
		&status, &token, &qrPayload, &scannedBy, &scannedAt, &activatedAt,
		&expiresAt, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	st, err := coupon.NewStatus(status)
	if err != nil {
		return nil, err
	}

	return coupon.Rehydrate(
		uuid.UUID(id.Bytes),
		uuid.UUID(stationID.Bytes),
		uuid.UUID(employeeID.Bytes),
		amount,
		baseTickets, bonusTickets,
		st,
		token, qrPayload,
		pgconv.UUIDPtrFromPgtype(scannedBy),
		pgconv.TimePtrFromPgtype(scannedAt),
		pgconv.TimePtrFromPgtype(activatedAt),
		expiresAt.Time, createdAt.Time,
	), nil
}
