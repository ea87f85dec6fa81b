package shared

import (
	"context"
	"time"

	"fuelraffle/internal/domain/coupon"
	"fuelraffle/internal/domain/raffle"
	"fuelraffle/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
}

type Tx interface {
	Coupons() CouponRepository
	Raffles() RaffleRepository
	Outbox() OutboxRepository
	Users() UserRepository
	DB() db.DBTX
}

type CouponRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, c *coupon.Coupon) error
	// AttachToken stores the signed token and QR payload minted after insert.
	AttachToken(ctx context.Context, dbtx db.DBTX, id uuid.UUID, token, qrPayload string) error
	// FindByIDForUpdate takes a row-level exclusive lock for the duration of
	// the enclosing transaction. Scan/activate transitions go through this.
	FindByIDForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*coupon.Coupon, error)
	SaveTransition(ctx context.Context, dbtx db.DBTX, c *coupon.Coupon) error
}

type RaffleRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, r *raffle.Raffle) error
	FindByPeriod(ctx context.Context, dbtx db.DBTX, period string) (*raffle.Raffle, error)
	FindByIDForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*raffle.Raffle, error)
	InsertEntries(ctx context.Context, dbtx db.DBTX, raffleID uuid.UUID, entries []raffle.Entry) error
	// ListEntries returns the committed entry list in its persisted position
	// order; the draw index maps into exactly this order.
	ListEntries(ctx context.Context, dbtx db.DBTX, raffleID uuid.UUID) ([]raffle.Entry, error)
	SaveDrawn(ctx context.Context, dbtx db.DBTX, r *raffle.Raffle) error
	InsertWinner(ctx context.Context, dbtx db.DBTX, w raffle.Winner) error
}

type OutboxRepository interface {
	// Record must only be called inside the same transaction as the state
	// change it announces.
	Record(ctx context.Context, dbtx db.DBTX, aggregateType string, aggregateID uuid.UUID, eventType string, payload []byte) error
}

type UserRepository interface {
	FindOrCreateByPhone(ctx context.Context, dbtx db.DBTX, phone string) (uuid.UUID, string, error)
	UpdateLastLogin(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) error
}

// OutboxRecord is an undispatched event as seen by the relay sweeper.
type OutboxRecord struct {
	ID            int64
	AggregateType string
	AggregateID   uuid.UUID
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
	DispatchedAt  *time.Time
}
