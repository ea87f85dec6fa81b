package coupon

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus  = errors.New("invalid coupon status")
	ErrInvalidAmount  = errors.New("amount must be positive")
	ErrInvalidRatio   = errors.New("ticket ratio must be positive")
	ErrAlreadyUsed    = errors.New("coupon already used")
	ErrExpired        = errors.New("coupon expired")
	ErrInvalidState   = errors.New("invalid coupon state transition")
	ErrForbidden      = errors.New("coupon belongs to another user")
	ErrMissingScanner = errors.New("coupon has no scanning user")
)

// Coupon is issued by a station employee against a fuel purchase and moves
// strictly forward through GENERATED, SCANNED, ACTIVATED, COMPLETED. It is
// never deleted; a GENERATED coupon past its expiry is logically dead.
type Coupon struct {
	id           uuid.UUID
	stationID    uuid.UUID
	employeeID   uuid.UUID
	amount       int64
	baseTickets  int32
	bonusTickets int32
	status       Status
	token        string
	qrPayload    string
	scannedBy    *uuid.UUID
	scannedAt    *time.Time
	activatedAt  *time.Time
	expiresAt    time.Time
	createdAt    time.Time
}

// New creates a freshly generated coupon. baseTickets is derived from the
// purchase amount: one ticket per ticketRatio won, rounded down.
func New(stationID, employeeID uuid.UUID, amount, ticketRatio int64, now time.Time, ttl time.Duration) (*Coupon, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if ticketRatio <= 0 {
		return nil, ErrInvalidRatio
	}

	return &Coupon{
		id:          uuid.New(),
		stationID:   stationID,
		employeeID:  employeeID,
		amount:      amount,
		baseTickets: int32(amount / ticketRatio),
		status:      StatusGenerated,
		expiresAt:   now.Add(ttl),
		createdAt:   now,
	}, nil
}

// Rehydrate reconstructs a coupon from its persisted row.
func Rehydrate(
	id, stationID, employeeID uuid.UUID,
	amount int64,
	baseTickets, bonusTickets int32,
	status Status,
	token, qrPayload string,
	scannedBy *uuid.UUID,
	scannedAt, activatedAt *time.Time,
	expiresAt, createdAt time.Time,
) *Coupon {
	return &Coupon{
		id:           id,
		stationID:    stationID,
		employeeID:   employeeID,
		amount:       amount,
		baseTickets:  baseTickets,
		bonusTickets: bonusTickets,
		status:       status,
		token:        token,
		qrPayload:    qrPayload,
		scannedBy:    scannedBy,
		scannedAt:    scannedAt,
		activatedAt:  activatedAt,
		expiresAt:    expiresAt,
		createdAt:    createdAt,
	}
}

// AttachToken records the signed token and QR payload minted after the row
// exists, so the signed claim references a stable identifier.
func (c *Coupon) AttachToken(token, qrPayload string) {
	c.token = token
	c.qrPayload = qrPayload
}

// Scan transitions GENERATED -> SCANNED for userID. A coupon that left
// GENERATED fails ErrAlreadyUsed; one past its expiry fails ErrExpired.
func (c *Coupon) Scan(userID uuid.UUID, now time.Time) error {
	if c.status != StatusGenerated {
		return ErrAlreadyUsed
	}
	if now.After(c.expiresAt) {
		return ErrExpired
	}

	c.status = StatusScanned
	c.scannedBy = &userID
	scannedAt := now
	c.scannedAt = &scannedAt
	return nil
}

// Activate transitions SCANNED -> ACTIVATED. Only the scanning user may
// activate; any other caller fails ErrForbidden before the state check so a
// hijacker cannot probe coupon state.
func (c *Coupon) Activate(userID uuid.UUID, now time.Time) error {
	if c.scannedBy != nil && *c.scannedBy != userID {
		return ErrForbidden
	}
	if c.status != StatusScanned {
		return ErrInvalidState
	}
	if c.scannedBy == nil {
		return ErrMissingScanner
	}

	c.status = StatusActivated
	activatedAt := now
	c.activatedAt = &activatedAt
	return nil
}

// Complete transitions ACTIVATED -> COMPLETED once downstream fulfillment
// (ticket accrual) confirms.
func (c *Coupon) Complete() error {
	if c.status != StatusActivated {
		return ErrInvalidState
	}
	c.status = StatusCompleted
	return nil
}

// GrantBonus adds campaign bonus tickets on top of the purchase-derived base.
func (c *Coupon) GrantBonus(tickets int32) {
	if tickets > 0 {
		c.bonusTickets += tickets
	}
}

func (c *Coupon) IsExpired(now time.Time) bool {
	return c.status == StatusGenerated && now.After(c.expiresAt)
}

func (c *Coupon) ID() uuid.UUID          { return c.id }
func (c *Coupon) StationID() uuid.UUID   { return c.stationID }
func (c *Coupon) EmployeeID() uuid.UUID  { return c.employeeID }
func (c *Coupon) Amount() int64          { return c.amount }
func (c *Coupon) BaseTickets() int32     { return c.baseTickets }
func (c *Coupon) BonusTickets() int32    { return c.bonusTickets }
func (c *Coupon) TotalTickets() int32    { return c.baseTickets + c.bonusTickets }
func (c *Coupon) Status() Status         { return c.status }
func (c *Coupon) Token() string          { return c.token }
func (c *Coupon) QRPayload() string      { return c.qrPayload }
func (c *Coupon) ScannedBy() *uuid.UUID  { return c.scannedBy }
func (c *Coupon) ScannedAt() *time.Time  { return c.scannedAt }
func (c *Coupon) ActivatedAt() *time.Time { return c.activatedAt }
func (c *Coupon) ExpiresAt() time.Time   { return c.expiresAt }
func (c *Coupon) CreatedAt() time.Time   { return c.createdAt }
