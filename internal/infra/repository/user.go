package repository

import (
	"context"

	"fuelraffle/internal/infra"
	"fuelraffle/internal/infra/db"
	"fuelraffle/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

const upsertUserSQL = `
INSERT INTO users (id, phone, role)
VALUES ($1, $2, 'user')
ON CONFLICT (phone) DO UPDATE SET phone = EXCLUDED.phone
RETURNING id, role`

// FindOrCreateByPhone resolves the OTP subject. The upsert makes first
// login and repeat login the same single round trip; employees are
// promoted out of band, so the default role is always 'user'.
func (r *UserRepository) FindOrCreateByPhone(ctx context.Context, dbtx db.DBTX, phone string) (uuid.UUID, string, error) {
	var (
		id   pgtype.UUID
		role string
	)
	err := dbtx.QueryRow(ctx, upsertUserSQL, pgconv.UUIDToPgtype(uuid.New()), phone).Scan(&id, &role)
	if err != nil {
		return uuid.Nil, "", infra.WrapRepoErr("failed to find or create user", err)
	}
	return uuid.UUID(id.Bytes), role, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) error {
	_, err := dbtx.Exec(ctx, `UPDATE users SET last_login = now() WHERE id = $1`, pgconv.UUIDToPgtype(userID))
	if err != nil {
		return infra.WrapRepoErr("failed to update last login", err)
	}
	return nil
}
