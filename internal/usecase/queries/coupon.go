package queries

import (
	"context"

	"fuelraffle/internal/infra"
	"fuelraffle/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrCouponNotFound = errs.New("coupon not found")

type CouponQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*CouponView, error)
}

type CouponViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CouponView, error)
}

type couponQueriesImpl struct {
	repo CouponViewRepo
}

func NewCouponQueries(repo CouponViewRepo) CouponQueries {
	return &couponQueriesImpl{repo: repo}
}

func (q *couponQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*CouponView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return view, nil
}
