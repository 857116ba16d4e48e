package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type DeliveryFeeRepository interface {
	List(ctx context.Context) ([]model.DeliveryFee, error)
	FindByID(ctx context.Context, id int64) (model.DeliveryFee, error)
	// is_active の中で id が一番小さいもの。無ければ ErrNotFound
	FindActive(ctx context.Context) (model.DeliveryFee, error)
	Create(ctx context.Context, fee model.DeliveryFee) (model.DeliveryFee, error)
	Update(ctx context.Context, fee model.DeliveryFee) error
	Delete(ctx context.Context, id int64) error
}
