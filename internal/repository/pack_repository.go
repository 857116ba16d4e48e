package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// パック（Itemsも一緒に読み書きする）
type PackRepository interface {
	List(ctx context.Context, includeInactive bool) ([]model.Pack, error)
	FindByID(ctx context.Context, id int64) (model.Pack, error)
	FindBySlug(ctx context.Context, slug string) (model.Pack, error)

	Create(ctx context.Context, p model.Pack) (model.Pack, error)
	//Itemsは丸ごと置き換える
	Update(ctx context.Context, p model.Pack) error
	SoftDelete(ctx context.Context, id int64) error
}
