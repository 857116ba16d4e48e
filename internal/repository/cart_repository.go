package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CartRepository interface {
	// ACTIVEなカートが無ければ作る。作成に失敗したら既存を読み直す。
	GetOrCreateActive(ctx context.Context, owner model.Owner) (model.Cart, error)
	// 無ければ ErrNotFound
	FindActive(ctx context.Context, owner model.Owner) (model.Cart, error)
	UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error
	// 明細を全削除
	Clear(ctx context.Context, cartID int64) error
}
