package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 注文明細。作成後は更新しない。
type OrderItemRepository interface {
	// items の OrderID と ID は保存時に埋められる
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	// 追加順で返す。明細が無ければ空スライス。
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}
