package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

// 管理画面の操作履歴の絞り込み。ゼロ値の項目は条件にしない。
type AuditLogFilter struct {
	Page         int
	Limit        int
	Action       model.AuditAction
	ResourceType model.AuditResourceType
	ResourceID   int64
	From         *time.Time
	To           *time.Time
}

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	// 新しい順。totalは絞り込み後の件数。
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, int64, error)
}
