package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type SettingRepository interface {
	List(ctx context.Context, publicOnly bool) ([]model.Setting, error)
	Upsert(ctx context.Context, s model.Setting) error
}
