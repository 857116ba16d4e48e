package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type EmailTemplateRepository interface {
	List(ctx context.Context) ([]model.EmailTemplate, error)
	FindByKey(ctx context.Context, key string) (model.EmailTemplate, error)
	Upsert(ctx context.Context, t model.EmailTemplate) (model.EmailTemplate, error)
	//既にあれば何もしない
	CreateIfMissing(ctx context.Context, t model.EmailTemplate) error
}
