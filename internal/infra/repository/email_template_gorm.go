package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EmailTemplateGormRepository struct {
	db *gorm.DB
}

func NewEmailTemplateGormRepository(db *gorm.DB) *EmailTemplateGormRepository {
	return &EmailTemplateGormRepository{db: db}
}

func (r *EmailTemplateGormRepository) List(ctx context.Context) ([]model.EmailTemplate, error) {
	var items []model.EmailTemplate
	if err := r.db.WithContext(ctx).Order("key asc").Find(&items).Error; err != nil {
		return []model.EmailTemplate{}, err
	}
	return items, nil
}

func (r *EmailTemplateGormRepository) FindByKey(ctx context.Context, key string) (model.EmailTemplate, error) {
	var t model.EmailTemplate
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&t).Error
	if isNotFound(err) {
		return model.EmailTemplate{}, repo.ErrNotFound
	}
	return t, err
}

func (r *EmailTemplateGormRepository) Upsert(ctx context.Context, t model.EmailTemplate) (model.EmailTemplate, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"subject", "body", "updated_at"}),
	}).Create(&t).Error
	if err != nil {
		return model.EmailTemplate{}, err
	}
	return r.FindByKey(ctx, t.Key)
}

func (r *EmailTemplateGormRepository) CreateIfMissing(ctx context.Context, t model.EmailTemplate) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&t).Error
}
