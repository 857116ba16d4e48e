package repository

import (
	"context"

	"storefront/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingGormRepository struct {
	db *gorm.DB
}

func NewSettingGormRepository(db *gorm.DB) *SettingGormRepository {
	return &SettingGormRepository{db: db}
}

func (r *SettingGormRepository) List(ctx context.Context, publicOnly bool) ([]model.Setting, error) {
	q := r.db.WithContext(ctx)
	if publicOnly {
		q = q.Where("is_public = ?", true)
	}
	var items []model.Setting
	if err := q.Order("key asc").Find(&items).Error; err != nil {
		return []model.Setting{}, err
	}
	return items, nil
}

// keyが同じなら上書き
func (r *SettingGormRepository) Upsert(ctx context.Context, s model.Setting) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "is_public", "updated_at"}),
	}).Create(&s).Error
}
