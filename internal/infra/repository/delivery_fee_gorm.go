package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type DeliveryFeeGormRepository struct {
	db *gorm.DB
}

func NewDeliveryFeeGormRepository(db *gorm.DB) *DeliveryFeeGormRepository {
	return &DeliveryFeeGormRepository{db: db}
}

func (r *DeliveryFeeGormRepository) List(ctx context.Context) ([]model.DeliveryFee, error) {
	var fees []model.DeliveryFee
	if err := r.db.WithContext(ctx).Order("id asc").Find(&fees).Error; err != nil {
		return []model.DeliveryFee{}, err
	}
	return fees, nil
}

func (r *DeliveryFeeGormRepository) FindByID(ctx context.Context, id int64) (model.DeliveryFee, error) {
	var fee model.DeliveryFee
	err := r.db.WithContext(ctx).First(&fee, id).Error
	if isNotFound(err) {
		return model.DeliveryFee{}, repo.ErrNotFound
	}
	return fee, err
}

// 有効なものの最初の1件
func (r *DeliveryFeeGormRepository) FindActive(ctx context.Context) (model.DeliveryFee, error) {
	var fee model.DeliveryFee
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id asc").First(&fee).Error
	if isNotFound(err) {
		return model.DeliveryFee{}, repo.ErrNotFound
	}
	return fee, err
}

func (r *DeliveryFeeGormRepository) Create(ctx context.Context, fee model.DeliveryFee) (model.DeliveryFee, error) {
	if err := r.db.WithContext(ctx).Create(&fee).Error; err != nil {
		return model.DeliveryFee{}, err
	}
	return fee, nil
}

func (r *DeliveryFeeGormRepository) Update(ctx context.Context, fee model.DeliveryFee) error {
	res := r.db.WithContext(ctx).Model(&model.DeliveryFee{}).Where("id = ?", fee.ID).Updates(map[string]interface{}{
		"name":      fee.Name,
		"amount":    fee.Amount,
		"is_active": fee.IsActive,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *DeliveryFeeGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.DeliveryFee{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
