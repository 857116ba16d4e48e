package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type InvoiceGormRepository struct {
	db *gorm.DB
}

func NewInvoiceGormRepository(db *gorm.DB) *InvoiceGormRepository {
	return &InvoiceGormRepository{db: db}
}

// order_id / number の unique 違反は ErrConflict
func (r *InvoiceGormRepository) Create(ctx context.Context, inv model.Invoice) (model.Invoice, error) {
	if err := r.db.WithContext(ctx).Create(&inv).Error; err != nil {
		if isDuplicate(err) {
			return model.Invoice{}, repo.ErrConflict
		}
		return model.Invoice{}, err
	}
	return inv, nil
}

func (r *InvoiceGormRepository) FindByID(ctx context.Context, id int64) (model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).First(&inv, id).Error
	if isNotFound(err) {
		return model.Invoice{}, repo.ErrNotFound
	}
	return inv, err
}

func (r *InvoiceGormRepository) FindByOrderID(ctx context.Context, orderID int64) (model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&inv).Error
	if isNotFound(err) {
		return model.Invoice{}, repo.ErrNotFound
	}
	return inv, err
}

func (r *InvoiceGormRepository) List(ctx context.Context, f repo.InvoiceListFilter) ([]model.Invoice, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	q := r.filtered(ctx, f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Invoice{}, 0, err
	}

	var items []model.Invoice
	if err := q.Order("id desc").Limit(f.Limit).Offset((f.Page - 1) * f.Limit).Find(&items).Error; err != nil {
		return []model.Invoice{}, 0, err
	}
	return items, total, nil
}

func (r *InvoiceGormRepository) ListAll(ctx context.Context, f repo.InvoiceListFilter) ([]model.Invoice, error) {
	var items []model.Invoice
	if err := r.filtered(ctx, f).Order("id desc").Find(&items).Error; err != nil {
		return []model.Invoice{}, err
	}
	return items, nil
}

func (r *InvoiceGormRepository) UpdateStatus(ctx context.Context, id int64, status model.InvoiceStatus, payment model.PaymentStatus, paidAt *time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         status,
			"payment_status": payment,
			"paid_at":        paidAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *InvoiceGormRepository) filtered(ctx context.Context, f repo.InvoiceListFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Invoice{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}
	return q
}
