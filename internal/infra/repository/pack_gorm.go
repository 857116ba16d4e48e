package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type PackGormRepository struct {
	db *gorm.DB
}

func NewPackGormRepository(db *gorm.DB) *PackGormRepository {
	return &PackGormRepository{db: db}
}

func (r *PackGormRepository) List(ctx context.Context, includeInactive bool) ([]model.Pack, error) {
	q := r.db.WithContext(ctx).Preload("Items")
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}

	var packs []model.Pack
	if err := q.Order("id desc").Find(&packs).Error; err != nil {
		return []model.Pack{}, err
	}
	return packs, nil
}

func (r *PackGormRepository) FindByID(ctx context.Context, id int64) (model.Pack, error) {
	var p model.Pack
	err := r.db.WithContext(ctx).Preload("Items").First(&p, id).Error
	if isNotFound(err) {
		return model.Pack{}, repo.ErrNotFound
	}
	return p, err
}

func (r *PackGormRepository) FindBySlug(ctx context.Context, slug string) (model.Pack, error) {
	var p model.Pack
	err := r.db.WithContext(ctx).Preload("Items").Where("slug = ?", slug).First(&p).Error
	if isNotFound(err) {
		return model.Pack{}, repo.ErrNotFound
	}
	return p, err
}

// Itemsも一緒に作成される
func (r *PackGormRepository) Create(ctx context.Context, p model.Pack) (model.Pack, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		if isDuplicate(err) {
			return model.Pack{}, repo.ErrConflict
		}
		return model.Pack{}, err
	}
	return p, nil
}

func (r *PackGormRepository) Update(ctx context.Context, p model.Pack) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Pack{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
			"name":        p.Name,
			"slug":        p.Slug,
			"description": p.Description,
			"price":       p.Price,
			"is_active":   p.IsActive,
		})
		if res.Error != nil {
			if isDuplicate(res.Error) {
				return repo.ErrConflict
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}

		//構成品は作り直す
		if err := tx.Where("pack_id = ?", p.ID).Delete(&model.PackItem{}).Error; err != nil {
			return err
		}
		if len(p.Items) == 0 {
			return nil
		}
		items := make([]model.PackItem, 0, len(p.Items))
		for _, it := range p.Items {
			items = append(items, model.PackItem{PackID: p.ID, ProductID: it.ProductID, Quantity: it.Quantity})
		}
		return tx.Create(&items).Error
	})
}

func (r *PackGormRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Pack{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
