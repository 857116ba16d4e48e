package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// carts と cart_items の両方を扱う
type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// オーナーのACTIVEカートを取得し、無ければ作成
func (r *CartGormRepository) GetOrCreateActive(ctx context.Context, owner model.Owner) (model.Cart, error) {
	if err := owner.Validate(); err != nil {
		return model.Cart{}, err
	}

	var cart model.Cart

	//トランザクションで探す→無ければ作る
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := whereOwner(tx.Clauses(clause.Locking{Strength: "UPDATE"}), owner).
			Where("status = ?", model.CartStatusActive).
			Order("id desc").
			First(&cart).Error

		if findErr == nil {
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		// 無ければ作る
		newCart := model.Cart{
			Owner:  owner,
			Status: model.CartStatusActive,
		}
		if err := tx.Create(&newCart).Error; err != nil {
			retryErr := whereOwner(tx, owner).
				Where("status = ?", model.CartStatusActive).
				Order("id desc").
				First(&cart).Error
			if retryErr == nil {
				return nil
			}
			return err
		}

		cart = newCart
		return nil
	})

	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// オーナーのACTIVEカートを取得
func (r *CartGormRepository) FindActive(ctx context.Context, owner model.Owner) (model.Cart, error) {
	var cart model.Cart

	err := whereOwner(r.db.WithContext(ctx), owner).
		Where("status = ?", model.CartStatusActive).
		Order("id desc").
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// carts.statusを更新
func (r *CartGormRepository) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 指定カートの明細を全削除
func (r *CartGormRepository) Clear(ctx context.Context, cartID int64) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error
}

// カート明細を一覧取得
func (r *CartGormRepository) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	var items []model.CartItem

	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}

	return items, nil
}

// 同じ商品（またはパック）は数量加算、無ければ追加
func (r *CartGormRepository) Upsert(ctx context.Context, item model.CartItem) error {
	if item.Quantity <= 0 {
		return errors.New("invalid quantity")
	}
	if (item.ProductID == nil) == (item.PackID == nil) {
		return errors.New("cart item must reference exactly one of product or pack")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("cart_id = ?", item.CartID)
		if item.ProductID != nil {
			q = q.Where("product_id = ?", *item.ProductID)
		} else {
			q = q.Where("pack_id = ?", *item.PackID)
		}

		var existing model.CartItem
		err := q.First(&existing).Error
		if err == nil {
			// 既存ありだったら数量を増やす
			return tx.Model(&model.CartItem{}).
				Where("id = ?", existing.ID).
				Update("quantity", gorm.Expr("quantity + ?", item.Quantity)).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		//無い場合は新規作成
		item.ID = 0
		return tx.Create(&item).Error
	})
}

// 明細の数量を更新
func (r *CartGormRepository) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", cartItemID).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を削除
func (r *CartGormRepository) DeleteByID(ctx context.Context, cartItemID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.CartItem{}, cartItemID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を取得
func (r *CartGormRepository) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	var item model.CartItem

	err := r.db.WithContext(ctx).
		Where("id = ?", cartItemID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// cartItemがそのオーナーのACTIVEカートに属しているか
func (r *CartGormRepository) IsOwnedBy(ctx context.Context, cartItemID int64, owner model.Owner) (bool, error) {
	var count int64

	q := r.db.WithContext(ctx).
		Table("cart_items").
		Joins("join carts on carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.status = ?", cartItemID, model.CartStatusActive)

	switch {
	case owner.IsUser():
		q = q.Where("carts.user_id = ?", *owner.UserID)
	case owner.SessionID != nil && *owner.SessionID != "":
		q = q.Where("carts.session_id = ? AND carts.user_id IS NULL", *owner.SessionID)
	default:
		return false, nil
	}

	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
