package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
	tx           repo.TransactionManager
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	tx repo.TransactionManager,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		tx:           tx,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page         int
	Limit        int
	Q            string
	CategorySlug string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Sort         string
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ListOutput[model.Product], error) {
	return u.list(ctx, in, false)
}

// 管理画面は非公開も含める
func (u *ProductUsecase) AdminListProducts(ctx context.Context, in ListProductsInput) (ListOutput[model.Product], error) {
	return u.list(ctx, in, true)
}

func (u *ProductUsecase) list(ctx context.Context, in ListProductsInput, includeInactive bool) (ListOutput[model.Product], error) {
	if err := checkPaging(in.Page, in.Limit); err != nil {
		return ListOutput[model.Product]{}, err
	}
	if len(in.Q) > 100 {
		return ListOutput[model.Product]{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if in.MinPrice != nil && in.MinPrice.IsNegative() {
		return ListOutput[model.Product]{}, NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
		return ListOutput[model.Product]{}, NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return ListOutput[model.Product]{}, NewHTTPError(http.StatusBadRequest, "min_price must be <= max_price")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc":
	default:
		return ListOutput[model.Product]{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:            in.Page,
		Limit:           in.Limit,
		Q:               strings.TrimSpace(in.Q),
		CategorySlug:    strings.TrimSpace(in.CategorySlug),
		MinPrice:        in.MinPrice,
		MaxPrice:        in.MaxPrice,
		Sort:            in.Sort,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		return ListOutput[model.Product]{}, dbError()
	}

	return ListOutput[model.Product]{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		return model.Product{}, findError(err)
	}
	if !p.IsActive {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return p, nil
}

func (u *ProductUsecase) AdminGetProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	p, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		return model.Product{}, findError(err)
	}
	return p, nil
}

type AdminProductInput struct {
	CategoryID  *int64
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	Stock       int64
	IsActive    bool
}

func (u *ProductUsecase) validateProduct(ctx context.Context, in AdminProductInput) error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "is required"
	}
	if in.Price.IsNegative() {
		fields["price"] = "must be >= 0"
	}
	if in.Stock < 0 {
		fields["stock"] = "must be >= 0"
	}
	if len(fields) > 0 {
		return NewValidationError(fields)
	}

	if in.CategoryID != nil {
		if _, err := u.categoryRepo.FindByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewValidationError(map[string]string{"category_id": "category not found"})
			}
			return dbError()
		}
	}
	return nil
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, adminUserID int64, in AdminProductInput) (model.Product, error) {
	if adminUserID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.validateProduct(ctx, in); err != nil {
		return model.Product{}, err
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		CategoryID:  in.CategoryID,
		Name:        strings.TrimSpace(in.Name),
		Slug:        slugOrName(in.Slug, in.Name),
		Description: in.Description,
		Price:       in.Price.Round(2),
		Stock:       in.Stock,
		IsActive:    in.IsActive,
	})
	if errors.Is(err, repo.ErrConflict) {
		return model.Product{}, NewHTTPError(http.StatusConflict, "slug already exists")
	}
	if err != nil {
		return model.Product{}, dbError()
	}
	return p, nil
}

// 在庫は AdminUpdateInventory でだけ変える
func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, adminUserID int64, productID int64, in AdminProductInput) (model.Product, error) {
	if adminUserID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := u.validateProduct(ctx, in); err != nil {
		return model.Product{}, err
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		return model.Product{}, findError(err)
	}

	p.CategoryID = in.CategoryID
	p.Name = strings.TrimSpace(in.Name)
	p.Slug = slugOrName(in.Slug, in.Name)
	p.Description = in.Description
	p.Price = in.Price.Round(2)
	p.IsActive = in.IsActive

	err = u.productRepo.Update(ctx, p)
	if errors.Is(err, repo.ErrConflict) {
		return model.Product{}, NewHTTPError(http.StatusConflict, "slug already exists")
	}
	if err != nil {
		return model.Product{}, findError(err)
	}
	return p, nil
}

func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, adminUserID int64, productID int64) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := u.productRepo.SoftDelete(ctx, productID); err != nil {
		return findError(err)
	}
	return nil
}

// 在庫の現在値を設定し、調整履歴と監査ログを同じTxで残す
func (u *ProductUsecase) AdminUpdateInventory(ctx context.Context, adminUserID int64, productID int64, newStock int64, reason string) (model.InventoryAdjustment, error) {
	if adminUserID <= 0 {
		return model.InventoryAdjustment{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return model.InventoryAdjustment{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if newStock < 0 {
		return model.InventoryAdjustment{}, NewValidationError(map[string]string{"stock": "must be >= 0"})
	}
	if strings.TrimSpace(reason) == "" {
		return model.InventoryAdjustment{}, NewValidationError(map[string]string{"reason": "is required"})
	}

	var adj model.InventoryAdjustment

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Inventory().SetStock(ctx, productID, newStock)
		if err != nil {
			return findError(err)
		}

		adj = model.NewInventoryAdjustment(productID, adminUserID, before, newStock, reason)
		if err := r.Inventory().CreateAdjustment(ctx, adj); err != nil {
			return dbError()
		}

		//「誰が」「何を」「どの対象に」「どう変えたか」を残す
		if err := r.AuditLogs().Create(ctx, newAuditLog(
			adminUserID,
			model.AuditActionUpdateStock,
			model.AuditResourceProduct,
			productID,
			map[string]int64{"stock": before},
			map[string]int64{"stock": newStock},
		)); err != nil {
			return dbError()
		}
		return nil
	})
	if err != nil {
		return model.InventoryAdjustment{}, err
	}
	return adj, nil
}

// slug未指定なら名前から作る
func slugOrName(slug string, name string) string {
	if s := Slugify(slug); s != "" {
		return s
	}
	return Slugify(name)
}

// 英数字以外は "-" にまとめる
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
