package usecase

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// /cart の業務ロジック。持ち主は会員かゲストセッション。
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
	packRepo     repo.PackRepository
	feeRepo      repo.DeliveryFeeRepository
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	packRepo repo.PackRepository,
	feeRepo repo.DeliveryFeeRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
		packRepo:     packRepo,
		feeRepo:      feeRepo,
	}
}

// price は unit_price_snapshot（追加時点の価格）
type CartItemResponse struct {
	ID         int64           `json:"id"`
	ProductID  *int64          `json:"product_id"`
	PackID     *int64          `json:"pack_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int64           `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type CartResponse struct {
	Items             []CartItemResponse `json:"items"`
	Total             decimal.Decimal    `json:"total"`
	DeliveryFee       decimal.Decimal    `json:"delivery_fee"`
	TotalWithDelivery decimal.Decimal    `json:"total_with_delivery"`
}

// 商品かパックのどちらか一方
type AddCartInput struct {
	ProductID *int64
	PackID    *int64
	Quantity  int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

// カート取得（無ければACTIVEを作って空を返す）
func (u *CartUsecase) GetCart(ctx context.Context, owner model.Owner) (CartResponse, error) {
	if err := owner.Validate(); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.GetOrCreateActive(ctx, owner)
	if err != nil {
		return CartResponse{}, dbError()
	}
	return u.buildCartResponse(ctx, cart.ID)
}

// カートに追加（同じ商品/パックは数量加算）
func (u *CartUsecase) AddToCart(ctx context.Context, owner model.Owner, in AddCartInput) (CartResponse, error) {
	if err := owner.Validate(); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if (in.ProductID == nil) == (in.PackID == nil) {
		return CartResponse{}, NewValidationError(map[string]string{"product_id": "exactly one of product_id or pack_id is required"})
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	cart, err := u.cartRepo.GetOrCreateActive(ctx, owner)
	if err != nil {
		return CartResponse{}, dbError()
	}

	items, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartResponse{}, dbError()
	}

	item := model.CartItem{
		CartID:    cart.ID,
		ProductID: in.ProductID,
		PackID:    in.PackID,
		Quantity:  in.Quantity,
	}

	if in.ProductID != nil {
		p, err := u.activeProduct(ctx, *in.ProductID)
		if err != nil {
			return CartResponse{}, err
		}
		newQty := existingQuantity(items, in.ProductID, nil) + in.Quantity
		if newQty > p.Stock {
			return CartResponse{}, NewHTTPError(http.StatusBadRequest, "stock exceeded")
		}
		item.UnitPriceSnapshot = p.Price
	} else {
		pack, err := u.activePack(ctx, *in.PackID)
		if err != nil {
			return CartResponse{}, err
		}
		newQty := existingQuantity(items, nil, in.PackID) + in.Quantity
		if err := u.checkPackStock(ctx, pack, newQty); err != nil {
			return CartResponse{}, err
		}
		item.UnitPriceSnapshot = pack.Price
	}

	if err := u.cartItemRepo.Upsert(ctx, item); err != nil {
		return CartResponse{}, dbError()
	}

	return u.buildCartResponse(ctx, cart.ID)
}

// 数量変更（所有チェック＋在庫チェック）
func (u *CartUsecase) UpdateCartItem(ctx context.Context, owner model.Owner, cartItemID int64, in UpdateCartItemInput) (CartResponse, error) {
	if err := owner.Validate(); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	item, err := u.ownedItem(ctx, owner, cartItemID)
	if err != nil {
		return CartResponse{}, err
	}

	if item.ProductID != nil {
		p, err := u.activeProduct(ctx, *item.ProductID)
		if err != nil {
			return CartResponse{}, err
		}
		if in.Quantity > p.Stock {
			return CartResponse{}, NewHTTPError(http.StatusBadRequest, "stock exceeded")
		}
	} else if item.PackID != nil {
		pack, err := u.activePack(ctx, *item.PackID)
		if err != nil {
			return CartResponse{}, err
		}
		if err := u.checkPackStock(ctx, pack, in.Quantity); err != nil {
			return CartResponse{}, err
		}
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, in.Quantity); err != nil {
		return CartResponse{}, findError(err)
	}

	return u.buildCartResponse(ctx, item.CartID)
}

// 明細削除
func (u *CartUsecase) DeleteCartItem(ctx context.Context, owner model.Owner, cartItemID int64) (CartResponse, error) {
	if err := owner.Validate(); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	item, err := u.ownedItem(ctx, owner, cartItemID)
	if err != nil {
		return CartResponse{}, err
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		return CartResponse{}, findError(err)
	}

	return u.buildCartResponse(ctx, item.CartID)
}

func (u *CartUsecase) ownedItem(ctx context.Context, owner model.Owner, cartItemID int64) (model.CartItem, error) {
	owned, err := u.cartItemRepo.IsOwnedBy(ctx, cartItemID, owner)
	if err != nil {
		return model.CartItem{}, dbError()
	}
	if !owned {
		return model.CartItem{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	item, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if err != nil {
		return model.CartItem{}, findError(err)
	}
	return item, nil
}

func (u *CartUsecase) activeProduct(ctx context.Context, id int64) (model.Product, error) {
	p, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid")
	}
	if err != nil {
		return model.Product{}, dbError()
	}
	if !p.IsActive {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid")
	}
	return p, nil
}

func (u *CartUsecase) activePack(ctx context.Context, id int64) (model.Pack, error) {
	pack, err := u.packRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Pack{}, NewHTTPError(http.StatusBadRequest, "invalid")
	}
	if err != nil {
		return model.Pack{}, dbError()
	}
	if !pack.IsActive {
		return model.Pack{}, NewHTTPError(http.StatusBadRequest, "invalid")
	}
	return pack, nil
}

// パックqty個ぶんの構成商品の在庫があるか
func (u *CartUsecase) checkPackStock(ctx context.Context, pack model.Pack, qty int64) error {
	ids := make([]int64, 0, len(pack.Items))
	for _, pi := range pack.Items {
		ids = append(ids, pi.ProductID)
	}
	products, err := u.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return dbError()
	}
	for _, pi := range pack.Items {
		p, ok := products[pi.ProductID]
		if !ok || pi.Quantity*qty > p.Stock {
			return NewHTTPError(http.StatusBadRequest, "stock exceeded")
		}
	}
	return nil
}

func existingQuantity(items []model.CartItem, productID *int64, packID *int64) int64 {
	for _, it := range items {
		if productID != nil && it.ProductID != nil && *it.ProductID == *productID {
			return it.Quantity
		}
		if packID != nil && it.PackID != nil && *it.PackID == *packID {
			return it.Quantity
		}
	}
	return 0
}

// cartIDの明細をまとめてCartResponseを作る
func (u *CartUsecase) buildCartResponse(ctx context.Context, cartID int64) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
	if err != nil {
		return CartResponse{}, dbError()
	}

	productIDs := make([]int64, 0, len(items))
	for _, it := range items {
		if it.ProductID != nil {
			productIDs = append(productIDs, *it.ProductID)
		}
	}
	products, err := u.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return CartResponse{}, dbError()
	}

	respItems := make([]CartItemResponse, 0, len(items))
	total := decimal.Zero

	for _, it := range items {
		var name string
		if it.ProductID != nil {
			p, ok := products[*it.ProductID]
			if !ok || !p.IsActive {
				continue
			}
			name = p.Name
		} else if it.PackID != nil {
			pack, err := u.packRepo.FindByID(ctx, *it.PackID)
			if err != nil || !pack.IsActive {
				continue
			}
			name = pack.Name
		}

		line := it.UnitPriceSnapshot.Mul(decimal.NewFromInt(it.Quantity))
		respItems = append(respItems, CartItemResponse{
			ID:         it.ID,
			ProductID:  it.ProductID,
			PackID:     it.PackID,
			Name:       name,
			Price:      it.UnitPriceSnapshot,
			Quantity:   it.Quantity,
			TotalPrice: line,
		})
		total = total.Add(line)
	}
	total = total.Round(2)

	//空のカートには配送料をつけない
	fee := decimal.Zero
	if len(respItems) > 0 {
		active, err := u.feeRepo.FindActive(ctx)
		if err == nil {
			fee = active.Amount
		} else if !errors.Is(err, repo.ErrNotFound) {
			return CartResponse{}, dbError()
		}
	}

	return CartResponse{
		Items:             respItems,
		Total:             total,
		DeliveryFee:       fee,
		TotalWithDelivery: model.OrderTotal(total, fee),
	}, nil
}
