package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/domain/policy"
	"storefront/internal/metrics"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx    repo.TransactionManager
	users repo.UserRepository
}

func NewOrderUsecase(tx repo.TransactionManager, users repo.UserRepository) *OrderUsecase {
	return &OrderUsecase{tx: tx, users: users}
}

type CheckoutInput struct {
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	Shipping       model.ShippingAddress
	IdempotencyKey string
}

// カートから注文を作る。
// 同じオーナー・同じキーなら既存の注文を返す。
func (u *OrderUsecase) Checkout(ctx context.Context, owner model.Owner, in CheckoutInput) (OrderOutput, error) {
	if err := owner.Validate(); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" || len(key) > 200 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency_key")
	}

	//会員なら空欄を会員情報で埋める
	if owner.IsUser() {
		user, err := u.users.FindByID(ctx, *owner.UserID)
		if err != nil {
			return OrderOutput{}, findError(err)
		}
		if strings.TrimSpace(in.CustomerEmail) == "" {
			in.CustomerEmail = user.Email
		}
		if strings.TrimSpace(in.CustomerName) == "" {
			in.CustomerName = user.Name
		}
	}
	if strings.TrimSpace(in.CustomerEmail) == "" {
		return OrderOutput{}, NewValidationError(map[string]string{"customer_email": "is required"})
	}

	scopedKey := idempotencyScope(owner, key)

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, scopedKey)
		if err != nil {
			return dbError()
		}
		if found {
			items, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
			if err != nil {
				return dbError()
			}
			out = toOrderOutput(existing, items)
			return nil
		}

		cart, err := r.Carts().FindActive(ctx, owner)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}
		if err != nil {
			return dbError()
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return dbError()
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		orderItems := make([]model.OrderItem, 0, len(cartItems))
		subtotal := decimal.Zero

		for _, ci := range cartItems {
			name, err := reserveCartItem(ctx, r, ci)
			if err != nil {
				return err
			}

			it := model.OrderItem{
				ProductID:           ci.ProductID,
				PackID:              ci.PackID,
				ProductNameSnapshot: name,
				UnitPriceSnapshot:   ci.UnitPriceSnapshot,
				Quantity:            ci.Quantity,
			}
			orderItems = append(orderItems, it)
			subtotal = subtotal.Add(it.TotalPrice())
		}
		subtotal = subtotal.Round(2)

		//有効な配送料（無ければ0）
		var feeID *int64
		feeAmount := decimal.Zero
		fee, err := r.DeliveryFees().FindActive(ctx)
		if err == nil {
			feeID = &fee.ID
			feeAmount = fee.Amount
		} else if !errors.Is(err, repo.ErrNotFound) {
			return dbError()
		}

		now := time.Now()
		order := model.Order{
			Reference:         newOrderReference(now),
			Owner:             owner,
			Status:            model.OrderStatusPending,
			CustomerName:      strings.TrimSpace(in.CustomerName),
			CustomerEmail:     strings.TrimSpace(in.CustomerEmail),
			CustomerPhone:     strings.TrimSpace(in.CustomerPhone),
			Shipping:          in.Shipping,
			Subtotal:          subtotal,
			DeliveryFeeID:     feeID,
			DeliveryFeeAmount: feeAmount,
			Total:             model.OrderTotal(subtotal, feeAmount),
			IdempotencyKey:    scopedKey,
			CreatedAt:         now,
			UpdatedAt:         now,
		}

		orderID, err := r.Orders().Create(ctx, order)
		if errors.Is(err, repo.ErrConflict) {
			//同時に同じキーで作られた
			return NewHTTPError(http.StatusConflict, "idempotency conflict")
		}
		if err != nil {
			return dbError()
		}
		order.ID = orderID

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return dbError()
		}

		//カートをCHECKED_OUTにして、明細をクリア（再注文防止）
		if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusCheckedOut); err != nil {
			return dbError()
		}
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return dbError()
		}

		out = toOrderOutput(order, orderItems)
		return nil
	})

	metrics.RecordOperation(metrics.OpCheckout, err == nil)
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 公開中か確認して在庫を減らす。パックは構成商品の在庫を減らす。
func reserveCartItem(ctx context.Context, r repo.TxRepos, ci model.CartItem) (string, error) {
	if ci.PackID != nil {
		pack, err := r.Packs().FindByID(ctx, *ci.PackID)
		if errors.Is(err, repo.ErrNotFound) || (err == nil && !pack.IsActive) {
			return "", NewHTTPError(http.StatusBadRequest, "item unavailable")
		}
		if err != nil {
			return "", dbError()
		}
		for _, pi := range pack.Items {
			if err := decreaseStock(ctx, r, pi.ProductID, pi.Quantity*ci.Quantity); err != nil {
				return "", err
			}
		}
		return pack.Name, nil
	}

	if ci.ProductID == nil {
		return "", NewHTTPError(http.StatusBadRequest, "item unavailable")
	}
	p, err := r.Products().FindByID(ctx, *ci.ProductID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && !p.IsActive) {
		return "", NewHTTPError(http.StatusBadRequest, "item unavailable")
	}
	if err != nil {
		return "", dbError()
	}
	if err := decreaseStock(ctx, r, p.ID, ci.Quantity); err != nil {
		return "", err
	}
	return p.Name, nil
}

func decreaseStock(ctx context.Context, r repo.TxRepos, productID int64, qty int64) error {
	ok, err := r.Inventory().DecreaseStockIfEnough(ctx, productID, qty)
	if err != nil {
		return dbError()
	}
	if !ok {
		return NewHTTPError(http.StatusBadRequest, "out of stock")
	}
	return nil
}

// キーはオーナーごとに分ける
func idempotencyScope(owner model.Owner, key string) string {
	if owner.IsUser() {
		return fmt.Sprintf("u:%d:%s", *owner.UserID, key)
	}
	return fmt.Sprintf("s:%s:%s", *owner.SessionID, key)
}

// ORD-YYYYMMDD-XXXXXXXX
func newOrderReference(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return "ORD-" + now.Format("20060102") + "-" + suffix
}

// 自分の注文一覧（会員 or ゲストセッション）
func (u *OrderUsecase) ListMine(ctx context.Context, owner model.Owner, page int, limit int) (ListOutput[OrderOutput], error) {
	if err := owner.Validate(); err != nil {
		return ListOutput[OrderOutput]{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := checkPaging(page, limit); err != nil {
		return ListOutput[OrderOutput]{}, err
	}

	out := ListOutput[OrderOutput]{Page: page, Limit: limit}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListByOwner(ctx, owner, page, limit)
		if err != nil {
			return dbError()
		}

		out.Total = total
		out.Items = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return dbError()
			}
			out.Items = append(out.Items, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return ListOutput[OrderOutput]{}, err
	}
	return out, nil
}

func (u *OrderUsecase) Detail(ctx context.Context, actor policy.Actor, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return findError(err)
		}
		if !policy.Can(actor, policy.ActionView, policy.Resource{Owner: o.Owner}) {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return dbError()
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}
