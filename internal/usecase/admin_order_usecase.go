package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/metrics"
	repo "storefront/internal/repository"

	"github.com/sirupsen/logrus"
)

// 注文ステータス変更の通知先（notify.Dispatcher）
type StatusNotifier interface {
	Dispatch(ctx context.Context, ev model.OrderStatusChanged) error
}

type AdminOrderUsecase struct {
	tx       repo.TransactionManager
	notifier StatusNotifier
	log      *logrus.Logger
}

func NewAdminOrderUsecase(tx repo.TransactionManager, notifier StatusNotifier, log *logrus.Logger) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, notifier: notifier, log: log}
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

// 注文一覧（明細つき）
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) (ListOutput[OrderOutput], error) {
	if err := checkPaging(f.Page, f.Limit); err != nil {
		return ListOutput[OrderOutput]{}, err
	}
	if f.Status != "" && !model.OrderStatus(f.Status).Valid() {
		return ListOutput[OrderOutput]{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	out := ListOutput[OrderOutput]{Page: f.Page, Limit: f.Limit}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, f)
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

func (u *AdminOrderUsecase) Detail(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return findError(err)
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

// CSV出力用。明細は読まない。
func (u *AdminOrderUsecase) Export(ctx context.Context, f repo.AdminOrderListFilter) ([]OrderOutput, error) {
	if f.Status != "" && !model.OrderStatus(f.Status).Valid() {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListAdminAll(ctx, f)
		if err != nil {
			return dbError()
		}
		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			outs = append(outs, toOrderOutput(o, nil))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outs, nil
}

func (u *AdminOrderUsecase) Statuses() []model.OrderStatusMeta {
	return model.OrderStatuses()
}

// ステータス更新。どのステータスからでも変更できる。
// 同じステータスなら何もしない（書き込みも通知もしない）。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID int64, orderID int64, in AdminUpdateOrderStatusInput) (OrderOutput, error) {
	if actorAdminUserID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := model.OrderStatus(strings.TrimSpace(in.Status))
	if !newStatus.Valid() {
		return OrderOutput{}, NewValidationError(map[string]string{"status": "invalid status"})
	}

	var (
		out     OrderOutput
		before  model.Order
		changed bool
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return findError(err)
		}
		before = o

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return dbError()
		}

		if o.Status == newStatus {
			out = toOrderOutput(o, items)
			return nil
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			return findError(err)
		}

		if err := r.AuditLogs().Create(ctx, newAuditLog(
			actorAdminUserID,
			model.AuditActionUpdateOrderStatus,
			model.AuditResourceOrder,
			orderID,
			map[string]string{"status": string(o.Status)},
			map[string]string{"status": string(newStatus)},
		)); err != nil {
			return dbError()
		}

		o.Status = newStatus
		out = toOrderOutput(o, items)
		changed = true
		return nil
	})

	metrics.RecordOperation(metrics.OpOrderStatusUpdate, err == nil)
	if err != nil {
		return OrderOutput{}, err
	}

	if changed {
		u.notify(ctx, before, newStatus)
	}
	return out, nil
}

// 通知の失敗はステータス更新を失敗させない
func (u *AdminOrderUsecase) notify(ctx context.Context, o model.Order, newStatus model.OrderStatus) {
	if u.notifier == nil {
		return
	}
	ev := model.OrderStatusChanged{
		OrderID:        o.ID,
		Reference:      o.Reference,
		UserID:         o.Owner.UserID,
		CustomerName:   o.CustomerName,
		CustomerEmail:  o.CustomerEmail,
		OldStatus:      o.Status,
		OldStatusLabel: o.Status.Label(),
		NewStatus:      newStatus,
		NewStatusLabel: newStatus.Label(),
		OccurredAt:     time.Now(),
	}
	if err := u.notifier.Dispatch(ctx, ev); err != nil {
		u.log.WithError(err).WithFields(logrus.Fields{
			"order_id":   o.ID,
			"new_status": newStatus,
		}).Warn("order status notification failed")
	}
}

// 期間パラメータ（RFC3339 か YYYY-MM-DD）
func ParseDateParam(s string, endOfDay bool) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, true
}
