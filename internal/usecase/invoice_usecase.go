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

	"github.com/shopspring/decimal"
)

type InvoiceConfig struct {
	VATRate decimal.Decimal
	DueDays int
}

type InvoiceUsecase struct {
	tx       repo.TransactionManager
	invoices repo.InvoiceRepository
	orders   repo.OrderRepository
	cfg      InvoiceConfig
	now      func() time.Time
}

func NewInvoiceUsecase(tx repo.TransactionManager, invoices repo.InvoiceRepository, orders repo.OrderRepository, cfg InvoiceConfig) *InvoiceUsecase {
	return &InvoiceUsecase{
		tx:       tx,
		invoices: invoices,
		orders:   orders,
		cfg:      cfg,
		now:      time.Now,
	}
}

type UpdateInvoiceStatusInput struct {
	Status        string
	PaymentStatus string
}

// INV-YYYY-NNNNNN（注文IDから）
func invoiceNumber(issuedAt time.Time, orderID int64) string {
	return fmt.Sprintf("INV-%d-%06d", issuedAt.Year(), orderID)
}

// 注文から請求書を作る。1注文1件。
func (u *InvoiceUsecase) Create(ctx context.Context, actorAdminUserID int64, orderID int64) (model.Invoice, error) {
	if actorAdminUserID <= 0 {
		return model.Invoice{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return model.Invoice{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var created model.Invoice

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return findError(err)
		}

		_, err = r.Invoices().FindByOrderID(ctx, orderID)
		if err == nil {
			return NewHTTPError(http.StatusConflict, "invoice already exists")
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return dbError()
		}

		issuedAt := u.now()
		ht, tva := model.SplitVAT(o.Total, u.cfg.VATRate)

		inv, err := r.Invoices().Create(ctx, model.Invoice{
			Number:        invoiceNumber(issuedAt, o.ID),
			OrderID:       o.ID,
			Status:        model.InvoiceStatusDraft,
			PaymentStatus: model.PaymentStatusPending,
			ClientName:    o.CustomerName,
			ClientEmail:   o.CustomerEmail,
			VATRate:       u.cfg.VATRate,
			TotalHT:       ht,
			TotalTVA:      tva,
			TotalTTC:      ht.Add(tva),
			IssuedAt:      issuedAt,
			DueAt:         issuedAt.AddDate(0, 0, u.cfg.DueDays),
		})
		if errors.Is(err, repo.ErrConflict) {
			return NewHTTPError(http.StatusConflict, "invoice already exists")
		}
		if err != nil {
			return dbError()
		}

		if err := r.AuditLogs().Create(ctx, newAuditLog(
			actorAdminUserID,
			model.AuditActionCreateInvoice,
			model.AuditResourceInvoice,
			inv.ID,
			nil,
			map[string]string{"number": inv.Number, "order_id": fmt.Sprint(o.ID)},
		)); err != nil {
			return dbError()
		}

		created = inv
		return nil
	})

	metrics.RecordOperation(metrics.OpInvoiceCreate, err == nil)
	if err != nil {
		return model.Invoice{}, err
	}
	return created, nil
}

func validInvoiceFilter(f repo.InvoiceListFilter) error {
	if f.Status != "" && !model.InvoiceStatus(f.Status).Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	if f.PaymentStatus != "" && !model.PaymentStatus(f.PaymentStatus).Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid payment_status")
	}
	return nil
}

func (u *InvoiceUsecase) List(ctx context.Context, f repo.InvoiceListFilter) (ListOutput[model.Invoice], error) {
	if err := checkPaging(f.Page, f.Limit); err != nil {
		return ListOutput[model.Invoice]{}, err
	}
	if err := validInvoiceFilter(f); err != nil {
		return ListOutput[model.Invoice]{}, err
	}

	items, total, err := u.invoices.List(ctx, f)
	if err != nil {
		return ListOutput[model.Invoice]{}, dbError()
	}
	return ListOutput[model.Invoice]{Items: items, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

func (u *InvoiceUsecase) Export(ctx context.Context, f repo.InvoiceListFilter) ([]model.Invoice, error) {
	if err := validInvoiceFilter(f); err != nil {
		return nil, err
	}
	items, err := u.invoices.ListAll(ctx, f)
	if err != nil {
		return nil, dbError()
	}
	return items, nil
}

func (u *InvoiceUsecase) Get(ctx context.Context, id int64) (model.Invoice, error) {
	if id <= 0 {
		return model.Invoice{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	inv, err := u.invoices.FindByID(ctx, id)
	if err != nil {
		return model.Invoice{}, findError(err)
	}
	return inv, nil
}

// status と payment_status をまとめて更新
func (u *InvoiceUsecase) UpdateStatus(ctx context.Context, actorAdminUserID int64, id int64, in UpdateInvoiceStatusInput) (model.Invoice, error) {
	desired := policy.InvoiceState{
		Status:        model.InvoiceStatus(strings.TrimSpace(in.Status)),
		PaymentStatus: model.PaymentStatus(strings.TrimSpace(in.PaymentStatus)),
	}
	inv, err := u.update(ctx, actorAdminUserID, id, func(cur policy.InvoiceState) (policy.InvoiceState, error) {
		return policy.ResolveInvoiceUpdate(cur, desired)
	})
	metrics.RecordOperation(metrics.OpInvoiceStatusUpdate, err == nil)
	return inv, err
}

// payment_status だけ更新
func (u *InvoiceUsecase) UpdatePaymentStatus(ctx context.Context, actorAdminUserID int64, id int64, paymentStatus string) (model.Invoice, error) {
	payment := model.PaymentStatus(strings.TrimSpace(paymentStatus))
	inv, err := u.update(ctx, actorAdminUserID, id, func(cur policy.InvoiceState) (policy.InvoiceState, error) {
		return policy.ResolvePaymentUpdate(cur, payment)
	})
	metrics.RecordOperation(metrics.OpInvoicePaymentUpdate, err == nil)
	return inv, err
}

// 読んで、ルールを当てて、書く（1Tx）
func (u *InvoiceUsecase) update(
	ctx context.Context,
	actorAdminUserID int64,
	id int64,
	resolve func(cur policy.InvoiceState) (policy.InvoiceState, error),
) (model.Invoice, error) {
	if actorAdminUserID <= 0 {
		return model.Invoice{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if id <= 0 {
		return model.Invoice{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out model.Invoice

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		inv, err := r.Invoices().FindByID(ctx, id)
		if err != nil {
			return findError(err)
		}

		cur := policy.InvoiceState{Status: inv.Status, PaymentStatus: inv.PaymentStatus}
		next, err := resolve(cur)
		if err != nil {
			return fromPolicyError(err)
		}

		paidAt := nextPaidAt(inv.PaidAt, next.PaymentStatus, u.now())
		if err := r.Invoices().UpdateStatus(ctx, id, next.Status, next.PaymentStatus, paidAt); err != nil {
			return findError(err)
		}

		if err := r.AuditLogs().Create(ctx, newAuditLog(
			actorAdminUserID,
			model.AuditActionUpdateInvoiceStatus,
			model.AuditResourceInvoice,
			id,
			cur,
			next,
		)); err != nil {
			return dbError()
		}

		inv.Status = next.Status
		inv.PaymentStatus = next.PaymentStatus
		inv.PaidAt = paidAt
		out = inv
		return nil
	})
	if err != nil {
		return model.Invoice{}, err
	}
	return out, nil
}

// paid になった時刻を残す。paid 以外に戻ったら消す。
func nextPaidAt(current *time.Time, payment model.PaymentStatus, now time.Time) *time.Time {
	if payment != model.PaymentStatusPaid {
		return nil
	}
	if current != nil {
		return current
	}
	return &now
}

// 自分の注文の請求書
func (u *InvoiceUsecase) GetForOrder(ctx context.Context, actor policy.Actor, orderID int64) (model.Invoice, error) {
	if orderID <= 0 {
		return model.Invoice{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		return model.Invoice{}, findError(err)
	}
	if !policy.Can(actor, policy.ActionView, policy.Resource{Owner: o.Owner}) {
		return model.Invoice{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	inv, err := u.invoices.FindByOrderID(ctx, orderID)
	if err != nil {
		return model.Invoice{}, findError(err)
	}
	return inv, nil
}
