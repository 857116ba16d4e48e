package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/domain/policy"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type invoiceFixture struct {
	tx       *TxManagerMock
	orders   *OrderRepoMock
	invoices *InvoiceRepoMock
	audit    *AuditRepoMock
	uc       *usecase.InvoiceUsecase
}

func newInvoiceFixture() invoiceFixture {
	f := invoiceFixture{
		tx:       new(TxManagerMock),
		orders:   new(OrderRepoMock),
		invoices: new(InvoiceRepoMock),
		audit:    new(AuditRepoMock),
	}
	f.tx.Repos = &TxReposMock{orders: f.orders, invoices: f.invoices, auditLogs: f.audit}
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.uc = usecase.NewInvoiceUsecase(f.tx, f.invoices, f.orders, usecase.InvoiceConfig{
		VATRate: decimal.RequireFromString("0.20"),
		DueDays: 30,
	})
	return f
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "err=%v", err)
	return he.Status
}

func TestInvoiceUsecase_Create_ComputesTotals(t *testing.T) {
	f := newInvoiceFixture()
	o := sampleOrder(42, model.OrderStatusPending)
	o.Total = decimal.RequireFromString("120")

	f.orders.On("FindByID", mock.Anything, int64(42)).Return(o, nil)
	f.invoices.On("FindByOrderID", mock.Anything, int64(42)).Return(model.Invoice{}, repo.ErrNotFound)

	var saved model.Invoice
	f.invoices.On("Create", mock.Anything, mock.AnythingOfType("model.Invoice")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(model.Invoice) }).
		Return(model.Invoice{ID: 1}, nil)
	f.audit.On("Create", mock.Anything, mock.AnythingOfType("model.AuditLog")).Return(nil)

	_, err := f.uc.Create(context.Background(), 1, 42)
	require.NoError(t, err)

	assert.Regexp(t, `^INV-\d{4}-000042$`, saved.Number)
	assert.Equal(t, model.InvoiceStatusDraft, saved.Status)
	assert.Equal(t, model.PaymentStatusPending, saved.PaymentStatus)
	assert.Equal(t, "100", saved.TotalHT.String())
	assert.Equal(t, "20", saved.TotalTVA.String())
	assert.True(t, saved.TotalHT.Add(saved.TotalTVA).Equal(saved.TotalTTC))
	assert.True(t, saved.DueAt.Equal(saved.IssuedAt.AddDate(0, 0, 30)))
	assert.Equal(t, "alice@example.com", saved.ClientEmail)
}

func TestInvoiceUsecase_Create_AlreadyExists_409(t *testing.T) {
	f := newInvoiceFixture()
	f.orders.On("FindByID", mock.Anything, int64(42)).Return(sampleOrder(42, model.OrderStatusPending), nil)
	f.invoices.On("FindByOrderID", mock.Anything, int64(42)).Return(model.Invoice{ID: 3}, nil)

	_, err := f.uc.Create(context.Background(), 1, 42)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
	f.invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInvoiceUsecase_Create_OrderNotFound(t *testing.T) {
	f := newInvoiceFixture()
	f.orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{}, repo.ErrNotFound)

	_, err := f.uc.Create(context.Background(), 1, 42)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func invoiceWith(status model.InvoiceStatus, payment model.PaymentStatus) model.Invoice {
	return model.Invoice{ID: 10, OrderID: 42, Status: status, PaymentStatus: payment}
}

func TestInvoiceUsecase_UpdateStatus_DraftPaidRejected(t *testing.T) {
	f := newInvoiceFixture()
	f.invoices.On("FindByID", mock.Anything, int64(10)).Return(invoiceWith(model.InvoiceStatusDraft, model.PaymentStatusPending), nil)

	_, err := f.uc.UpdateStatus(context.Background(), 1, 10, usecase.UpdateInvoiceStatusInput{Status: "draft", PaymentStatus: "paid"})

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, he.Status)
	assert.Equal(t, "validation error", he.Message)
	assert.Equal(t, policy.MsgDraftCannotBePaid, he.Fields["status"])

	f.invoices.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInvoiceUsecase_UpdateStatus_PaidForcesPaymentAndSetsPaidAt(t *testing.T) {
	f := newInvoiceFixture()
	f.invoices.On("FindByID", mock.Anything, int64(10)).Return(invoiceWith(model.InvoiceStatusSent, model.PaymentStatusPending), nil)
	f.invoices.On("UpdateStatus", mock.Anything, int64(10), model.InvoiceStatusPaid, model.PaymentStatusPaid,
		mock.MatchedBy(func(p *time.Time) bool { return p != nil })).Return(nil)

	var logged model.AuditLog
	f.audit.On("Create", mock.Anything, mock.AnythingOfType("model.AuditLog")).
		Run(func(args mock.Arguments) { logged = args.Get(1).(model.AuditLog) }).
		Return(nil)

	inv, err := f.uc.UpdateStatus(context.Background(), 1, 10, usecase.UpdateInvoiceStatusInput{Status: "paid", PaymentStatus: "pending"})
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, inv.Status)
	assert.Equal(t, model.PaymentStatusPaid, inv.PaymentStatus)
	assert.NotNil(t, inv.PaidAt)

	assert.Equal(t, model.AuditActionUpdateInvoiceStatus, logged.Action)
	assert.JSONEq(t, `{"status":"sent","payment_status":"pending"}`, logged.BeforeJSON)
	assert.JSONEq(t, `{"status":"paid","payment_status":"paid"}`, logged.AfterJSON)
}

func TestInvoiceUsecase_UpdateStatus_CancelledOverdueBecomesPending(t *testing.T) {
	f := newInvoiceFixture()
	f.invoices.On("FindByID", mock.Anything, int64(10)).Return(invoiceWith(model.InvoiceStatusSent, model.PaymentStatusOverdue), nil)
	f.invoices.On("UpdateStatus", mock.Anything, int64(10), model.InvoiceStatusCancelled, model.PaymentStatusPending, (*time.Time)(nil)).Return(nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	inv, err := f.uc.UpdateStatus(context.Background(), 1, 10, usecase.UpdateInvoiceStatusInput{Status: "cancelled", PaymentStatus: "overdue"})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, inv.PaymentStatus)
	assert.Nil(t, inv.PaidAt)
}

func TestInvoiceUsecase_UpdateStatus_InvalidValue_422(t *testing.T) {
	f := newInvoiceFixture()
	f.invoices.On("FindByID", mock.Anything, int64(10)).Return(invoiceWith(model.InvoiceStatusSent, model.PaymentStatusPending), nil)

	_, err := f.uc.UpdateStatus(context.Background(), 1, 10, usecase.UpdateInvoiceStatusInput{Status: "archived", PaymentStatus: "pending"})
	assert.Equal(t, http.StatusUnprocessableEntity, statusOf(t, err))
}

func TestInvoiceUsecase_UpdatePaymentStatus(t *testing.T) {
	t.Run("sent becomes paid", func(t *testing.T) {
		f := newInvoiceFixture()
		f.invoices.On("FindByID", mock.Anything, int64(10)).Return(invoiceWith(model.InvoiceStatusSent, model.PaymentStatusPending), nil)
		f.invoices.On("UpdateStatus", mock.Anything, int64(10), model.InvoiceStatusPaid, model.PaymentStatusPaid, mock.Anything).Return(nil)
		f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

		inv, err := f.uc.UpdatePaymentStatus(context.Background(), 1, 10, "paid")
		require.NoError(t, err)
		assert.Equal(t, model.InvoiceStatusPaid, inv.Status)
	})

	t.Run("draft cannot be paid", func(t *testing.T) {
		f := newInvoiceFixture()
		f.invoices.On("FindByID", mock.Anything, int64(10)).Return(invoiceWith(model.InvoiceStatusDraft, model.PaymentStatusPending), nil)

		_, err := f.uc.UpdatePaymentStatus(context.Background(), 1, 10, "paid")
		he, ok := usecase.AsHTTPError(err)
		require.True(t, ok)
		assert.Equal(t, policy.MsgDraftCannotBePaid, he.Fields["status"])
	})

	t.Run("paid must stay paid", func(t *testing.T) {
		f := newInvoiceFixture()
		f.invoices.On("FindByID", mock.Anything, int64(10)).Return(invoiceWith(model.InvoiceStatusPaid, model.PaymentStatusPaid), nil)

		_, err := f.uc.UpdatePaymentStatus(context.Background(), 1, 10, "pending")
		he, ok := usecase.AsHTTPError(err)
		require.True(t, ok)
		assert.Equal(t, policy.MsgPaidMustStayPaid, he.Fields["payment_status"])
	})

	t.Run("existing paid_at is kept", func(t *testing.T) {
		f := newInvoiceFixture()
		paidAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		current := invoiceWith(model.InvoiceStatusPaid, model.PaymentStatusPaid)
		current.PaidAt = &paidAt
		f.invoices.On("FindByID", mock.Anything, int64(10)).Return(current, nil)
		f.invoices.On("UpdateStatus", mock.Anything, int64(10), model.InvoiceStatusPaid, model.PaymentStatusPaid, &paidAt).Return(nil)
		f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

		inv, err := f.uc.UpdatePaymentStatus(context.Background(), 1, 10, "paid")
		require.NoError(t, err)
		assert.Equal(t, paidAt, *inv.PaidAt)
	})
}

func TestInvoiceUsecase_GetForOrder_Capability(t *testing.T) {
	f := newInvoiceFixture()
	f.orders.On("FindByID", mock.Anything, int64(42)).Return(sampleOrder(42, model.OrderStatusPending), nil)
	f.invoices.On("FindByOrderID", mock.Anything, int64(42)).Return(model.Invoice{ID: 10, OrderID: 42}, nil)

	inv, err := f.uc.GetForOrder(context.Background(), policy.Actor{UserID: 5, Role: model.RoleUser}, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(10), inv.ID)

	_, err = f.uc.GetForOrder(context.Background(), policy.Actor{UserID: 6, Role: model.RoleUser}, 42)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestInvoiceUsecase_List_InvalidFilter(t *testing.T) {
	f := newInvoiceFixture()

	_, err := f.uc.List(context.Background(), repo.InvoiceListFilter{Page: 1, Limit: 20, PaymentStatus: "refunded"})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}
