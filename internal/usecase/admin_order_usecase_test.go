package usecase_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type adminOrderFixture struct {
	tx       *TxManagerMock
	orders   *OrderRepoMock
	items    *OrderItemRepoMock
	audit    *AuditRepoMock
	notifier *NotifierMock
	uc       *usecase.AdminOrderUsecase
}

func newAdminOrderFixture() adminOrderFixture {
	f := adminOrderFixture{
		tx:       new(TxManagerMock),
		orders:   new(OrderRepoMock),
		items:    new(OrderItemRepoMock),
		audit:    new(AuditRepoMock),
		notifier: new(NotifierMock),
	}
	f.tx.Repos = &TxReposMock{orders: f.orders, orderItems: f.items, auditLogs: f.audit}
	f.tx.On("WithinTx", mock.Anything).Return(nil)
	f.uc = usecase.NewAdminOrderUsecase(f.tx, f.notifier, quietLogger())
	return f
}

func sampleOrder(id int64, status model.OrderStatus) model.Order {
	return model.Order{
		ID:            id,
		Reference:     "ORD-20261016-0000ABCD",
		Owner:         model.UserOwner(5),
		Status:        status,
		CustomerName:  "Alice",
		CustomerEmail: "alice@example.com",
		Subtotal:      decimal.RequireFromString("40"),
		Total:         decimal.RequireFromString("45"),
	}
}

// =====================
// List tests
// =====================

func TestAdminOrderUsecase_List_InvalidPage(t *testing.T) {
	f := newAdminOrderFixture()

	out, err := f.uc.List(context.Background(), repo.AdminOrderListFilter{Page: 0, Limit: 20})
	assert.Empty(t, out.Items)
	assertErrContains(t, err, "invalid page")
}

func TestAdminOrderUsecase_List_InvalidLimit(t *testing.T) {
	f := newAdminOrderFixture()

	_, err := f.uc.List(context.Background(), repo.AdminOrderListFilter{Page: 1, Limit: 101})
	assertErrContains(t, err, "invalid limit")
}

func TestAdminOrderUsecase_List_InvalidStatusFilter(t *testing.T) {
	f := newAdminOrderFixture()

	_, err := f.uc.List(context.Background(), repo.AdminOrderListFilter{Page: 1, Limit: 20, Status: "PAID"})
	assertErrContains(t, err, "invalid status")
}

func TestAdminOrderUsecase_List_Success_CallsItemsPerOrder(t *testing.T) {
	ctx := context.Background()
	f := newAdminOrderFixture()

	filter := repo.AdminOrderListFilter{Page: 1, Limit: 20, Status: "pending"}
	orders := []model.Order{
		sampleOrder(10, model.OrderStatusPending),
		sampleOrder(11, model.OrderStatusPending),
	}

	f.orders.On("ListAdmin", mock.Anything, filter).Return(orders, int64(7), nil)
	f.items.On("ListByOrderID", mock.Anything, int64(10)).Return([]model.OrderItem{
		{ProductID: int64Ptr(1), ProductNameSnapshot: "Mug", UnitPriceSnapshot: decimal.RequireFromString("12.50"), Quantity: 2},
	}, nil)
	f.items.On("ListByOrderID", mock.Anything, int64(11)).Return([]model.OrderItem{}, nil)

	out, err := f.uc.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(7), out.Total)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "Pending", out.Items[0].StatusLabel)
	assert.Equal(t, "25", out.Items[0].Items[0].TotalPrice.String())

	f.orders.AssertExpectations(t)
	f.items.AssertExpectations(t)
}

func TestAdminOrderUsecase_Statuses_TableOrder(t *testing.T) {
	f := newAdminOrderFixture()

	keys := []model.OrderStatus{}
	for _, s := range f.uc.Statuses() {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusProcessing,
		model.OrderStatusShipped,
		model.OrderStatusDelivered,
		model.OrderStatusCancelled,
	}, keys)
}

// =====================
// UpdateStatus tests
// =====================

func TestAdminOrderUsecase_UpdateStatus_UnauthorizedActor(t *testing.T) {
	f := newAdminOrderFixture()

	_, err := f.uc.UpdateStatus(context.Background(), 0, 1, usecase.AdminUpdateOrderStatusInput{Status: "shipped"})
	assertErrContains(t, err, "unauthorized")
}

func TestAdminOrderUsecase_UpdateStatus_InvalidOrderID(t *testing.T) {
	f := newAdminOrderFixture()

	_, err := f.uc.UpdateStatus(context.Background(), 1, 0, usecase.AdminUpdateOrderStatusInput{Status: "shipped"})
	assertErrContains(t, err, "invalid id")
}

func TestAdminOrderUsecase_UpdateStatus_UnknownStatus_422(t *testing.T) {
	f := newAdminOrderFixture()

	_, err := f.uc.UpdateStatus(context.Background(), 1, 1, usecase.AdminUpdateOrderStatusInput{Status: "XXX"})

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, he.Status)
	assert.Equal(t, "invalid status", he.Fields["status"])
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestAdminOrderUsecase_UpdateStatus_NotFound(t *testing.T) {
	f := newAdminOrderFixture()
	f.orders.On("FindByID", mock.Anything, int64(99)).Return(model.Order{}, repo.ErrNotFound)

	_, err := f.uc.UpdateStatus(context.Background(), 1, 99, usecase.AdminUpdateOrderStatusInput{Status: "shipped"})

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	f.notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestAdminOrderUsecase_UpdateStatus_SameStatus_NoOp(t *testing.T) {
	f := newAdminOrderFixture()
	f.orders.On("FindByID", mock.Anything, int64(1)).Return(sampleOrder(1, model.OrderStatusShipped), nil)
	f.items.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{}, nil)

	out, err := f.uc.UpdateStatus(context.Background(), 1, 1, usecase.AdminUpdateOrderStatusInput{Status: "shipped"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, out.Status)

	f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	f.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestAdminOrderUsecase_UpdateStatus_AnyTransitionAllowed(t *testing.T) {
	for _, from := range model.OrderStatuses() {
		for _, to := range model.OrderStatuses() {
			if from.Key == to.Key {
				continue
			}
			t.Run(string(from.Key)+"->"+string(to.Key), func(t *testing.T) {
				f := newAdminOrderFixture()
				f.orders.On("FindByID", mock.Anything, int64(3)).Return(sampleOrder(3, from.Key), nil)
				f.items.On("ListByOrderID", mock.Anything, int64(3)).Return([]model.OrderItem{}, nil)
				f.orders.On("UpdateStatus", mock.Anything, int64(3), to.Key).Return(nil)
				f.audit.On("Create", mock.Anything, mock.AnythingOfType("model.AuditLog")).Return(nil)
				f.notifier.On("Dispatch", mock.Anything, mock.AnythingOfType("model.OrderStatusChanged")).Return(nil)

				out, err := f.uc.UpdateStatus(context.Background(), 1, 3, usecase.AdminUpdateOrderStatusInput{Status: string(to.Key)})
				require.NoError(t, err)
				assert.Equal(t, to.Key, out.Status)
			})
		}
	}
}

func TestAdminOrderUsecase_UpdateStatus_Success_AuditAndNotify(t *testing.T) {
	f := newAdminOrderFixture()
	f.orders.On("FindByID", mock.Anything, int64(1)).Return(sampleOrder(1, model.OrderStatusDelivered), nil)
	f.items.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{}, nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(1), model.OrderStatusPending).Return(nil)

	var logged model.AuditLog
	f.audit.On("Create", mock.Anything, mock.AnythingOfType("model.AuditLog")).
		Run(func(args mock.Arguments) { logged = args.Get(1).(model.AuditLog) }).
		Return(nil)

	var ev model.OrderStatusChanged
	f.notifier.On("Dispatch", mock.Anything, mock.AnythingOfType("model.OrderStatusChanged")).
		Run(func(args mock.Arguments) { ev = args.Get(1).(model.OrderStatusChanged) }).
		Return(nil)

	out, err := f.uc.UpdateStatus(context.Background(), 9, 1, usecase.AdminUpdateOrderStatusInput{Status: " pending "})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, out.Status)

	assert.Equal(t, int64(9), logged.ActorUserID)
	assert.Equal(t, model.AuditActionUpdateOrderStatus, logged.Action)
	assert.JSONEq(t, `{"status":"delivered"}`, logged.BeforeJSON)
	assert.JSONEq(t, `{"status":"pending"}`, logged.AfterJSON)

	assert.Equal(t, int64(1), ev.OrderID)
	assert.Equal(t, model.OrderStatusDelivered, ev.OldStatus)
	assert.Equal(t, "Delivered", ev.OldStatusLabel)
	assert.Equal(t, model.OrderStatusPending, ev.NewStatus)
	assert.Equal(t, "Pending", ev.NewStatusLabel)
	assert.Equal(t, "alice@example.com", ev.CustomerEmail)
}

func TestAdminOrderUsecase_UpdateStatus_NotifyFailureIgnored(t *testing.T) {
	f := newAdminOrderFixture()
	f.orders.On("FindByID", mock.Anything, int64(1)).Return(sampleOrder(1, model.OrderStatusPending), nil)
	f.items.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{}, nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(1), model.OrderStatusShipped).Return(nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("Dispatch", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	out, err := f.uc.UpdateStatus(context.Background(), 1, 1, usecase.AdminUpdateOrderStatusInput{Status: "shipped"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, out.Status)
}

func TestAdminOrderUsecase_UpdateStatus_AuditFailureRollsBack(t *testing.T) {
	f := newAdminOrderFixture()
	f.orders.On("FindByID", mock.Anything, int64(1)).Return(sampleOrder(1, model.OrderStatusPending), nil)
	f.items.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderItem{}, nil)
	f.orders.On("UpdateStatus", mock.Anything, int64(1), model.OrderStatusShipped).Return(nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	_, err := f.uc.UpdateStatus(context.Background(), 1, 1, usecase.AdminUpdateOrderStatusInput{Status: "shipped"})
	assertErrContains(t, err, "db error")
	f.notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestParseDateParam(t *testing.T) {
	got, ok := usecase.ParseDateParam("2026-10-16", true)
	require.True(t, ok)
	assert.Equal(t, 23, got.Hour())

	got, ok = usecase.ParseDateParam("", false)
	assert.True(t, ok)
	assert.Nil(t, got)

	_, ok = usecase.ParseDateParam("16/10/2026", false)
	assert.False(t, ok)
}
