package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders       repo.OrderRepository
	orderItems   repo.OrderItemRepository
	carts        repo.CartRepository
	cartItems    repo.CartItemRepository
	inventory    repo.InventoryRepository
	products     repo.ProductRepository
	packs        repo.PackRepository
	invoices     repo.InvoiceRepository
	deliveryFees repo.DeliveryFeeRepository
	auditLogs    repo.AuditLogRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository             { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository     { return r.orderItems }
func (r *TxReposMock) Carts() repo.CartRepository               { return r.carts }
func (r *TxReposMock) CartItems() repo.CartItemRepository       { return r.cartItems }
func (r *TxReposMock) Inventory() repo.InventoryRepository      { return r.inventory }
func (r *TxReposMock) Products() repo.ProductRepository         { return r.products }
func (r *TxReposMock) Packs() repo.PackRepository               { return r.packs }
func (r *TxReposMock) Invoices() repo.InvoiceRepository         { return r.invoices }
func (r *TxReposMock) DeliveryFees() repo.DeliveryFeeRepository { return r.deliveryFees }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository       { return r.auditLogs }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByOwner(ctx context.Context, owner model.Owner, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, owner, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) FindByIdempotencyKey(ctx context.Context, key string) (model.Order, bool, error) {
	args := m.Called(ctx, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListAdminAll(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) CountByUserIDs(ctx context.Context, userIDs []int64) (map[int64]int64, error) {
	args := m.Called(ctx, userIDs)
	counts, _ := args.Get(0).(map[int64]int64)
	return counts, args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateActive(ctx context.Context, owner model.Owner) (model.Cart, error) {
	args := m.Called(ctx, owner)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindActive(ctx context.Context, owner model.Owner) (model.Cart, error) {
	args := m.Called(ctx, owner)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	args := m.Called(ctx, cartID, status)
	return args.Error(0)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) Upsert(ctx context.Context, item model.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) IsOwnedBy(ctx context.Context, cartItemID int64, owner model.Owner) (bool, error) {
	args := m.Called(ctx, cartItemID, owner)
	return args.Bool(0), args.Error(1)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) SetStock(ctx context.Context, productID int64, newStock int64) (int64, error) {
	args := m.Called(ctx, productID, newStock)
	return args.Get(0).(int64), args.Error(1)
}

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	panic("not used in usecase tests")
}

func (m *InventoryRepoMock) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindByIDs(ctx context.Context, ids []int64) (map[int64]model.Product, error) {
	args := m.Called(ctx, ids)
	ps, _ := args.Get(0).(map[int64]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type PackRepoMock struct{ mock.Mock }

func (m *PackRepoMock) List(ctx context.Context, includeInactive bool) ([]model.Pack, error) {
	args := m.Called(ctx, includeInactive)
	ps, _ := args.Get(0).([]model.Pack)
	return ps, args.Error(1)
}

func (m *PackRepoMock) FindByID(ctx context.Context, id int64) (model.Pack, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Pack)
	return p, args.Error(1)
}

func (m *PackRepoMock) FindBySlug(ctx context.Context, slug string) (model.Pack, error) {
	args := m.Called(ctx, slug)
	p, _ := args.Get(0).(model.Pack)
	return p, args.Error(1)
}

func (m *PackRepoMock) Create(ctx context.Context, p model.Pack) (model.Pack, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Pack)
	return out, args.Error(1)
}

func (m *PackRepoMock) Update(ctx context.Context, p model.Pack) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *PackRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type InvoiceRepoMock struct{ mock.Mock }

func (m *InvoiceRepoMock) Create(ctx context.Context, inv model.Invoice) (model.Invoice, error) {
	args := m.Called(ctx, inv)
	out, _ := args.Get(0).(model.Invoice)
	return out, args.Error(1)
}

func (m *InvoiceRepoMock) FindByID(ctx context.Context, id int64) (model.Invoice, error) {
	args := m.Called(ctx, id)
	inv, _ := args.Get(0).(model.Invoice)
	return inv, args.Error(1)
}

func (m *InvoiceRepoMock) FindByOrderID(ctx context.Context, orderID int64) (model.Invoice, error) {
	args := m.Called(ctx, orderID)
	inv, _ := args.Get(0).(model.Invoice)
	return inv, args.Error(1)
}

func (m *InvoiceRepoMock) List(ctx context.Context, f repo.InvoiceListFilter) ([]model.Invoice, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Invoice)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *InvoiceRepoMock) ListAll(ctx context.Context, f repo.InvoiceListFilter) ([]model.Invoice, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Invoice)
	return items, args.Error(1)
}

func (m *InvoiceRepoMock) UpdateStatus(ctx context.Context, id int64, status model.InvoiceStatus, payment model.PaymentStatus, paidAt *time.Time) error {
	args := m.Called(ctx, id, status, payment, paidAt)
	return args.Error(0)
}

type DeliveryFeeRepoMock struct{ mock.Mock }

func (m *DeliveryFeeRepoMock) List(ctx context.Context) ([]model.DeliveryFee, error) {
	args := m.Called(ctx)
	fees, _ := args.Get(0).([]model.DeliveryFee)
	return fees, args.Error(1)
}

func (m *DeliveryFeeRepoMock) FindByID(ctx context.Context, id int64) (model.DeliveryFee, error) {
	args := m.Called(ctx, id)
	fee, _ := args.Get(0).(model.DeliveryFee)
	return fee, args.Error(1)
}

func (m *DeliveryFeeRepoMock) FindActive(ctx context.Context) (model.DeliveryFee, error) {
	args := m.Called(ctx)
	fee, _ := args.Get(0).(model.DeliveryFee)
	return fee, args.Error(1)
}

func (m *DeliveryFeeRepoMock) Create(ctx context.Context, fee model.DeliveryFee) (model.DeliveryFee, error) {
	args := m.Called(ctx, fee)
	out, _ := args.Get(0).(model.DeliveryFee)
	return out, args.Error(1)
}

func (m *DeliveryFeeRepoMock) Update(ctx context.Context, fee model.DeliveryFee) error {
	args := m.Called(ctx, fee)
	return args.Error(0)
}

func (m *DeliveryFeeRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, int64, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Get(1).(int64), args.Error(2)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *UserRepoMock) ListCustomers(ctx context.Context, f repo.CustomerListFilter) ([]model.User, int64, error) {
	args := m.Called(ctx, f)
	users, _ := args.Get(0).([]model.User)
	return users, args.Get(1).(int64), args.Error(2)
}

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) Dispatch(ctx context.Context, ev model.OrderStatusChanged) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// =====================
// Helper
// =====================

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func int64Ptr(v int64) *int64 { return &v }
