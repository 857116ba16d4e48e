package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

type InvoiceListFilter struct {
	Page          int
	Limit         int
	Status        string
	PaymentStatus string
}

type InvoiceRepository interface {
	//同じ注文の請求書が既にあれば ErrConflict
	Create(ctx context.Context, inv model.Invoice) (model.Invoice, error)
	FindByID(ctx context.Context, id int64) (model.Invoice, error)
	FindByOrderID(ctx context.Context, orderID int64) (model.Invoice, error)
	List(ctx context.Context, f InvoiceListFilter) ([]model.Invoice, int64, error)
	ListAll(ctx context.Context, f InvoiceListFilter) ([]model.Invoice, error)

	// status / payment_status / paid_at をまとめて保存
	UpdateStatus(ctx context.Context, id int64, status model.InvoiceStatus, payment model.PaymentStatus, paidAt *time.Time) error
}
