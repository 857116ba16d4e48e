package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusOverdue:
		return true
	}
	return false
}

// 請求書（注文から管理者操作で1件だけ作る）
type Invoice struct {
	ID            int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Number        string        `gorm:"type:varchar(40);not null;uniqueIndex" json:"number"`
	OrderID       int64         `gorm:"not null;uniqueIndex" json:"order_id"`
	Status        InvoiceStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;index" json:"payment_status"`

	//注文時点の請求先
	ClientName  string `gorm:"type:varchar(255);not null" json:"client_name"`
	ClientEmail string `gorm:"type:varchar(255);not null" json:"client_email"`

	VATRate  decimal.Decimal `gorm:"type:numeric(5,4);not null" json:"vat_rate"`
	TotalHT  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_ht"`
	TotalTVA decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_tva"`
	TotalTTC decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_ttc"`

	IssuedAt  time.Time  `gorm:"not null" json:"issued_at"`
	DueAt     time.Time  `gorm:"not null" json:"due_at"`
	PaidAt    *time.Time `json:"paid_at"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 税込金額から税抜・税額を出す（2桁丸め、HT+TVA=TTC）
func SplitVAT(ttc decimal.Decimal, rate decimal.Decimal) (ht decimal.Decimal, tva decimal.Decimal) {
	ttc = ttc.Round(2)
	ht = ttc.Div(decimal.NewFromInt(1).Add(rate)).Round(2)
	tva = ttc.Sub(ht)
	return ht, tva
}
