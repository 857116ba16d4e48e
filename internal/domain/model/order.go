package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID        int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Reference string      `gorm:"type:varchar(40);not null;uniqueIndex" json:"reference"`
	Owner     Owner       `gorm:"embedded" json:"owner"`
	Status    OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	CustomerName  string `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail string `gorm:"type:varchar(255);not null;index" json:"customer_email"`
	CustomerPhone string `gorm:"type:varchar(30)" json:"customer_phone"`

	Shipping ShippingAddress `gorm:"embedded" json:"shipping"`

	Subtotal decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`

	//配送料（注文時点で有効だったもの）
	DeliveryFeeID     *int64          `json:"delivery_fee_id"`
	DeliveryFeeAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"delivery_fee_amount"`

	Total          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	IdempotencyKey string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	CreatedAt      time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 小計＋配送料
func OrderTotal(subtotal decimal.Decimal, deliveryFee decimal.Decimal) decimal.Decimal {
	return subtotal.Add(deliveryFee).Round(2)
}
