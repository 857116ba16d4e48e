package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 配送料。is_active=true の最初の1件だけが適用される。
type DeliveryFee struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	IsActive  bool            `gorm:"not null;default:false;index" json:"is_active"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
