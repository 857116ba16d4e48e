package model

import "time"

type NotificationType string

const (
	NotificationOrderStatusChanged NotificationType = "order_status_changed"
)

// アプリ内通知（databaseチャネル）
type Notification struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//会員宛ならUserID、ゲスト注文ならEmailだけ入る
	UserID *int64 `gorm:"index" json:"user_id"`
	Email  string `gorm:"type:varchar(255);not null;index" json:"email"`

	Type      NotificationType `gorm:"type:varchar(50);not null;index" json:"type"`
	DataJSON  string           `gorm:"type:text;not null" json:"data"`
	ReadAt    *time.Time       `json:"read_at"`
	CreatedAt time.Time        `gorm:"not null;autoCreateTime" json:"created_at"`
}

// 注文ステータス変更イベント（mail / database の両チャネルに配る）
type OrderStatusChanged struct {
	OrderID        int64       `json:"order_id"`
	Reference      string      `json:"reference"`
	UserID         *int64      `json:"user_id,omitempty"`
	CustomerName   string      `json:"customer_name"`
	CustomerEmail  string      `json:"customer_email"`
	OldStatus      OrderStatus `json:"old_status"`
	OldStatusLabel string      `json:"old_status_label"`
	NewStatus      OrderStatus `json:"new_status"`
	NewStatusLabel string      `json:"new_status_label"`
	OccurredAt     time.Time   `json:"occurred_at"`
}
