package model

import "time"

type CartStatus string

const (
	CartStatusActive     CartStatus = "ACTIVE"
	CartStatusCheckedOut CartStatus = "CHECKED_OUT"
)

// オーナー（会員かゲストセッション）ごとにACTIVEなカートは最大1つ。
// チェックアウトでCHECKED_OUTになり、次の追加で新しいカートが作られる。
type Cart struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Owner     Owner      `gorm:"embedded" json:"owner"`
	Status    CartStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
