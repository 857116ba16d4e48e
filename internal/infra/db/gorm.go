package db

import (
	"storefront/internal/domain/model"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
// unique違反を gorm.ErrDuplicatedKey で受け取れるよう TranslateError を有効にする。
func Connect(dsn string, log *logrus.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if log != nil && log.IsLevelEnabled(logrus.DebugLevel) {
		level = gormlogger.Info
	}

	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	})
}

// テーブル作成（起動時）
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Pack{},
		&model.PackItem{},
		&model.InventoryAdjustment{},
		&model.Cart{},
		&model.CartItem{},
		&model.DeliveryFee{},
		&model.Order{},
		&model.OrderItem{},
		&model.Invoice{},
		&model.AuditLog{},
		&model.Notification{},
		&model.Setting{},
		&model.EmailTemplate{},
	)
}
