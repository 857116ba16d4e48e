package notify

import (
	"context"
	"encoding/json"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// notifications テーブルに1行入れる
type DatabaseChannel struct {
	notifications repo.NotificationRepository
}

func NewDatabaseChannel(notifications repo.NotificationRepository) *DatabaseChannel {
	return &DatabaseChannel{notifications: notifications}
}

func (c *DatabaseChannel) Name() string { return ChannelDatabase }

func (c *DatabaseChannel) Deliver(ctx context.Context, ev model.OrderStatusChanged) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return c.notifications.Create(ctx, model.Notification{
		UserID:   ev.UserID,
		Email:    ev.CustomerEmail,
		Type:     model.NotificationOrderStatusChanged,
		DataJSON: string(data),
	})
}
