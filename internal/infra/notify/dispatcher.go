package notify

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain/model"
	"storefront/internal/metrics"

	"github.com/sirupsen/logrus"
)

const (
	ChannelMail     = "mail"
	ChannelDatabase = "database"
)

// 注文ステータス変更を通知チャネルへ渡す
type Dispatcher interface {
	Dispatch(ctx context.Context, ev model.OrderStatusChanged) error
}

// 1つの配信先（メール / アプリ内通知）
type Channel interface {
	Name() string
	Deliver(ctx context.Context, ev model.OrderStatusChanged) error
}

// プロセス内でそのまま配る（RABBITMQ_URL 未設定時）
type Direct struct {
	channels []Channel
	log      *logrus.Logger
}

func NewDirect(log *logrus.Logger, channels ...Channel) *Direct {
	return &Direct{channels: channels, log: log}
}

// 1チャネルが失敗しても残りには配る
func (d *Direct) Dispatch(ctx context.Context, ev model.OrderStatusChanged) error {
	var errs []error
	for _, ch := range d.channels {
		err := ch.Deliver(ctx, ev)
		metrics.RecordNotification(ch.Name(), err == nil)
		if err != nil {
			d.log.WithError(err).WithFields(logrus.Fields{
				"channel":  ch.Name(),
				"order_id": ev.OrderID,
			}).Warn("notification delivery failed")
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
		}
	}
	return errors.Join(errs...)
}
