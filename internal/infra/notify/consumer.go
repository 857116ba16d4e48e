package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront/internal/domain/model"
	"storefront/internal/metrics"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// 1件ずつ順に処理するので、未ackはこの数まで
const consumerPrefetch = 10

// *amqp.Channel のうち消費に使う部分
type deliverySource interface {
	Qos(prefetchCount int, prefetchSize int, global bool) error
	Consume(queue string, consumer string, autoAck bool, exclusive bool, noLocal bool, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// キューから取り出してルーティングキーのチャネルへ渡す
type Consumer struct {
	channels map[string]Channel
	log      *logrus.Logger
}

func NewConsumer(log *logrus.Logger, channels ...Channel) *Consumer {
	m := make(map[string]Channel, len(channels))
	for _, ch := range channels {
		m[ch.Name()] = ch
	}
	return &Consumer{channels: m, log: log}
}

// ctxがキャンセルされるか、deliveryが閉じるまで処理する
func (c *Consumer) Run(ctx context.Context, ch deliverySource, queue string) error {
	if err := ch.Qos(consumerPrefetch, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	msgs, err := ch.Consume(
		queue,
		"storefront-notify", // consumer tag
		false,               // auto-ack
		false,               // exclusive
		false,               // no-local
		false,               // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			c.Handle(ctx, msg)
		}
	}
}

// 成功でAck、壊れたメッセージや配信失敗はNack（再キューしない）。停止による中断だけ再キュー。
func (c *Consumer) Handle(ctx context.Context, msg amqp.Delivery) {
	defer func() {
		if r := recover(); r != nil {
			c.log.WithField("panic", r).Error("recovered from panic in notification consumer")
			_ = msg.Nack(false, false)
		}
	}()

	entry := c.log.WithField("routing_key", msg.RoutingKey)

	ch, ok := c.channels[msg.RoutingKey]
	if !ok {
		entry.Warn("unknown notification channel")
		_ = msg.Nack(false, false)
		return
	}

	var ev model.OrderStatusChanged
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		entry.WithError(err).Warn("invalid notification payload")
		_ = msg.Nack(false, false)
		return
	}

	err := ch.Deliver(ctx, ev)
	metrics.RecordNotification(ch.Name(), err == nil)
	if err != nil {
		// 停止中に中断された配信は捨てずにキューへ戻す
		requeue := ctx.Err() != nil
		entry.WithError(err).WithFields(logrus.Fields{
			"order_id": ev.OrderID,
			"requeue":  requeue,
		}).Error("notification delivery failed")
		_ = msg.Nack(false, requeue)
		return
	}

	_ = msg.Ack(false)
}
