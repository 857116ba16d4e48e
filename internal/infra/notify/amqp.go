package notify

import (
	"context"
	"encoding/json"
	"time"

	"storefront/internal/domain/model"

	amqp "github.com/rabbitmq/amqp091-go"
)

// publish だけを使う（テストで差し替える）
type publisher interface {
	PublishWithContext(ctx context.Context, exchange string, key string, mandatory bool, immediate bool, msg amqp.Publishing) error
}

// Channel は発行とキュー宣言用。消費は OpenConsumerChannel で別チャネルを使う。
type RabbitMQ struct {
	Conn     *amqp.Connection
	Channel  *amqp.Channel
	Exchange string
	Queue    string

	consumerChannels []*amqp.Channel
}

func NewRabbitMQ(url string, exchange string, queue string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &RabbitMQ{
		Conn:     conn,
		Channel:  ch,
		Exchange: exchange,
		Queue:    queue,
	}, nil
}

// direct exchange と queue を作り、mail / database の両キーでbindする
func (r *RabbitMQ) SetupQueues() error {
	if err := r.Channel.ExchangeDeclare(
		r.Exchange,
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return err
	}

	if _, err := r.Channel.QueueDeclare(
		r.Queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		amqp.Table{"x-queue-type": "classic"},
	); err != nil {
		return err
	}

	for _, key := range []string{ChannelMail, ChannelDatabase} {
		if err := r.Channel.QueueBind(r.Queue, key, r.Exchange, false, nil); err != nil {
			return err
		}
	}
	return nil
}

// 発行側のフロー制御に巻き込まれないよう、消費用のチャネルを別に開く
func (r *RabbitMQ) OpenConsumerChannel() (*amqp.Channel, error) {
	ch, err := r.Conn.Channel()
	if err != nil {
		return nil, err
	}
	r.consumerChannels = append(r.consumerChannels, ch)
	return ch, nil
}

func (r *RabbitMQ) Close() {
	for _, ch := range r.consumerChannels {
		_ = ch.Close()
	}
	if r.Channel != nil {
		_ = r.Channel.Close()
	}
	if r.Conn != nil {
		_ = r.Conn.Close()
	}
}

// チャネルごとに1メッセージ発行する
type AMQPPublisher struct {
	ch       publisher
	exchange string
	channels []string
}

func NewAMQPPublisher(ch publisher, exchange string) *AMQPPublisher {
	return &AMQPPublisher{
		ch:       ch,
		exchange: exchange,
		channels: []string{ChannelMail, ChannelDatabase},
	}
}

func (p *AMQPPublisher) Dispatch(ctx context.Context, ev model.OrderStatusChanged) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	for _, key := range p.channels {
		msg := amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			ContentType:  "application/json",
			Type:         string(model.NotificationOrderStatusChanged),
			Body:         body,
		}
		if err := p.ch.PublishWithContext(ctx, p.exchange, key, false, false, msg); err != nil {
			return err
		}
	}
	return nil
}
