package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	gomail "github.com/wneessen/go-mail"
)

const defaultSendTimeout = 10 * time.Second

type Mailer interface {
	Send(ctx context.Context, to string, subject string, body string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	// 0なら10秒
	Timeout time.Duration
}

type SMTPMailer struct {
	cfg  SMTPConfig
	dial func(ctx context.Context, msg *gomail.Msg) error
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSendTimeout
	}
	m := &SMTPMailer{cfg: cfg}
	m.dial = m.dialAndSend
	return m
}

// 接続から送信までTimeoutで打ち切る。SMTPが詰まっても呼び出し元は待たされない。
func (m *SMTPMailer) Send(ctx context.Context, to string, subject string, body string) error {
	msg, err := m.buildMessage(to, subject, body)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	if err := m.dial(ctx, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// 件名はgo-mailがRFC 2047でエンコードする。改行はヘッダインジェクション防止に落とす。
func (m *SMTPMailer) buildMessage(to string, subject string, body string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject(strings.NewReplacer("\r", "", "\n", "").Replace(subject))
	msg.SetDate()
	msg.SetMessageID()
	msg.SetBodyString(gomail.TypeTextPlain, body)
	return msg, nil
}

func (m *SMTPMailer) dialAndSend(ctx context.Context, msg *gomail.Msg) error {
	opts := []gomail.Option{
		gomail.WithPort(m.cfg.Port),
		gomail.WithTimeout(m.cfg.Timeout),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if m.cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.User),
			gomail.WithPassword(m.cfg.Password),
		)
	}

	client, err := gomail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// SMTP_HOST未設定（開発環境）のときはログに出すだけ
type LogMailer struct {
	log *logrus.Logger
}

func NewLogMailer(log *logrus.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, to string, subject string, body string) error {
	m.log.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("mail (not sent, SMTP_HOST is empty)")
	return nil
}
