package notify

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	"storefront/internal/infra/mail"
	repo "storefront/internal/repository"
)

// order_status_changed テンプレートでメールを送る
type MailChannel struct {
	templates repo.EmailTemplateRepository
	mailer    mail.Mailer
}

func NewMailChannel(templates repo.EmailTemplateRepository, mailer mail.Mailer) *MailChannel {
	return &MailChannel{templates: templates, mailer: mailer}
}

func (c *MailChannel) Name() string { return ChannelMail }

func (c *MailChannel) Deliver(ctx context.Context, ev model.OrderStatusChanged) error {
	if ev.CustomerEmail == "" {
		return nil
	}

	tpl, err := c.templates.FindByKey(ctx, model.EmailTemplateOrderStatusChanged)
	if errors.Is(err, repo.ErrNotFound) {
		tpl = model.DefaultOrderStatusChangedTemplate()
	} else if err != nil {
		return err
	}

	subject, body, err := tpl.Render(ev)
	if err != nil {
		return err
	}
	return c.mailer.Send(ctx, ev.CustomerEmail, subject, body)
}
