package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type EmailTemplateUsecase struct {
	templates repo.EmailTemplateRepository
}

func NewEmailTemplateUsecase(templates repo.EmailTemplateRepository) *EmailTemplateUsecase {
	return &EmailTemplateUsecase{templates: templates}
}

type EmailTemplateInput struct {
	Subject string
	Body    string
}

type EmailPreview struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// 起動時に既定のテンプレートを入れる（既にあれば触らない）
func (u *EmailTemplateUsecase) EnsureDefaults(ctx context.Context) error {
	return u.templates.CreateIfMissing(ctx, model.DefaultOrderStatusChangedTemplate())
}

func (u *EmailTemplateUsecase) List(ctx context.Context) ([]model.EmailTemplate, error) {
	ts, err := u.templates.List(ctx)
	if err != nil {
		return nil, dbError()
	}
	return ts, nil
}

func (u *EmailTemplateUsecase) Get(ctx context.Context, key string) (model.EmailTemplate, error) {
	t, err := u.templates.FindByKey(ctx, strings.TrimSpace(key))
	if err != nil {
		return model.EmailTemplate{}, findError(err)
	}
	return t, nil
}

// 保存前にサンプルで描画して構文を確かめる
func (u *EmailTemplateUsecase) Upsert(ctx context.Context, key string, in EmailTemplateInput) (model.EmailTemplate, error) {
	t := model.EmailTemplate{
		Key:     strings.TrimSpace(key),
		Subject: strings.TrimSpace(in.Subject),
		Body:    in.Body,
	}
	if err := validateTemplate(t); err != nil {
		return model.EmailTemplate{}, err
	}

	saved, err := u.templates.Upsert(ctx, t)
	if err != nil {
		return model.EmailTemplate{}, dbError()
	}
	return saved, nil
}

// 保存せずにサンプルデータで描画する
func (u *EmailTemplateUsecase) Preview(ctx context.Context, key string, in EmailTemplateInput) (EmailPreview, error) {
	t := model.EmailTemplate{
		Key:     strings.TrimSpace(key),
		Subject: strings.TrimSpace(in.Subject),
		Body:    in.Body,
	}
	if err := validateTemplate(t); err != nil {
		return EmailPreview{}, err
	}
	subject, body, err := renderSample(t)
	if err != nil {
		return EmailPreview{}, err
	}
	return EmailPreview{Subject: subject, Body: body}, nil
}

func validateTemplate(t model.EmailTemplate) error {
	fields := map[string]string{}
	if t.Key == "" || len(t.Key) > 100 {
		fields["key"] = "must be 1-100 characters"
	}
	if t.Subject == "" {
		fields["subject"] = "is required"
	}
	if strings.TrimSpace(t.Body) == "" {
		fields["body"] = "is required"
	}
	if len(fields) > 0 {
		return NewValidationError(fields)
	}

	_, _, err := renderSample(t)
	return err
}

// 描画エラーは失敗した部分（subject / body）のフィールドエラーにする
func renderSample(t model.EmailTemplate) (string, string, error) {
	subject, body, err := t.Render(sampleOrderStatusChanged())
	if err == nil {
		return subject, body, nil
	}
	var te *model.TemplateError
	if errors.As(err, &te) {
		return "", "", NewValidationError(map[string]string{te.Part: "invalid template: " + te.Err.Error()})
	}
	return "", "", NewValidationError(map[string]string{"body": "invalid template: " + err.Error()})
}

func sampleOrderStatusChanged() model.OrderStatusChanged {
	return model.OrderStatusChanged{
		OrderID:        1,
		Reference:      "ORD-20260101-SAMPLE01",
		CustomerName:   "Jane Doe",
		CustomerEmail:  "jane@example.com",
		OldStatus:      model.OrderStatusPending,
		OldStatusLabel: model.OrderStatusPending.Label(),
		NewStatus:      model.OrderStatusShipped,
		NewStatusLabel: model.OrderStatusShipped.Label(),
		OccurredAt:     time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}
