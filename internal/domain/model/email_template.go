package model

import (
	"bytes"
	"text/template"
	"time"
)

const EmailTemplateOrderStatusChanged = "order_status_changed"

// メールテンプレート。Subject/Body は text/template 構文。
type EmailTemplate struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Key       string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"key"`
	Subject   string    `gorm:"type:varchar(255);not null" json:"subject"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 初回起動時に入れるテンプレート
func DefaultOrderStatusChangedTemplate() EmailTemplate {
	return EmailTemplate{
		Key:     EmailTemplateOrderStatusChanged,
		Subject: "Your order {{.Reference}} is now {{.NewStatusLabel}}",
		Body: "Hello {{.CustomerName}},\n\n" +
			"The status of your order {{.Reference}} changed from {{.OldStatusLabel}} to {{.NewStatusLabel}}.\n\n" +
			"Thank you for shopping with us.\n",
	}
}

// どちらの部分（subject / body）で失敗したか
type TemplateError struct {
	Part string
	Err  error
}

func (e *TemplateError) Error() string { return e.Part + ": " + e.Err.Error() }

func (e *TemplateError) Unwrap() error { return e.Err }

// Subject/Bodyを data で埋める。構文エラーもここで分かる。
func (t EmailTemplate) Render(data interface{}) (subject string, body string, err error) {
	subject, err = renderText(t.Key+":subject", t.Subject, data)
	if err != nil {
		return "", "", &TemplateError{Part: "subject", Err: err}
	}
	body, err = renderText(t.Key+":body", t.Body, data)
	if err != nil {
		return "", "", &TemplateError{Part: "body", Err: err}
	}
	return subject, body, nil
}

func renderText(name string, src string, data interface{}) (string, error) {
	tpl, err := template.New(name).Option("missingkey=error").Parse(src)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
