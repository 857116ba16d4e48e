package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// before/after をJSON文字列にして監査ログを組み立てる
func newAuditLog(actorUserID int64, action model.AuditAction, resType model.AuditResourceType, resID int64, before any, after any) model.AuditLog {
	return model.AuditLog{
		ActorUserID:  actorUserID,
		Action:       action,
		ResourceType: resType,
		ResourceID:   resID,
		BeforeJSON:   toJSON(before),
		AfterJSON:    toJSON(after),
		CreatedAt:    time.Now(),
	}
}

func toJSON(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

type AuditLogUsecase struct {
	logs repo.AuditLogRepository
}

func NewAuditLogUsecase(logs repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{logs: logs}
}

// 操作履歴の一覧。action/resource_typeは既知の値だけ受け付ける。
func (u *AuditLogUsecase) List(ctx context.Context, f repo.AuditLogFilter) (ListOutput[model.AuditLog], error) {
	if err := checkPaging(f.Page, f.Limit); err != nil {
		return ListOutput[model.AuditLog]{}, err
	}
	if f.Action != "" && !f.Action.Valid() {
		return ListOutput[model.AuditLog]{}, NewHTTPError(http.StatusBadRequest, "invalid action")
	}
	if f.ResourceType != "" && !f.ResourceType.Valid() {
		return ListOutput[model.AuditLog]{}, NewHTTPError(http.StatusBadRequest, "invalid resource_type")
	}
	if f.ResourceID < 0 {
		return ListOutput[model.AuditLog]{}, NewHTTPError(http.StatusBadRequest, "invalid resource_id")
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return ListOutput[model.AuditLog]{}, NewHTTPError(http.StatusBadRequest, "invalid range")
	}

	logs, total, err := u.logs.List(ctx, f)
	if err != nil {
		return ListOutput[model.AuditLog]{}, dbError()
	}
	return ListOutput[model.AuditLog]{Items: logs, Total: total, Page: f.Page, Limit: f.Limit}, nil
}
