package policy

import "storefront/internal/domain/model"

type Action string

const (
	ActionView   Action = "view"
	ActionManage Action = "manage"
)

// 操作する人。未ログインのゲストは SessionID だけ持つ。
type Actor struct {
	UserID    int64
	Role      model.Role
	SessionID string
}

// 権限判定の対象（注文・請求書など持ち主がいるもの）
type Resource struct {
	Owner model.Owner
}

// 副作用なし。ハンドラ/usecase の入口で呼ぶ。
func Can(actor Actor, action Action, res Resource) bool {
	if actor.Role == model.RoleAdmin && actor.UserID > 0 {
		return true
	}
	if action != ActionView {
		return false
	}

	if actor.UserID > 0 {
		return res.Owner.IsUser() && *res.Owner.UserID == actor.UserID
	}
	if actor.SessionID != "" {
		return res.Owner.Matches(model.SessionOwner(actor.SessionID))
	}
	return false
}
