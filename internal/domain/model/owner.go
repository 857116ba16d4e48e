package model

import "errors"

var ErrInvalidOwner = errors.New("exactly one of user_id or session_id must be set")

// カート・注文の持ち主。
// 会員（UserID）かゲスト（SessionID）のどちらか一方だけ。
type Owner struct {
	UserID    *int64  `gorm:"index" json:"user_id"`
	SessionID *string `gorm:"type:varchar(64);index" json:"session_id,omitempty"`
}

func UserOwner(userID int64) Owner {
	return Owner{UserID: &userID}
}

func SessionOwner(sessionID string) Owner {
	return Owner{SessionID: &sessionID}
}

func (o Owner) Validate() error {
	hasUser := o.UserID != nil && *o.UserID > 0
	hasSession := o.SessionID != nil && *o.SessionID != ""
	if hasUser == hasSession {
		return ErrInvalidOwner
	}
	return nil
}

func (o Owner) IsUser() bool {
	return o.UserID != nil && *o.UserID > 0
}

func (o Owner) Matches(other Owner) bool {
	if o.IsUser() && other.IsUser() {
		return *o.UserID == *other.UserID
	}
	if o.SessionID != nil && other.SessionID != nil {
		return *o.SessionID != "" && *o.SessionID == *other.SessionID
	}
	return false
}
