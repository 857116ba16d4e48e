package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

type CustomerListFilter struct {
	Page  int
	Limit int
	//email / name の部分一致
	Q     string
}

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（email重複は ErrConflict）
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// ユーザー情報の更新=>アクティブかどうか・最後のログイン更新など
	Update(ctx context.Context, user *model.User) error
	//トークンのバージョンを＋１
	IncrementTokenVersion(ctx context.Context, userID int64) error
	//role=USER の一覧
	ListCustomers(ctx context.Context, f CustomerListFilter) ([]model.User, int64, error)
}
