package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type CustomerUsecase struct {
	users  repo.UserRepository
	orders repo.OrderRepository
}

func NewCustomerUsecase(users repo.UserRepository, orders repo.OrderRepository) *CustomerUsecase {
	return &CustomerUsecase{users: users, orders: orders}
}

type CustomerOutput struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	IsActive    bool       `json:"is_active"`
	OrdersCount int64      `json:"orders_count"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type ForceLogoutResponse struct {
	UserID          int64 `json:"user_id"`
	NewTokenVersion int   `json:"new_token_version"`
}

// 顧客一覧（注文数つき）
func (u *CustomerUsecase) List(ctx context.Context, f repo.CustomerListFilter) (ListOutput[CustomerOutput], error) {
	if err := checkPaging(f.Page, f.Limit); err != nil {
		return ListOutput[CustomerOutput]{}, err
	}
	f.Q = strings.TrimSpace(f.Q)

	users, total, err := u.users.ListCustomers(ctx, f)
	if err != nil {
		return ListOutput[CustomerOutput]{}, dbError()
	}

	ids := make([]int64, 0, len(users))
	for _, usr := range users {
		ids = append(ids, usr.ID)
	}
	counts, err := u.orders.CountByUserIDs(ctx, ids)
	if err != nil {
		return ListOutput[CustomerOutput]{}, dbError()
	}

	items := make([]CustomerOutput, 0, len(users))
	for _, usr := range users {
		items = append(items, CustomerOutput{
			ID:          usr.ID,
			Email:       usr.Email,
			Name:        usr.Name,
			IsActive:    usr.IsActive,
			OrdersCount: counts[usr.ID],
			LastLoginAt: usr.LastLoginAt,
			CreatedAt:   usr.CreatedAt,
		})
	}

	return ListOutput[CustomerOutput]{Items: items, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// 有効/無効の切り替え。管理者は対象外。
func (u *CustomerUsecase) SetActive(ctx context.Context, userID int64, active bool) (UserDTO, error) {
	if userID <= 0 {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return UserDTO{}, findError(err)
	}
	if user.Role != model.RoleUser {
		return UserDTO{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if user.IsActive == active {
		return toUserDTO(user), nil
	}
	user.IsActive = active
	if err := u.users.Update(ctx, user); err != nil {
		return UserDTO{}, dbError()
	}
	return toUserDTO(user), nil
}

// token_versionを上げて、発行済みトークンを無効にする
func (u *CustomerUsecase) ForceLogout(ctx context.Context, targetUserID int64) (ForceLogoutResponse, error) {
	if targetUserID <= 0 {
		return ForceLogoutResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := u.users.IncrementTokenVersion(ctx, targetUserID); err != nil {
		return ForceLogoutResponse{}, findError(err)
	}

	//更新後を取得してnew_token_versionを返す
	user, err := u.users.FindByID(ctx, targetUserID)
	if err != nil {
		return ForceLogoutResponse{}, findError(err)
	}

	return ForceLogoutResponse{
		UserID:          user.ID,
		NewTokenVersion: user.TokenVersion,
	}, nil
}
