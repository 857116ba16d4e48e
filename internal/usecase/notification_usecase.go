package usecase

import (
	"context"
	"net/http"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

const notificationListLimit = 50

type NotificationUsecase struct {
	notifications repo.NotificationRepository
}

func NewNotificationUsecase(notifications repo.NotificationRepository) *NotificationUsecase {
	return &NotificationUsecase{notifications: notifications}
}

// 新しい順に最大50件
func (u *NotificationUsecase) ListMine(ctx context.Context, userID int64) ([]model.Notification, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	ns, err := u.notifications.ListByUserID(ctx, userID, notificationListLimit)
	if err != nil {
		return nil, dbError()
	}
	return ns, nil
}

// 他人の通知は404
func (u *NotificationUsecase) MarkRead(ctx context.Context, userID int64, id int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := u.notifications.MarkRead(ctx, id, userID); err != nil {
		return findError(err)
	}
	return nil
}
