package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type NotificationRepoMock struct{ mock.Mock }

func (m *NotificationRepoMock) Create(ctx context.Context, n model.Notification) error {
	panic("not used in usecase tests")
}

func (m *NotificationRepoMock) ListByUserID(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
	args := m.Called(ctx, userID, limit)
	ns, _ := args.Get(0).([]model.Notification)
	return ns, args.Error(1)
}

func (m *NotificationRepoMock) MarkRead(ctx context.Context, id int64, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func TestNotificationUsecase_ListMine(t *testing.T) {
	ns := new(NotificationRepoMock)
	rows := []model.Notification{{ID: 2}, {ID: 1}}
	ns.On("ListByUserID", mock.Anything, int64(5), 50).Return(rows, nil)

	got, err := usecase.NewNotificationUsecase(ns).ListMine(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	_, err = usecase.NewNotificationUsecase(ns).ListMine(context.Background(), 0)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestNotificationUsecase_MarkRead(t *testing.T) {
	ns := new(NotificationRepoMock)
	ns.On("MarkRead", mock.Anything, int64(9), int64(5)).Return(nil)
	ns.On("MarkRead", mock.Anything, int64(10), int64(5)).Return(repo.ErrNotFound)
	uc := usecase.NewNotificationUsecase(ns)

	require.NoError(t, uc.MarkRead(context.Background(), 5, 9))
	assert.Equal(t, http.StatusNotFound, statusOf(t, uc.MarkRead(context.Background(), 5, 10)))
	assert.Equal(t, http.StatusBadRequest, statusOf(t, uc.MarkRead(context.Background(), 5, 0)))
}
