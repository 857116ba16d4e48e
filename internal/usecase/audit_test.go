package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuditLogUsecase_List_Validation(t *testing.T) {
	later := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	earlier := later.Add(-24 * time.Hour)

	tests := []struct {
		name string
		f    repo.AuditLogFilter
		msg  string
	}{
		{"page", repo.AuditLogFilter{Page: 0, Limit: 10}, "invalid page"},
		{"limit", repo.AuditLogFilter{Page: 1, Limit: 101}, "invalid limit"},
		{"action", repo.AuditLogFilter{Page: 1, Limit: 10, Action: "DELETE_ALL"}, "invalid action"},
		{"resource type", repo.AuditLogFilter{Page: 1, Limit: 10, ResourceType: "user"}, "invalid resource_type"},
		{"resource id", repo.AuditLogFilter{Page: 1, Limit: 10, ResourceID: -1}, "invalid resource_id"},
		{"range", repo.AuditLogFilter{Page: 1, Limit: 10, From: &later, To: &earlier}, "invalid range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := new(AuditRepoMock)
			_, err := usecase.NewAuditLogUsecase(logs).List(context.Background(), tt.f)

			he, ok := usecase.AsHTTPError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, he.Status)
			assert.Equal(t, tt.msg, he.Message)
			logs.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
		})
	}
}

func TestAuditLogUsecase_List_Success(t *testing.T) {
	logs := new(AuditRepoMock)
	f := repo.AuditLogFilter{
		Page:         2,
		Limit:        10,
		Action:       model.AuditActionUpdateInvoiceStatus,
		ResourceType: model.AuditResourceInvoice,
		ResourceID:   7,
	}
	rows := []model.AuditLog{{ID: 31, Action: model.AuditActionUpdateInvoiceStatus, ResourceID: 7}}
	logs.On("List", mock.Anything, f).Return(rows, int64(11), nil)

	out, err := usecase.NewAuditLogUsecase(logs).List(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, rows, out.Items)
	assert.Equal(t, int64(11), out.Total)
	assert.Equal(t, 2, out.Page)
	assert.Equal(t, 10, out.Limit)
}

func TestAuditLogUsecase_List_DBError(t *testing.T) {
	logs := new(AuditRepoMock)
	logs.On("List", mock.Anything, mock.Anything).Return(nil, int64(0), errors.New("boom"))

	_, err := usecase.NewAuditLogUsecase(logs).List(context.Background(), repo.AuditLogFilter{Page: 1, Limit: 20})
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
}
