package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"storefront/internal/domain/policy"
	repo "storefront/internal/repository"
)

// usecaseが返すエラー。handlerでそのままステータスに変換する。
type HTTPError struct {
	Status  int
	Message string
	//422のときだけ入る（field -> message）
	Fields map[string]string
}

func (e *HTTPError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%d: %s %v", e.Status, e.Message, e.Fields)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func NewValidationError(fields map[string]string) error {
	return &HTTPError{
		Status:  http.StatusUnprocessableEntity,
		Message: "validation error",
		Fields:  fields,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// policyの拒否は422、それ以外は500
func fromPolicyError(err error) error {
	if ve, ok := policy.AsValidationError(err); ok {
		return NewValidationError(ve.Fields)
	}
	return NewHTTPError(http.StatusInternalServerError, "internal error")
}

// repoのエラーを404/500に寄せる
func findError(err error) error {
	if errors.Is(err, repo.ErrNotFound) || errors.Is(err, repo.ErrUserNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	return NewHTTPError(http.StatusInternalServerError, "db error")
}

func dbError() error {
	return NewHTTPError(http.StatusInternalServerError, "db error")
}

// page/limitの最低限チェック
func checkPaging(page int, limit int) error {
	if page < 1 {
		return NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	return nil
}

// 一覧レスポンス共通
type ListOutput[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}
