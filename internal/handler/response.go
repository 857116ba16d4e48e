package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/domain/model"
	"storefront/internal/domain/policy"
	"storefront/internal/middleware"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
	//422のときだけ入る
	Fields map[string]string `json:"fields,omitempty"`
}

// { message: string }
type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message, Fields: he.Fields})
	}
	if fe, ok := validator.AsFieldsError(err); ok {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation error", Fields: fe.Fields})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// bind と validate をまとめる
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// middleware.AuthJWT が c.Set("user_id", int64) した値を取り出す
func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	if v == nil {
		return 0, false
	}

	id, ok := v.(int64)
	if !ok {
		return 0, false
	}

	return id, true
}

func getSessionIDFromContext(c echo.Context) string {
	sid, _ := c.Get(middleware.CtxSessionIDKey).(string)
	return sid
}

// ログイン中ならユーザー、そうでなければゲストセッション
func ownerFromContext(c echo.Context) (model.Owner, bool) {
	if id, ok := getUserIDFromContext(c); ok {
		return model.UserOwner(id), true
	}
	if sid := getSessionIDFromContext(c); sid != "" {
		return model.SessionOwner(sid), true
	}
	return model.Owner{}, false
}

func actorFromContext(c echo.Context) policy.Actor {
	a := policy.Actor{SessionID: getSessionIDFromContext(c)}
	if id, ok := getUserIDFromContext(c); ok {
		a.UserID = id
		role, _ := c.Get(middleware.CtxUserRoleKey).(string)
		a.Role = model.Role(role)
	}
	return a
}

func parseIDParam(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// page/limit（未指定ならデフォルト）
func parsePaging(c echo.Context, defLimit int) (int, int, error) {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, usecase.NewHTTPError(http.StatusBadRequest, "invalid page")
		}
		page = p
	}

	limit := defLimit
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, usecase.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = l
	}
	return page, limit, nil
}
