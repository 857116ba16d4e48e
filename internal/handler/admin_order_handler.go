package handler

import (
	"net/http"
	"strconv"
	"time"

	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminOrderHandler struct {
	uc *usecase.AdminOrderUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// /admin 配下は全部「JWT必須 + token_version一致 + ADMIN限定」
func adminGroup(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) *echo.Group {
	return e.Group(
		"/admin",
		middleware.AuthJWT(cfg),
		middleware.TokenVersionGuard(userRepo),
		middleware.AdminRoleGuard(),
	)
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := adminGroup(e, cfg, userRepo)

	admin.GET("/orders", h.list)
	admin.GET("/orders/export", h.export)
	admin.GET("/orders/:id", h.detail)
	admin.PUT("/orders/:id/status", h.updateStatus)
	admin.GET("/order-statuses", h.statuses)
}

func parseOrderFilter(c echo.Context) (repository.AdminOrderListFilter, error) {
	page, limit, err := parsePaging(c, 50)
	if err != nil {
		return repository.AdminOrderListFilter{}, err
	}

	var userID *int64
	if v := c.QueryParam("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return repository.AdminOrderListFilter{}, usecase.NewHTTPError(http.StatusBadRequest, "invalid user_id")
		}
		userID = &id
	}

	from, ok := usecase.ParseDateParam(c.QueryParam("from"), false)
	if !ok {
		return repository.AdminOrderListFilter{}, usecase.NewHTTPError(http.StatusBadRequest, "invalid from")
	}
	to, ok := usecase.ParseDateParam(c.QueryParam("to"), true)
	if !ok {
		return repository.AdminOrderListFilter{}, usecase.NewHTTPError(http.StatusBadRequest, "invalid to")
	}

	return repository.AdminOrderListFilter{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
		Q:      c.QueryParam("q"),
		UserID: userID,
		From:   from,
		To:     to,
	}, nil
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	f, err := parseOrderFilter(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) detail(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Detail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 一覧と同じ絞り込みでCSV（ページングは無視）
func (h *AdminOrderHandler) export(c echo.Context) error {
	f, err := parseOrderFilter(c)
	if err != nil {
		return writeError(c, err)
	}

	orders, err := h.uc.Export(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}

	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			strconv.FormatInt(o.ID, 10),
			o.Reference,
			o.CreatedAt.Format(time.RFC3339),
			string(o.Status),
			o.CustomerName,
			o.CustomerEmail,
			o.Subtotal.StringFixed(2),
			o.DeliveryFee.StringFixed(2),
			o.Total.StringFixed(2),
		})
	}

	return writeCSV(c, "orders.csv", []string{
		"id", "reference", "created_at", "status", "customer_name", "customer_email", "subtotal", "delivery_fee", "total",
	}, rows)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req OrderStatusUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	//操作した管理者IDを取得（監査ログ用）
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.UpdateStatus(
		c.Request().Context(),
		adminID,
		orderID,
		usecase.AdminUpdateOrderStatusInput{Status: req.Status},
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) statuses(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Statuses())
}
