package handler

import (
	"net/http"
	"strconv"
	"time"

	"storefront/internal/config"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminInvoiceHandler struct {
	uc *usecase.InvoiceUsecase
}

func NewAdminInvoiceHandler(uc *usecase.InvoiceUsecase) *AdminInvoiceHandler {
	return &AdminInvoiceHandler{uc: uc}
}

// 値の妥当性はusecase側（ルール違反は422）
type InvoiceStatusUpdateRequest struct {
	Status        string `json:"status" validate:"required"`
	PaymentStatus string `json:"payment_status" validate:"required"`
}

type InvoicePaymentUpdateRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required"`
}

func (h *AdminInvoiceHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := adminGroup(e, cfg, userRepo)

	admin.POST("/orders/:id/invoice", h.create)
	admin.GET("/invoices", h.list)
	admin.GET("/invoices/export", h.export)
	admin.GET("/invoices/:id", h.detail)
	admin.PUT("/invoices/:id/status", h.updateStatus)
	admin.PUT("/invoices/:id/payment-status", h.updatePaymentStatus)
}

func parseInvoiceFilter(c echo.Context) (repository.InvoiceListFilter, error) {
	page, limit, err := parsePaging(c, 50)
	if err != nil {
		return repository.InvoiceListFilter{}, err
	}
	return repository.InvoiceListFilter{
		Page:          page,
		Limit:         limit,
		Status:        c.QueryParam("status"),
		PaymentStatus: c.QueryParam("payment_status"),
	}, nil
}

func (h *AdminInvoiceHandler) create(c echo.Context) error {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	inv, err := h.uc.Create(c.Request().Context(), adminID, orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, inv)
}

func (h *AdminInvoiceHandler) list(c echo.Context) error {
	f, err := parseInvoiceFilter(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminInvoiceHandler) export(c echo.Context) error {
	f, err := parseInvoiceFilter(c)
	if err != nil {
		return writeError(c, err)
	}

	invoices, err := h.uc.Export(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}

	rows := make([][]string, 0, len(invoices))
	for _, inv := range invoices {
		paidAt := ""
		if inv.PaidAt != nil {
			paidAt = inv.PaidAt.Format(time.RFC3339)
		}
		rows = append(rows, []string{
			inv.Number,
			strconv.FormatInt(inv.OrderID, 10),
			inv.ClientName,
			inv.ClientEmail,
			string(inv.Status),
			string(inv.PaymentStatus),
			inv.TotalHT.StringFixed(2),
			inv.TotalTVA.StringFixed(2),
			inv.TotalTTC.StringFixed(2),
			inv.IssuedAt.Format("2006-01-02"),
			inv.DueAt.Format("2006-01-02"),
			paidAt,
		})
	}

	return writeCSV(c, "invoices.csv", []string{
		"number", "order_id", "client_name", "client_email", "status", "payment_status",
		"total_ht", "total_tva", "total_ttc", "issued_at", "due_at", "paid_at",
	}, rows)
}

func (h *AdminInvoiceHandler) detail(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	inv, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *AdminInvoiceHandler) updateStatus(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req InvoiceStatusUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	inv, err := h.uc.UpdateStatus(c.Request().Context(), adminID, id, usecase.UpdateInvoiceStatusInput{
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *AdminInvoiceHandler) updatePaymentStatus(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req InvoicePaymentUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	inv, err := h.uc.UpdatePaymentStatus(c.Request().Context(), adminID, id, req.PaymentStatus)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}
