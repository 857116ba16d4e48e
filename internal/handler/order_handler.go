package handler

import (
	"net/http"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc       *usecase.OrderUsecase
	invoices *usecase.InvoiceUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase, invoices *usecase.InvoiceUsecase) *OrderHandler {
	return &OrderHandler{uc: uc, invoices: invoices}
}

type ShippingRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Line1      string `json:"line1" validate:"required,max=255"`
	Line2      string `json:"line2" validate:"max=255"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	City       string `json:"city" validate:"required,max=255"`
	Country    string `json:"country" validate:"required,max=100"`
}

// ログイン中なら name/email は省略できる
type CheckoutRequest struct {
	CustomerName  string          `json:"customer_name" validate:"max=255"`
	CustomerEmail string          `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone string          `json:"customer_phone" validate:"max=50"`
	Shipping      ShippingRequest `json:"shipping"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	mws := []echo.MiddlewareFunc{
		middleware.OptionalAuthJWT(cfg),
		middleware.OptionalTokenVersionGuard(userRepo),
		middleware.GuestSession(cfg.IsProd()),
	}

	e.POST("/checkout", h.checkout, mws...)

	g := e.Group("/orders", mws...)
	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.GET("/:id/invoice", h.invoice)
}

func (h *OrderHandler) checkout(c echo.Context) error {
	owner, ok := ownerFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CheckoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	//二重送信防止キーはヘッダーから受け取る（bodyには入れない）
	idemKey := c.Request().Header.Get("X-Idempotency-Key")

	out, err := h.uc.Checkout(c.Request().Context(), owner, usecase.CheckoutInput{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Shipping: model.ShippingAddress{
			Name:       req.Shipping.Name,
			Line1:      req.Shipping.Line1,
			Line2:      req.Shipping.Line2,
			PostalCode: req.Shipping.PostalCode,
			City:       req.Shipping.City,
			Country:    req.Shipping.Country,
		},
		IdempotencyKey: idemKey,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	owner, ok := ownerFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	page, limit, err := parsePaging(c, 20)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ListMine(c.Request().Context(), owner, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Detail(c.Request().Context(), actorFromContext(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) invoice(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	inv, err := h.invoices.GetForOrder(c.Request().Context(), actorFromContext(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}
