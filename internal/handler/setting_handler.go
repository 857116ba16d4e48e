package handler

import (
	"net/http"

	"storefront/internal/config"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// 配送料・サイト設定・メールテンプレート
type SettingHandler struct {
	fees      *usecase.DeliveryFeeUsecase
	settings  *usecase.SettingUsecase
	templates *usecase.EmailTemplateUsecase
}

func NewSettingHandler(fees *usecase.DeliveryFeeUsecase, settings *usecase.SettingUsecase, templates *usecase.EmailTemplateUsecase) *SettingHandler {
	return &SettingHandler{fees: fees, settings: settings, templates: templates}
}

type DeliveryFeeRequest struct {
	Name     string          `json:"name" validate:"required,max=255"`
	Amount   decimal.Decimal `json:"amount" validate:"gte=0"`
	IsActive bool            `json:"is_active"`
}

type SettingRequest struct {
	Value    string `json:"value"`
	IsPublic bool   `json:"is_public"`
}

type EmailTemplateRequest struct {
	Subject string `json:"subject" validate:"required,max=255"`
	Body    string `json:"body" validate:"required"`
}

func (h *SettingHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	e.GET("/delivery-fee", h.activeFee)
	e.GET("/settings", h.publicSettings)

	admin := adminGroup(e, cfg, userRepo)

	admin.GET("/delivery-fees", h.listFees)
	admin.GET("/delivery-fees/:id", h.getFee)
	admin.POST("/delivery-fees", h.createFee)
	admin.PUT("/delivery-fees/:id", h.updateFee)
	admin.DELETE("/delivery-fees/:id", h.deleteFee)

	admin.GET("/settings", h.listSettings)
	admin.PUT("/settings/:key", h.upsertSetting)

	admin.GET("/email-templates", h.listTemplates)
	admin.GET("/email-templates/:key", h.getTemplate)
	admin.PUT("/email-templates/:key", h.upsertTemplate)
	admin.POST("/email-templates/:key/preview", h.previewTemplate)
}

func (h *SettingHandler) activeFee(c echo.Context) error {
	fee, err := h.fees.Active(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, fee)
}

func (h *SettingHandler) publicSettings(c echo.Context) error {
	out, err := h.settings.Public(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SettingHandler) listFees(c echo.Context) error {
	fees, err := h.fees.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, fees)
}

func (h *SettingHandler) getFee(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	fee, err := h.fees.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, fee)
}

func (h *SettingHandler) createFee(c echo.Context) error {
	var req DeliveryFeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	fee, err := h.fees.Create(c.Request().Context(), usecase.DeliveryFeeInput{
		Name:     req.Name,
		Amount:   req.Amount,
		IsActive: req.IsActive,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, fee)
}

func (h *SettingHandler) updateFee(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req DeliveryFeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	fee, err := h.fees.Update(c.Request().Context(), id, usecase.DeliveryFeeInput{
		Name:     req.Name,
		Amount:   req.Amount,
		IsActive: req.IsActive,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, fee)
}

func (h *SettingHandler) deleteFee(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.fees.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *SettingHandler) listSettings(c echo.Context) error {
	ss, err := h.settings.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ss)
}

func (h *SettingHandler) upsertSetting(c echo.Context) error {
	var req SettingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	s, err := h.settings.Upsert(c.Request().Context(), c.Param("key"), usecase.SettingInput{
		Value:    req.Value,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SettingHandler) listTemplates(c echo.Context) error {
	ts, err := h.templates.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ts)
}

func (h *SettingHandler) getTemplate(c echo.Context) error {
	t, err := h.templates.Get(c.Request().Context(), c.Param("key"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *SettingHandler) upsertTemplate(c echo.Context) error {
	var req EmailTemplateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	t, err := h.templates.Upsert(c.Request().Context(), c.Param("key"), usecase.EmailTemplateInput{
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// 保存せずにサンプルデータで描画だけする
func (h *SettingHandler) previewTemplate(c echo.Context) error {
	var req EmailTemplateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.templates.Preview(c.Request().Context(), c.Param("key"), usecase.EmailTemplateInput{
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
