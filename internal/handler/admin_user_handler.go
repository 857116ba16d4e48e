package handler

import (
	"net/http"
	"strings"

	"storefront/internal/config"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminUserHandler struct {
	cfg      config.Config
	userRepo repository.UserRepository
	uc       *usecase.CustomerUsecase
}

func NewAdminUserHandler(cfg config.Config, userRepo repository.UserRepository, uc *usecase.CustomerUsecase) *AdminUserHandler {
	return &AdminUserHandler{cfg: cfg, userRepo: userRepo, uc: uc}
}

func (h *AdminUserHandler) RegisterRoutes(e *echo.Echo) {
	admin := adminGroup(e, h.cfg, h.userRepo)

	admin.GET("/customers", h.List)
	admin.POST("/customers/:id/activate", h.Activate)
	admin.POST("/customers/:id/deactivate", h.Deactivate)
	admin.POST("/users/:id/force-logout", h.ForceLogout)
}

func (h *AdminUserHandler) List(c echo.Context) error {
	page, limit, err := parsePaging(c, 50)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.List(c.Request().Context(), repository.CustomerListFilter{
		Page:  page,
		Limit: limit,
		Q:     strings.TrimSpace(c.QueryParam("q")),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) Activate(c echo.Context) error {
	return h.setActive(c, true)
}

func (h *AdminUserHandler) Deactivate(c echo.Context) error {
	return h.setActive(c, false)
}

func (h *AdminUserHandler) setActive(c echo.Context, active bool) error {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
	}

	out, err := h.uc.SetActive(c.Request().Context(), userID, active)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) ForceLogout(c echo.Context) error {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
	}

	res, err := h.uc.ForceLogout(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, res)
}
