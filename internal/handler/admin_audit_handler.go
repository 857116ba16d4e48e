package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminAuditHandler struct {
	uc *usecase.AuditLogUsecase
}

func NewAdminAuditHandler(uc *usecase.AuditLogUsecase) *AdminAuditHandler {
	return &AdminAuditHandler{uc: uc}
}

func (h *AdminAuditHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := adminGroup(e, cfg, userRepo)
	admin.GET("/audit-logs", h.list)
}

// GET /admin/audit-logs?action=&resource_type=&resource_id=&from=&to=&page=&limit=
func (h *AdminAuditHandler) list(c echo.Context) error {
	page, limit, err := parsePaging(c, 50)
	if err != nil {
		return writeError(c, err)
	}

	f := repository.AuditLogFilter{
		Page:         page,
		Limit:        limit,
		Action:       model.AuditAction(c.QueryParam("action")),
		ResourceType: model.AuditResourceType(c.QueryParam("resource_type")),
	}
	if v := c.QueryParam("resource_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return writeError(c, usecase.NewHTTPError(http.StatusBadRequest, "invalid resource_id"))
		}
		f.ResourceID = id
	}
	var ok bool
	if f.From, ok = usecase.ParseDateParam(c.QueryParam("from"), false); !ok {
		return writeError(c, usecase.NewHTTPError(http.StatusBadRequest, "invalid from"))
	}
	if f.To, ok = usecase.ParseDateParam(c.QueryParam("to"), true); !ok {
		return writeError(c, usecase.NewHTTPError(http.StatusBadRequest, "invalid to"))
	}

	out, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
