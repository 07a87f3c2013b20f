package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmarkin/tenant_portal/internal/logging"
	"github.com/dmarkin/tenant_portal/internal/repo"
	"github.com/dmarkin/tenant_portal/internal/service"
)

type TenantHandler struct {
	Svc *service.TenantService
}

func (h *TenantHandler) CreateTenant(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	tenant, err := h.Svc.CreateTenant(ctx, req.Name)
	if err != nil {
		logging.FromContext(ctx).Error("tenant_create_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusCreated, tenant)
}

func (h *TenantHandler) ListTenants(c echo.Context) error {
	tenants, err := h.Svc.FindAllTenants(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, tenants)
}

func (h *TenantHandler) DefineAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := c.Param("id")

	var req struct {
		UserID string `json:"userId"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.DefineAdmin(ctx, tenantID, req.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		logging.FromContext(ctx).Error("define_admin_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, user)
}
