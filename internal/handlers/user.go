package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dmarkin/tenant_portal/internal/logging"
	authmw "github.com/dmarkin/tenant_portal/internal/middleware/auth"
	"github.com/dmarkin/tenant_portal/internal/repo"
	"github.com/dmarkin/tenant_portal/internal/service"
)

type UserHandler struct {
	Svc *service.UserService
}

func (h *UserHandler) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()
	claims := authmw.ClaimsFrom(c)

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	user, err := h.Svc.CreateUser(ctx, req.Email, req.Password, claims.TenantID())
	if err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, "email already in use")
		}
		logging.FromContext(ctx).Error("user_create_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	claims := authmw.ClaimsFrom(c)

	term := c.QueryParam("search")
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))

	users, err := h.Svc.ListUsers(ctx, claims, term, page, size)
	if err != nil {
		logging.FromContext(ctx).Error("user_list_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	claims := authmw.ClaimsFrom(c)

	user, err := h.Svc.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	claims := authmw.ClaimsFrom(c)

	var patch service.ProfilePatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.UpdateProfile(ctx, claims, patch)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrWrongTenant):
			return echo.NewHTTPError(http.StatusForbidden, "not authorized to update this profile")
		}
		logging.FromContext(ctx).Error("profile_update_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, user)
}
