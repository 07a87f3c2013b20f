package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmarkin/tenant_portal/internal/handlers"
	authmw "github.com/dmarkin/tenant_portal/internal/middleware/auth"
	"github.com/dmarkin/tenant_portal/internal/models"
)

type Deps struct {
	Gate          *authmw.Gate
	AuthHandler   *handlers.AuthHandler
	TenantHandler *handlers.TenantHandler
	UserHandler   *handlers.UserHandler
}

// Register wires the route table. Gates compose in a fixed order on every
// protected group: authenticate, then role allow-list, then tenant match.
func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/auth")
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh-token", d.AuthHandler.Refresh)
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/logout", d.AuthHandler.Logout)

	tenants := e.Group("/tenants", d.Gate.RequireAuth, authmw.RequireRoles(models.RoleSuperadmin))
	tenants.POST("", d.TenantHandler.CreateTenant)
	tenants.GET("", d.TenantHandler.ListTenants)
	tenants.POST("/:id/access", d.TenantHandler.DefineAdmin, authmw.RequireTenantParam("id"))

	users := e.Group("/users", d.Gate.RequireAuth, authmw.RequireRoles(models.RoleAdmin, models.RoleSuperadmin))
	users.POST("", d.UserHandler.CreateUser)
	users.GET("", d.UserHandler.ListUsers)

	profile := e.Group("/profile", d.Gate.RequireAuth)
	profile.GET("", d.UserHandler.GetProfile)
	profile.PUT("", d.UserHandler.UpdateProfile)
}
