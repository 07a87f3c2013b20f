package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dmarkin/tenant_portal/internal/handlers"
	authmw "github.com/dmarkin/tenant_portal/internal/middleware/auth"
	"github.com/dmarkin/tenant_portal/internal/models"
	"github.com/dmarkin/tenant_portal/internal/repo"
	"github.com/dmarkin/tenant_portal/internal/service"
	"github.com/dmarkin/tenant_portal/internal/tokens"
)

type testEnv struct {
	T *testing.T
	E *echo.Echo
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Tenant{}, &models.RefreshToken{}))

	store := &repo.GormRepo{DB: db}
	issuer := &tokens.Issuer{
		Secret:     []byte("test_secret"),
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}

	userSvc := &service.UserService{Repo: store, Index: "users"}
	authSvc := &service.AuthService{Repo: store, Issuer: issuer}
	tenantSvc := &service.TenantService{Repo: store, Users: userSvc}

	e := echo.New()
	Register(e, &Deps{
		Gate: &authmw.Gate{Issuer: issuer},
		AuthHandler: &handlers.AuthHandler{
			Svc:        authSvc,
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		TenantHandler: &handlers.TenantHandler{Svc: tenantSvc},
		UserHandler:   &handlers.UserHandler{Svc: userSvc},
	})

	return &testEnv{T: t, E: e}
}

func (env *testEnv) do(method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(env.T, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) registerAndLogin(email, tenantID, role string) service.TokenPair {
	rec := env.do(http.MethodPost, "/auth/register", "", map[string]string{
		"email":    email,
		"password": "password",
		"tenantId": tenantID,
		"role":     role,
	})
	require.Equal(env.T, http.StatusCreated, rec.Code)

	rec = env.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": "password",
	})
	require.Equal(env.T, http.StatusOK, rec.Code)

	var pair service.TokenPair
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &pair))
	return pair
}

func TestEndToEndAuthFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "a@x.com",
		"password": "pw",
		"tenantId": "T1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "pw",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var pair service.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	rec = env.do(http.MethodPost, "/auth/refresh-token", "", map[string]string{"token": pair.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)

	var rotated service.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rotated))
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	rec = env.do(http.MethodPost, "/auth/refresh-token", "", map[string]string{"token": pair.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTenantRoutesRequireSuperadmin(t *testing.T) {
	env := newTestEnv(t)

	user := env.registerAndLogin("user@x.com", "T1", "")
	rec := env.do(http.MethodPost, "/tenants", user.AccessToken, map[string]string{"name": "Nope"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	boss := env.registerAndLogin("boss@x.com", "root", models.RoleSuperadmin)
	rec = env.do(http.MethodPost, "/tenants", boss.AccessToken, map[string]string{"name": "Tenant XYZ"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var tenant models.Tenant
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tenant))
	require.NotEmpty(t, tenant.ID)

	rec = env.do(http.MethodGet, "/tenants", boss.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPost, "/tenants", "", map[string]string{"name": "NoToken"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDefineAdminFlow(t *testing.T) {
	env := newTestEnv(t)

	boss := env.registerAndLogin("boss@x.com", "root", models.RoleSuperadmin)

	rec := env.do(http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "member@x.com",
		"password": "password",
		"tenantId": "T1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var member models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &member))

	rec = env.do(http.MethodPost, "/tenants/T1/access", boss.AccessToken, map[string]string{"userId": member.ID})
	require.Equal(t, http.StatusOK, rec.Code)

	var promoted models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &promoted))
	require.Equal(t, models.RoleAdmin, promoted.Role)
	require.Equal(t, "T1", promoted.TenantID)

	rec = env.do(http.MethodPost, "/tenants/T1/access", boss.AccessToken, map[string]string{"userId": "missing"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserRoutesTenantScoping(t *testing.T) {
	env := newTestEnv(t)

	admin := env.registerAndLogin("admin@x.com", "A", models.RoleAdmin)
	env.registerAndLogin("other@x.com", "B", "")

	// Admin seeds users into their own tenant only.
	rec := env.do(http.MethodPost, "/users", admin.AccessToken, map[string]string{
		"email":    "seeded@x.com",
		"password": "password",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var seeded models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &seeded))
	require.Equal(t, "A", seeded.TenantID)
	require.Equal(t, models.RoleUser, seeded.Role)

	rec = env.do(http.MethodGet, "/users", admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 2)
	for _, u := range listed {
		require.Equal(t, "A", u.TenantID)
	}

	boss := env.registerAndLogin("boss@x.com", "root", models.RoleSuperadmin)
	rec = env.do(http.MethodGet, "/users", boss.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 4)

	// Plain users cannot reach the listing at all.
	member := env.registerAndLogin("member@x.com", "A", "")
	rec = env.do(http.MethodGet, "/users", member.AccessToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProfileRoutes(t *testing.T) {
	env := newTestEnv(t)

	user := env.registerAndLogin("a@x.com", "T1", "")

	rec := env.do(http.MethodGet, "/profile", user.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	require.Equal(t, "a@x.com", me.Email)

	rec = env.do(http.MethodPut, "/profile", user.AccessToken, map[string]string{"email": "renamed@x.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	require.Equal(t, "renamed@x.com", me.Email)

	rec = env.do(http.MethodGet, "/profile", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
