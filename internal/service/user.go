package service

import (
	"context"
	"errors"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/dmarkin/tenant_portal/internal/hash"
	"github.com/dmarkin/tenant_portal/internal/logging"
	"github.com/dmarkin/tenant_portal/internal/models"
	"github.com/dmarkin/tenant_portal/internal/repo"
	"github.com/dmarkin/tenant_portal/internal/service/search"
	"github.com/dmarkin/tenant_portal/internal/tokens"
	"github.com/dmarkin/tenant_portal/internal/util"
)

var ErrWrongTenant = errors.New("not authorized for this tenant")

type ProfilePatch struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

type UserService struct {
	Repo  *repo.GormRepo
	ES    *elasticsearch.Client
	Index string
}

// CreateUser seeds a tenant member with the fixed user role; the tenant
// comes from the calling admin's claims, never from the request body.
func (s *UserService) CreateUser(ctx context.Context, email, password, tenantID string) (*models.User, error) {
	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: pwHash,
		TenantID:     tenantID,
		Role:         models.RoleUser,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		return nil, err
	}

	s.indexUser(ctx, &user)
	return &user, nil
}

func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.Repo.FindUserByID(ctx, id)
}

// UpdateProfile applies optional email/password changes to the caller's
// own row. A tenant mismatch is rejected unless the caller is superadmin.
func (s *UserService) UpdateProfile(ctx context.Context, claims *tokens.Claims, patch ProfilePatch) (*models.User, error) {
	user, err := s.Repo.FindUserByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	if user.TenantID != claims.TenantID() && claims.Role != models.RoleSuperadmin {
		return nil, ErrWrongTenant
	}

	if patch.Email != "" {
		// Normalized the same way CreateUser stores and login looks up.
		user.Email = strings.ToLower(patch.Email)
	}
	if patch.Password != "" {
		pwHash, err := hash.HashPassword(patch.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = pwHash
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	s.indexUser(ctx, user)
	return user, nil
}

// ListUsers scopes by the caller's role: superadmin sees every tenant,
// admin only their own. A search term goes through Elasticsearch when a
// client is wired, otherwise through a plain database filter.
func (s *UserService) ListUsers(ctx context.Context, claims *tokens.Claims, term string, page, size int) ([]models.User, error) {
	tenantID := claims.TenantID()
	if claims.Role == models.RoleSuperadmin {
		tenantID = ""
	}

	if term == "" {
		if tenantID == "" {
			return s.Repo.FindAllUsers(ctx)
		}
		return s.Repo.FindUsersByTenant(ctx, tenantID)
	}

	from, limit := util.Calculate(page, size)
	if s.ES != nil {
		_, users, err := search.Users(ctx, s.ES, s.Index, term, tenantID, from, limit)
		return users, err
	}
	return s.Repo.FilterUsers(ctx, tenantID, term, from, limit)
}

func (s *UserService) indexUser(ctx context.Context, u *models.User) {
	if s.ES == nil {
		return
	}
	if err := search.IndexUser(ctx, s.ES, s.Index, u); err != nil {
		logging.FromContext(ctx).Error("user_index_failed", "user_id", u.ID, "error", err)
	}
}
