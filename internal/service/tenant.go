package service

import (
	"context"

	"github.com/dmarkin/tenant_portal/internal/logging"
	"github.com/dmarkin/tenant_portal/internal/models"
	"github.com/dmarkin/tenant_portal/internal/mykafka"
	"github.com/dmarkin/tenant_portal/internal/repo"
)

type TenantService struct {
	Repo     *repo.GormRepo
	Users    *UserService
	Producer *mykafka.Producer
}

func (s *TenantService) CreateTenant(ctx context.Context, name string) (*models.Tenant, error) {
	tenant := models.Tenant{Name: name}
	if err := s.Repo.CreateTenant(ctx, &tenant); err != nil {
		return nil, err
	}

	s.publish(ctx, "tenant_events", tenant.ID, map[string]interface{}{
		"type":      "tenant_created",
		"tenant_id": tenant.ID,
		"name":      tenant.Name,
	})

	logging.FromContext(ctx).Info("tenant_created", "tenant_id", tenant.ID)
	return &tenant, nil
}

func (s *TenantService) FindAllTenants(ctx context.Context) ([]models.Tenant, error) {
	return s.Repo.FindAllTenants(ctx)
}

// DefineAdmin promotes an existing user to admin of the given tenant.
// The tenant id itself is taken on trust, as the source system does.
func (s *TenantService) DefineAdmin(ctx context.Context, tenantID, userID string) (*models.User, error) {
	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Role = models.RoleAdmin
	user.TenantID = tenantID
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	if s.Users != nil {
		s.Users.indexUser(ctx, user)
	}

	s.publish(ctx, "tenant_events", tenantID, map[string]interface{}{
		"type":      "admin_assigned",
		"tenant_id": tenantID,
		"user_id":   user.ID,
	})

	return user, nil
}
