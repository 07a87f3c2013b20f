package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmarkin/tenant_portal/internal/models"
)

func (r *GormRepo) CreateTenant(ctx context.Context, t *models.Tenant) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *GormRepo) FindAllTenants(ctx context.Context) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := r.DB.WithContext(ctx).Find(&tenants).Error
	return tenants, err
}
