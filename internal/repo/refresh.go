package repo

import (
	"context"

	"github.com/dmarkin/tenant_portal/internal/models"
)

func (r *GormRepo) SaveRefreshToken(ctx context.Context, row *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(row).Error
}

func (r *GormRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var row models.RefreshToken
	err := r.DB.WithContext(ctx).Where("token = ?", token).First(&row).Error
	if err != nil {
		if notFound(err) {
			return nil, ErrRefreshNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *GormRepo) DeleteRefreshToken(ctx context.Context, token string) error {
	return r.DB.WithContext(ctx).Where("token = ?", token).Delete(&models.RefreshToken{}).Error
}
