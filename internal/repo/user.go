package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/dmarkin/tenant_portal/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(u.Email)
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	var existing models.User
	err := r.DB.WithContext(ctx).Where("email = ?", u.Email).First(&existing).Error
	if err == nil {
		return ErrEmailTaken
	}
	if !notFound(err) {
		return err
	}

	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		if notFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if notFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) SaveUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Save(u).Error
}

func (r *GormRepo) FindUsersByTenant(ctx context.Context, tenantID string) ([]models.User, error) {
	var users []models.User
	err := r.DB.WithContext(ctx).Where("tenant_id = ?", tenantID).Find(&users).Error
	return users, err
}

func (r *GormRepo) FindAllUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.DB.WithContext(ctx).Find(&users).Error
	return users, err
}

// FilterUsers is the database fallback for email search when no search
// index is configured. tenantID == "" means no tenant scoping.
func (r *GormRepo) FilterUsers(ctx context.Context, tenantID, term string, offset, limit int) ([]models.User, error) {
	q := r.DB.WithContext(ctx).Model(&models.User{})
	if tenantID != "" {
		q = q.Where("tenant_id = ?", tenantID)
	}
	if term != "" {
		q = q.Where("email LIKE ?", "%"+strings.ToLower(term)+"%")
	}
	var users []models.User
	err := q.Offset(offset).Limit(limit).Find(&users).Error
	return users, err
}
