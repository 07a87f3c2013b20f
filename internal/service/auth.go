package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmarkin/tenant_portal/internal/hash"
	"github.com/dmarkin/tenant_portal/internal/logging"
	"github.com/dmarkin/tenant_portal/internal/models"
	"github.com/dmarkin/tenant_portal/internal/mykafka"
	"github.com/dmarkin/tenant_portal/internal/repo"
	"github.com/dmarkin/tenant_portal/internal/tokens"
)

var ErrInvalidRefresh = errors.New("refresh token not found or revoked")

type AuthService struct {
	Repo     *repo.GormRepo
	Issuer   *tokens.Issuer
	Producer *mykafka.Producer
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ValidateCredentials returns nil (not an error) for an unknown email or
// a wrong password, so callers cannot tell the two apart.
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, nil
	}
	return user, nil
}

// Login issues a fresh pair and persists the refresh half. Each call adds
// a new row, so one user may hold several live refresh tokens at once.
func (s *AuthService) Login(ctx context.Context, user *models.User) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "user_id", user.ID)

	pair, err := s.issuePair(ctx, user.ID, user.TenantID, user.Role)
	if err != nil {
		l.Error("login_failed", "error", err)
		return nil, err
	}

	s.publish(ctx, "user_events", user.ID, map[string]interface{}{
		"type":      "user_logged_in",
		"user_id":   user.ID,
		"tenant_id": user.TenantID,
	})

	l.Info("login_successful")
	return pair, nil
}

// Refresh rotates a refresh token: the old row is deleted and the new pair
// is signed from the OLD token's claims, so a role change between issuance
// and refresh does not take effect until the next login.
func (s *AuthService) Refresh(ctx context.Context, oldToken string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := s.Issuer.Parse(oldToken)
	if err != nil {
		l.Warn("refresh_rejected", "reason", "invalid or expired token")
		return nil, ErrInvalidRefresh
	}

	if _, err := s.Repo.FindRefreshToken(ctx, oldToken); err != nil {
		if errors.Is(err, repo.ErrRefreshNotFound) {
			l.Warn("refresh_rejected", "reason", "token not in store")
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	if err := s.Repo.DeleteRefreshToken(ctx, oldToken); err != nil {
		return nil, fmt.Errorf("delete old refresh token: %w", err)
	}

	pair, err := s.issuePair(ctx, claims.Subject, claims.TenantID(), claims.Role)
	if err != nil {
		l.Error("refresh_failed", "error", err)
		return nil, err
	}

	l.Info("refresh_rotated", "user_id", claims.Subject)
	return pair, nil
}

// Register intentionally accepts role and tenant from the caller; this is
// a dev convenience carried from the source system. Empty role means user.
func (s *AuthService) Register(ctx context.Context, email, password, tenantID, role string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "email", email)

	if role == "" {
		role = models.RoleUser
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: pwHash,
		TenantID:     tenantID,
		Role:         role,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			l.Warn("register_failed", "reason", "email already in use")
		} else {
			l.Error("register_failed", "error", err)
		}
		return nil, err
	}

	s.publish(ctx, "user_events", user.ID, map[string]interface{}{
		"type":      "user_registered",
		"user_id":   user.ID,
		"email":     user.Email,
		"tenant_id": user.TenantID,
	})

	l.Info("register_successful", "user_id", user.ID)
	return &user, nil
}

// Logout drops the presented refresh token row. Unknown tokens are not an
// error; the end state is the same either way.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.Repo.DeleteRefreshToken(ctx, refreshToken)
}

func (s *AuthService) issuePair(ctx context.Context, userID, tenantID, role string) (*TokenPair, error) {
	access, err := s.Issuer.IssueAccess(userID, tenantID, role)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := s.Issuer.IssueRefresh(userID, tenantID, role)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	row := models.RefreshToken{
		Token:    refresh,
		UserID:   userID,
		TenantID: tenantID,
		Role:     role,
	}
	if err := s.Repo.SaveRefreshToken(ctx, &row); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
