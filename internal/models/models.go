package models

import (
	"time"
)

const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

type User struct {
	ID           string    `gorm:"primaryKey"        json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null"          json:"-"`
	TenantID     string    `gorm:"index;not null"    json:"tenant_id"`
	Role         string    `gorm:"not null"          json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Tenant struct {
	ID        string    `gorm:"primaryKey"     json:"id"`
	Name      string    `gorm:"not null"       json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// RefreshToken is one currently-valid refresh token. The signed token
// string itself is the key; a row is deleted the moment it is redeemed,
// so presence in this table is what makes a token live.
type RefreshToken struct {
	Token     string    `gorm:"primaryKey"     json:"token"`
	UserID    string    `gorm:"index;not null" json:"user_id"`
	TenantID  string    `gorm:"not null"       json:"tenant_id"`
	Role      string    `gorm:"not null"       json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
