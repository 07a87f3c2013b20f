package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already in use")
	ErrRefreshNotFound = errors.New("refresh token not found")
)

type GormRepo struct {
	DB *gorm.DB
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
