package repository

import (
	"context"
	"time"

	"github.com/vendora/vendora/internal/auth/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, session *domain.Session) error
	FindByToken(ctx context.Context, db *gorm.DB, token string) (*domain.Session, error)
	Revoke(ctx context.Context, db *gorm.DB, token string, at time.Time) error
}

type repo struct{}

func Provide() Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, session *domain.Session) error {
	return db.WithContext(ctx).Create(session).Error
}

func (r *repo) FindByToken(ctx context.Context, db *gorm.DB, token string) (*domain.Session, error) {
	var session domain.Session
	err := db.WithContext(ctx).Where("token = ?", token).First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *repo) Revoke(ctx context.Context, db *gorm.DB, token string, at time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("token = ? AND revoked_at IS NULL", token).
		Update("revoked_at", at).Error
}
