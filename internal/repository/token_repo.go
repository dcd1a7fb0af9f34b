package repository

import (
	"context"

	"github.com/jstyp/storefront-backend/internal/models"
	"gorm.io/gorm"
)

type TokenRepo struct {
	db *gorm.DB
}

func NewTokenRepo(db *gorm.DB) *TokenRepo {
	return &TokenRepo{db: db}
}

func (r *TokenRepo) Create(ctx context.Context, t *models.RefreshToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TokenRepo) FindActive(ctx context.Context, hash string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	if err := r.db.WithContext(ctx).Where("token_hash = ? AND revoked = false", hash).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// Revoke marks the token revoked and reports whether it was active.
func (r *TokenRepo) Revoke(ctx context.Context, hash string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked = false", hash).
		Update("revoked", true)
	return res.RowsAffected == 1, res.Error
}
