package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jstyp/storefront-backend/internal/models"
	"gorm.io/gorm"
)

type AppRequestRepo struct {
	db *gorm.DB
}

func NewAppRequestRepo(db *gorm.DB) *AppRequestRepo {
	return &AppRequestRepo{db: db}
}

func (r *AppRequestRepo) Create(ctx context.Context, req *models.AppRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *AppRequestRepo) List(ctx context.Context) ([]models.AppRequest, error) {
	var reqs []models.AppRequest
	err := r.db.WithContext(ctx).Order("submitted_at DESC").Find(&reqs).Error
	return reqs, err
}

// UpdateStatus returns the updated row or gorm.ErrRecordNotFound.
func (r *AppRequestRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.AppRequest, error) {
	res := r.db.WithContext(ctx).Model(&models.AppRequest{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var req models.AppRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}
