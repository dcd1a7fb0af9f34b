package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jstyp/storefront-backend/internal/models"
	"gorm.io/gorm"
)

type VideoRepo struct {
	db *gorm.DB
}

func NewVideoRepo(db *gorm.DB) *VideoRepo {
	return &VideoRepo{db: db}
}

func (r *VideoRepo) Create(ctx context.Context, v *models.Video) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *VideoRepo) Get(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	var v models.Video
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VideoRepo) ListByStatus(ctx context.Context, status string) ([]models.Video, error) {
	var videos []models.Video
	err := r.db.WithContext(ctx).Where("status = ?", status).Order("created_at DESC").Find(&videos).Error
	return videos, err
}

// Advance writes a poll outcome only while the row is still processing at
// prevAttempts, so concurrent pollers cannot overwrite each other.
func (r *VideoRepo) Advance(ctx context.Context, v *models.Video, prevAttempts int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Video{}).
		Where("id = ? AND status = ? AND poll_attempts = ?", v.ID, models.VideoProcessing, prevAttempts).
		Updates(map[string]interface{}{
			"status":        v.Status,
			"poll_attempts": v.PollAttempts,
			"video_url":     v.VideoURL,
			"error":         v.Error,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
