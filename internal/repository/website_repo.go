package repository

import (
	"context"

	"github.com/jstyp/storefront-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WebsiteRepo struct {
	db *gorm.DB
}

func NewWebsiteRepo(db *gorm.DB) *WebsiteRepo {
	return &WebsiteRepo{db: db}
}

func (r *WebsiteRepo) Get(ctx context.Context) (*models.WebsiteDetails, error) {
	var d models.WebsiteDetails
	if err := r.db.WithContext(ctx).First(&d, "id = ?", models.WebsiteDetailsID).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// Upsert writes the singleton row with a single INSERT ... ON CONFLICT.
func (r *WebsiteRepo) Upsert(ctx context.Context, d *models.WebsiteDetails) error {
	d.ID = models.WebsiteDetailsID
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(d).Error
}

// Seed inserts d only if no row exists yet.
func (r *WebsiteRepo) Seed(ctx context.Context, d *models.WebsiteDetails) error {
	d.ID = models.WebsiteDetailsID
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(d).Error
}
