package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jstyp/storefront-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AppRepo struct {
	db *gorm.DB
}

func NewAppRepo(db *gorm.DB) *AppRepo {
	return &AppRepo{db: db}
}

func (r *AppRepo) List(ctx context.Context) ([]models.App, error) {
	var apps []models.App
	err := r.db.WithContext(ctx).Preload("Ratings").Order("created_at DESC").Find(&apps).Error
	return apps, err
}

func (r *AppRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.App, error) {
	var apps []models.App
	if len(ids) == 0 {
		return apps, nil
	}
	err := r.db.WithContext(ctx).Preload("Ratings").Where("id IN ?", ids).Order("name ASC").Find(&apps).Error
	return apps, err
}

func (r *AppRepo) Get(ctx context.Context, id uuid.UUID) (*models.App, error) {
	var app models.App
	if err := r.db.WithContext(ctx).Preload("Ratings").First(&app, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *AppRepo) Create(ctx context.Context, app *models.App) error {
	return r.db.WithContext(ctx).Omit("Ratings").Create(app).Error
}

func (r *AppRepo) Save(ctx context.Context, app *models.App) error {
	return r.db.WithContext(ctx).Omit("Ratings").Save(app).Error
}

// Delete removes the app and its ratings; gorm.ErrRecordNotFound when absent.
func (r *AppRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("app_id = ?", id).Delete(&models.AppRating{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.App{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// UpsertRating inserts or replaces the (app, client) rating in one statement.
func (r *AppRepo) UpsertRating(ctx context.Context, rating *models.AppRating) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "app_id"}, {Name: "client_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(rating).Error
}
