package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jstyp/storefront-backend/internal/models"
	"gorm.io/gorm"
)

type RedownloadRepo struct {
	db *gorm.DB
}

func NewRedownloadRepo(db *gorm.DB) *RedownloadRepo {
	return &RedownloadRepo{db: db}
}

// Create returns gorm.ErrDuplicatedKey when a pending request already
// exists for the same client and app.
func (r *RedownloadRepo) Create(ctx context.Context, req *models.RedownloadRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *RedownloadRepo) FindPending(ctx context.Context, clientID, appID uuid.UUID) (*models.RedownloadRequest, error) {
	var req models.RedownloadRequest
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND app_id = ? AND status = ?", clientID, appID, models.RedownloadPending).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RedownloadRepo) Get(ctx context.Context, id uuid.UUID) (*models.RedownloadRequest, error) {
	var req models.RedownloadRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RedownloadRepo) List(ctx context.Context) ([]models.RedownloadRequest, error) {
	var reqs []models.RedownloadRequest
	err := r.db.WithContext(ctx).Order("requested_at DESC").Find(&reqs).Error
	return reqs, err
}

func (r *RedownloadRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.RedownloadRequest, error) {
	var reqs []models.RedownloadRequest
	err := r.db.WithContext(ctx).Where("client_id = ?", clientID).Order("requested_at DESC").Find(&reqs).Error
	return reqs, err
}

// HasApproved reports whether the client has an approved request for app.
func (r *RedownloadRepo) HasApproved(ctx context.Context, clientID, appID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RedownloadRequest{}).
		Where("client_id = ? AND app_id = ? AND status = ?", clientID, appID, models.RedownloadApproved).
		Count(&count).Error
	return count > 0, err
}

// Approve resolves a pending request and inserts pin in one transaction.
// It reports false when the request was no longer pending.
func (r *RedownloadRepo) Approve(ctx context.Context, id uuid.UUID, pin *models.PinRecord, notes string, at time.Time) (bool, error) {
	resolved := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := resolve(tx, id, models.RedownloadApproved, notes, at)
		if err != nil || !ok {
			return err
		}
		if err := tx.Create(pin).Error; err != nil {
			return err
		}
		resolved = true
		return nil
	})
	return resolved, err
}

// Deny resolves a pending request as denied.
func (r *RedownloadRepo) Deny(ctx context.Context, id uuid.UUID, notes string, at time.Time) (bool, error) {
	return resolve(r.db.WithContext(ctx), id, models.RedownloadDenied, notes, at)
}

func resolve(db *gorm.DB, id uuid.UUID, status, notes string, at time.Time) (bool, error) {
	res := db.Model(&models.RedownloadRequest{}).
		Where("id = ? AND status = ?", id, models.RedownloadPending).
		Updates(map[string]interface{}{
			"status":           status,
			"resolution_notes": notes,
			"resolved_at":      at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
