package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jstyp/storefront-backend/internal/models"
	"gorm.io/gorm"
)

type PinRepo struct {
	db *gorm.DB
}

func NewPinRepo(db *gorm.DB) *PinRepo {
	return &PinRepo{db: db}
}

func (r *PinRepo) Exists(ctx context.Context, pin string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PinRecord{}).Where("pin = ?", pin).Count(&count).Error
	return count > 0, err
}

func (r *PinRepo) Create(ctx context.Context, rec *models.PinRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *PinRepo) List(ctx context.Context) ([]models.PinRecord, error) {
	var pins []models.PinRecord
	err := r.db.WithContext(ctx).Order("generated_at DESC").Find(&pins).Error
	return pins, err
}

func (r *PinRepo) FindByPin(ctx context.Context, pin string) (*models.PinRecord, error) {
	var rec models.PinRecord
	if err := r.db.WithContext(ctx).Where("pin = ?", pin).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// MarkRedeemed flips is_redeemed only if it is still false. It reports
// whether this call performed the redemption.
func (r *PinRepo) MarkRedeemed(ctx context.Context, id uuid.UUID, clientID *uuid.UUID, clientName *string, at time.Time) (bool, error) {
	updates := map[string]interface{}{
		"is_redeemed": true,
		"redeemed_at": at,
	}
	if clientID != nil {
		updates["client_id"] = *clientID
		updates["client_name"] = clientName
	}
	res := r.db.WithContext(ctx).Model(&models.PinRecord{}).
		Where("id = ? AND is_redeemed = ?", id, false).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// RedeemedAppIDs returns the distinct apps a client has redeemed PINs for.
func (r *PinRepo) RedeemedAppIDs(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.PinRecord{}).
		Where("client_id = ? AND is_redeemed = ?", clientID, true).
		Distinct().
		Pluck("app_id", &ids).Error
	return ids, err
}

func (r *PinRepo) HasRedeemed(ctx context.Context, clientID, appID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PinRecord{}).
		Where("client_id = ? AND app_id = ? AND is_redeemed = ?", clientID, appID, true).
		Count(&count).Error
	return count > 0, err
}
