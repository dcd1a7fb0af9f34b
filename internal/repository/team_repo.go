package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jstyp/storefront-backend/internal/models"
	"gorm.io/gorm"
)

type TeamRepo struct {
	db *gorm.DB
}

func NewTeamRepo(db *gorm.DB) *TeamRepo {
	return &TeamRepo{db: db}
}

func (r *TeamRepo) List(ctx context.Context) ([]models.TeamMember, error) {
	var members []models.TeamMember
	err := r.db.WithContext(ctx).Order("first_name ASC, last_name ASC").Find(&members).Error
	return members, err
}

func (r *TeamRepo) Get(ctx context.Context, id uuid.UUID) (*models.TeamMember, error) {
	var m models.TeamMember
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *TeamRepo) FindByPin(ctx context.Context, pin string) (*models.TeamMember, error) {
	var m models.TeamMember
	if err := r.db.WithContext(ctx).Where("pin = ?", pin).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// Conflicts reports whether another member already uses email or pin.
func (r *TeamRepo) Conflicts(ctx context.Context, excludeID uuid.UUID, email, pin string) (emailTaken, pinTaken bool, err error) {
	var others []models.TeamMember
	err = r.db.WithContext(ctx).
		Where("id <> ? AND (lower(email) = lower(?) OR pin = ?)", excludeID, email, pin).
		Find(&others).Error
	if err != nil {
		return false, false, err
	}
	for _, o := range others {
		if equalFold(o.Email, email) {
			emailTaken = true
		}
		if o.Pin == pin {
			pinTaken = true
		}
	}
	return emailTaken, pinTaken, nil
}

func (r *TeamRepo) Create(ctx context.Context, m *models.TeamMember) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *TeamRepo) Save(ctx context.Context, m *models.TeamMember) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *TeamRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.TeamMember{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
