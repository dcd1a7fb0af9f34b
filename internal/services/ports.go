package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jstyp/storefront-backend/internal/models"
)

// Storage ports. The GORM implementations live in internal/repository;
// "not found" is gorm.ErrRecordNotFound and unique violations are
// gorm.ErrDuplicatedKey.

type AppRepository interface {
	List(ctx context.Context) ([]models.App, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.App, error)
	Get(ctx context.Context, id uuid.UUID) (*models.App, error)
	Create(ctx context.Context, app *models.App) error
	Save(ctx context.Context, app *models.App) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpsertRating(ctx context.Context, rating *models.AppRating) error
}

type PinRepository interface {
	Exists(ctx context.Context, pin string) (bool, error)
	Create(ctx context.Context, rec *models.PinRecord) error
	List(ctx context.Context) ([]models.PinRecord, error)
	FindByPin(ctx context.Context, pin string) (*models.PinRecord, error)
	MarkRedeemed(ctx context.Context, id uuid.UUID, clientID *uuid.UUID, clientName *string, at time.Time) (bool, error)
	RedeemedAppIDs(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error)
	HasRedeemed(ctx context.Context, clientID, appID uuid.UUID) (bool, error)
}

type ClientRepository interface {
	Create(ctx context.Context, c *models.Client) error
	Get(ctx context.Context, id uuid.UUID) (*models.Client, error)
	FindByEmail(ctx context.Context, email string) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
}

type AppRequestRepository interface {
	Create(ctx context.Context, req *models.AppRequest) error
	List(ctx context.Context) ([]models.AppRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.AppRequest, error)
}

type RedownloadRepository interface {
	Create(ctx context.Context, req *models.RedownloadRequest) error
	FindPending(ctx context.Context, clientID, appID uuid.UUID) (*models.RedownloadRequest, error)
	Get(ctx context.Context, id uuid.UUID) (*models.RedownloadRequest, error)
	List(ctx context.Context) ([]models.RedownloadRequest, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.RedownloadRequest, error)
	HasApproved(ctx context.Context, clientID, appID uuid.UUID) (bool, error)
	Approve(ctx context.Context, id uuid.UUID, pin *models.PinRecord, notes string, at time.Time) (bool, error)
	Deny(ctx context.Context, id uuid.UUID, notes string, at time.Time) (bool, error)
}

type TeamRepository interface {
	List(ctx context.Context) ([]models.TeamMember, error)
	Get(ctx context.Context, id uuid.UUID) (*models.TeamMember, error)
	FindByPin(ctx context.Context, pin string) (*models.TeamMember, error)
	Conflicts(ctx context.Context, excludeID uuid.UUID, email, pin string) (emailTaken, pinTaken bool, err error)
	Create(ctx context.Context, m *models.TeamMember) error
	Save(ctx context.Context, m *models.TeamMember) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type WebsiteRepository interface {
	Get(ctx context.Context) (*models.WebsiteDetails, error)
	Upsert(ctx context.Context, d *models.WebsiteDetails) error
}

type VideoRepository interface {
	Create(ctx context.Context, v *models.Video) error
	Get(ctx context.Context, id uuid.UUID) (*models.Video, error)
	ListByStatus(ctx context.Context, status string) ([]models.Video, error)
	Advance(ctx context.Context, v *models.Video, prevAttempts int) (bool, error)
}

type TokenRepository interface {
	Create(ctx context.Context, t *models.RefreshToken) error
	FindActive(ctx context.Context, hash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, hash string) (bool, error)
}
