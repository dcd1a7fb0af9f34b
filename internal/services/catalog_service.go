package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jstyp/storefront-backend/internal/cache"
	"github.com/jstyp/storefront-backend/internal/dto"
	"github.com/jstyp/storefront-backend/internal/models"
	"github.com/jstyp/storefront-backend/internal/storage"
	"github.com/lib/pq"
)

const catalogCacheKey = "catalog:apps"

type CatalogService struct {
	apps        AppRepository
	pins        PinRepository
	redownloads RedownloadRepository
	store       storage.Store
	cache       cache.Cache
	ttl         time.Duration
}

func NewCatalogService(apps AppRepository, pins PinRepository, redownloads RedownloadRepository, store storage.Store, c cache.Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{apps: apps, pins: pins, redownloads: redownloads, store: store, cache: c, ttl: ttl}
}

// ListPublic returns the storefront projection of every app, newest first.
func (s *CatalogService) ListPublic(ctx context.Context) ([]models.App, error) {
	var cached []models.App
	if err := cache.GetJSON(ctx, s.cache, catalogCacheKey, &cached); err == nil {
		return cached, nil
	}

	apps, err := s.apps.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list apps: %w", err)
	}
	out := make([]models.App, len(apps))
	for i := range apps {
		apps[i].ComputeRatingSummary()
		out[i] = apps[i].Public()
	}

	if err := cache.SetJSON(ctx, s.cache, catalogCacheKey, out, s.ttl); err != nil {
		slog.Warn("catalog cache write failed", "error", err)
	}
	return out, nil
}

// ListAll returns every app including admin-only fields.
func (s *CatalogService) ListAll(ctx context.Context) ([]models.App, error) {
	apps, err := s.apps.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list apps: %w", err)
	}
	for i := range apps {
		apps[i].ComputeRatingSummary()
	}
	return apps, nil
}

func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*models.App, error) {
	app, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	public := app.Public()
	return &public, nil
}

// GetFull is Get without the public projection.
func (s *CatalogService) GetFull(ctx context.Context, id uuid.UUID) (*models.App, error) {
	return s.get(ctx, id)
}

func (s *CatalogService) get(ctx context.Context, id uuid.UUID) (*models.App, error) {
	app, err := s.apps.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAppNotFound
		}
		return nil, fmt.Errorf("get app: %w", err)
	}
	app.ComputeRatingSummary()
	return app, nil
}

func (s *CatalogService) Create(ctx context.Context, req *dto.AppRequest) (*models.App, error) {
	app := &models.App{}
	if err := s.apply(ctx, app, req); err != nil {
		return nil, err
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("create app: %w", err)
	}
	s.invalidate(ctx)
	return app, nil
}

func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, req *dto.AppRequest) (*models.App, error) {
	app, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, app, req); err != nil {
		return nil, err
	}
	if err := s.apps.Save(ctx, app); err != nil {
		return nil, fmt.Errorf("update app: %w", err)
	}
	s.invalidate(ctx)
	return app, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.apps.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrAppNotFound
		}
		return fmt.Errorf("delete app: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

// Rate records a 1..5 score from a client who bought the app. Repeated
// calls overwrite the client's previous score.
func (s *CatalogService) Rate(ctx context.Context, appID, clientID uuid.UUID, rating int) (*models.App, error) {
	if rating < 1 || rating > 5 || appID == uuid.Nil || clientID == uuid.Nil {
		return nil, ErrInvalidRating
	}
	if _, err := s.get(ctx, appID); err != nil {
		return nil, err
	}

	owned, err := s.owns(ctx, clientID, appID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrNotPurchased
	}

	if err := s.apps.UpsertRating(ctx, &models.AppRating{AppID: appID, ClientID: clientID, Rating: rating}); err != nil {
		return nil, fmt.Errorf("save rating: %w", err)
	}
	s.invalidate(ctx)
	return s.Get(ctx, appID)
}

func (s *CatalogService) owns(ctx context.Context, clientID, appID uuid.UUID) (bool, error) {
	redeemed, err := s.pins.HasRedeemed(ctx, clientID, appID)
	if err != nil {
		return false, fmt.Errorf("check purchase: %w", err)
	}
	if redeemed {
		return true, nil
	}
	approved, err := s.redownloads.HasApproved(ctx, clientID, appID)
	if err != nil {
		return false, fmt.Errorf("check purchase: %w", err)
	}
	return approved, nil
}

func (s *CatalogService) apply(ctx context.Context, app *models.App, req *dto.AppRequest) error {
	imageURL, err := storage.SaveDataURL(ctx, s.store, req.ImageURL)
	if err != nil {
		return uploadError(err)
	}
	heroURL, err := storage.SaveDataURL(ctx, s.store, req.HeroImageURL)
	if err != nil {
		return uploadError(err)
	}
	screenshots, err := storage.SaveDataURLs(ctx, s.store, req.Screenshots)
	if err != nil {
		return uploadError(err)
	}

	app.Name = strings.TrimSpace(req.Name)
	app.Description = req.Description
	app.LongDescription = req.LongDescription
	app.Price = req.Price
	app.ImageURL = imageURL
	app.HeroImageURL = heroURL
	app.Screenshots = pq.StringArray(screenshots)
	app.Features = pq.StringArray(nonNil(req.Features))
	app.Abilities = pq.StringArray(nonNil(req.Abilities))
	app.WhyItWorks = req.WhyItWorks
	app.DedicatedPurpose = req.DedicatedPurpose
	app.TermsAndConditions = req.TermsAndConditions
	app.PinCode = strings.TrimSpace(req.PinCode)
	app.ApkURL = req.ApkURL
	app.IosURL = req.IosURL
	app.PwaURL = req.PwaURL
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, catalogCacheKey); err != nil {
		slog.Warn("catalog cache invalidation failed", "error", err)
	}
}

// uploadError turns a malformed data URL into a 400-class error.
func uploadError(err error) error {
	if errors.Is(err, storage.ErrInvalidDataURL) {
		return &InputError{Message: "Invalid base64 file format", Err: err}
	}
	return fmt.Errorf("upload image: %w", err)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
