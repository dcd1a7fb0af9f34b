package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jstyp/storefront-backend/internal/cache"
	"github.com/jstyp/storefront-backend/internal/dto"
	"github.com/jstyp/storefront-backend/internal/models"
	"github.com/jstyp/storefront-backend/internal/storage"
)

const websiteCacheKey = "website:details"

type WebsiteService struct {
	repo  WebsiteRepository
	store storage.Store
	cache cache.Cache
	ttl   time.Duration
}

func NewWebsiteService(repo WebsiteRepository, store storage.Store, c cache.Cache, ttl time.Duration) *WebsiteService {
	return &WebsiteService{repo: repo, store: store, cache: c, ttl: ttl}
}

func (s *WebsiteService) Get(ctx context.Context) (*dto.WebsiteDetailsResponse, error) {
	var cached dto.WebsiteDetailsResponse
	if err := cache.GetJSON(ctx, s.cache, websiteCacheKey, &cached); err == nil {
		return &cached, nil
	}

	d, err := s.repo.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrWebsiteNotFound
		}
		return nil, fmt.Errorf("get website details: %w", err)
	}
	resp := dto.NewWebsiteDetailsResponse(d)
	if err := cache.SetJSON(ctx, s.cache, websiteCacheKey, resp, s.ttl); err != nil {
		slog.Warn("website cache write failed", "error", err)
	}
	return &resp, nil
}

// Save replaces the whole document. Inline images are uploaded first.
func (s *WebsiteService) Save(ctx context.Context, req *dto.WebsiteDetailsRequest) (*dto.WebsiteDetailsResponse, error) {
	logo, err := storage.SaveDataURL(ctx, s.store, req.LogoURL)
	if err != nil {
		return nil, uploadError(err)
	}
	introLogo, err := storage.SaveDataURL(ctx, s.store, req.IntroLogoURL)
	if err != nil {
		return nil, uploadError(err)
	}
	introImage, err := storage.SaveDataURL(ctx, s.store, req.IntroImageURL)
	if err != nil {
		return nil, uploadError(err)
	}

	about := req.AboutPageContent
	if about != nil {
		copied := *about
		if copied.Introduction.ImageURL, err = storage.SaveDataURL(ctx, s.store, copied.Introduction.ImageURL); err != nil {
			return nil, uploadError(err)
		}
		sections := make([]models.AboutPageSection, len(copied.Sections))
		for i, sec := range copied.Sections {
			if sec.ImageURL, err = storage.SaveDataURL(ctx, s.store, sec.ImageURL); err != nil {
				return nil, uploadError(err)
			}
			sections[i] = sec
		}
		copied.Sections = sections
		about = &copied
	}

	d := &models.WebsiteDetails{
		ID:              models.WebsiteDetailsID,
		CompanyName:     req.CompanyName,
		LogoURL:         logo,
		Tel:             req.Tel,
		Whatsapp:        req.Whatsapp,
		Email:           req.Email,
		Address:         req.Address,
		BankDetails:     req.BankDetails,
		ThemeColor:      req.ThemeColor,
		IntroLogoURL:    introLogo,
		IntroImageURL:   introImage,
		FontFamily:      req.FontFamily,
		BackgroundColor: req.BackgroundColor,
		TextColor:       req.TextColor,
		CardColor:       req.CardColor,
		BorderColor:     req.BorderColor,
	}
	d.SetAbout(about)

	if err := s.repo.Upsert(ctx, d); err != nil {
		return nil, fmt.Errorf("save website details: %w", err)
	}
	if err := s.cache.Delete(ctx, websiteCacheKey); err != nil {
		slog.Warn("website cache invalidation failed", "error", err)
	}
	resp := dto.NewWebsiteDetailsResponse(d)
	return &resp, nil
}
