package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jstyp/storefront-backend/internal/models"
)

type RedownloadService struct {
	requests RedownloadRepository
	apps     AppRepository
	pins     PinRepository
	now      func() time.Time
}

func NewRedownloadService(requests RedownloadRepository, apps AppRepository, pins PinRepository) *RedownloadService {
	return &RedownloadService{requests: requests, apps: apps, pins: pins, now: time.Now}
}

// Create opens a pending request. It returns (nil, nil) when the client
// already has a pending request for the app.
func (s *RedownloadService) Create(ctx context.Context, client Redeemer, appID uuid.UUID) (*models.RedownloadRequest, error) {
	app, err := s.apps.Get(ctx, appID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAppNotFound
		}
		return nil, fmt.Errorf("get app: %w", err)
	}

	if _, err := s.requests.FindPending(ctx, client.ID, app.ID); err == nil {
		return nil, nil
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("find pending request: %w", err)
	}

	req := &models.RedownloadRequest{
		ClientID:    client.ID,
		ClientName:  client.Name,
		AppID:       app.ID,
		AppName:     app.Name,
		Status:      models.RedownloadPending,
		RequestedAt: s.now().UTC(),
	}
	if err := s.requests.Create(ctx, req); err != nil {
		// Lost a race against a concurrent create for the same pair.
		if isDuplicate(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("create redownload request: %w", err)
	}
	return req, nil
}

func (s *RedownloadService) List(ctx context.Context) ([]models.RedownloadRequest, error) {
	return s.requests.List(ctx)
}

func (s *RedownloadService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.RedownloadRequest, error) {
	return s.requests.ListByClient(ctx, clientID)
}

// Resolve approves or denies a pending request. Approval mints exactly one
// new PIN bound to the requesting client in the same transaction as the
// status change.
func (s *RedownloadService) Resolve(ctx context.Context, id uuid.UUID, status, reason string) (*models.RedownloadRequest, error) {
	if status != models.RedownloadApproved && status != models.RedownloadDenied {
		return nil, ErrInvalidStatus
	}
	reason = strings.TrimSpace(reason)
	if status == models.RedownloadDenied && reason == "" {
		return nil, ErrReasonRequired
	}

	req, err := s.requests.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("get redownload request: %w", err)
	}
	if req.Status != models.RedownloadPending {
		return nil, ErrAlreadyResolved
	}

	if status == models.RedownloadDenied {
		ok, err := s.requests.Deny(ctx, id, reason, s.now().UTC())
		if err != nil {
			return nil, fmt.Errorf("deny redownload request: %w", err)
		}
		if !ok {
			return nil, ErrAlreadyResolved
		}
		return s.reload(ctx, id)
	}

	for attempt := 0; attempt < pinMaxAttempts; attempt++ {
		pin, err := uniquePin(ctx, s.pins)
		if err != nil {
			return nil, err
		}
		at := s.now().UTC()
		clientID := req.ClientID
		clientName := req.ClientName
		rec := &models.PinRecord{
			Pin:     pin,
			AppID:   req.AppID,
			AppName: req.AppName,
			ClientDetails: models.ClientDetails{
				CompanyName:   "Re-download for " + req.ClientName,
				ContactPerson: req.ClientName,
				ContactInfo:   "N/A",
			},
			ClientID:    &clientID,
			ClientName:  &clientName,
			GeneratedAt: at,
		}
		notes := "Approved. New PIN generated for client: " + pin

		ok, err := s.requests.Approve(ctx, id, rec, notes, at)
		if err != nil {
			if isDuplicate(err) {
				continue
			}
			return nil, fmt.Errorf("approve redownload request: %w", err)
		}
		if !ok {
			return nil, ErrAlreadyResolved
		}
		slog.Info("redownload approved", "request_id", id, "app_id", req.AppID, "client_id", req.ClientID)
		return s.reload(ctx, id)
	}
	return nil, ErrPinGeneration
}

func (s *RedownloadService) reload(ctx context.Context, id uuid.UUID) (*models.RedownloadRequest, error) {
	req, err := s.requests.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload redownload request: %w", err)
	}
	return req, nil
}
