package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jstyp/storefront-backend/internal/dto"
	"github.com/jstyp/storefront-backend/internal/metrics"
	"github.com/jstyp/storefront-backend/internal/models"
)

const (
	// PinAlphabet leaves out O and 0.
	PinAlphabet    = "ABCDEFGHIJKLMNPQRSTUVWXYZ123456789"
	PinLength      = 6
	pinMaxAttempts = 10
)

// Redeemer identifies the client binding a PIN on redemption.
type Redeemer struct {
	ID   uuid.UUID
	Name string
}

type PinService struct {
	pins        PinRepository
	apps        AppRepository
	clients     ClientRepository
	overridePIN string
	now         func() time.Time
}

// NewPinService builds the service. An empty overridePIN disables the
// global override code.
func NewPinService(pins PinRepository, apps AppRepository, clients ClientRepository, overridePIN string) *PinService {
	return &PinService{pins: pins, apps: apps, clients: clients, overridePIN: overridePIN, now: time.Now}
}

// GeneratePin returns a random code from PinAlphabet.
func GeneratePin() (string, error) {
	max := big.NewInt(int64(len(PinAlphabet)))
	b := make([]byte, PinLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = PinAlphabet[n.Int64()]
	}
	return string(b), nil
}

// uniquePin generates codes until one is not already stored.
func uniquePin(ctx context.Context, pins PinRepository) (string, error) {
	for i := 0; i < pinMaxAttempts; i++ {
		pin, err := GeneratePin()
		if err != nil {
			return "", err
		}
		exists, err := pins.Exists(ctx, pin)
		if err != nil {
			return "", fmt.Errorf("check pin: %w", err)
		}
		if !exists {
			return pin, nil
		}
	}
	return "", ErrPinGeneration
}

// Issue mints an unredeemed PIN for an app sale.
func (s *PinService) Issue(ctx context.Context, req *dto.IssuePinRequest) (*models.PinRecord, error) {
	app, err := s.apps.Get(ctx, req.AppID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAppNotFound
		}
		return nil, fmt.Errorf("get app: %w", err)
	}

	rec := &models.PinRecord{
		AppID:   app.ID,
		AppName: app.Name,
		ClientDetails: models.ClientDetails{
			CompanyName:   strings.TrimSpace(req.ClientDetails.CompanyName),
			ContactPerson: strings.TrimSpace(req.ClientDetails.ContactPerson),
			ContactInfo:   strings.TrimSpace(req.ClientDetails.ContactInfo),
		},
	}
	if req.ClientID != nil {
		client, err := s.clients.Get(ctx, *req.ClientID)
		if err != nil {
			if isNotFound(err) {
				return nil, ErrClientNotFound
			}
			return nil, fmt.Errorf("get client: %w", err)
		}
		rec.ClientID = &client.ID
		rec.ClientName = &client.Name
	}

	for attempt := 0; attempt < pinMaxAttempts; attempt++ {
		pin, err := uniquePin(ctx, s.pins)
		if err != nil {
			return nil, err
		}
		rec.ID = uuid.Nil
		rec.Pin = pin
		rec.GeneratedAt = s.now().UTC()
		err = s.pins.Create(ctx, rec)
		if err == nil {
			slog.Info("pin issued", "app_id", app.ID, "pin_id", rec.ID)
			return rec, nil
		}
		if !isDuplicate(err) {
			return nil, fmt.Errorf("create pin: %w", err)
		}
	}
	return nil, ErrPinGeneration
}

func (s *PinService) List(ctx context.Context) ([]models.PinRecord, error) {
	return s.pins.List(ctx)
}

// Redeem marks pin as used for appID. The final write is conditional on
// the row still being unredeemed, so two concurrent redemptions of the
// same code cannot both succeed.
func (s *PinService) Redeem(ctx context.Context, pin string, appID uuid.UUID, by *Redeemer) (*models.PinRecord, error) {
	rec, err := s.pins.FindByPin(ctx, normalizePin(pin))
	if err != nil {
		if isNotFound(err) {
			metrics.PinRedemptions.WithLabelValues("not_found").Inc()
			return nil, ErrPinNotFound
		}
		return nil, fmt.Errorf("find pin: %w", err)
	}
	if rec.AppID != appID {
		metrics.PinRedemptions.WithLabelValues("wrong_app").Inc()
		return nil, ErrPinWrongApp
	}
	if rec.IsRedeemed {
		metrics.PinRedemptions.WithLabelValues("already_redeemed").Inc()
		return nil, ErrPinAlreadyRedeemed
	}

	var clientID *uuid.UUID
	var clientName *string
	if by != nil {
		clientID = &by.ID
		clientName = &by.Name
	}
	at := s.now().UTC()
	ok, err := s.pins.MarkRedeemed(ctx, rec.ID, clientID, clientName, at)
	if err != nil {
		return nil, fmt.Errorf("redeem pin: %w", err)
	}
	if !ok {
		metrics.PinRedemptions.WithLabelValues("already_redeemed").Inc()
		return nil, ErrPinAlreadyRedeemed
	}

	rec.IsRedeemed = true
	rec.RedeemedAt = &at
	rec.ClientID = clientID
	rec.ClientName = clientName
	metrics.PinRedemptions.WithLabelValues("redeemed").Inc()
	return rec, nil
}

// Unlock grants the download links for appID. The override code and the
// app's own pin_code grant access without touching any PinRecord; any
// other code must be redeemed by a logged-in client.
func (s *PinService) Unlock(ctx context.Context, appID uuid.UUID, pin string, by *Redeemer) (*dto.UnlockResponse, error) {
	app, err := s.apps.Get(ctx, appID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAppNotFound
		}
		return nil, fmt.Errorf("get app: %w", err)
	}

	pin = strings.TrimSpace(pin)
	grant := &dto.UnlockResponse{AppID: app.ID, ApkURL: app.ApkURL, IosURL: app.IosURL, PwaURL: app.PwaURL}

	if s.overridePIN != "" && secureEqual(pin, s.overridePIN) {
		metrics.PinRedemptions.WithLabelValues("override").Inc()
		slog.Info("app unlocked with override code", "app_id", app.ID)
		return grant, nil
	}
	if app.PinCode != "" && secureEqual(pin, app.PinCode) {
		metrics.PinRedemptions.WithLabelValues("app_code").Inc()
		return grant, nil
	}
	if by == nil {
		return nil, ErrLoginRequired
	}

	if _, err := s.Redeem(ctx, pin, app.ID, by); err != nil {
		return nil, err
	}
	grant.Redeemed = true
	return grant, nil
}

// PurchasedApps lists the distinct apps a client has redeemed PINs for.
func (s *PinService) PurchasedApps(ctx context.Context, clientID uuid.UUID) ([]models.App, error) {
	ids, err := s.pins.RedeemedAppIDs(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("purchased apps: %w", err)
	}
	if len(ids) == 0 {
		return []models.App{}, nil
	}
	apps, err := s.apps.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("purchased apps: %w", err)
	}
	out := make([]models.App, len(apps))
	for i := range apps {
		apps[i].ComputeRatingSummary()
		out[i] = apps[i].Public()
	}
	return out, nil
}

func normalizePin(pin string) string {
	return strings.ToUpper(strings.TrimSpace(pin))
}

func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
