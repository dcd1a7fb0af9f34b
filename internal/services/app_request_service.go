package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jstyp/storefront-backend/internal/models"
)

// MaxProblemLength caps stored app request descriptions, in characters.
const MaxProblemLength = 5000

type AppRequestService struct {
	requests AppRequestRepository
	filter   *ContentFilter
	now      func() time.Time
}

func NewAppRequestService(requests AppRequestRepository, filter *ContentFilter) *AppRequestService {
	return &AppRequestService{requests: requests, filter: filter, now: time.Now}
}

func (s *AppRequestService) Create(ctx context.Context, problem string) (*models.AppRequest, error) {
	problem = strings.TrimSpace(problem)
	if problem == "" {
		return nil, &InputError{Message: "Problem description is required"}
	}
	if utf8.RuneCountInString(problem) > MaxProblemLength {
		return nil, &InputError{Message: fmt.Sprintf("Problem description must be at most %d characters", MaxProblemLength)}
	}
	if err := s.filter.Check(problem); err != nil {
		return nil, err
	}

	req := &models.AppRequest{
		ProblemDescription: problem,
		Status:             models.AppRequestThinking,
		SubmittedAt:        s.now().UTC(),
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create app request: %w", err)
	}
	return req, nil
}

func (s *AppRequestService) List(ctx context.Context) ([]models.AppRequest, error) {
	return s.requests.List(ctx)
}

func (s *AppRequestService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.AppRequest, error) {
	if !models.ValidAppRequestStatus(status) {
		return nil, ErrInvalidStatus
	}
	req, err := s.requests.UpdateStatus(ctx, id, status)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("update app request: %w", err)
	}
	return req, nil
}
