package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jstyp/storefront-backend/internal/dto"
	"github.com/jstyp/storefront-backend/internal/models"
	"github.com/jstyp/storefront-backend/internal/storage"
)

type TeamService struct {
	team  TeamRepository
	store storage.Store
}

func NewTeamService(team TeamRepository, store storage.Store) *TeamService {
	return &TeamService{team: team, store: store}
}

func (s *TeamService) List(ctx context.Context) ([]models.TeamMember, error) {
	return s.team.List(ctx)
}

func (s *TeamService) Create(ctx context.Context, req *dto.TeamMemberRequest) (*models.TeamMember, error) {
	m := &models.TeamMember{}
	if err := s.apply(ctx, uuid.Nil, m, req); err != nil {
		return nil, err
	}
	if err := s.team.Create(ctx, m); err != nil {
		return nil, s.writeErr(err)
	}
	return m, nil
}

func (s *TeamService) Update(ctx context.Context, id uuid.UUID, req *dto.TeamMemberRequest) (*models.TeamMember, error) {
	m, err := s.team.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, fmt.Errorf("get team member: %w", err)
	}
	if err := s.apply(ctx, id, m, req); err != nil {
		return nil, err
	}
	if err := s.team.Save(ctx, m); err != nil {
		return nil, s.writeErr(err)
	}
	return m, nil
}

func (s *TeamService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.team.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrTeamMemberNotFound
		}
		return fmt.Errorf("delete team member: %w", err)
	}
	return nil
}

func (s *TeamService) apply(ctx context.Context, id uuid.UUID, m *models.TeamMember, req *dto.TeamMemberRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	pin := strings.TrimSpace(req.Pin)

	emailTaken, pinTaken, err := s.team.Conflicts(ctx, id, email, pin)
	if err != nil {
		return fmt.Errorf("check team conflicts: %w", err)
	}
	if emailTaken {
		return ErrTeamEmailTaken
	}
	if pinTaken {
		return ErrTeamPinTaken
	}

	imageURL, err := storage.SaveDataURL(ctx, s.store, req.ProfileImageURL)
	if err != nil {
		return uploadError(err)
	}

	m.FirstName = strings.TrimSpace(req.FirstName)
	m.LastName = strings.TrimSpace(req.LastName)
	m.Tel = strings.TrimSpace(req.Tel)
	m.Email = email
	m.Pin = pin
	m.Role = strings.TrimSpace(req.Role)
	m.ProfileImageURL = imageURL
	return nil
}

// writeErr maps a unique violation that slipped past Conflicts. Which
// column collided is not reported by the driver, so email is assumed.
func (s *TeamService) writeErr(err error) error {
	if isDuplicate(err) {
		return ErrTeamEmailTaken
	}
	return fmt.Errorf("save team member: %w", err)
}
