package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jstyp/storefront-backend/internal/models"
)

// ClientService is the read side of client accounts.
type ClientService struct {
	clients ClientRepository
}

func NewClientService(clients ClientRepository) *ClientService {
	return &ClientService{clients: clients}
}

func (s *ClientService) List(ctx context.Context) ([]models.Client, error) {
	return s.clients.List(ctx)
}

func (s *ClientService) Get(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	c, err := s.clients.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func (s *ClientService) FindByEmail(ctx context.Context, email string) (*models.Client, error) {
	c, err := s.clients.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("find client: %w", err)
	}
	return c, nil
}
