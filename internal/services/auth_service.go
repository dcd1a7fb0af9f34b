package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jstyp/storefront-backend/internal/config"
	"github.com/jstyp/storefront-backend/internal/dto"
	"github.com/jstyp/storefront-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleClient = "client"
	RoleTeam   = "team"
	RoleMaster = "master"
)

// Subject is whoever a token pair is issued to.
type Subject struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  string
}

type AuthService struct {
	clients ClientRepository
	team    TeamRepository
	tokens  TokenRepository
	cfg     *config.Config
	now     func() time.Time
}

func NewAuthService(clients ClientRepository, team TeamRepository, tokens TokenRepository, cfg *config.Config) *AuthService {
	return &AuthService{clients: clients, team: team, tokens: tokens, cfg: cfg, now: time.Now}
}

func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.clients.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("find client: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	client := &models.Client{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.clients.Create(ctx, client); err != nil {
		if isDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return s.issue(ctx, Subject{ID: client.ID, Name: client.Name, Email: client.Email, Role: RoleClient})
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	client, err := s.clients.FindByEmail(ctx, req.Email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find client: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(client.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, Subject{ID: client.ID, Name: client.Name, Email: client.Email, Role: RoleClient})
}

// AdminLogin authenticates the master account by username and PIN, or a
// team member by PIN alone.
func (s *AuthService) AdminLogin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AuthResponse, error) {
	pin := strings.TrimSpace(req.Pin)
	username := strings.TrimSpace(req.Username)

	if s.cfg.MasterPIN != "" && username != "" &&
		strings.EqualFold(username, s.cfg.MasterUsername) && secureEqual(pin, s.cfg.MasterPIN) {
		return s.issue(ctx, Subject{ID: uuid.Nil, Name: s.cfg.MasterUsername, Role: RoleMaster})
	}

	member, err := s.team.FindByPin(ctx, pin)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find team member: %w", err)
	}
	return s.issue(ctx, Subject{ID: member.ID, Name: member.FullName(), Email: member.Email, Role: RoleTeam})
}

// Refresh rotates a refresh token: the old one is revoked and a new pair issued.
func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	hash := hashToken(req.RefreshToken)
	stored, err := s.tokens.FindActive(ctx, hash)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	revoked, err := s.tokens.Revoke(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	if !revoked || s.now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	subject := Subject{ID: stored.SubjectID, Name: stored.Name, Role: stored.Role}
	switch stored.Role {
	case RoleClient:
		client, err := s.clients.Get(ctx, stored.SubjectID)
		if err != nil {
			return nil, ErrInvalidToken
		}
		subject.Name, subject.Email = client.Name, client.Email
	case RoleTeam:
		member, err := s.team.Get(ctx, stored.SubjectID)
		if err != nil {
			return nil, ErrInvalidToken
		}
		subject.Name, subject.Email = member.FullName(), member.Email
	}
	return s.issue(ctx, subject)
}

func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	_, err := s.tokens.Revoke(ctx, hashToken(req.RefreshToken))
	return err
}

func (s *AuthService) issue(ctx context.Context, sub Subject) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(sub)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateRefreshToken(ctx, sub)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Session: dto.SessionResponse{
			ID:    sub.ID,
			Name:  sub.Name,
			Email: sub.Email,
			Role:  sub.Role,
		},
	}, nil
}

func (s *AuthService) generateAccessToken(sub Subject) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  sub.ID.String(),
		"role": sub.Role,
		"name": sub.Name,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}
	if sub.Email != "" {
		claims["email"] = sub.Email
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(ctx context.Context, sub Subject) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := &models.RefreshToken{
		SubjectID: sub.ID,
		Role:      sub.Role,
		Name:      sub.Name,
		TokenHash: hashToken(rawToken),
		ExpiresAt: s.now().Add(s.cfg.JWTRefreshExpiry),
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
